package metrics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const (
	StoreErrorDeadlineExceeded     = "deadline_exceeded"
	StoreErrorLockTimeout          = "db_lock_timeout"
	StoreErrorSerializationFailure = "serialization_failure"
	StoreErrorUniqueViolation      = "unique_violation"
	StoreErrorUnknown              = "unknown"
)

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// QuoteMetrics tracks pricing latency and booking persistence failures.
type QuoteMetrics struct {
	calculationDuration *prometheus.HistogramVec
	storeErrors         *prometheus.CounterVec
}

var (
	quoteMetricsOnce sync.Once
	quoteMetrics     *QuoteMetrics
)

// Quotes returns the singleton quote metrics registry.
func Quotes() *QuoteMetrics {
	return QuotesWithConfig(Config{})
}

// QuotesWithConfig returns the singleton quote metrics using config labels.
func QuotesWithConfig(cfg Config) *QuoteMetrics {
	quoteMetricsOnce.Do(func() {
		quoteMetrics = newQuoteMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return quoteMetrics
}

func newQuoteMetrics(registerer prometheus.Registerer, cfg Config) *QuoteMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	constLabels := serviceLabels(cfg)

	calculationDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "venuebook_quote_calculation_duration_seconds",
		Help:        "Time to resolve catalog data and price a quote.",
		Buckets:     []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		ConstLabels: constLabels,
	}, []string{"operation", "outcome"})
	storeErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "venuebook_booking_store_errors_total",
		Help:        "Booking persistence failures by low-cardinality reason.",
		ConstLabels: constLabels,
	}, []string{"operation", "reason"})

	registerer.MustRegister(calculationDuration, storeErrors)
	return &QuoteMetrics{
		calculationDuration: calculationDuration,
		storeErrors:         storeErrors,
	}
}

// ObserveCalculation records how long a pricing operation took.
func (m *QuoteMetrics) ObserveCalculation(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.calculationDuration.WithLabelValues(operation, outcome).Observe(elapsed.Seconds())
}

// RecordStoreError classifies and counts a failed booking write.
func (m *QuoteMetrics) RecordStoreError(operation string, err error) {
	if m == nil || err == nil {
		return
	}
	m.storeErrors.WithLabelValues(operation, ClassifyStoreError(err)).Inc()
}

// ClassifyStoreError maps persistence errors to a bounded reason set.
func ClassifyStoreError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return StoreErrorDeadlineExceeded
	case hasPGCode(err, "55P03"):
		return StoreErrorLockTimeout
	case hasPGCode(err, "40001"):
		return StoreErrorSerializationFailure
	case errors.Is(err, gorm.ErrDuplicatedKey) || hasPGCode(err, "23505"):
		return StoreErrorUniqueViolation
	default:
		return StoreErrorUnknown
	}
}

func hasPGCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
