package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	quotesCalculated  metric.Int64Counter
	estimatesServed   metric.Int64Counter
	bookingsCreated   metric.Int64Counter
	bookingsCancelled metric.Int64Counter
	rateLimitAllowed  metric.Int64Counter
	rateLimitDenied   metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "venuebook"
	}
	meter := provider.Meter(name)

	quotesCalculated, err := meter.Int64Counter("venuebook_quotes_calculated_total")
	if err != nil {
		return nil, err
	}
	estimatesServed, err := meter.Int64Counter("venuebook_package_estimates_total")
	if err != nil {
		return nil, err
	}
	bookingsCreated, err := meter.Int64Counter("venuebook_bookings_created_total")
	if err != nil {
		return nil, err
	}
	bookingsCancelled, err := meter.Int64Counter("venuebook_bookings_cancelled_total")
	if err != nil {
		return nil, err
	}
	rateLimitAllowed, err := meter.Int64Counter("venuebook_rate_limit_allowed_total")
	if err != nil {
		return nil, err
	}
	rateLimitDenied, err := meter.Int64Counter("venuebook_rate_limit_denied_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		quotesCalculated:  quotesCalculated,
		estimatesServed:   estimatesServed,
		bookingsCreated:   bookingsCreated,
		bookingsCancelled: bookingsCancelled,
		rateLimitAllowed:  rateLimitAllowed,
		rateLimitDenied:   rateLimitDenied,
	}, nil
}

// RecordQuoteCalculated counts quote previews and booking quotes.
func (m *Metrics) RecordQuoteCalculated(ctx context.Context, tierCode, packageKind, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("tier_code", strings.TrimSpace(tierCode)),
		attribute.String("package_kind", strings.TrimSpace(packageKind)),
		attribute.String("outcome", strings.TrimSpace(outcome)),
	)
	m.quotesCalculated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordEstimate counts package estimator calls.
func (m *Metrics) RecordEstimate(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("outcome", strings.TrimSpace(outcome)))
	m.estimatesServed.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordBookingCreated increments booking counts.
func (m *Metrics) RecordBookingCreated(ctx context.Context, tierCode, packageKind string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("tier_code", strings.TrimSpace(tierCode)),
		attribute.String("package_kind", strings.TrimSpace(packageKind)),
	)
	m.bookingsCreated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordBookingCancelled increments cancellation counts.
func (m *Metrics) RecordBookingCancelled(ctx context.Context, tierCode string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("tier_code", strings.TrimSpace(tierCode)))
	m.bookingsCancelled.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateLimitAllowed increments rate limit allow counts.
func (m *Metrics) RecordRateLimitAllowed(ctx context.Context, endpoint string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("endpoint", strings.TrimSpace(endpoint)))
	m.rateLimitAllowed.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateLimitDenied increments rate limit deny counts.
func (m *Metrics) RecordRateLimitDenied(ctx context.Context, endpoint, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("endpoint", strings.TrimSpace(endpoint)),
		attribute.String("reason", strings.TrimSpace(reason)),
	)
	m.rateLimitDenied.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"tier_code":    {},
	"package_kind": {},
	"outcome":      {},
	"endpoint":     {},
	"status_code":  {},
	"reason":       {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
