package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/venuebook/internal/catalog/domain"
	flatratedomain "github.com/smallbiznis/venuebook/internal/flatrate/domain"
	"github.com/smallbiznis/venuebook/internal/observability/metrics"
	"github.com/smallbiznis/venuebook/internal/observability/tracing"
	"github.com/smallbiznis/venuebook/internal/quote/domain"
	"github.com/smallbiznis/venuebook/internal/quote/engine"
	tierdomain "github.com/smallbiznis/venuebook/internal/tier/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log          *zap.Logger
	Policy       domain.PolicySource
	Tiers        tierdomain.Service
	Catalog      catalogdomain.Service
	FlatRates    flatratedomain.Service
	Metrics      *metrics.Metrics      `optional:"true"`
	QuoteMetrics *metrics.QuoteMetrics `optional:"true"`
}

type Service struct {
	log          *zap.Logger
	policy       domain.PolicySource
	tiers        tierdomain.Service
	catalog      catalogdomain.Service
	flatRates    flatratedomain.Service
	metrics      *metrics.Metrics
	quoteMetrics *metrics.QuoteMetrics
	tracer       trace.Tracer
}

func New(p Params) domain.Service {
	return &Service{
		log:          p.Log.Named("quote.service"),
		policy:       p.Policy,
		tiers:        p.Tiers,
		catalog:      p.Catalog,
		flatRates:    p.FlatRates,
		metrics:      p.Metrics,
		quoteMetrics: p.QuoteMetrics,
		tracer:       otel.Tracer("venuebook/quote"),
	}
}

func (s *Service) Preview(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error) {
	start := time.Now()
	packageKind := packageKindLabel(req.PackageKind)
	ctx, span := s.tracer.Start(ctx, "quote.preview", trace.WithAttributes(tracing.SafeAttributes(
		attribute.String("venue.tier_code", strings.TrimSpace(req.TierCode)),
		attribute.String("venue.package_kind", packageKind),
		attribute.Int("venue.attendees", req.Attendees),
	)...))
	defer span.End()

	quote, err := s.preview(ctx, req)
	outcome := outcomeOf(err)
	s.quoteMetrics.ObserveCalculation("preview", outcome, time.Since(start))
	s.metrics.RecordQuoteCalculated(ctx, strings.TrimSpace(req.TierCode), packageKind, outcome)
	if err != nil {
		if outcome == metrics.OutcomeError {
			span.RecordError(tracing.SafeError(err))
			span.SetStatus(codes.Error, "quote failed")
			s.log.Error("quote preview failed", zap.Error(err))
		}
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("venue.required_staff", quote.Breakdown.RequiredStaff),
		attribute.String("venue.grand_total", quote.Breakdown.GrandTotal.StringFixed(2)),
	)
	return quote, nil
}

func (s *Service) preview(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error) {
	tier, err := s.tiers.FindByCode(ctx, req.TierCode)
	if err != nil {
		if errors.Is(err, tierdomain.ErrNotFound) || errors.Is(err, tierdomain.ErrInvalidCode) {
			return nil, domain.ErrInvalidTier
		}
		return nil, err
	}

	rates := tier.Rates()
	isFlat := strings.TrimSpace(req.PackageKind) != ""
	if isFlat {
		rates, err = s.flatRates.Substitute(ctx, req.PackageKind, req.Attendees, rates)
		switch {
		case errors.Is(err, flatratedomain.ErrNotFound):
			return nil, domain.ErrFlatRateNotFound
		case errors.Is(err, flatratedomain.ErrInvalidKind):
			return nil, domain.ErrInvalidPackage
		case err != nil:
			return nil, err
		}
	}

	equipment, err := s.equipmentLines(ctx, req.Equipment)
	if err != nil {
		return nil, err
	}
	services, err := s.serviceLines(ctx, req.Services)
	if err != nil {
		return nil, err
	}

	in := domain.QuoteInput{
		TierRates:          rates,
		EventDurationHours: req.DurationHours,
		TotalAttendees:     req.Attendees,
		IsFlatPackage:      isFlat,
		AlcoholServed:      req.AlcoholServed,
		EquipmentLines:     equipment,
		ServiceLines:       services,
	}

	policy := s.policy.Get()
	out, err := engine.Calculate(policy, in)
	if err != nil {
		return nil, err
	}

	return &domain.Quote{
		Tier: domain.ResolvedTier{
			ID:   tier.ID.String(),
			Code: tier.Code,
			Name: tier.Name,
		},
		Input:     in,
		Breakdown: out,
		Policy:    policy,
	}, nil
}

func (s *Service) Estimate(ctx context.Context, durationHours decimal.Decimal, guestCount int) (*domain.PackageEstimate, error) {
	start := time.Now()
	_, span := s.tracer.Start(ctx, "quote.estimate")
	defer span.End()

	var (
		estimate domain.PackageEstimate
		err      error
	)
	if guestCount < 0 {
		err = domain.ErrInvalidGuestCount
	} else {
		estimate, err = engine.NewCalculator(s.policy.Get()).Estimate(durationHours, guestCount)
	}

	outcome := outcomeOf(err)
	s.quoteMetrics.ObserveCalculation("estimate", outcome, time.Since(start))
	s.metrics.RecordEstimate(ctx, outcome)
	if err != nil {
		return nil, err
	}
	return &estimate, nil
}

// equipmentLines keeps request order so documents list items as chosen.
func (s *Service) equipmentLines(ctx context.Context, selections []domain.EquipmentSelection) ([]domain.EquipmentLine, error) {
	if len(selections) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(selections))
	for _, sel := range selections {
		ids = append(ids, sel.EquipmentID)
	}
	items, err := s.catalog.EquipmentByIDs(ctx, ids)
	if err != nil {
		if isCatalogLookupError(err) {
			return nil, domain.ErrInvalidEquipment
		}
		return nil, err
	}

	lines := make([]domain.EquipmentLine, 0, len(selections))
	for _, sel := range selections {
		item, ok := items[strings.TrimSpace(sel.EquipmentID)]
		if !ok {
			return nil, domain.ErrInvalidEquipment
		}
		lines = append(lines, item.Line(sel.Quantity))
	}
	return lines, nil
}

func (s *Service) serviceLines(ctx context.Context, selections []domain.ServiceSelection) ([]domain.ServiceLine, error) {
	if len(selections) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(selections))
	for _, sel := range selections {
		ids = append(ids, sel.ServiceID)
	}
	items, err := s.catalog.OfferingsByIDs(ctx, ids)
	if err != nil {
		if isCatalogLookupError(err) {
			return nil, domain.ErrInvalidService
		}
		return nil, err
	}

	lines := make([]domain.ServiceLine, 0, len(selections))
	for _, sel := range selections {
		item, ok := items[strings.TrimSpace(sel.ServiceID)]
		if !ok {
			return nil, domain.ErrInvalidService
		}
		lines = append(lines, item.Line(sel.Hours))
	}
	return lines, nil
}

func isCatalogLookupError(err error) bool {
	return errors.Is(err, catalogdomain.ErrUnknownItem) || errors.Is(err, catalogdomain.ErrInvalidID)
}

// IsRejection reports errors caused by the request rather than the system.
func IsRejection(err error) bool {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidTier),
		errors.Is(err, domain.ErrInvalidEquipment),
		errors.Is(err, domain.ErrInvalidService),
		errors.Is(err, domain.ErrInvalidPackage),
		errors.Is(err, domain.ErrFlatRateNotFound),
		errors.Is(err, domain.ErrInvalidGuestCount):
		return true
	default:
		return false
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case IsRejection(err):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}

func packageKindLabel(kind string) string {
	if strings.TrimSpace(kind) == "" {
		return "hourly"
	}
	return "flat"
}
