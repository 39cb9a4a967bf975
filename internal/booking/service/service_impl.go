package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/venuebook/internal/booking/domain"
	"github.com/smallbiznis/venuebook/internal/clock"
	customerdomain "github.com/smallbiznis/venuebook/internal/customer/domain"
	obscontext "github.com/smallbiznis/venuebook/internal/observability/context"
	"github.com/smallbiznis/venuebook/internal/observability/metrics"
	quotedomain "github.com/smallbiznis/venuebook/internal/quote/domain"
	"github.com/smallbiznis/venuebook/internal/quote/engine"
	"github.com/smallbiznis/venuebook/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Repo         domain.Repository
	Quotes       quotedomain.Service
	Customers    customerdomain.Service
	Metrics      *metrics.Metrics      `optional:"true"`
	QuoteMetrics *metrics.QuoteMetrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	quotes       quotedomain.Service
	customers    customerdomain.Service
	metrics      *metrics.Metrics
	quoteMetrics *metrics.QuoteMetrics
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.System()
	}
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("booking.service"),
		genID:        p.GenID,
		clock:        clk,
		repo:         p.Repo,
		quotes:       p.Quotes,
		customers:    p.Customers,
		metrics:      p.Metrics,
		quoteMetrics: p.QuoteMetrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Detail, error) {
	if req.EventDate.IsZero() {
		return nil, domain.ErrInvalidEventDate
	}

	quote, err := s.quotes.Preview(ctx, req.Quote)
	if err != nil {
		return nil, err
	}
	amounts, err := engine.PriceServiceLines(quote.Input.ServiceLines, quote.Breakdown.HallRentalTotal)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	booking := domain.Booking{
		ID:            s.genID.Generate(),
		Reference:     ulid.Make().String(),
		TierCode:      quote.Tier.Code,
		PackageKind:   strings.TrimSpace(req.Quote.PackageKind),
		Status:        domain.StatusRequested,
		EventDate:     req.EventDate.UTC(),
		DurationHours: quote.Input.EventDurationHours,
		Attendees:     quote.Input.TotalAttendees,
		AlcoholServed: quote.Input.AlcoholServed,
		Notes:         strings.TrimSpace(req.Notes),
		Metadata:      datatypes.JSONMap{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	tierID, err := snowflake.ParseString(quote.Tier.ID)
	if err != nil {
		return nil, quotedomain.ErrInvalidTier
	}
	booking.TierID = tierID
	booking.ApplySnapshot(quote.Snapshot())
	if org := strings.TrimSpace(req.Contact.Organization); org != "" {
		booking.Metadata["organization"] = org
	}

	lines := s.buildLines(booking.ID, quote.Input, amounts, now)
	ctx = obscontext.WithBookingRef(ctx, booking.Reference)

	var customer customerdomain.Customer
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err = s.customers.FindOrCreate(ctx, tx, customerdomain.CreateCustomerRequest{
			Name:         req.Contact.Name,
			Email:        req.Contact.Email,
			Phone:        req.Contact.Phone,
			Organization: req.Contact.Organization,
		})
		if err != nil {
			return err
		}
		booking.CustomerID = customer.ID

		if err := s.repo.Insert(ctx, tx, &booking); err != nil {
			return err
		}
		return s.repo.InsertLines(ctx, tx, lines)
	})
	if err != nil {
		if isContactError(err) {
			return nil, err
		}
		s.quoteMetrics.RecordStoreError("create_booking", err)
		s.log.Error("failed to create booking",
			zap.String("booking_ref", booking.Reference),
			zap.Error(err),
		)
		return nil, domain.ErrCreateFailed
	}

	s.metrics.RecordBookingCreated(ctx, booking.TierCode, packageKindLabel(booking.PackageKind))
	s.log.Info("booking created",
		zap.String("booking_ref", booking.Reference),
		zap.String("tier_code", booking.TierCode),
		zap.String("grand_total", booking.GrandTotal.StringFixed(2)),
	)

	return &domain.Detail{Booking: booking, Lines: lines, Customer: &customer}, nil
}

func (s *Service) buildLines(bookingID snowflake.ID, in quotedomain.QuoteInput, serviceAmounts []decimal.Decimal, now time.Time) []domain.Line {
	lines := make([]domain.Line, 0, len(in.EquipmentLines)+len(in.ServiceLines))
	position := 0
	for _, eq := range in.EquipmentLines {
		lines = append(lines, domain.Line{
			ID:        s.genID.Generate(),
			BookingID: bookingID,
			Position:  position,
			Kind:      domain.LineKindEquipment,
			ItemID:    eq.ItemID,
			Name:      eq.Name,
			Quantity:  eq.Quantity,
			Hours:     decimal.Zero,
			UnitRate:  eq.UnitRate,
			Amount:    eq.Total().Round(2),
			CreatedAt: now,
		})
		position++
	}
	for i, svc := range in.ServiceLines {
		lines = append(lines, domain.Line{
			ID:            s.genID.Generate(),
			BookingID:     bookingID,
			Position:      position,
			Kind:          domain.LineKindService,
			ItemID:        svc.ItemID,
			Name:          svc.Name,
			Hours:         svc.Hours,
			UnitRate:      svc.RateApplied,
			RateType:      svc.RateType,
			CommissionPct: svc.CommissionPct,
			Amount:        serviceAmounts[i],
			CreatedAt:     now,
		})
		position++
	}
	return lines
}

func (s *Service) Get(ctx context.Context, reference string) (*domain.Detail, error) {
	booking, err := s.find(ctx, reference)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.FindLines(ctx, s.db, booking.ID)
	if err != nil {
		return nil, err
	}

	detail := &domain.Detail{Booking: *booking, Lines: lines}
	customer, err := s.customers.GetByID(ctx, booking.CustomerID.String())
	switch {
	case err == nil:
		detail.Customer = &customer
	case errors.Is(err, customerdomain.ErrNotFound):
	default:
		return nil, err
	}
	return detail, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	status := domain.Status(strings.ToLower(strings.TrimSpace(string(req.Status))))
	switch status {
	case "", domain.StatusRequested, domain.StatusCancelled:
	default:
		return domain.ListResponse{}, domain.ErrInvalidStatus
	}
	if req.PageToken != "" {
		if _, err := pagination.DecodeCursor(req.PageToken); err != nil {
			return domain.ListResponse{}, domain.ErrInvalidPageToken
		}
	}

	page := pagination.Pagination{PageToken: req.PageToken, PageSize: req.PageSize}
	items, err := s.repo.List(ctx, s.db, domain.ListFilter{
		Status:    status,
		EventFrom: req.EventFrom,
		EventTo:   req.EventTo,
	}, page)
	if err != nil {
		return domain.ListResponse{}, err
	}

	items, pageInfo := pagination.BuildCursorPageInfo(items, page.Size(), func(b *domain.Booking) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        b.ID.String(),
			CreatedAt: b.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})

	bookings := make([]domain.Booking, 0, len(items))
	for _, b := range items {
		bookings = append(bookings, *b)
	}
	return domain.ListResponse{PageInfo: pageInfo, Bookings: bookings}, nil
}

func (s *Service) Cancel(ctx context.Context, reference string) (*domain.Booking, error) {
	booking, err := s.find(ctx, reference)
	if err != nil {
		return nil, err
	}
	if booking.Status == domain.StatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}

	now := s.clock.Now().UTC()
	ok, err := s.repo.MarkCancelled(ctx, s.db, booking.ID, now)
	if err != nil {
		s.quoteMetrics.RecordStoreError("cancel_booking", err)
		return nil, err
	}
	if !ok {
		return nil, domain.ErrAlreadyCancelled
	}

	booking.Status = domain.StatusCancelled
	booking.CancelledAt = &now
	booking.UpdatedAt = now
	s.metrics.RecordBookingCancelled(ctx, booking.TierCode)
	s.log.Info("booking cancelled", zap.String("booking_ref", booking.Reference))
	return booking, nil
}

func (s *Service) Itemize(ctx context.Context, reference string) (*domain.Detail, engine.Itemization, error) {
	detail, err := s.Get(ctx, reference)
	if err != nil {
		return nil, engine.Itemization{}, err
	}

	in := engine.ItemizeInput{
		Snapshot:      detail.Booking.Snapshot(),
		DurationHours: detail.Booking.DurationHours,
		Attendees:     detail.Booking.Attendees,
		AlcoholServed: detail.Booking.AlcoholServed,
	}
	for _, line := range detail.Lines {
		switch line.Kind {
		case domain.LineKindEquipment:
			in.Equipment = append(in.Equipment, quotedomain.EquipmentLine{
				ItemID:   line.ItemID,
				Name:     line.Name,
				Quantity: line.Quantity,
				UnitRate: line.UnitRate,
			})
		case domain.LineKindService:
			in.Services = append(in.Services, engine.PricedServiceLine{
				Line: quotedomain.ServiceLine{
					ItemID:        line.ItemID,
					Name:          line.Name,
					Hours:         line.Hours,
					RateApplied:   line.UnitRate,
					RateType:      line.RateType,
					CommissionPct: line.CommissionPct,
				},
				Amount: line.Amount,
			})
		}
	}

	itemization := engine.Itemize(in)
	if !itemization.Reconciles() {
		s.log.Warn("itemized lines do not match frozen total",
			zap.String("booking_ref", detail.Booking.Reference),
			zap.String("line_total", itemization.LineTotal.StringFixed(2)),
			zap.String("grand_total", itemization.GrandTotal.StringFixed(2)),
		)
	}
	return detail, itemization, nil
}

func (s *Service) find(ctx context.Context, reference string) (*domain.Booking, error) {
	ref, err := parseReference(reference)
	if err != nil {
		return nil, err
	}
	booking, err := s.repo.FindByReference(ctx, s.db, ref)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, domain.ErrNotFound
	}
	return booking, nil
}

func parseReference(reference string) (string, error) {
	ref := strings.ToUpper(strings.TrimSpace(reference))
	if ref == "" {
		return "", domain.ErrInvalidReference
	}
	if _, err := ulid.ParseStrict(ref); err != nil {
		return "", domain.ErrInvalidReference
	}
	return ref, nil
}

func isContactError(err error) bool {
	return errors.Is(err, customerdomain.ErrInvalidName) ||
		errors.Is(err, customerdomain.ErrInvalidEmail)
}

func packageKindLabel(kind string) string {
	if kind == "" {
		return "hourly"
	}
	return "flat"
}
