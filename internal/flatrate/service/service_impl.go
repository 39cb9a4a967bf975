package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/venuebook/internal/flatrate/domain"
	quotedomain "github.com/smallbiznis/venuebook/internal/quote/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("flatrate.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.FlatRate, error) {
	kind := slug.Make(strings.TrimSpace(req.PackageKind))
	if kind == "" {
		return nil, domain.ErrInvalidKind
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.MinAttendees < 0 || (req.MaxAttendees != nil && *req.MaxAttendees < req.MinAttendees) {
		return nil, domain.ErrInvalidRange
	}
	if !req.PackageRate.IsPositive() || !req.PackageRate.Equal(req.PackageRate.Truncate(2)) {
		return nil, domain.ErrInvalidRate
	}

	now := time.Now().UTC()
	rate := &domain.FlatRate{
		ID:           s.genID.Generate(),
		PackageKind:  kind,
		Name:         name,
		MinAttendees: req.MinAttendees,
		MaxAttendees: req.MaxAttendees,
		PackageRate:  req.PackageRate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.LockKind(ctx, tx, kind); err != nil {
			return err
		}
		existing, err := s.repo.ListByKind(ctx, tx, kind)
		if err != nil {
			return err
		}
		for _, other := range existing {
			if rate.Overlaps(other) {
				return domain.ErrOverlap
			}
		}
		return s.repo.Insert(ctx, tx, rate)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("flat rate created",
		zap.String("package_kind", kind),
		zap.Int("min_attendees", rate.MinAttendees),
		zap.String("package_rate", rate.PackageRate.StringFixed(2)),
	)
	return rate, nil
}

func (s *Service) List(ctx context.Context) ([]domain.FlatRate, error) {
	rates, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if rates == nil {
		rates = []domain.FlatRate{}
	}
	return rates, nil
}

func (s *Service) Resolve(ctx context.Context, kind string, attendees int) (*domain.FlatRate, error) {
	kind = slug.Make(strings.TrimSpace(kind))
	if kind == "" {
		return nil, domain.ErrInvalidKind
	}

	rates, err := s.repo.ListByKind(ctx, s.db, kind)
	if err != nil {
		return nil, err
	}
	for i := range rates {
		if rates[i].Contains(attendees) {
			return &rates[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Service) Substitute(ctx context.Context, kind string, attendees int, base quotedomain.TierRates) (quotedomain.TierRates, error) {
	rate, err := s.Resolve(ctx, kind, attendees)
	if err != nil {
		return quotedomain.TierRates{}, err
	}
	return SubstituteRates(base, rate.PackageRate), nil
}

// SubstituteRates puts packageRate in the hall base slot and zeroes the
// hall hourly rate. Support and deposit rates stay with the tier.
func SubstituteRates(base quotedomain.TierRates, packageRate decimal.Decimal) quotedomain.TierRates {
	out := base
	out.HallBaseRate = packageRate
	out.HallHourlyRate = decimal.Zero
	return out
}
