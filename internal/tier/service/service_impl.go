package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/venuebook/internal/tier/domain"
	"github.com/smallbiznis/venuebook/pkg/db"
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
		log:   p.Log.Named("tier.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Tier, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		code = name
	}
	code = slug.Make(code)
	if code == "" {
		return nil, domain.ErrInvalidCode
	}

	if err := validateRates(req.HallBaseRate, req.HallHourlyRate, req.EventSupportBase, req.EventSupportHourly, req.SecurityDeposit); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrCodeTaken
	}

	now := time.Now().UTC()
	tier := &domain.Tier{
		ID:                 s.genID.Generate(),
		Code:               code,
		Name:               name,
		HallBaseRate:       req.HallBaseRate,
		HallHourlyRate:     req.HallHourlyRate,
		EventSupportBase:   req.EventSupportBase,
		EventSupportHourly: req.EventSupportHourly,
		SecurityDeposit:    req.SecurityDeposit,
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Insert(ctx, s.db, tier); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrCodeTaken
		}
		return nil, err
	}

	s.log.Info("tier created", zap.String("tier_code", tier.Code), zap.String("tier_id", tier.ID.String()))
	return tier, nil
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]domain.Tier, error) {
	items, err := s.repo.List(ctx, s.db, activeOnly)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Tier{}
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Tier, error) {
	tierID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	tier, err := s.repo.FindByID(ctx, s.db, tierID)
	if err != nil {
		return nil, err
	}
	if tier == nil {
		return nil, domain.ErrNotFound
	}
	return tier, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Tier, error) {
	tier, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		tier.Name = name
	}
	assign(&tier.HallBaseRate, req.HallBaseRate)
	assign(&tier.HallHourlyRate, req.HallHourlyRate)
	assign(&tier.EventSupportBase, req.EventSupportBase)
	assign(&tier.EventSupportHourly, req.EventSupportHourly)
	assign(&tier.SecurityDeposit, req.SecurityDeposit)
	if req.Active != nil {
		tier.Active = *req.Active
	}

	if err := validateRates(tier.HallBaseRate, tier.HallHourlyRate, tier.EventSupportBase, tier.EventSupportHourly, tier.SecurityDeposit); err != nil {
		return nil, err
	}

	tier.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, tier); err != nil {
		return nil, err
	}
	return tier, nil
}

func (s *Service) FindByCode(ctx context.Context, code string) (*domain.Tier, error) {
	code = slug.Make(strings.TrimSpace(code))
	if code == "" {
		return nil, domain.ErrInvalidCode
	}

	tier, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if tier == nil || !tier.Active {
		return nil, domain.ErrNotFound
	}
	return tier, nil
}

func validateRates(rates ...decimal.Decimal) error {
	for _, rate := range rates {
		if rate.IsNegative() || !rate.Equal(rate.Truncate(2)) {
			return domain.ErrInvalidRate
		}
	}
	return nil
}

func assign(dst *decimal.Decimal, v *decimal.Decimal) {
	if v != nil {
		*dst = *v
	}
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
