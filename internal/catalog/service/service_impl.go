package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/venuebook/internal/catalog/domain"
	quotedomain "github.com/smallbiznis/venuebook/internal/quote/domain"
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
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) CreateEquipment(ctx context.Context, req domain.CreateEquipmentRequest) (*domain.Equipment, error) {
	name, code, err := nameAndCode(req.Name, req.Code)
	if err != nil {
		return nil, err
	}
	if !validMoney(req.UnitRate) {
		return nil, domain.ErrInvalidRate
	}

	now := time.Now().UTC()
	item := &domain.Equipment{
		ID:        s.genID.Generate(),
		Code:      code,
		Name:      name,
		UnitRate:  req.UnitRate,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.InsertEquipment(ctx, s.db, item); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrCodeTaken
		}
		return nil, err
	}
	return item, nil
}

func (s *Service) ListEquipment(ctx context.Context) ([]domain.Equipment, error) {
	items, err := s.repo.ListEquipment(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Equipment{}
	}
	return items, nil
}

func (s *Service) GetEquipment(ctx context.Context, id string) (*domain.Equipment, error) {
	itemID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.FindEquipmentByID(ctx, s.db, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) CreateOffering(ctx context.Context, req domain.CreateOfferingRequest) (*domain.Offering, error) {
	name, code, err := nameAndCode(req.Name, req.Code)
	if err != nil {
		return nil, err
	}
	rateType := quotedomain.RateType(strings.ToLower(strings.TrimSpace(string(req.RateType))))
	if !rateType.Valid() {
		return nil, domain.ErrInvalidRateType
	}
	if !validMoney(req.Rate) {
		return nil, domain.ErrInvalidRate
	}

	var pct *decimal.Decimal
	switch {
	case rateType == quotedomain.RateTypeCommission:
		if req.CommissionPct == nil || req.CommissionPct.IsNegative() ||
			!req.CommissionPct.Equal(req.CommissionPct.Truncate(3)) {
			return nil, domain.ErrInvalidCommissionPct
		}
		v := *req.CommissionPct
		pct = &v
	case req.CommissionPct != nil:
		return nil, domain.ErrInvalidCommissionPct
	}

	now := time.Now().UTC()
	item := &domain.Offering{
		ID:            s.genID.Generate(),
		Code:          code,
		Name:          name,
		RateType:      rateType,
		Rate:          req.Rate,
		CommissionPct: pct,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.InsertOffering(ctx, s.db, item); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrCodeTaken
		}
		return nil, err
	}
	return item, nil
}

func (s *Service) ListOfferings(ctx context.Context) ([]domain.Offering, error) {
	items, err := s.repo.ListOfferings(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Offering{}
	}
	return items, nil
}

func (s *Service) GetOffering(ctx context.Context, id string) (*domain.Offering, error) {
	itemID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.FindOfferingByID(ctx, s.db, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) EquipmentByIDs(ctx context.Context, ids []string) (map[string]domain.Equipment, error) {
	parsed, err := parseIDs(ids)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.FindEquipmentByIDs(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}

	out := make(map[string]domain.Equipment, len(items))
	for _, item := range items {
		if item.Active {
			out[item.ID.String()] = item
		}
	}
	for _, id := range parsed {
		if _, ok := out[id.String()]; !ok {
			s.log.Debug("unknown equipment requested", zap.String("equipment_id", id.String()))
			return nil, domain.ErrUnknownItem
		}
	}
	return out, nil
}

func (s *Service) OfferingsByIDs(ctx context.Context, ids []string) (map[string]domain.Offering, error) {
	parsed, err := parseIDs(ids)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.FindOfferingsByIDs(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}

	out := make(map[string]domain.Offering, len(items))
	for _, item := range items {
		if item.Active {
			out[item.ID.String()] = item
		}
	}
	for _, id := range parsed {
		if _, ok := out[id.String()]; !ok {
			s.log.Debug("unknown service requested", zap.String("service_id", id.String()))
			return nil, domain.ErrUnknownItem
		}
	}
	return out, nil
}

func nameAndCode(rawName, rawCode string) (string, string, error) {
	name := strings.TrimSpace(rawName)
	if name == "" {
		return "", "", domain.ErrInvalidName
	}
	code := strings.TrimSpace(rawCode)
	if code == "" {
		code = name
	}
	code = slug.Make(code)
	if code == "" {
		return "", "", domain.ErrInvalidCode
	}
	return name, code, nil
}

// parseIDs parses and de-duplicates ids, keeping first-seen order.
func parseIDs(values []string) ([]snowflake.ID, error) {
	seen := make(map[snowflake.ID]struct{}, len(values))
	out := make([]snowflake.ID, 0, len(values))
	for _, value := range values {
		id, err := parseID(value)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

// validMoney accepts non-negative amounts in whole cents.
func validMoney(v decimal.Decimal) bool {
	return !v.IsNegative() && v.Equal(v.Truncate(2))
}
