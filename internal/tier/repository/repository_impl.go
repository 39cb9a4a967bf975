package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/venuebook/internal/tier/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const tierColumns = `id, code, name, hall_base_rate, hall_hourly_rate, event_support_base,
	event_support_hourly, security_deposit, active, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, tier *domain.Tier) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO tiers (`+tierColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tier.ID,
		tier.Code,
		tier.Name,
		tier.HallBaseRate,
		tier.HallHourlyRate,
		tier.EventSupportBase,
		tier.EventSupportHourly,
		tier.SecurityDeposit,
		tier.Active,
		tier.CreatedAt,
		tier.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, tier *domain.Tier) error {
	return db.WithContext(ctx).Exec(
		`UPDATE tiers SET name = ?, hall_base_rate = ?, hall_hourly_rate = ?, event_support_base = ?,
		 event_support_hourly = ?, security_deposit = ?, active = ?, updated_at = ?
		 WHERE id = ?`,
		tier.Name,
		tier.HallBaseRate,
		tier.HallHourlyRate,
		tier.EventSupportBase,
		tier.EventSupportHourly,
		tier.SecurityDeposit,
		tier.Active,
		tier.UpdatedAt,
		tier.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Tier, error) {
	var tier domain.Tier
	err := db.WithContext(ctx).Raw(
		`SELECT `+tierColumns+` FROM tiers WHERE id = ?`,
		id,
	).Scan(&tier).Error
	if err != nil {
		return nil, err
	}
	if tier.ID == 0 {
		return nil, nil
	}
	return &tier, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Tier, error) {
	var tier domain.Tier
	err := db.WithContext(ctx).Raw(
		`SELECT `+tierColumns+` FROM tiers WHERE code = ?`,
		code,
	).Scan(&tier).Error
	if err != nil {
		return nil, err
	}
	if tier.ID == 0 {
		return nil, nil
	}
	return &tier, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]domain.Tier, error) {
	var tiers []domain.Tier
	stmt := db.WithContext(ctx).Model(&domain.Tier{})
	if activeOnly {
		stmt = stmt.Where("active = ?", true)
	}
	if err := stmt.Order("code asc").Find(&tiers).Error; err != nil {
		return nil, err
	}
	return tiers, nil
}
