package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/venuebook/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const (
	equipmentColumns = `id, code, name, unit_rate, active, created_at, updated_at`
	offeringColumns  = `id, code, name, rate_type, rate, commission_pct, active, created_at, updated_at`
)

func (r *repo) InsertEquipment(ctx context.Context, db *gorm.DB, item *domain.Equipment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO equipment (`+equipmentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.Code,
		item.Name,
		item.UnitRate,
		item.Active,
		item.CreatedAt,
		item.UpdatedAt,
	).Error
}

func (r *repo) FindEquipmentByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Equipment, error) {
	var item domain.Equipment
	err := db.WithContext(ctx).Raw(
		`SELECT `+equipmentColumns+` FROM equipment WHERE id = ?`,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) FindEquipmentByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]domain.Equipment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []domain.Equipment
	err := db.WithContext(ctx).Raw(
		`SELECT `+equipmentColumns+` FROM equipment WHERE id IN ?`,
		ids,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListEquipment(ctx context.Context, db *gorm.DB) ([]domain.Equipment, error) {
	var items []domain.Equipment
	if err := db.WithContext(ctx).Model(&domain.Equipment{}).Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) InsertOffering(ctx context.Context, db *gorm.DB, item *domain.Offering) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO services (`+offeringColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.Code,
		item.Name,
		item.RateType,
		item.Rate,
		item.CommissionPct,
		item.Active,
		item.CreatedAt,
		item.UpdatedAt,
	).Error
}

func (r *repo) FindOfferingByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Offering, error) {
	var item domain.Offering
	err := db.WithContext(ctx).Raw(
		`SELECT `+offeringColumns+` FROM services WHERE id = ?`,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) FindOfferingsByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]domain.Offering, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []domain.Offering
	err := db.WithContext(ctx).Raw(
		`SELECT `+offeringColumns+` FROM services WHERE id IN ?`,
		ids,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListOfferings(ctx context.Context, db *gorm.DB) ([]domain.Offering, error) {
	var items []domain.Offering
	if err := db.WithContext(ctx).Model(&domain.Offering{}).Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
