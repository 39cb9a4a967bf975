package repository

import (
	"context"

	"github.com/smallbiznis/venuebook/internal/flatrate/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// LockKind takes a transaction-scoped lock on kind. Postgres uses an advisory
// lock since an empty kind has no rows to lock; MySQL gets next-key locks on
// the kind's index range. SQLite already allows a single writer.
func (r *repo) LockKind(ctx context.Context, tx *gorm.DB, kind string) error {
	switch tx.Dialector.Name() {
	case "postgres":
		return tx.WithContext(ctx).
			Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "flat_rates:"+kind).Error
	case "mysql":
		var ids []int64
		return tx.WithContext(ctx).
			Model(&domain.FlatRate{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("package_kind = ?", kind).
			Pluck("id", &ids).Error
	default:
		return nil
	}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rate *domain.FlatRate) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO flat_rates (id, package_kind, name, min_attendees, max_attendees, package_rate, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rate.ID,
		rate.PackageKind,
		rate.Name,
		rate.MinAttendees,
		rate.MaxAttendees,
		rate.PackageRate,
		rate.CreatedAt,
		rate.UpdatedAt,
	).Error
}

func (r *repo) ListByKind(ctx context.Context, db *gorm.DB, kind string) ([]domain.FlatRate, error) {
	var rates []domain.FlatRate
	err := db.WithContext(ctx).
		Model(&domain.FlatRate{}).
		Where("package_kind = ?", kind).
		Order("min_attendees asc").
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.FlatRate, error) {
	var rates []domain.FlatRate
	err := db.WithContext(ctx).
		Model(&domain.FlatRate{}).
		Order("package_kind asc, min_attendees asc").
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}
