package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// LockKind serializes bracket writes for one package kind until tx ends.
	LockKind(ctx context.Context, tx *gorm.DB, kind string) error
	Insert(ctx context.Context, db *gorm.DB, rate *FlatRate) error
	ListByKind(ctx context.Context, db *gorm.DB, kind string) ([]FlatRate, error)
	List(ctx context.Context, db *gorm.DB) ([]FlatRate, error)
}
