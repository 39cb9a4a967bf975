package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertEquipment(ctx context.Context, db *gorm.DB, item *Equipment) error
	FindEquipmentByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Equipment, error)
	FindEquipmentByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]Equipment, error)
	ListEquipment(ctx context.Context, db *gorm.DB) ([]Equipment, error)

	InsertOffering(ctx context.Context, db *gorm.DB, item *Offering) error
	FindOfferingByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Offering, error)
	FindOfferingsByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]Offering, error)
	ListOfferings(ctx context.Context, db *gorm.DB) ([]Offering, error)
}
