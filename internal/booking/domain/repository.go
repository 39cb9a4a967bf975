package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/venuebook/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Status    Status
	EventFrom *time.Time
	EventTo   *time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, booking *Booking) error
	InsertLines(ctx context.Context, db *gorm.DB, lines []Line) error
	FindByReference(ctx context.Context, db *gorm.DB, reference string) (*Booking, error)
	FindLines(ctx context.Context, db *gorm.DB, bookingID snowflake.ID) ([]Line, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Booking, error)
	MarkCancelled(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) (bool, error)
}
