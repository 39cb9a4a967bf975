package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/venuebook/internal/booking/domain"
	"github.com/smallbiznis/venuebook/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, booking *domain.Booking) error {
	return db.WithContext(ctx).Create(booking).Error
}

func (r *repo) InsertLines(ctx context.Context, db *gorm.DB, lines []domain.Line) error {
	if len(lines) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&lines).Error
}

func (r *repo) FindByReference(ctx context.Context, db *gorm.DB, reference string) (*domain.Booking, error) {
	var booking domain.Booking
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM bookings WHERE reference = ?`,
		reference,
	).Scan(&booking).Error
	if err != nil {
		return nil, err
	}
	if booking.ID == 0 {
		return nil, nil
	}
	return &booking, nil
}

func (r *repo) FindLines(ctx context.Context, db *gorm.DB, bookingID snowflake.ID) ([]domain.Line, error) {
	var lines []domain.Line
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM booking_lines WHERE booking_id = ? ORDER BY position ASC`,
		bookingID,
	).Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Booking, error) {
	stmt := db.WithContext(ctx).Model(&domain.Booking{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.EventFrom != nil {
		stmt = stmt.Where("event_date >= ?", *filter.EventFrom)
	}
	if filter.EventTo != nil {
		stmt = stmt.Where("event_date < ?", *filter.EventTo)
	}
	stmt, err := page.Apply(stmt)
	if err != nil {
		return nil, err
	}

	var bookings []*domain.Booking
	if err := stmt.Order("created_at DESC").Order("id DESC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// MarkCancelled flips a requested booking to cancelled. It reports false when
// the row was not in the requested state.
func (r *repo) MarkCancelled(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE bookings SET status = ?, cancelled_at = ?, updated_at = ? WHERE id = ? AND status = ?`,
		domain.StatusCancelled,
		at,
		at,
		id,
		domain.StatusRequested,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
