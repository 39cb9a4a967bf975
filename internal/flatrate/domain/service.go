package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	quotedomain "github.com/smallbiznis/venuebook/internal/quote/domain"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*FlatRate, error)
	List(ctx context.Context) ([]FlatRate, error)
	// Resolve finds the flat rate for kind whose attendee range holds attendees.
	Resolve(ctx context.Context, kind string, attendees int) (*FlatRate, error)
	// Substitute returns base with the hall rates replaced by the package
	// rate, ready for a flat-package calculation.
	Substitute(ctx context.Context, kind string, attendees int, base quotedomain.TierRates) (quotedomain.TierRates, error)
}

type CreateRequest struct {
	PackageKind  string          `json:"package_kind"`
	Name         string          `json:"name"`
	MinAttendees int             `json:"min_attendees"`
	MaxAttendees *int            `json:"max_attendees"`
	PackageRate  decimal.Decimal `json:"package_rate"`
}

var (
	ErrInvalidKind  = errors.New("invalid_package_kind")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidRange = errors.New("invalid_attendee_range")
	ErrInvalidRate  = errors.New("invalid_package_rate")
	ErrOverlap      = errors.New("flat_rate_overlap")
	ErrNotFound     = errors.New("not_found")
)
