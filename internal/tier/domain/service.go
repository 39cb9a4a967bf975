package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Tier, error)
	List(ctx context.Context, activeOnly bool) ([]Tier, error)
	Get(ctx context.Context, id string) (*Tier, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Tier, error)
	// FindByCode returns an active tier for pricing.
	FindByCode(ctx context.Context, code string) (*Tier, error)
}

type CreateRequest struct {
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	HallBaseRate       decimal.Decimal `json:"hall_base_rate"`
	HallHourlyRate     decimal.Decimal `json:"hall_hourly_rate"`
	EventSupportBase   decimal.Decimal `json:"event_support_base"`
	EventSupportHourly decimal.Decimal `json:"event_support_hourly"`
	SecurityDeposit    decimal.Decimal `json:"security_deposit"`
}

// UpdateRequest carries a partial update; nil fields are left unchanged.
// Codes are immutable because bookings and quotes refer to them.
type UpdateRequest struct {
	Name               *string          `json:"name"`
	HallBaseRate       *decimal.Decimal `json:"hall_base_rate"`
	HallHourlyRate     *decimal.Decimal `json:"hall_hourly_rate"`
	EventSupportBase   *decimal.Decimal `json:"event_support_base"`
	EventSupportHourly *decimal.Decimal `json:"event_support_hourly"`
	SecurityDeposit    *decimal.Decimal `json:"security_deposit"`
	Active             *bool            `json:"active"`
}

var (
	ErrInvalidCode = errors.New("invalid_code")
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidRate = errors.New("invalid_rate")
	ErrInvalidID   = errors.New("invalid_id")
	ErrCodeTaken   = errors.New("tier_code_taken")
	ErrNotFound    = errors.New("not_found")
)
