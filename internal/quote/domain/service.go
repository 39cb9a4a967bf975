package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type EquipmentSelection struct {
	EquipmentID string `json:"equipment_id"`
	Quantity    int    `json:"quantity"`
}

type ServiceSelection struct {
	ServiceID string          `json:"service_id"`
	Hours     decimal.Decimal `json:"hours"`
}

// QuoteRequest is what the wizard submits. Rates are never accepted from the
// caller; they are resolved from the tier, catalog and flat rate tables.
type QuoteRequest struct {
	TierCode      string               `json:"tier_code"`
	PackageKind   string               `json:"package_kind,omitempty"`
	DurationHours decimal.Decimal      `json:"duration_hours"`
	Attendees     int                  `json:"attendees"`
	AlcoholServed bool                 `json:"alcohol_served"`
	Equipment     []EquipmentSelection `json:"equipment"`
	Services      []ServiceSelection   `json:"services"`
}

type ResolvedTier struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Quote is a resolved input together with its calculation.
type Quote struct {
	Tier      ResolvedTier   `json:"tier"`
	Input     QuoteInput     `json:"input"`
	Breakdown QuoteBreakdown `json:"breakdown"`
	Policy    Policy         `json:"-"`
}

func (q Quote) Snapshot() Snapshot {
	return Freeze(q.Input, q.Breakdown, q.Policy)
}

type Service interface {
	Preview(ctx context.Context, req QuoteRequest) (*Quote, error)
	Estimate(ctx context.Context, durationHours decimal.Decimal, guestCount int) (*PackageEstimate, error)
}
