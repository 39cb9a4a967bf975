package domain

import (
	"github.com/shopspring/decimal"
)

type RateType string

const (
	RateTypeHourly     RateType = "hourly"
	RateTypeFlat       RateType = "flat"
	RateTypeCommission RateType = "commission"
	RateTypeIncluded   RateType = "included"
)

func (r RateType) Valid() bool {
	switch r {
	case RateTypeHourly, RateTypeFlat, RateTypeCommission, RateTypeIncluded:
		return true
	default:
		return false
	}
}

// TierRates is the rate shape a membership tier (or a substituted flat
// package) hands to the calculator.
type TierRates struct {
	HallBaseRate       decimal.Decimal `json:"hall_base_rate"`
	HallHourlyRate     decimal.Decimal `json:"hall_hourly_rate"`
	EventSupportBase   decimal.Decimal `json:"event_support_base"`
	EventSupportHourly decimal.Decimal `json:"event_support_hourly"`
	SecurityDeposit    decimal.Decimal `json:"security_deposit"`
}

// StaffingBracket maps an inclusive attendee range to a staff headcount.
// A nil MaxAttendees marks the open-ended last bracket.
type StaffingBracket struct {
	MinAttendees  int  `json:"min_attendees" mapstructure:"min"`
	MaxAttendees  *int `json:"max_attendees,omitempty" mapstructure:"max"`
	RequiredStaff int  `json:"required_staff" mapstructure:"staff"`
}

func (b StaffingBracket) Contains(attendees int) bool {
	if attendees < b.MinAttendees {
		return false
	}
	return b.MaxAttendees == nil || attendees <= *b.MaxAttendees
}

// ItemID and Name label a line for persistence and documents; the
// calculator ignores them.
type EquipmentLine struct {
	ItemID   string          `json:"item_id,omitempty"`
	Name     string          `json:"name,omitempty"`
	Quantity int             `json:"quantity"`
	UnitRate decimal.Decimal `json:"unit_rate"`
}

func (l EquipmentLine) Total() decimal.Decimal {
	return l.UnitRate.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type ServiceLine struct {
	ItemID        string           `json:"item_id,omitempty"`
	Name          string           `json:"name,omitempty"`
	Hours         decimal.Decimal  `json:"hours"`
	RateApplied   decimal.Decimal  `json:"rate_applied"`
	RateType      RateType         `json:"rate_type"`
	CommissionPct *decimal.Decimal `json:"commission_pct,omitempty"`
}

type QuoteInput struct {
	TierRates          TierRates       `json:"tier_rates"`
	EventDurationHours decimal.Decimal `json:"event_duration_hours"`
	TotalAttendees     int             `json:"total_attendees"`
	IsFlatPackage      bool            `json:"is_flat_package"`
	AlcoholServed      bool            `json:"alcohol_served"`
	EquipmentLines     []EquipmentLine `json:"equipment_lines"`
	ServiceLines       []ServiceLine   `json:"service_lines"`
}

type Breakdown struct {
	HallBaseRate         decimal.Decimal `json:"hall_base_rate"`
	HallOvertimeHours    decimal.Decimal `json:"hall_overtime_hours"`
	HallOvertimeCost     decimal.Decimal `json:"hall_overtime_cost"`
	SupportBaseRate      decimal.Decimal `json:"support_base_rate"`
	SupportOvertimeHours decimal.Decimal `json:"support_overtime_hours"`
	SupportOvertimeCost  decimal.Decimal `json:"support_overtime_cost"`
}

// QuoteBreakdown is the calculator's only output. It is produced once and
// never mutated afterwards.
type QuoteBreakdown struct {
	HallRentalTotal   decimal.Decimal `json:"hall_rental_total"`
	EventSupportTotal decimal.Decimal `json:"event_support_total"`
	RequiredStaff     int             `json:"required_staff"`
	EquipmentTotal    decimal.Decimal `json:"equipment_total"`
	ServicesTotal     decimal.Decimal `json:"services_total"`
	SecurityDeposit   decimal.Decimal `json:"security_deposit"`
	GrandTotal        decimal.Decimal `json:"grand_total"`
	Breakdown         Breakdown       `json:"breakdown"`
}

type RatePreset struct {
	HallBaseRate   decimal.Decimal `json:"hall_base_rate"`
	HallHourlyRate decimal.Decimal `json:"hall_hourly_rate"`
}

// EstimatorPresets are the marketing rate assumptions used by the package
// estimator. Both presets share the support formula.
type EstimatorPresets struct {
	Member        RatePreset      `json:"member"`
	NonMember     RatePreset      `json:"non_member"`
	SupportBase   decimal.Decimal `json:"support_base"`
	SupportHourly decimal.Decimal `json:"support_hourly"`
}

type PackageEstimate struct {
	DurationHours     decimal.Decimal `json:"duration_hours"`
	GuestCount        int             `json:"guest_count"`
	RequiredStaff     int             `json:"required_staff"`
	MemberEstimate    decimal.Decimal `json:"member_estimate"`
	NonMemberEstimate decimal.Decimal `json:"non_member_estimate"`
	LowerBound        bool            `json:"lower_bound"`
}
