package domain

import "github.com/shopspring/decimal"

// Snapshot is the frozen form of a calculation that a booking keeps. It holds
// the six persisted totals plus the rates and policy values needed to
// re-derive display lines later. Documents read it back and never re-run
// the calculator.
type Snapshot struct {
	HallRentalTotal   decimal.Decimal `json:"hall_rental_total"`
	EventSupportTotal decimal.Decimal `json:"event_support_total"`
	EquipmentTotal    decimal.Decimal `json:"equipment_total"`
	ServicesTotal     decimal.Decimal `json:"services_total"`
	SecurityDeposit   decimal.Decimal `json:"security_deposit"`
	GrandTotal        decimal.Decimal `json:"grand_total"`
	RequiredStaff     int             `json:"required_staff"`

	HallBaseRate            decimal.Decimal `json:"hall_base_rate"`
	HallHourlyRate          decimal.Decimal `json:"hall_hourly_rate"`
	SupportBaseRate         decimal.Decimal `json:"support_base_rate"`
	SupportHourlyRate       decimal.Decimal `json:"support_hourly_rate"`
	BaseHours               decimal.Decimal `json:"base_hours"`
	SecuritySurchargeHourly decimal.Decimal `json:"security_surcharge_hourly"`
	IsFlatPackage           bool            `json:"is_flat_package"`
}

// Freeze captures a finished calculation. The returned value is copied, so
// later edits to in, out or policy do not reach it.
func Freeze(in QuoteInput, out QuoteBreakdown, policy Policy) Snapshot {
	return Snapshot{
		HallRentalTotal:         out.HallRentalTotal,
		EventSupportTotal:       out.EventSupportTotal,
		EquipmentTotal:          out.EquipmentTotal,
		ServicesTotal:           out.ServicesTotal,
		SecurityDeposit:         out.SecurityDeposit,
		GrandTotal:              out.GrandTotal,
		RequiredStaff:           out.RequiredStaff,
		HallBaseRate:            in.TierRates.HallBaseRate,
		HallHourlyRate:          in.TierRates.HallHourlyRate,
		SupportBaseRate:         in.TierRates.EventSupportBase,
		SupportHourlyRate:       in.TierRates.EventSupportHourly,
		BaseHours:               policy.BaseHours,
		SecuritySurchargeHourly: policy.SecuritySurchargeHourly,
		IsFlatPackage:           in.IsFlatPackage,
	}
}
