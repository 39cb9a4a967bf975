package engine

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/venuebook/internal/quote/domain"
)

// Calculator prices quotes against one policy. It holds no mutable state and
// is safe for concurrent use.
type Calculator struct {
	policy domain.Policy
}

func NewCalculator(policy domain.Policy) *Calculator {
	return &Calculator{policy: policy}
}

func (c *Calculator) Policy() domain.Policy {
	return c.policy
}

// Calculate turns resolved rates and event parameters into a priced
// breakdown.
//
// A flat package arrives with its package rate already substituted into
// HallBaseRate and a zero HallHourlyRate; the hall is then billed at the
// base rate with no overtime.
func (c *Calculator) Calculate(in domain.QuoteInput) (domain.QuoteBreakdown, error) {
	if err := validateInput(in); err != nil {
		return domain.QuoteBreakdown{}, err
	}

	rates := in.TierRates
	overtime := OvertimeHours(in.EventDurationHours, c.policy.BaseHours)

	hallOvertimeHours := overtime
	if in.IsFlatPackage {
		hallOvertimeHours = decimal.Zero
	}
	hallOvertimeCost := roundMoney(hallOvertimeHours.Mul(rates.HallHourlyRate))
	hallRental := roundMoney(rates.HallBaseRate).Add(hallOvertimeCost)

	staff := RequiredStaff(c.policy.Brackets, in.TotalAttendees)
	supportOvertimeCost := roundMoney(overtime.Mul(rates.EventSupportHourly).Mul(decimal.NewFromInt(int64(staff))))
	support := roundMoney(rates.EventSupportBase).Add(supportOvertimeCost)

	equipment := decimal.Zero
	for _, line := range in.EquipmentLines {
		equipment = equipment.Add(roundMoney(line.Total()))
	}

	amounts, err := PriceServiceLines(in.ServiceLines, hallRental)
	if err != nil {
		return domain.QuoteBreakdown{}, err
	}
	services := decimal.Zero
	for _, amount := range amounts {
		services = services.Add(amount)
	}

	deposit := rates.SecurityDeposit
	surcharge := SecuritySurcharge(c.policy.SecuritySurchargeHourly, in.AlcoholServed, in.EventDurationHours)

	grand := hallRental.
		Add(support).
		Add(equipment).
		Add(services).
		Add(roundMoney(deposit)).
		Add(surcharge)

	return domain.QuoteBreakdown{
		HallRentalTotal:   hallRental,
		EventSupportTotal: support,
		RequiredStaff:     staff,
		EquipmentTotal:    equipment,
		ServicesTotal:     services,
		SecurityDeposit:   deposit,
		GrandTotal:        grand,
		Breakdown: domain.Breakdown{
			HallBaseRate:         rates.HallBaseRate,
			HallOvertimeHours:    hallOvertimeHours,
			HallOvertimeCost:     hallOvertimeCost,
			SupportBaseRate:      rates.EventSupportBase,
			SupportOvertimeHours: overtime,
			SupportOvertimeCost:  supportOvertimeCost,
		},
	}, nil
}

// Calculate prices in under policy.
func Calculate(policy domain.Policy, in domain.QuoteInput) (domain.QuoteBreakdown, error) {
	return NewCalculator(policy).Calculate(in)
}

// OvertimeHours is the part of duration beyond the base allotment.
func OvertimeHours(duration, baseHours decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, duration.Sub(baseHours))
}

// Inputs are limited to the precision bookings persist, so a stored booking
// replays to the same lines it was quoted with.
const (
	moneyPlaces   = 2
	hoursPlaces   = 2
	percentPlaces = 3
)

var maxHours = decimal.RequireFromString("9999.99")

func validateInput(in domain.QuoteInput) error {
	if !in.EventDurationHours.IsPositive() {
		return domain.NewInvalidInput("event_duration_hours", "must be positive")
	}
	if err := checkHours("event_duration_hours", in.EventDurationHours); err != nil {
		return err
	}
	if in.TotalAttendees < 0 {
		return domain.NewInvalidInput("total_attendees", "must not be negative")
	}

	rates := in.TierRates
	for _, r := range []struct {
		field string
		value decimal.Decimal
	}{
		{"hall_base_rate", rates.HallBaseRate},
		{"hall_hourly_rate", rates.HallHourlyRate},
		{"event_support_base", rates.EventSupportBase},
		{"event_support_hourly", rates.EventSupportHourly},
		{"security_deposit", rates.SecurityDeposit},
	} {
		if r.value.IsNegative() {
			return domain.NewInvalidInput(r.field, "must not be negative")
		}
		if exceedsPlaces(r.value, moneyPlaces) {
			return domain.NewInvalidInput(r.field, "must have at most 2 decimal places")
		}
	}
	if in.IsFlatPackage && !rates.HallHourlyRate.IsZero() {
		return domain.NewInvalidInput("hall_hourly_rate", "must be zero for a flat package")
	}

	for _, line := range in.EquipmentLines {
		if line.Quantity < 1 {
			return domain.NewInvalidInput("quantity", "must be at least 1")
		}
		if line.UnitRate.IsNegative() {
			return domain.NewInvalidInput("unit_rate", "must not be negative")
		}
		if exceedsPlaces(line.UnitRate, moneyPlaces) {
			return domain.NewInvalidInput("unit_rate", "must have at most 2 decimal places")
		}
	}
	for _, line := range in.ServiceLines {
		if err := validateServiceLine(line); err != nil {
			return err
		}
	}
	return nil
}

func checkHours(field string, v decimal.Decimal) error {
	if exceedsPlaces(v, hoursPlaces) {
		return domain.NewInvalidInput(field, "must have at most 2 decimal places")
	}
	if v.GreaterThan(maxHours) {
		return domain.NewInvalidInput(field, "must not exceed 9999.99")
	}
	return nil
}

// exceedsPlaces ignores trailing zeros: 5.120 fits in two places.
func exceedsPlaces(v decimal.Decimal, places int32) bool {
	return !v.Equal(v.Truncate(places))
}

func roundMoney(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}
