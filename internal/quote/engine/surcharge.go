package engine

import "github.com/shopspring/decimal"

// SecuritySurcharge is the mandatory security charge applied whenever alcohol
// is served. It does not depend on the tier.
func SecuritySurcharge(hourlyRate decimal.Decimal, alcoholServed bool, durationHours decimal.Decimal) decimal.Decimal {
	if !alcoholServed {
		return decimal.Zero
	}
	return roundMoney(hourlyRate.Mul(durationHours))
}
