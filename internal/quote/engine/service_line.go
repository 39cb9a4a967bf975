package engine

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/venuebook/internal/quote/domain"
)

var hundred = decimal.NewFromInt(100)

// PriceService prices one service line. Commission lines take their base from
// the hall rental subtotal of the same quote, so callers must pass the final
// hall rental total.
func PriceService(line domain.ServiceLine, hallRentalTotal decimal.Decimal) (decimal.Decimal, error) {
	if err := validateServiceLine(line); err != nil {
		return decimal.Zero, err
	}

	switch line.RateType {
	case domain.RateTypeHourly:
		return line.Hours.Mul(line.RateApplied), nil
	case domain.RateTypeFlat:
		return line.RateApplied, nil
	case domain.RateTypeCommission:
		return hallRentalTotal.Mul(*line.CommissionPct).Div(hundred), nil
	case domain.RateTypeIncluded:
		return decimal.Zero, nil
	default:
		return decimal.Zero, domain.NewInvalidInput("rate_type", "is unknown")
	}
}

// PriceServiceLines prices every line against the same hall rental total and
// rounds each amount to cents. Amounts line up with lines by index.
func PriceServiceLines(lines []domain.ServiceLine, hallRentalTotal decimal.Decimal) ([]decimal.Decimal, error) {
	amounts := make([]decimal.Decimal, 0, len(lines))
	for _, line := range lines {
		amount, err := PriceService(line, hallRentalTotal)
		if err != nil {
			return nil, err
		}
		amounts = append(amounts, roundMoney(amount))
	}
	return amounts, nil
}

func validateServiceLine(line domain.ServiceLine) error {
	if !line.RateType.Valid() {
		return domain.NewInvalidInput("rate_type", "is unknown")
	}
	if line.Hours.IsNegative() {
		return domain.NewInvalidInput("hours", "must not be negative")
	}
	if err := checkHours("hours", line.Hours); err != nil {
		return err
	}
	if line.RateApplied.IsNegative() {
		return domain.NewInvalidInput("rate_applied", "must not be negative")
	}
	if exceedsPlaces(line.RateApplied, moneyPlaces) {
		return domain.NewInvalidInput("rate_applied", "must have at most 2 decimal places")
	}
	if line.RateType == domain.RateTypeCommission {
		if line.CommissionPct == nil {
			return domain.NewInvalidInput("commission_pct", "is required for commission lines")
		}
		if line.CommissionPct.IsNegative() {
			return domain.NewInvalidInput("commission_pct", "must not be negative")
		}
		if exceedsPlaces(*line.CommissionPct, percentPlaces) || line.CommissionPct.GreaterThan(hundred) {
			return domain.NewInvalidInput("commission_pct", "must be at most 100 with 3 decimal places")
		}
	}
	return nil
}
