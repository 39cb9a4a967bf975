package engine

import (
	"testing"

	"github.com/smallbiznis/venuebook/internal/quote/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceService(t *testing.T) {
	hall := dec("800")
	cases := []struct {
		name string
		line domain.ServiceLine
		want string
	}{
		{"hourly", domain.ServiceLine{RateType: domain.RateTypeHourly, Hours: dec("3"), RateApplied: dec("40")}, "120"},
		{"hourly fractional", domain.ServiceLine{RateType: domain.RateTypeHourly, Hours: dec("2.5"), RateApplied: dec("30")}, "75"},
		{"flat ignores hours", domain.ServiceLine{RateType: domain.RateTypeFlat, Hours: dec("9"), RateApplied: dec("250")}, "250"},
		{"commission", domain.ServiceLine{RateType: domain.RateTypeCommission, CommissionPct: decPtr("10")}, "80"},
		{"commission ignores rate", domain.ServiceLine{RateType: domain.RateTypeCommission, RateApplied: dec("999"), CommissionPct: decPtr("15")}, "120"},
		{"included", domain.ServiceLine{RateType: domain.RateTypeIncluded, Hours: dec("4"), RateApplied: dec("100")}, "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := PriceService(tc.line, hall)
			require.NoError(t, err)
			assertMoney(t, tc.want, got)
		})
	}
}

func TestPriceServiceLines_RoundsEachLine(t *testing.T) {
	lines := []domain.ServiceLine{
		{RateType: domain.RateTypeCommission, CommissionPct: decPtr("3.333")},
		{RateType: domain.RateTypeIncluded},
	}

	amounts, err := PriceServiceLines(lines, dec("700"))
	require.NoError(t, err)
	require.Len(t, amounts, 2)
	assertMoney(t, "23.33", amounts[0])
	assertMoney(t, "0", amounts[1])
}

func TestPriceService_Invalid(t *testing.T) {
	_, err := PriceService(domain.ServiceLine{RateType: domain.RateTypeCommission}, dec("100"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = PriceService(domain.ServiceLine{RateType: "tiered"}, dec("100"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = PriceService(domain.ServiceLine{RateType: domain.RateTypeFlat, RateApplied: dec("-1")}, dec("100"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSecuritySurcharge(t *testing.T) {
	assertMoney(t, "1500", SecuritySurcharge(dec("300"), true, dec("5")))
	assertMoney(t, "750", SecuritySurcharge(dec("300"), true, dec("2.5")))
	assertMoney(t, "0", SecuritySurcharge(dec("300"), false, dec("5")))
}
