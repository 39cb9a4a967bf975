package engine

import (
	"testing"

	"github.com/smallbiznis/venuebook/internal/quote/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frozenScenario(t *testing.T) (domain.QuoteInput, domain.Snapshot, []PricedServiceLine) {
	t.Helper()

	in := scenarioInput()
	in.AlcoholServed = true
	in.EquipmentLines[0].Name = "Chairs"
	in.ServiceLines = []domain.ServiceLine{
		{Name: "Bartender", RateType: domain.RateTypeHourly, Hours: dec("3"), RateApplied: dec("25.50")},
		{Name: "Catering", RateType: domain.RateTypeCommission, CommissionPct: decPtr("10")},
		{Name: "Cleanup", RateType: domain.RateTypeIncluded},
	}

	policy := domain.DefaultPolicy()
	out, err := Calculate(policy, in)
	require.NoError(t, err)
	assertMoney(t, "3116.50", out.GrandTotal)

	amounts, err := PriceServiceLines(in.ServiceLines, out.HallRentalTotal)
	require.NoError(t, err)
	priced := make([]PricedServiceLine, 0, len(amounts))
	for i, amount := range amounts {
		priced = append(priced, PricedServiceLine{Line: in.ServiceLines[i], Amount: amount})
	}

	return in, domain.Freeze(in, out, policy), priced
}

func TestItemize_LinesReconcileWithFrozenTotal(t *testing.T) {
	in, snap, priced := frozenScenario(t)

	it := Itemize(ItemizeInput{
		Snapshot:      snap,
		DurationHours: in.EventDurationHours,
		Attendees:     in.TotalAttendees,
		AlcoholServed: in.AlcoholServed,
		Equipment:     in.EquipmentLines,
		Services:      priced,
	})

	assert.True(t, it.Reconciles(), "line total %s vs grand total %s", it.LineTotal, it.GrandTotal)

	labels := make([]string, 0, len(it.Lines))
	for _, l := range it.Lines {
		labels = append(labels, l.Label)
	}
	assert.Equal(t, []string{
		"Hall Rental (first 4 hrs)",
		"Hall Overtime (2 hrs @ $50.00/hr)",
		"Event Support (120 guests)",
		"Event Support Overtime (2 hrs x 2 staff @ $35.00/hr)",
		"Chairs (2 @ $15.00)",
		"Bartender (3 hrs @ $25.50/hr)",
		"Catering (10% of hall rental)",
		"Cleanup (included)",
		"Mandatory Security (6 hrs @ $300.00/hr)",
		"Security Deposit",
	}, labels)

	assertMoney(t, "100", it.Lines[1].Amount)
	assertMoney(t, "0", it.Lines[7].Amount)
	assertMoney(t, "1800", it.Lines[8].Amount)
}

func TestItemize_FractionalDurationReplaysFromStoredPrecision(t *testing.T) {
	in := scenarioInput()
	in.AlcoholServed = true
	in.EventDurationHours = dec("5.13")
	in.TierRates.HallHourlyRate = dec("33.33")
	in.TierRates.EventSupportHourly = dec("12.34")
	in.TierRates.SecurityDeposit = dec("99.99")

	policy := domain.DefaultPolicy()
	out, err := Calculate(policy, in)
	require.NoError(t, err)

	// Every value below survives a NUMERIC(...,2) column unchanged.
	it := Itemize(ItemizeInput{
		Snapshot:      domain.Freeze(in, out, policy),
		DurationHours: dec("5.13"),
		Attendees:     in.TotalAttendees,
		AlcoholServed: true,
		Equipment:     in.EquipmentLines,
	})

	assert.True(t, it.Reconciles(), "line total %s vs grand total %s", it.LineTotal, it.GrandTotal)
	assertMoney(t, "600", it.Lines[0].Amount)
	assertMoney(t, "1539", it.Lines[len(it.Lines)-2].Amount)
}

func TestItemize_UsesFrozenRatesNotCurrentOnes(t *testing.T) {
	in, snap, priced := frozenScenario(t)

	// Rates edited after the booking must not reach the document.
	in.TierRates.HallHourlyRate = dec("500")

	it := Itemize(ItemizeInput{
		Snapshot:      snap,
		DurationHours: in.EventDurationHours,
		Attendees:     in.TotalAttendees,
		AlcoholServed: true,
		Equipment:     in.EquipmentLines,
		Services:      priced,
	})

	assert.Equal(t, "Hall Overtime (2 hrs @ $50.00/hr)", it.Lines[1].Label)
	assert.True(t, it.Reconciles())
}

func TestItemize_FlatPackage(t *testing.T) {
	in := domain.QuoteInput{
		TierRates:          domain.TierRates{HallBaseRate: dec("1500"), EventSupportBase: dec("200"), EventSupportHourly: dec("35")},
		EventDurationHours: dec("5"),
		TotalAttendees:     40,
		IsFlatPackage:      true,
	}
	policy := domain.DefaultPolicy()
	out, err := Calculate(policy, in)
	require.NoError(t, err)

	it := Itemize(ItemizeInput{
		Snapshot:      domain.Freeze(in, out, policy),
		DurationHours: in.EventDurationHours,
		Attendees:     in.TotalAttendees,
	})

	require.NotEmpty(t, it.Lines)
	assert.Equal(t, "Flat Package Rate", it.Lines[0].Label)
	assertMoney(t, "1500", it.Lines[0].Amount)
	assert.True(t, it.Reconciles())
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$0.00", FormatMoney(dec("0")))
	assert.Equal(t, "$15.00", FormatMoney(dec("15")))
	assert.Equal(t, "$1,170.00", FormatMoney(dec("1170")))
	assert.Equal(t, "$1,234,567.89", FormatMoney(dec("1234567.891")))
	assert.Equal(t, "-$300.50", FormatMoney(dec("-300.5")))
}
