package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/venuebook/internal/catalog/domain"
	flatratedomain "github.com/smallbiznis/venuebook/internal/flatrate/domain"
	flatrateservice "github.com/smallbiznis/venuebook/internal/flatrate/service"
	"github.com/smallbiznis/venuebook/internal/quote/domain"
	tierdomain "github.com/smallbiznis/venuebook/internal/tier/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubTiers struct {
	tierdomain.Service
	tiers map[string]tierdomain.Tier
}

func (s stubTiers) FindByCode(_ context.Context, code string) (*tierdomain.Tier, error) {
	tier, ok := s.tiers[code]
	if !ok {
		return nil, tierdomain.ErrNotFound
	}
	return &tier, nil
}

type stubCatalog struct {
	catalogdomain.Service
	equipment map[string]catalogdomain.Equipment
	offerings map[string]catalogdomain.Offering
}

func (s stubCatalog) EquipmentByIDs(_ context.Context, ids []string) (map[string]catalogdomain.Equipment, error) {
	out := map[string]catalogdomain.Equipment{}
	for _, id := range ids {
		item, ok := s.equipment[id]
		if !ok {
			return nil, catalogdomain.ErrUnknownItem
		}
		out[id] = item
	}
	return out, nil
}

func (s stubCatalog) OfferingsByIDs(_ context.Context, ids []string) (map[string]catalogdomain.Offering, error) {
	out := map[string]catalogdomain.Offering{}
	for _, id := range ids {
		item, ok := s.offerings[id]
		if !ok {
			return nil, catalogdomain.ErrUnknownItem
		}
		out[id] = item
	}
	return out, nil
}

type stubFlatRates struct {
	flatratedomain.Service
	rates map[string]decimal.Decimal
}

func (s stubFlatRates) Substitute(_ context.Context, kind string, _ int, base domain.TierRates) (domain.TierRates, error) {
	rate, ok := s.rates[kind]
	if !ok {
		return domain.TierRates{}, flatratedomain.ErrNotFound
	}
	return flatrateservice.SubstituteRates(base, rate), nil
}

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func newTestService(policy domain.Policy) domain.Service {
	pct := d("10")
	return New(Params{
		Log:    zap.NewNop(),
		Policy: domain.StaticPolicy(policy),
		Tiers: stubTiers{tiers: map[string]tierdomain.Tier{
			"member": {
				ID:                 snowflake.ID(11),
				Code:               "member",
				Name:               "Member",
				HallBaseRate:       d("600"),
				HallHourlyRate:     d("50"),
				EventSupportBase:   d("200"),
				EventSupportHourly: d("35"),
				SecurityDeposit:    d("100"),
				Active:             true,
			},
		}},
		Catalog: stubCatalog{
			equipment: map[string]catalogdomain.Equipment{
				"21": {ID: 21, Name: "Chairs", UnitRate: d("15"), Active: true},
			},
			offerings: map[string]catalogdomain.Offering{
				"31": {ID: 31, Name: "Catering", RateType: domain.RateTypeCommission, CommissionPct: &pct, Active: true},
				"32": {ID: 32, Name: "Bartender", RateType: domain.RateTypeHourly, Rate: d("25.50"), Active: true},
			},
		},
		FlatRates: stubFlatRates{rates: map[string]decimal.Decimal{"funeral": d("1500")}},
	})
}

func scenarioRequest() domain.QuoteRequest {
	return domain.QuoteRequest{
		TierCode:      "member",
		DurationHours: d("6"),
		Attendees:     120,
		Equipment:     []domain.EquipmentSelection{{EquipmentID: "21", Quantity: 2}},
	}
}

func TestPreviewResolvesRatesFromTierAndCatalog(t *testing.T) {
	svc := newTestService(domain.DefaultPolicy())

	quote, err := svc.Preview(context.Background(), scenarioRequest())
	require.NoError(t, err)

	assert.Equal(t, "member", quote.Tier.Code)
	assert.True(t, d("700").Equal(quote.Breakdown.HallRentalTotal))
	assert.True(t, d("340").Equal(quote.Breakdown.EventSupportTotal))
	assert.True(t, d("30").Equal(quote.Breakdown.EquipmentTotal))
	assert.True(t, d("1170").Equal(quote.Breakdown.GrandTotal))
	require.Len(t, quote.Input.EquipmentLines, 1)
	assert.Equal(t, "Chairs", quote.Input.EquipmentLines[0].Name)

	snap := quote.Snapshot()
	assert.True(t, d("1170").Equal(snap.GrandTotal))
	assert.True(t, d("4").Equal(snap.BaseHours))
	assert.True(t, d("50").Equal(snap.HallHourlyRate))
}

func TestPreviewWithServicesAndAlcohol(t *testing.T) {
	svc := newTestService(domain.DefaultPolicy())
	req := scenarioRequest()
	req.AlcoholServed = true
	req.Services = []domain.ServiceSelection{
		{ServiceID: "31"},
		{ServiceID: "32", Hours: d("3")},
	}

	quote, err := svc.Preview(context.Background(), req)
	require.NoError(t, err)

	// catering 10% of 700 = 70, bartender 3 x 25.50 = 76.50; surcharge 6 x 300 lands in the grand total only
	assert.True(t, d("146.5").Equal(quote.Breakdown.ServicesTotal))
	assert.True(t, d("3116.5").Equal(quote.Breakdown.GrandTotal))
}

func TestPreviewFlatPackageSubstitutesRates(t *testing.T) {
	svc := newTestService(domain.DefaultPolicy())
	req := domain.QuoteRequest{
		TierCode:      "member",
		PackageKind:   "funeral",
		DurationHours: d("7"),
		Attendees:     180,
	}

	quote, err := svc.Preview(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, quote.Input.IsFlatPackage)
	assert.True(t, quote.Input.TierRates.HallHourlyRate.IsZero())
	assert.True(t, d("1500").Equal(quote.Breakdown.HallRentalTotal))
	assert.True(t, d("515").Equal(quote.Breakdown.EventSupportTotal))
	assert.True(t, d("2115").Equal(quote.Breakdown.GrandTotal))
}

func TestPreviewRejections(t *testing.T) {
	svc := newTestService(domain.DefaultPolicy())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*domain.QuoteRequest)
		err    error
	}{
		{"unknown tier", func(r *domain.QuoteRequest) { r.TierCode = "gold" }, domain.ErrInvalidTier},
		{"unknown package", func(r *domain.QuoteRequest) { r.PackageKind = "wedding" }, domain.ErrFlatRateNotFound},
		{"unknown equipment", func(r *domain.QuoteRequest) { r.Equipment[0].EquipmentID = "99" }, domain.ErrInvalidEquipment},
		{"unknown service", func(r *domain.QuoteRequest) { r.Services = []domain.ServiceSelection{{ServiceID: "99"}} }, domain.ErrInvalidService},
		{"zero duration", func(r *domain.QuoteRequest) { r.DurationHours = decimal.Zero }, domain.ErrInvalidInput},
		{"three decimal duration", func(r *domain.QuoteRequest) { r.DurationHours = d("5.125") }, domain.ErrInvalidInput},
		{"oversized duration", func(r *domain.QuoteRequest) { r.DurationHours = d("10000") }, domain.ErrInvalidInput},
		{"zero quantity", func(r *domain.QuoteRequest) { r.Equipment[0].Quantity = 0 }, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := scenarioRequest()
			tc.mutate(&req)
			_, err := svc.Preview(ctx, req)
			assert.ErrorIs(t, err, tc.err)
			assert.True(t, IsRejection(err))
		})
	}
}

func TestEstimateUsesPolicyPresets(t *testing.T) {
	svc := newTestService(domain.DefaultPolicy())

	est, err := svc.Estimate(context.Background(), d("6"), 120)
	require.NoError(t, err)
	assert.True(t, d("1040").Equal(est.MemberEstimate))
	assert.True(t, d("1340").Equal(est.NonMemberEstimate))
	assert.True(t, est.LowerBound)

	_, err = svc.Estimate(context.Background(), d("6"), -1)
	assert.ErrorIs(t, err, domain.ErrInvalidGuestCount)
}
