package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/venuebook/internal/booking/domain"
	"github.com/smallbiznis/venuebook/internal/booking/repository"
	"github.com/smallbiznis/venuebook/internal/clock"
	customerdomain "github.com/smallbiznis/venuebook/internal/customer/domain"
	customerrepo "github.com/smallbiznis/venuebook/internal/customer/repository"
	customerservice "github.com/smallbiznis/venuebook/internal/customer/service"
	quotedomain "github.com/smallbiznis/venuebook/internal/quote/domain"
	"github.com/smallbiznis/venuebook/internal/quote/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

type stubQuotes struct {
	quotedomain.Service
	quote *quotedomain.Quote
	err   error
}

func (s stubQuotes) Preview(context.Context, quotedomain.QuoteRequest) (*quotedomain.Quote, error) {
	return s.quote, s.err
}

func scenarioQuote(t *testing.T) *quotedomain.Quote {
	t.Helper()
	pct := d("10")
	in := quotedomain.QuoteInput{
		TierRates: quotedomain.TierRates{
			HallBaseRate:       d("600"),
			HallHourlyRate:     d("50"),
			EventSupportBase:   d("200"),
			EventSupportHourly: d("35"),
			SecurityDeposit:    d("100"),
		},
		EventDurationHours: d("6"),
		TotalAttendees:     120,
		AlcoholServed:      true,
		EquipmentLines: []quotedomain.EquipmentLine{
			{ItemID: "11", Name: "Round table", Quantity: 2, UnitRate: d("15")},
		},
		ServiceLines: []quotedomain.ServiceLine{
			{ItemID: "21", Name: "Bartender", Hours: d("3"), RateApplied: d("25"), RateType: quotedomain.RateTypeHourly},
			{ItemID: "22", Name: "Caterer", RateType: quotedomain.RateTypeCommission, CommissionPct: &pct},
		},
	}
	policy := quotedomain.DefaultPolicy()
	out, err := engine.Calculate(policy, in)
	require.NoError(t, err)
	return &quotedomain.Quote{
		Tier:      quotedomain.ResolvedTier{ID: "1001", Code: "member", Name: "Member"},
		Input:     in,
		Breakdown: out,
		Policy:    policy,
	}
}

func setupBookingService(t *testing.T, quotes quotedomain.Service) (domain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, conn.AutoMigrate(&customerdomain.Customer{}, &domain.Booking{}, &domain.Line{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	customers := customerservice.New(customerservice.Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  customerrepo.Provide(),
	})

	return New(Params{
		DB:        conn,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     clk,
		Repo:      repository.Provide(),
		Quotes:    quotes,
		Customers: customers,
	}), conn, clk
}

func createRequest() domain.CreateRequest {
	return domain.CreateRequest{
		Quote:     quotedomain.QuoteRequest{TierCode: "member"},
		EventDate: time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC),
		Contact: domain.ContactRequest{
			Name:         "Pat Doe",
			Email:        "pat@example.com",
			Organization: "Rotary Club",
		},
		Notes: "  garden entrance  ",
	}
}

func TestCreateFreezesSnapshotAndLines(t *testing.T) {
	quote := scenarioQuote(t)
	svc, _, _ := setupBookingService(t, stubQuotes{quote: quote})
	ctx := context.Background()

	detail, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)

	b := detail.Booking
	assert.Len(t, b.Reference, 26)
	assert.Equal(t, domain.StatusRequested, b.Status)
	assert.Equal(t, "member", b.TierCode)
	assert.Equal(t, "garden entrance", b.Notes)
	assert.Equal(t, "Rotary Club", b.Metadata["organization"])
	assert.True(t, quote.Breakdown.GrandTotal.Equal(b.GrandTotal))
	assert.True(t, d("600").Equal(b.HallBaseRate))
	assert.True(t, d("300").Equal(b.SecuritySurchargeHourly))
	require.Len(t, detail.Lines, 3)
	assert.Equal(t, domain.LineKindEquipment, detail.Lines[0].Kind)
	assert.True(t, d("30").Equal(detail.Lines[0].Amount))
	assert.True(t, d("75").Equal(detail.Lines[1].Amount))
	assert.True(t, d("70").Equal(detail.Lines[2].Amount))

	fetched, err := svc.Get(ctx, b.Reference)
	require.NoError(t, err)
	assert.Equal(t, b.ID, fetched.Booking.ID)
	require.NotNil(t, fetched.Customer)
	assert.Equal(t, "pat@example.com", fetched.Customer.Email)
	require.Len(t, fetched.Lines, 3)
	assert.Equal(t, "Caterer", fetched.Lines[2].Name)
	require.NotNil(t, fetched.Lines[2].CommissionPct)
	assert.True(t, d("10").Equal(*fetched.Lines[2].CommissionPct))
	assert.True(t, d("70").Equal(fetched.Lines[2].Amount))
}

func TestItemizeReconcilesWithFrozenTotal(t *testing.T) {
	quote := scenarioQuote(t)
	svc, _, _ := setupBookingService(t, stubQuotes{quote: quote})
	ctx := context.Background()

	detail, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)

	_, itemization, err := svc.Itemize(ctx, detail.Booking.Reference)
	require.NoError(t, err)
	assert.True(t, itemization.Reconciles(), "lines %s vs total %s", itemization.LineTotal, itemization.GrandTotal)
	assert.True(t, quote.Breakdown.GrandTotal.Equal(itemization.GrandTotal))

	var security bool
	for _, line := range itemization.Lines {
		if line.Kind == engine.LineKindSecurity {
			security = true
			assert.True(t, d("1800").Equal(line.Amount))
		}
	}
	assert.True(t, security)
}

func TestCreateRollsBackOnStoreFailure(t *testing.T) {
	svc, conn, _ := setupBookingService(t, stubQuotes{quote: scenarioQuote(t)})
	require.NoError(t, conn.Migrator().DropTable(&domain.Line{}))

	_, err := svc.Create(context.Background(), createRequest())
	assert.ErrorIs(t, err, domain.ErrCreateFailed)

	var bookings, customers int64
	require.NoError(t, conn.Model(&domain.Booking{}).Count(&bookings).Error)
	require.NoError(t, conn.Model(&customerdomain.Customer{}).Count(&customers).Error)
	assert.Zero(t, bookings)
	assert.Zero(t, customers)
}

func TestCreateRejections(t *testing.T) {
	t.Run("quote_error", func(t *testing.T) {
		svc, _, _ := setupBookingService(t, stubQuotes{err: quotedomain.ErrInvalidTier})
		_, err := svc.Create(context.Background(), createRequest())
		assert.ErrorIs(t, err, quotedomain.ErrInvalidTier)
	})

	t.Run("contact", func(t *testing.T) {
		svc, _, _ := setupBookingService(t, stubQuotes{quote: scenarioQuote(t)})
		req := createRequest()
		req.Contact.Email = "not-an-email"
		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, customerdomain.ErrInvalidEmail)
	})

	t.Run("event_date", func(t *testing.T) {
		svc, _, _ := setupBookingService(t, stubQuotes{quote: scenarioQuote(t)})
		req := createRequest()
		req.EventDate = time.Time{}
		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrInvalidEventDate)
	})
}

func TestCancel(t *testing.T) {
	svc, _, clk := setupBookingService(t, stubQuotes{quote: scenarioQuote(t)})
	ctx := context.Background()

	detail, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)

	clk.Advance(time.Hour)
	cancelled, err := svc.Cancel(ctx, detail.Booking.Reference)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, clk.Now().UTC(), *cancelled.CancelledAt)

	_, err = svc.Cancel(ctx, detail.Booking.Reference)
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
}

func TestGetRejectsBadReference(t *testing.T) {
	svc, _, _ := setupBookingService(t, stubQuotes{quote: scenarioQuote(t)})

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	_, err = svc.Get(context.Background(), "01HZY8D3V0Q4Z6M0S9K2XJ7T5B")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListFiltersByStatus(t *testing.T) {
	svc, _, clk := setupBookingService(t, stubQuotes{quote: scenarioQuote(t)})
	ctx := context.Background()

	var refs []string
	for i := 0; i < 3; i++ {
		clk.Advance(time.Minute)
		req := createRequest()
		req.Contact.Email = fmt.Sprintf("guest%d@example.com", i)
		detail, err := svc.Create(ctx, req)
		require.NoError(t, err)
		refs = append(refs, detail.Booking.Reference)
	}
	_, err := svc.Cancel(ctx, refs[0])
	require.NoError(t, err)

	all, err := svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Bookings, 3)
	assert.False(t, all.HasMore)

	requested, err := svc.List(ctx, domain.ListRequest{Status: domain.StatusRequested})
	require.NoError(t, err)
	assert.Len(t, requested.Bookings, 2)

	page, err := svc.List(ctx, domain.ListRequest{PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page.Bookings, 2)
	assert.True(t, page.HasMore)
	assert.NotEmpty(t, page.NextPageToken)

	_, err = svc.List(ctx, domain.ListRequest{Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.List(ctx, domain.ListRequest{PageToken: "%%%"})
	assert.ErrorIs(t, err, domain.ErrInvalidPageToken)
}
