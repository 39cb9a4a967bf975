package document

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	bookingdomain "github.com/smallbiznis/venuebook/internal/booking/domain"
	customerdomain "github.com/smallbiznis/venuebook/internal/customer/domain"
	"github.com/smallbiznis/venuebook/internal/quote/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func sampleDetail() bookingdomain.Detail {
	return bookingdomain.Detail{
		Booking: bookingdomain.Booking{
			Reference:       "01HZY8D3V0Q4Z6M0S9K2XJ7T5B",
			TierCode:        "member",
			Status:          bookingdomain.StatusRequested,
			EventDate:       time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC),
			DurationHours:   decimal.NewFromInt(6),
			Attendees:       120,
			RequiredStaff:   2,
			SecurityDeposit: decimal.NewFromInt(100),
			GrandTotal:      decimal.NewFromInt(1170),
			Metadata:        datatypes.JSONMap{"organization": "Rotary Club"},
			CreatedAt:       time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		},
		Customer: &customerdomain.Customer{Name: "Pat Doe", Email: "pat@example.com"},
	}
}

func sampleItemization() engine.Itemization {
	return engine.Itemization{
		Lines: []engine.DocumentLine{
			{Kind: engine.LineKindHall, Label: "Hall Rental (first 4 hrs)", Amount: decimal.NewFromInt(600)},
			{Kind: engine.LineKindHall, Label: "Hall Overtime (2 hrs @ $50.00/hr)", Amount: decimal.NewFromInt(100)},
			{Kind: engine.LineKindSupport, Label: "Event Support (120 guests)", Amount: decimal.NewFromInt(340)},
			{Kind: engine.LineKindEquipment, Label: "Round table (2 @ $15.00)", Amount: decimal.NewFromInt(30)},
			{Kind: engine.LineKindDeposit, Label: "Security Deposit", Amount: decimal.NewFromInt(100)},
		},
		LineTotal:  decimal.NewFromInt(1170),
		GrandTotal: decimal.NewFromInt(1170),
	}
}

func TestNewQuoteData(t *testing.T) {
	data := NewQuoteData("Community Hall", "events@example.org", sampleDetail(), sampleItemization())

	assert.Equal(t, "$1,170.00", data.GrandTotal)
	assert.Equal(t, "$100.00", data.Deposit)
	assert.Equal(t, "Rotary Club", data.Organization)
	assert.Equal(t, "Pat Doe", data.CustomerName)
	assert.Equal(t, "6 hrs", data.Duration)
	assert.Equal(t, "member", data.TierName)
	assert.Len(t, data.Lines, 5)
}

func TestRenderQuoteProducesPDF(t *testing.T) {
	data := NewQuoteData("Community Hall", "", sampleDetail(), sampleItemization())

	r, err := New().RenderQuote(context.Background(), data)
	require.NoError(t, err)
	body, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestRenderQuoteRequiresLines(t *testing.T) {
	_, err := New().RenderQuote(context.Background(), QuoteData{})
	assert.ErrorIs(t, err, ErrNothingToRender)
}
