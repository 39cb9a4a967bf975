package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("tier_code", "member"),
		attribute.String("customer_email", "pat@example.com"),
		attribute.String("booking_ref", "01J..."),
		attribute.String("package_kind", "flat"),
	)
	require.Len(t, attrs, 2)
	assert.Equal(t, attribute.Key("tier_code"), attrs[0].Key)
	assert.Equal(t, attribute.Key("package_kind"), attrs[1].Key)
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordQuoteCalculated(context.Background(), "member", "hourly", "ok")
		m.RecordBookingCreated(context.Background(), "member", "hourly")
		m.RecordRateLimitDenied(context.Background(), "quotes", "limited")
	})
}

func TestNewWithNoopProvider(t *testing.T) {
	m, err := New(Config{}, noop.NewMeterProvider())
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		m.RecordQuoteCalculated(context.Background(), "member", "hourly", "ok")
		m.RecordEstimate(context.Background(), "ok")
		m.RecordBookingCancelled(context.Background(), "non_member")
		m.RecordRateLimitAllowed(context.Background(), "quotes")
	})
}
