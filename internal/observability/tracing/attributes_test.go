package tracing

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestSafeAttributesDropsContactDetails(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("customer_email", "pat@example.com"),
		attribute.String("venue.tier_code", "member"),
		attribute.String("venue.package_kind", ""),
		attribute.Int("http.status_code", 201),
	)

	require.Len(t, attrs, 2)
	assert.Equal(t, attribute.Key("venue.tier_code"), attrs[0].Key)
	assert.Equal(t, attribute.Key("http.status_code"), attrs[1].Key)
}

func TestSafeErrorKeepsFirstLine(t *testing.T) {
	assert.Nil(t, SafeError(nil))

	err := SafeError(errors.New("insert booking: constraint failed\nINSERT INTO bookings VALUES ('pat@example.com')"))
	assert.Equal(t, "insert booking: constraint failed", err.Error())

	long := SafeError(errors.New(strings.Repeat("x", 400)))
	assert.Len(t, long.Error(), 256)
}
