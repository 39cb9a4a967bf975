package engine

import (
	"testing"

	"github.com/smallbiznis/venuebook/internal/quote/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate(t *testing.T) {
	calc := NewCalculator(domain.DefaultPolicy())

	got, err := calc.Estimate(dec("6"), 120)
	require.NoError(t, err)

	assert.True(t, got.LowerBound)
	assert.Equal(t, 2, got.RequiredStaff)
	// member: 600 + 2*50 + 200 + 2*35*2
	assertMoney(t, "1040", got.MemberEstimate)
	// non-member: 800 + 2*100 + 200 + 2*35*2
	assertMoney(t, "1340", got.NonMemberEstimate)
}

func TestEstimate_WithinBaseHours(t *testing.T) {
	got, err := NewCalculator(domain.DefaultPolicy()).Estimate(dec("3"), 40)
	require.NoError(t, err)

	assertMoney(t, "800", got.MemberEstimate)
	assertMoney(t, "1000", got.NonMemberEstimate)
}

func TestEstimate_UsesPolicyPresets(t *testing.T) {
	policy := domain.DefaultPolicy()
	policy.Estimator.Member.HallBaseRate = dec("650")
	policy.Estimator.SupportBase = dec("0")

	got, err := NewCalculator(policy).Estimate(dec("4"), 10)
	require.NoError(t, err)

	assertMoney(t, "650", got.MemberEstimate)
	assertMoney(t, "800", got.NonMemberEstimate)
}

func TestEstimate_InvalidDuration(t *testing.T) {
	_, err := NewCalculator(domain.DefaultPolicy()).Estimate(dec("0"), 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
