package engine

import (
	"testing"

	"github.com/smallbiznis/venuebook/internal/quote/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestRequiredStaff_Boundaries(t *testing.T) {
	brackets := domain.CanonicalBrackets()
	cases := map[int]int{
		0:    0,
		1:    1,
		50:   1,
		51:   2,
		150:  2,
		151:  3,
		250:  3,
		251:  4,
		350:  4,
		351:  5,
		450:  5,
		451:  6,
		5000: 6,
	}
	for attendees, want := range cases {
		assert.Equal(t, want, RequiredStaff(brackets, attendees), "attendees=%d", attendees)
	}
}

func TestRequiredStaff_ExhaustiveAndMonotone(t *testing.T) {
	brackets := domain.CanonicalBrackets()
	require.NoError(t, ValidateBrackets(brackets))

	prev := 0
	for attendees := 0; attendees <= 5000; attendees++ {
		matches := 0
		for _, b := range brackets {
			if b.Contains(attendees) {
				matches++
			}
		}
		if attendees == 0 {
			require.Equal(t, 0, matches)
		} else {
			require.Equal(t, 1, matches, "attendees=%d", attendees)
		}

		staff := RequiredStaff(brackets, attendees)
		require.GreaterOrEqual(t, staff, prev, "attendees=%d", attendees)
		prev = staff
	}
}

func TestValidateBrackets(t *testing.T) {
	cases := []struct {
		name     string
		brackets []domain.StaffingBracket
		want     error
	}{
		{"empty", nil, ErrEmptyBrackets},
		{"starts above one", []domain.StaffingBracket{
			{MinAttendees: 2, RequiredStaff: 1},
		}, ErrBracketStart},
		{"gap", []domain.StaffingBracket{
			{MinAttendees: 1, MaxAttendees: intPtr(50), RequiredStaff: 1},
			{MinAttendees: 52, RequiredStaff: 2},
		}, ErrBracketGap},
		{"overlap", []domain.StaffingBracket{
			{MinAttendees: 1, MaxAttendees: intPtr(50), RequiredStaff: 1},
			{MinAttendees: 50, RequiredStaff: 2},
		}, ErrBracketGap},
		{"closed last", []domain.StaffingBracket{
			{MinAttendees: 1, MaxAttendees: intPtr(50), RequiredStaff: 1},
		}, ErrBracketNotOpen},
		{"open middle", []domain.StaffingBracket{
			{MinAttendees: 1, RequiredStaff: 1},
			{MinAttendees: 51, RequiredStaff: 2},
		}, ErrBracketOpenEnded},
		{"inverted range", []domain.StaffingBracket{
			{MinAttendees: 1, MaxAttendees: intPtr(0), RequiredStaff: 1},
			{MinAttendees: 1, RequiredStaff: 2},
		}, ErrBracketRange},
		{"decreasing staff", []domain.StaffingBracket{
			{MinAttendees: 1, MaxAttendees: intPtr(50), RequiredStaff: 2},
			{MinAttendees: 51, RequiredStaff: 1},
		}, ErrBracketNotMonotone},
		{"zero staff", []domain.StaffingBracket{
			{MinAttendees: 1, RequiredStaff: 0},
		}, ErrBracketStaff},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateBrackets(tc.brackets), tc.want)
		})
	}
}

func TestRequiredStaff_CustomTable(t *testing.T) {
	brackets := []domain.StaffingBracket{
		{MinAttendees: 1, MaxAttendees: intPtr(100), RequiredStaff: 2},
		{MinAttendees: 101, RequiredStaff: 4},
	}
	require.NoError(t, ValidateBrackets(brackets))

	assert.Equal(t, 2, RequiredStaff(brackets, 100))
	assert.Equal(t, 4, RequiredStaff(brackets, 101))
}
