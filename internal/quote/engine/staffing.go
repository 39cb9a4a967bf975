package engine

import (
	"errors"
	"fmt"

	"github.com/smallbiznis/venuebook/internal/quote/domain"
)

var (
	ErrEmptyBrackets      = errors.New("staffing brackets cannot be empty")
	ErrBracketStart       = errors.New("first staffing bracket must start at 1")
	ErrBracketGap         = errors.New("staffing brackets must be contiguous")
	ErrBracketRange       = errors.New("staffing bracket max must not be below min")
	ErrBracketOpenEnded   = errors.New("only the last staffing bracket may be open-ended")
	ErrBracketNotOpen     = errors.New("last staffing bracket must be open-ended")
	ErrBracketStaff       = errors.New("staffing bracket headcount must be positive")
	ErrBracketNotMonotone = errors.New("staffing headcount must not decrease")
)

// ValidateBrackets checks that brackets partition 1..∞ in ascending order
// with non-decreasing headcounts. Zero attendees is handled outside the
// table.
func ValidateBrackets(brackets []domain.StaffingBracket) error {
	if len(brackets) == 0 {
		return ErrEmptyBrackets
	}
	if brackets[0].MinAttendees != 1 {
		return ErrBracketStart
	}

	prevStaff := 0
	for i, b := range brackets {
		last := i == len(brackets)-1
		if b.RequiredStaff <= 0 {
			return fmt.Errorf("bracket %d: %w", i, ErrBracketStaff)
		}
		if b.RequiredStaff < prevStaff {
			return fmt.Errorf("bracket %d: %w", i, ErrBracketNotMonotone)
		}
		prevStaff = b.RequiredStaff

		if b.MaxAttendees == nil {
			if !last {
				return fmt.Errorf("bracket %d: %w", i, ErrBracketOpenEnded)
			}
			continue
		}
		if last {
			return ErrBracketNotOpen
		}
		if *b.MaxAttendees < b.MinAttendees {
			return fmt.Errorf("bracket %d: %w", i, ErrBracketRange)
		}
		if brackets[i+1].MinAttendees != *b.MaxAttendees+1 {
			return fmt.Errorf("bracket %d: %w", i+1, ErrBracketGap)
		}
	}
	return nil
}

// RequiredStaff returns the headcount for attendees. It returns 0 for an
// empty event and scans brackets in order otherwise.
func RequiredStaff(brackets []domain.StaffingBracket, attendees int) int {
	if attendees <= 0 {
		return 0
	}
	for _, b := range brackets {
		if b.Contains(attendees) {
			return b.RequiredStaff
		}
	}
	if n := len(brackets); n > 0 {
		return brackets[n-1].RequiredStaff
	}
	return 0
}
