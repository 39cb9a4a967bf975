package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the only error kind the calculator raises.
var ErrInvalidInput = errors.New("invalid_quote_input")

var (
	ErrInvalidTier       = errors.New("invalid_tier")
	ErrInvalidEquipment  = errors.New("invalid_equipment")
	ErrInvalidService    = errors.New("invalid_service")
	ErrInvalidPackage    = errors.New("invalid_package")
	ErrFlatRateNotFound  = errors.New("flat_rate_not_found")
	ErrInvalidGuestCount = errors.New("invalid_guest_count")
)

// InvalidInputError names the offending field. It matches ErrInvalidInput
// under errors.Is.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid quote input: %s %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func NewInvalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}
