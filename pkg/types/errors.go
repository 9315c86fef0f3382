package types

import (
	"errors"
	"fmt"
)

// Field validation errors.
var (
	ErrInvalidPhoneFormat = errors.New("phone must be 12 digits in format XXXXXXXXXXXX")
	ErrInvalidBirthday    = errors.New("birthday must be a date in format DD-MM-YYYY")
)

// Record and address book errors.
var (
	ErrPhoneNotFound = errors.New("phone not found")
	ErrNameNotFound  = errors.New("name not found")
	ErrNoBirthdaySet = errors.New("no birthday set")
)

// ValidationError reports a raw value rejected by a field constructor.
// It unwraps to the sentinel describing the rule that failed.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
