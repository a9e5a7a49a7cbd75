package booking

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an appointment id resolves to nothing.
var ErrNotFound = errors.New("appointment not found")

// ConflictError reports that the requested slot was taken between selection
// and commit. FreeTimes carries the refreshed availability for the same date
// so the caller can re-prompt without another round trip.
type ConflictError struct {
	Date      string
	Time      string
	FreeTimes []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot %s %s is no longer available", e.Date, e.Time)
}

// ValidationError reports an invalid or incomplete booking request. These are
// caller errors, never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
