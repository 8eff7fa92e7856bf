// server/internal/booking/errors.go
package booking

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the booking rules. All of them are
// deterministic over the supplied inputs; the HTTP layer maps each one
// to a response status.
var (
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrCarUnavailable    = errors.New("car is not available for booking")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidStatus     = errors.New("invalid booking status")
)

// ConflictError reports existing reservations that overlap a requested
// date range. It carries the booking refs so the caller can report them.
type ConflictError struct {
	BookingRefs []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("car already booked for the requested dates (conflicts: %s)",
		strings.Join(e.BookingRefs, ", "))
}
