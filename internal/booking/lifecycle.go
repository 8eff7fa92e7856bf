// server/internal/booking/lifecycle.go
package booking

import "fmt"

// Status is a booking lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// transitions is the whole state machine: the forward chain
// pending -> confirmed -> active -> completed, plus cancellation from any
// non-terminal state. completed and cancelled have no outgoing edges.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusActive, StatusCancelled},
	StatusActive:    {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// ParseStatus validates a raw status string from the storage or HTTP boundary.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := transitions[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// IsTerminal reports whether no further transitions are permitted.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// AllowsPaymentUpdate reports whether the payment status may still be
// edited. Terminal bookings keep the outcome fixed by the completion or
// cancellation flow; a cancelled booking's refund must not be flipped back
// to paid.
func (s Status) AllowsPaymentUpdate() bool {
	return !s.IsTerminal()
}

// CanTransition returns nil when moving from one status to another is
// permitted, ErrInvalidStatus when either value is outside the enumerated
// set, and ErrInvalidTransition otherwise. Callers must not mutate stored
// state when an error is returned.
func CanTransition(from, to Status) error {
	next, ok := transitions[from]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, from)
	}
	if _, ok := transitions[to]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	for _, s := range next {
		if s == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
