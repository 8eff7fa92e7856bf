package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionForwardChain(t *testing.T) {
	assert.NoError(t, CanTransition(StatusPending, StatusConfirmed))
	assert.NoError(t, CanTransition(StatusConfirmed, StatusActive))
	assert.NoError(t, CanTransition(StatusActive, StatusCompleted))
}

func TestCanTransitionCancellation(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusConfirmed, StatusActive} {
		assert.NoError(t, CanTransition(from, StatusCancelled), "cancel from %s", from)
	}
}

func TestCanTransitionTerminalStatesAreFinal(t *testing.T) {
	targets := []Status{StatusPending, StatusConfirmed, StatusActive, StatusCompleted, StatusCancelled}
	for _, from := range []Status{StatusCompleted, StatusCancelled} {
		for _, to := range targets {
			err := CanTransition(from, to)
			assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionNoSkippingAhead(t *testing.T) {
	assert.ErrorIs(t, CanTransition(StatusPending, StatusActive), ErrInvalidTransition)
	assert.ErrorIs(t, CanTransition(StatusPending, StatusCompleted), ErrInvalidTransition)
	assert.ErrorIs(t, CanTransition(StatusConfirmed, StatusCompleted), ErrInvalidTransition)
	assert.ErrorIs(t, CanTransition(StatusActive, StatusConfirmed), ErrInvalidTransition)
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	assert.ErrorIs(t, CanTransition(Status("archived"), StatusCancelled), ErrInvalidStatus)
	assert.ErrorIs(t, CanTransition(StatusPending, Status("frozen")), ErrInvalidStatus)
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("confirmed")
	assert.NoError(t, err)
	assert.Equal(t, StatusConfirmed, st)

	_, err = ParseStatus("CONFIRMED")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestAllowsPaymentUpdate(t *testing.T) {
	assert.True(t, StatusPending.AllowsPaymentUpdate())
	assert.True(t, StatusConfirmed.AllowsPaymentUpdate())
	assert.True(t, StatusActive.AllowsPaymentUpdate())

	// A cancelled booking's refund must not be flipped back to paid, and a
	// completed booking's settled payment stays settled.
	assert.False(t, StatusCancelled.AllowsPaymentUpdate())
	assert.False(t, StatusCompleted.AllowsPaymentUpdate())
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusActive.IsTerminal())
}
