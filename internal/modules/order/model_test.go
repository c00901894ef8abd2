package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	allowed := []struct {
		from, to Status
	}{
		{StatusPending, StatusPaid},
		{StatusPaid, StatusFulfilled},
		{StatusPaid, StatusShipped},
		{StatusFulfilled, StatusShipped},
		{StatusShipped, StatusDelivered},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	forbidden := []struct {
		from, to Status
	}{
		{StatusPending, StatusDelivered},
		{StatusDelivered, StatusPaid},
		{StatusCancelled, StatusPaid},
		{StatusRefunded, StatusPending},
	}
	for _, tc := range forbidden {
		assert.False(t, tc.from.CanTransitionTo(tc.to), "%s -> %s should be rejected", tc.from, tc.to)
	}
}

func TestTerminalStatesReachableFromAnyLiveState(t *testing.T) {
	live := []Status{StatusPending, StatusPaid, StatusFulfilled, StatusShipped, StatusDelivered}
	for _, from := range live {
		assert.True(t, from.CanTransitionTo(StatusCancelled), "%s -> CANCELLED", from)
		assert.True(t, from.CanTransitionTo(StatusRefunded), "%s -> REFUNDED", from)
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, next := range []Status{StatusPending, StatusPaid, StatusShipped, StatusCancelled, StatusRefunded} {
		assert.False(t, StatusCancelled.CanTransitionTo(next), "CANCELLED -> %s", next)
		assert.False(t, StatusRefunded.CanTransitionTo(next), "REFUNDED -> %s", next)
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusRefunded.Valid())
	assert.False(t, Status("SHIPPED_BACK").Valid())
	assert.False(t, Status("").Valid())
}
