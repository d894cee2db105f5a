package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusHappyPath(t *testing.T) {
	o := &Order{Status: OrderStatusPending}

	require.NoError(t, o.TransitionTo(OrderStatusProcessing))
	require.NoError(t, o.TransitionTo(OrderStatusShipped))
	require.NoError(t, o.TransitionTo(OrderStatusDelivered))
	assert.True(t, o.IsTerminal())
}

func TestStatusNoSkipping(t *testing.T) {
	o := &Order{Status: OrderStatusPending}
	assert.ErrorIs(t, o.TransitionTo(OrderStatusShipped), ErrInvalidTransition)
	assert.ErrorIs(t, o.TransitionTo(OrderStatusDelivered), ErrInvalidTransition)
	assert.Equal(t, OrderStatusPending, o.Status)
}

func TestCancellableFromAnyPreTerminalState(t *testing.T) {
	for _, from := range []OrderStatus{OrderStatusPending, OrderStatusProcessing, OrderStatusShipped} {
		o := &Order{Status: from}
		assert.NoError(t, o.TransitionTo(OrderStatusCancelled), "from %s", from)
	}
}

func TestTerminalStatesAreFinal(t *testing.T) {
	for _, from := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled} {
		o := &Order{Status: from}
		for _, to := range []OrderStatus{OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled} {
			assert.False(t, o.CanTransitionTo(to), "%s -> %s should be rejected", from, to)
		}
	}
}
