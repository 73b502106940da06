package courier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vttayde/smart-ship-app-sub000/pkg/courier"
)

func TestOrderStatus_Lifecycle(t *testing.T) {
	assert.True(t, courier.OrderPending.CanTransition(courier.OrderConfirmed))
	assert.True(t, courier.OrderPending.CanTransition(courier.OrderFailed))
	assert.True(t, courier.OrderConfirmed.CanTransition(courier.OrderPickupScheduled))
	assert.True(t, courier.OrderConfirmed.CanTransition(courier.OrderInTransit))
	assert.True(t, courier.OrderInTransit.CanTransition(courier.OrderDelivered))
	assert.True(t, courier.OrderInTransit.CanTransition(courier.OrderReturned))

	// No skipping straight from pending into transit.
	assert.False(t, courier.OrderPending.CanTransition(courier.OrderInTransit))
}

func TestOrderStatus_CancelOnlyFromNonTerminal(t *testing.T) {
	for _, s := range []courier.OrderStatus{
		courier.OrderPending, courier.OrderConfirmed,
		courier.OrderPickupScheduled, courier.OrderInTransit,
	} {
		assert.True(t, s.CanTransition(courier.OrderCancelled), "from %s", s)
	}
	for _, s := range []courier.OrderStatus{
		courier.OrderDelivered, courier.OrderCancelled,
		courier.OrderReturned, courier.OrderFailed,
	} {
		assert.True(t, s.Terminal(), "%s is terminal", s)
		assert.False(t, s.CanTransition(courier.OrderCancelled), "from %s", s)
	}
}
