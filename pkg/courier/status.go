package courier

import "time"

// OrderStatus is the lifecycle state of a booking as tracked through the
// order store.
type OrderStatus string

const (
	OrderPending         OrderStatus = "pending"
	OrderConfirmed       OrderStatus = "confirmed"
	OrderPickupScheduled OrderStatus = "pickup_scheduled"
	OrderInTransit       OrderStatus = "in_transit"
	OrderDelivered       OrderStatus = "delivered"
	OrderCancelled       OrderStatus = "cancelled"
	OrderReturned        OrderStatus = "returned"
	OrderFailed          OrderStatus = "failed"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:         {OrderConfirmed, OrderCancelled, OrderFailed},
	OrderConfirmed:       {OrderPickupScheduled, OrderInTransit, OrderCancelled},
	OrderPickupScheduled: {OrderInTransit, OrderCancelled},
	OrderInTransit:       {OrderDelivered, OrderReturned, OrderCancelled},
}

// Terminal reports whether no further transitions are allowed.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderDelivered, OrderCancelled, OrderReturned, OrderFailed:
		return true
	}
	return false
}

// CanTransition reports whether moving to the target state is valid.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// orderStatusFor maps a canonical tracking status onto the order lifecycle.
func orderStatusFor(status Status) (OrderStatus, bool) {
	switch status {
	case StatusPickedUp, StatusInTransit, StatusOutForDelivery:
		return OrderInTransit, true
	case StatusDelivered:
		return OrderDelivered, true
	case StatusReturned:
		return OrderReturned, true
	case StatusCancelled:
		return OrderCancelled, true
	}
	return "", false
}

// Order is the booking record persisted through the OrderStore.
type Order struct {
	ID              string      `json:"id"`
	Provider        string      `json:"provider"`
	Status          OrderStatus `json:"status"`
	ServiceCode     string      `json:"service_code"`
	ProviderOrderID string      `json:"provider_order_id,omitempty"`
	TrackingID      string      `json:"tracking_id,omitempty"`
	Amount          float64     `json:"amount"`
	Currency        string      `json:"currency"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
