// Package courier provides the normalized integration surface for external
// courier providers and the orchestration manager that fans requests out
// across them.
package courier

import (
	"context"
	"time"
)

// Adapter is the capability contract every courier integration implements.
// Implementations own their credentials and HTTP client, are created once at
// manager initialization, and must be safe for concurrent use.
type Adapter interface {
	// Code returns the provider identifier (e.g. "delhivery", "xpressbees").
	Code() string

	// CanDeliver reports whether the provider serves a destination postal
	// code. A malformed postal code returns false without a network call.
	CanDeliver(ctx context.Context, postalCode string) (bool, error)

	// ServiceTypes returns the provider's service catalogue.
	ServiceTypes(ctx context.Context) ([]ServiceType, error)

	// Rates returns priced options for a shipment. Implementations apply the
	// volumetric-weight rule before calling the remote API.
	Rates(ctx context.Context, req *RateRequest) ([]RateQuote, error)

	// Book creates a shipment with the provider. It fails loudly when the
	// remote API reports failure; the internal order id in the request is
	// passed through for correlation.
	Book(ctx context.Context, req *BookRequest) (*Booking, error)

	// Track returns the shipment's tracking history, newest first.
	Track(ctx context.Context, trackingID string) ([]TrackingEvent, error)

	// Cancel cancels a shipment by provider order id.
	Cancel(ctx context.Context, providerOrderID string) (bool, error)

	// Label returns a URL for the shipping label.
	Label(ctx context.Context, providerOrderID string) (string, error)

	// SchedulePickup books a pickup for a shipment on the given date.
	SchedulePickup(ctx context.Context, providerOrderID string, date time.Time) (bool, error)
}

// OrderStore is the external persistence collaborator the manager writes
// booking results and tracking updates through. The manager never owns
// persistence itself.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrder(ctx context.Context, id string) (*Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status OrderStatus) error
	SetProviderRefs(ctx context.Context, id, providerOrderID, trackingID string) error
	UpsertTrackingEvent(ctx context.Context, orderID string, ev TrackingEvent) error
	ListTrackingEvents(ctx context.Context, orderID string) ([]TrackingEvent, error)
}
