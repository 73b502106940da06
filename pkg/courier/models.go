package courier

import (
	"encoding/json"
	"time"

	"github.com/vttayde/smart-ship-app-sub000/pkg/pricing"
)

// Status is the canonical shipment status vocabulary. Provider status
// strings are mapped onto this set by each adapter.
type Status string

const (
	StatusPending        Status = "pending"
	StatusPickedUp       Status = "picked_up"
	StatusInTransit      Status = "in_transit"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusReturned       Status = "returned"
	StatusCancelled      Status = "cancelled"
)

// DefaultStatus is the canonical status assigned to provider statuses the
// mapping tables do not recognize. Unknown statuses are never dropped.
const DefaultStatus = StatusInTransit

// Address is a normalized pickup or delivery address.
type Address struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	Line1       string `json:"line1"`
	Line2       string `json:"line2,omitempty"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code,omitempty"`
}

// ShipmentDetails describes the parcel being quoted or booked.
type ShipmentDetails struct {
	ActualWeightKg float64             `json:"actual_weight_kg"`
	Dimensions     *pricing.Dimensions `json:"dimensions,omitempty"`
	DeclaredValue  float64             `json:"declared_value"`
	COD            bool                `json:"cod"`
	Description    string              `json:"description,omitempty"`
}

// BillableWeightKg applies the volumetric rule to the parcel.
func (d ShipmentDetails) BillableWeightKg() float64 {
	return pricing.BillableWeight(d.ActualWeightKg, d.Dimensions)
}

// ServiceType is one entry of a provider's service catalogue.
type ServiceType struct {
	Code        string              `json:"code"`
	Name        string              `json:"name"`
	Tier        pricing.ServiceTier `json:"tier"`
	MaxWeightKg float64             `json:"max_weight_kg"`
}

// RateRequest asks a provider for priced options.
type RateRequest struct {
	Pickup      Address
	Delivery    Address
	Shipment    ShipmentDetails
	ServiceCode string // optional: restrict to one provider service
}

// RateQuote is one priced option from one provider.
type RateQuote struct {
	Provider          string              `json:"provider"`
	ServiceCode       string              `json:"service_code"`
	ServiceName       string              `json:"service_name"`
	Tier              pricing.ServiceTier `json:"tier"`
	TotalPrice        float64             `json:"total_price"`
	Currency          string              `json:"currency"`
	BillableWeightKg  float64             `json:"billable_weight_kg"`
	TransitDays       int                 `json:"transit_days"`
	EstimatedDelivery *time.Time          `json:"estimated_delivery,omitempty"`
	CODAvailable      bool                `json:"cod_available"`
}

// BookRequest creates a shipment with one provider. OrderID is the internal
// order id, passed through so the provider response can be correlated back.
type BookRequest struct {
	OrderID     string
	Pickup      Address
	Delivery    Address
	Shipment    ShipmentDetails
	ServiceCode string
	PickupDate  *time.Time // when set, a pickup is scheduled after booking
}

// Booking is the normalized result of a successful provider book call. Raw
// holds the provider payload opaquely for audit and debugging only; it never
// feeds back into canonical fields.
type Booking struct {
	Provider          string          `json:"provider"`
	OrderID           string          `json:"order_id"`
	ProviderOrderID   string          `json:"provider_order_id"`
	TrackingID        string          `json:"tracking_id"`
	LabelURL          string          `json:"label_url,omitempty"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery,omitempty"`
	TotalAmount       float64         `json:"total_amount"`
	Currency          string          `json:"currency"`
	Raw               json.RawMessage `json:"-"`
}

// TrackingEvent is one normalized tracking history entry.
type TrackingEvent struct {
	Status      Status    `json:"status"`
	RawStatus   string    `json:"raw_status"`
	Location    string    `json:"location,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description,omitempty"`
}
