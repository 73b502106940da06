package xpressbees

import (
	"context"
)

// APIClient defines the interface for Xpressbees API operations.
type APIClient interface {
	// CheckServiceability checks whether a pincode lane is serviceable
	CheckServiceability(ctx context.Context, originPin, destPin string) (*ServiceabilityResponse, error)

	// FetchCouriers fetches available services with pricing for a shipment
	FetchCouriers(ctx context.Context, req *CourierRequest) (*CourierResponse, error)

	// CreateShipment books a shipment and returns the AWB
	CreateShipment(ctx context.Context, req *ShipmentRequest) (*ShipmentResponse, error)

	// TrackShipment retrieves tracking history for an AWB
	TrackShipment(ctx context.Context, awb string) (*TrackResponse, error)

	// CancelShipment cancels a booked shipment
	CancelShipment(ctx context.Context, awb string) (*CancelResponse, error)

	// SchedulePickup requests a pickup for a booked shipment
	SchedulePickup(ctx context.Context, req *PickupRequest) (*PickupResponse, error)
}

// ============================================================================
// API Request/Response Types (match Xpressbees REST/JSON API structure)
// ============================================================================

// ServiceabilityResponse reports whether the lane is serviceable.
type ServiceabilityResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
}

// CourierRequest asks for available services with pricing.
type CourierRequest struct {
	OriginPin      string  `json:"origin"`
	DestinationPin string  `json:"destination"`
	WeightGrams    float64 `json:"weight"`
	LengthCm       float64 `json:"length,omitempty"`
	WidthCm        float64 `json:"breadth,omitempty"`
	HeightCm       float64 `json:"height,omitempty"`
	PaymentType    string  `json:"payment_type"` // "prepaid" or "cod"
	OrderAmount    float64 `json:"order_amount,omitempty"`
}

// CourierResponse lists the available service options.
type CourierResponse struct {
	Status bool            `json:"status"`
	Data   []CourierOption `json:"data"`
}

// CourierOption is one priced service.
type CourierOption struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	FreightCharge float64 `json:"freight_charges"`
	CODCharge     float64 `json:"cod_charges"`
	TotalCharge   float64 `json:"total_charges"`
	MinWeightKg   float64 `json:"min_weight"`
	ChargedKg     float64 `json:"chargeable_weight"`
	EDD           string  `json:"edd"` // estimated delivery, "YYYY-MM-DD"
}

// ShipmentRequest books a shipment.
type ShipmentRequest struct {
	OrderNumber    string       `json:"order_number"`
	PaymentType    string       `json:"payment_type"`
	OrderAmount    float64      `json:"order_amount"`
	CollectableAmt float64      `json:"collectable_amount,omitempty"`
	WeightGrams    float64      `json:"weight"`
	CourierID      string       `json:"courier_id"`
	Consignee      PartyAddress `json:"consignee"`
	Pickup         PartyAddress `json:"pickup"`
	Items          []OrderItem  `json:"order_items,omitempty"`
}

// PartyAddress is a consignee or pickup address.
type PartyAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Phone   string `json:"phone"`
}

// OrderItem is one line in the booked order.
type OrderItem struct {
	Name  string  `json:"name"`
	Qty   int     `json:"qty"`
	Price float64 `json:"price"`
}

// ShipmentResponse is the booking result.
type ShipmentResponse struct {
	Status  bool         `json:"status"`
	Data    ShipmentData `json:"data"`
	Message string       `json:"message,omitempty"`
}

// ShipmentData carries the booked shipment identifiers.
type ShipmentData struct {
	OrderID    string  `json:"order_id"`
	ShipmentID string  `json:"shipment_id"`
	AWB        string  `json:"awb_number"`
	CourierID  string  `json:"courier_id"`
	Label      string  `json:"label"` // label PDF URL
	Charges    float64 `json:"shipping_charges"`
}

// TrackResponse is the tracking history for an AWB.
type TrackResponse struct {
	Status bool      `json:"status"`
	Data   TrackData `json:"data"`
}

// TrackData carries the current status and history.
type TrackData struct {
	AWB     string      `json:"awb_number"`
	Status  string      `json:"status"`
	History []TrackScan `json:"history"`
}

// TrackScan is one tracking history entry.
type TrackScan struct {
	StatusCode string `json:"status_code"`
	Status     string `json:"status"`
	Location   string `json:"location"`
	EventTime  string `json:"event_time"` // "YYYY-MM-DD HH:MM:SS"
	Remark     string `json:"message,omitempty"`
}

// CancelResponse is the cancellation result.
type CancelResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
}

// PickupRequest schedules a pickup for a booked shipment.
type PickupRequest struct {
	AWB        string `json:"awb_number"`
	PickupDate string `json:"pickup_date"` // "YYYY-MM-DD"
}

// PickupResponse is the pickup scheduling result.
type PickupResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
}
