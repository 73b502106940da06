package delhivery

import (
	"context"
)

// APIClient defines the interface for Delhivery API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// CheckPincode checks serviceability for a destination pincode
	CheckPincode(ctx context.Context, pincode string) (*PincodeResponse, error)

	// GetCharges fetches shipping charges for a lane and weight
	GetCharges(ctx context.Context, req *ChargesRequest) (*ChargesResponse, error)

	// CreatePackage manifests a new package (waybill + pickup registration)
	CreatePackage(ctx context.Context, req *CreateRequest) (*CreateResponse, error)

	// TrackPackage retrieves the scan history for a waybill
	TrackPackage(ctx context.Context, waybill string) (*TrackResponse, error)

	// CancelPackage cancels a manifested package
	CancelPackage(ctx context.Context, waybill string) (*CancelResponse, error)

	// GetPackingSlip retrieves the shipping label URL for a waybill
	GetPackingSlip(ctx context.Context, waybill string) (*SlipResponse, error)

	// CreatePickup books a pickup request at the origin warehouse
	CreatePickup(ctx context.Context, req *PickupRequest) (*PickupResponse, error)
}

// ============================================================================
// API Request/Response Types (match Delhivery REST/JSON API structure)
// ============================================================================

// PincodeResponse represents the pincode serviceability response.
type PincodeResponse struct {
	DeliveryCodes []DeliveryCode `json:"delivery_codes"`
}

// DeliveryCode is one serviceable pincode entry.
type DeliveryCode struct {
	PostalCode PostalCode `json:"postal_code"`
}

// PostalCode carries the serviceability flags for one pincode.
type PostalCode struct {
	Pin         string  `json:"pin"`
	City        string  `json:"city"`
	StateCode   string  `json:"state_code"`
	PrePaid     string  `json:"pre_paid"` // "Y"/"N"
	COD         string  `json:"cod"`
	Pickup      string  `json:"pickup"`
	Remarks     string  `json:"remarks"`
	MaxWeightKg float64 `json:"max_weight"`
	EmbargoDays int     `json:"embargo_days"`
}

// ChargesRequest represents a shipping charge query.
type ChargesRequest struct {
	OriginPin      string  `json:"o_pin"`
	DestinationPin string  `json:"d_pin"`
	WeightGrams    float64 `json:"cgm"` // chargeable weight in grams
	PaymentMode    string  `json:"pt"`  // "Pre-paid" or "COD"
	DeclaredValue  float64 `json:"cod_amount,omitempty"`
	ServiceCode    string  `json:"ss,omitempty"` // restricts to one service
}

// ChargesResponse represents the charge query response.
type ChargesResponse struct {
	Charges []Charge `json:"charges"`
}

// Charge is one priced service option.
type Charge struct {
	ServiceCode   string  `json:"service_type"`
	ServiceName   string  `json:"service_name"`
	TotalAmount   float64 `json:"total_amount"`
	ChargedWeight float64 `json:"charged_weight"` // grams
	TAT           int     `json:"tat"`            // transit days
	CODAvailable  bool    `json:"cod_available"`
}

// CreateRequest represents a package manifest request.
type CreateRequest struct {
	PickupLocation PickupLocation `json:"pickup_location"`
	Shipments      []Shipment     `json:"shipments"`
}

// PickupLocation identifies the registered origin warehouse.
type PickupLocation struct {
	Name    string `json:"name"`
	Address string `json:"add"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pin     string `json:"pin"`
	Phone   string `json:"phone"`
}

// Shipment is one package in a manifest request.
type Shipment struct {
	OrderID       string  `json:"order"`
	Name          string  `json:"name"`
	Address       string  `json:"add"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	Pin           string  `json:"pin"`
	Phone         string  `json:"phone"`
	PaymentMode   string  `json:"payment_mode"` // "Prepaid" or "COD"
	CODAmount     float64 `json:"cod_amount,omitempty"`
	WeightGrams   float64 `json:"weight"`
	ServiceCode   string  `json:"shipment_mode"`
	ProductDesc   string  `json:"products_desc,omitempty"`
	DeclaredValue float64 `json:"total_amount"`
}

// CreateResponse represents the manifest response.
type CreateResponse struct {
	Success  bool      `json:"success"`
	Packages []Package `json:"packages"`
	Remarks  []string  `json:"rmk,omitempty"`
}

// Package is one manifested package result.
type Package struct {
	Waybill  string  `json:"waybill"`
	RefNum   string  `json:"refnum"` // echoes the order id
	Status   string  `json:"status"`
	SortCode string  `json:"sort_code"`
	Amount   float64 `json:"cod_amount"`
	Remarks  string  `json:"remarks,omitempty"`
}

// TrackResponse represents the waybill scan history.
type TrackResponse struct {
	ShipmentData []ShipmentTrack `json:"ShipmentData"`
}

// ShipmentTrack wraps one waybill's tracking payload.
type ShipmentTrack struct {
	Shipment TrackedShipment `json:"Shipment"`
}

// TrackedShipment carries the status and scan list for a waybill.
type TrackedShipment struct {
	Waybill       string     `json:"AWB"`
	Status        ScanStatus `json:"Status"`
	Scans         []Scan     `json:"Scans"`
	ExpectedDate  string     `json:"ExpectedDeliveryDate"`
	PickupDate    string     `json:"PickUpDate"`
	DeliveredDate string     `json:"DeliveryDate"`
	Destination   string     `json:"Destination"`
}

// ScanStatus is the current status block of a tracked shipment.
type ScanStatus struct {
	Status       string `json:"Status"`
	StatusCode   string `json:"StatusCode"`
	Location     string `json:"StatusLocation"`
	DateTime     string `json:"StatusDateTime"`
	Instructions string `json:"Instructions"`
}

// Scan is one entry in the scan history.
type Scan struct {
	Detail ScanDetail `json:"ScanDetail"`
}

// ScanDetail carries one scan's fields.
type ScanDetail struct {
	Scan         string `json:"Scan"`
	ScanCode     string `json:"StatusCode"`
	ScanDateTime string `json:"ScanDateTime"`
	Location     string `json:"ScannedLocation"`
	Instructions string `json:"Instructions"`
}

// CancelResponse represents the package cancellation response.
type CancelResponse struct {
	Status  bool   `json:"status"`
	Waybill string `json:"waybill"`
	Remark  string `json:"remark,omitempty"`
}

// SlipResponse represents the packing slip (label) response.
type SlipResponse struct {
	Packages []SlipPackage `json:"packages"`
}

// SlipPackage carries one waybill's label link.
type SlipPackage struct {
	Waybill string `json:"wbn"`
	PDFLink string `json:"pdf_download_link"`
}

// PickupRequest books a pickup at the origin warehouse.
type PickupRequest struct {
	PickupLocation string `json:"pickup_location"`
	PickupDate     string `json:"pickup_date"` // YYYY-MM-DD
	PickupTime     string `json:"pickup_time"`
	ExpectedCount  int    `json:"expected_package_count"`
}

// PickupResponse represents the pickup booking response.
type PickupResponse struct {
	PickupID   int    `json:"pickup_id"`
	Success    bool   `json:"success"`
	PickupDate string `json:"pickup_date"`
}
