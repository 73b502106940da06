package delhivery

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vttayde/smart-ship-app-sub000/pkg/courier"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnCheckPincode   func(ctx context.Context, pincode string) (*PincodeResponse, error)
	OnGetCharges     func(ctx context.Context, req *ChargesRequest) (*ChargesResponse, error)
	OnCreatePackage  func(ctx context.Context, req *CreateRequest) (*CreateResponse, error)
	OnTrackPackage   func(ctx context.Context, waybill string) (*TrackResponse, error)
	OnCancelPackage  func(ctx context.Context, waybill string) (*CancelResponse, error)
	OnGetPackingSlip func(ctx context.Context, waybill string) (*SlipResponse, error)
	OnCreatePickup   func(ctx context.Context, req *PickupRequest) (*PickupResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

func (m *MockAPIClient) simulate() error {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}
	if m.SimulateErrors {
		return courier.NewProviderError(carrierName, "simulated API error").WithStatusCode(500)
	}
	return nil
}

// CheckPincode returns mock serviceability: every pincode is serviceable.
func (m *MockAPIClient) CheckPincode(ctx context.Context, pincode string) (*PincodeResponse, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	if m.OnCheckPincode != nil {
		return m.OnCheckPincode(ctx, pincode)
	}

	return &PincodeResponse{
		DeliveryCodes: []DeliveryCode{
			{PostalCode: PostalCode{
				Pin:     pincode,
				PrePaid: "Y",
				COD:     "Y",
				Pickup:  "Y",
			}},
		},
	}, nil
}

// GetCharges returns mock charges for surface and express.
func (m *MockAPIClient) GetCharges(ctx context.Context, req *ChargesRequest) (*ChargesResponse, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	if m.OnGetCharges != nil {
		return m.OnGetCharges(ctx, req)
	}

	kg := req.WeightGrams / 1000
	charges := []Charge{
		{
			ServiceCode:   "S",
			ServiceName:   "Surface",
			TotalAmount:   roundMock(47.20 + 18*maxZero(kg-0.5)),
			ChargedWeight: req.WeightGrams,
			TAT:           4,
			CODAvailable:  true,
		},
		{
			ServiceCode:   "E",
			ServiceName:   "Express",
			TotalAmount:   roundMock(94.40 + 30*maxZero(kg-0.5)),
			ChargedWeight: req.WeightGrams,
			TAT:           2,
			CODAvailable:  true,
		},
	}
	if req.ServiceCode != "" {
		filtered := charges[:0]
		for _, ch := range charges {
			if ch.ServiceCode == req.ServiceCode {
				filtered = append(filtered, ch)
			}
		}
		charges = filtered
	}
	return &ChargesResponse{Charges: charges}, nil
}

// CreatePackage manifests a mock package.
func (m *MockAPIClient) CreatePackage(ctx context.Context, req *CreateRequest) (*CreateResponse, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	if m.OnCreatePackage != nil {
		return m.OnCreatePackage(ctx, req)
	}

	packages := make([]Package, len(req.Shipments))
	for i, s := range req.Shipments {
		packages[i] = Package{
			Waybill:  fmt.Sprintf("%d", 1400000000000+time.Now().UnixNano()%100000000000),
			RefNum:   s.OrderID,
			Status:   "Success",
			SortCode: "BOM/NDL",
			Amount:   s.CODAmount,
		}
	}
	return &CreateResponse{Success: true, Packages: packages}, nil
}

// TrackPackage returns a mock scan history.
func (m *MockAPIClient) TrackPackage(ctx context.Context, waybill string) (*TrackResponse, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	if m.OnTrackPackage != nil {
		return m.OnTrackPackage(ctx, waybill)
	}

	now := time.Now()
	return &TrackResponse{
		ShipmentData: []ShipmentTrack{
			{Shipment: TrackedShipment{
				Waybill: waybill,
				Status: ScanStatus{
					Status:   "In Transit",
					Location: "Bhiwandi_Mega (Maharashtra)",
					DateTime: now.Add(-2 * time.Hour).Format(scanTimeLayout),
				},
				Scans: []Scan{
					{Detail: ScanDetail{
						Scan:         "Manifested",
						ScanDateTime: now.Add(-30 * time.Hour).Format(scanTimeLayout),
						Location:     "Mumbai_Andheri (Maharashtra)",
						Instructions: "Manifest uploaded",
					}},
					{Detail: ScanDetail{
						Scan:         "Picked Up",
						ScanDateTime: now.Add(-26 * time.Hour).Format(scanTimeLayout),
						Location:     "Mumbai_Andheri (Maharashtra)",
						Instructions: "Shipment picked up",
					}},
					{Detail: ScanDetail{
						Scan:         "In Transit",
						ScanDateTime: now.Add(-2 * time.Hour).Format(scanTimeLayout),
						Location:     "Bhiwandi_Mega (Maharashtra)",
						Instructions: "Shipment in transit",
					}},
				},
			}},
		},
	}, nil
}

// CancelPackage cancels a mock package.
func (m *MockAPIClient) CancelPackage(ctx context.Context, waybill string) (*CancelResponse, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	if m.OnCancelPackage != nil {
		return m.OnCancelPackage(ctx, waybill)
	}

	return &CancelResponse{Status: true, Waybill: waybill}, nil
}

// GetPackingSlip returns a mock label link.
func (m *MockAPIClient) GetPackingSlip(ctx context.Context, waybill string) (*SlipResponse, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	if m.OnGetPackingSlip != nil {
		return m.OnGetPackingSlip(ctx, waybill)
	}

	return &SlipResponse{
		Packages: []SlipPackage{
			{
				Waybill: waybill,
				PDFLink: fmt.Sprintf("https://track.delhivery.com/api/p/packing_slip/%s.pdf", waybill),
			},
		},
	}, nil
}

// CreatePickup books a mock pickup.
func (m *MockAPIClient) CreatePickup(ctx context.Context, req *PickupRequest) (*PickupResponse, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	if m.OnCreatePickup != nil {
		return m.OnCreatePickup(ctx, req)
	}

	return &PickupResponse{
		PickupID:   int(uuid.New().ID()),
		Success:    true,
		PickupDate: req.PickupDate,
	}, nil
}

func maxZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func roundMock(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

var _ APIClient = (*MockAPIClient)(nil)
