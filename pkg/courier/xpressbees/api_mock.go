package xpressbees

import (
	"context"
	"fmt"
	"time"

	"github.com/vttayde/smart-ship-app-sub000/pkg/courier"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnCheckServiceability func(ctx context.Context, originPin, destPin string) (*ServiceabilityResponse, error)
	OnFetchCouriers       func(ctx context.Context, req *CourierRequest) (*CourierResponse, error)
	OnCreateShipment      func(ctx context.Context, req *ShipmentRequest) (*ShipmentResponse, error)
	OnTrackShipment       func(ctx context.Context, awb string) (*TrackResponse, error)
	OnCancelShipment      func(ctx context.Context, awb string) (*CancelResponse, error)
	OnSchedulePickup      func(ctx context.Context, req *PickupRequest) (*PickupResponse, error)
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

// CheckServiceability reports every lane as serviceable.
func (m *MockAPIClient) CheckServiceability(ctx context.Context, originPin, destPin string) (*ServiceabilityResponse, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	if m.OnCheckServiceability != nil {
		return m.OnCheckServiceability(ctx, originPin, destPin)
	}
	return &ServiceabilityResponse{Status: true}, nil
}

// FetchCouriers returns mock surface and air options.
func (m *MockAPIClient) FetchCouriers(ctx context.Context, req *CourierRequest) (*CourierResponse, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	if m.OnFetchCouriers != nil {
		return m.OnFetchCouriers(ctx, req)
	}

	kg := req.WeightGrams / 1000
	edd := time.Now().AddDate(0, 0, 5).Format("2006-01-02")
	return &CourierResponse{
		Status: true,
		Data: []CourierOption{
			{
				ID:            "1",
				Name:          "Xpressbees Surface",
				FreightCharge: 40 + 12*kg,
				TotalCharge:   40 + 12*kg,
				ChargedKg:     kg,
				EDD:           edd,
			},
			{
				ID:            "2",
				Name:          "Xpressbees Air",
				FreightCharge: 90 + 24*kg,
				TotalCharge:   90 + 24*kg,
				ChargedKg:     kg,
				EDD:           time.Now().AddDate(0, 0, 2).Format("2006-01-02"),
			},
		},
	}, nil
}

// CreateShipment books a mock shipment.
func (m *MockAPIClient) CreateShipment(ctx context.Context, req *ShipmentRequest) (*ShipmentResponse, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	if m.OnCreateShipment != nil {
		return m.OnCreateShipment(ctx, req)
	}

	awb := fmt.Sprintf("XB%012d", time.Now().UnixNano()%1_000_000_000_000)
	return &ShipmentResponse{
		Status: true,
		Data: ShipmentData{
			OrderID:    req.OrderNumber,
			ShipmentID: "xb-ship-" + req.OrderNumber,
			AWB:        awb,
			CourierID:  req.CourierID,
			Label:      fmt.Sprintf("https://shipment.xpressbees.com/label/%s.pdf", awb),
			Charges:    96,
		},
	}, nil
}

// TrackShipment returns a mock history.
func (m *MockAPIClient) TrackShipment(ctx context.Context, awb string) (*TrackResponse, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	if m.OnTrackShipment != nil {
		return m.OnTrackShipment(ctx, awb)
	}

	now := time.Now()
	return &TrackResponse{
		Status: true,
		Data: TrackData{
			AWB:    awb,
			Status: "IT",
			History: []TrackScan{
				{StatusCode: "PUD", Status: "Picked", Location: "Mumbai", EventTime: now.Add(-28 * time.Hour).Format(eventTimeLayout)},
				{StatusCode: "IT", Status: "In Transit", Location: "Bhiwandi", EventTime: now.Add(-3 * time.Hour).Format(eventTimeLayout)},
			},
		},
	}, nil
}

// CancelShipment cancels a mock shipment.
func (m *MockAPIClient) CancelShipment(ctx context.Context, awb string) (*CancelResponse, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	if m.OnCancelShipment != nil {
		return m.OnCancelShipment(ctx, awb)
	}
	return &CancelResponse{Status: true}, nil
}

// SchedulePickup schedules a mock pickup.
func (m *MockAPIClient) SchedulePickup(ctx context.Context, req *PickupRequest) (*PickupResponse, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	if m.OnSchedulePickup != nil {
		return m.OnSchedulePickup(ctx, req)
	}
	return &PickupResponse{Status: true}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
