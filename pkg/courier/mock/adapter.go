// Package mock provides a configurable courier adapter for testing.
package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/vttayde/smart-ship-app-sub000/pkg/courier"
	"github.com/vttayde/smart-ship-app-sub000/pkg/pricing"
)

// Adapter is a mock courier for tests. Zero-value behavior returns plausible
// canned data; the On* hooks and Err override it per call.
type Adapter struct {
	CodeName string

	// Err, when set, is returned by every operation.
	Err error

	// Deliverable, when set, gates CanDeliver; default is true for any
	// six-digit postal code.
	Deliverable *bool

	OnRates func(ctx context.Context, req *courier.RateRequest) ([]courier.RateQuote, error)
	OnBook  func(ctx context.Context, req *courier.BookRequest) (*courier.Booking, error)
	OnTrack func(ctx context.Context, trackingID string) ([]courier.TrackingEvent, error)
}

// New creates a mock adapter with the given provider code.
func New(code string) *Adapter {
	return &Adapter{CodeName: code}
}

// Code returns the provider code.
func (a *Adapter) Code() string {
	return a.CodeName
}

// CanDeliver accepts any six-digit postal code by default.
func (a *Adapter) CanDeliver(ctx context.Context, postalCode string) (bool, error) {
	if a.Err != nil {
		return false, a.Err
	}
	if a.Deliverable != nil {
		return *a.Deliverable, nil
	}
	if len(postalCode) != 6 {
		return false, nil
	}
	for _, r := range postalCode {
		if r < '0' || r > '9' {
			return false, nil
		}
	}
	return true, nil
}

// ServiceTypes returns a standard/express pair.
func (a *Adapter) ServiceTypes(ctx context.Context) ([]courier.ServiceType, error) {
	if a.Err != nil {
		return nil, a.Err
	}
	return []courier.ServiceType{
		{Code: "STD", Name: a.CodeName + " Surface", Tier: pricing.ServiceStandard, MaxWeightKg: 50},
		{Code: "EXP", Name: a.CodeName + " Air", Tier: pricing.ServiceExpress, MaxWeightKg: 25},
	}, nil
}

// Rates returns two canned quotes unless overridden.
func (a *Adapter) Rates(ctx context.Context, req *courier.RateRequest) ([]courier.RateQuote, error) {
	if a.Err != nil {
		return nil, a.Err
	}
	if a.OnRates != nil {
		return a.OnRates(ctx, req)
	}
	billable := req.Shipment.BillableWeightKg()
	eta := time.Now().AddDate(0, 0, 4)
	return []courier.RateQuote{
		{
			Provider: a.CodeName, ServiceCode: "STD", ServiceName: a.CodeName + " Surface",
			Tier: pricing.ServiceStandard, TotalPrice: 80 + 10*billable, Currency: "INR",
			BillableWeightKg: billable, TransitDays: 4, EstimatedDelivery: &eta, CODAvailable: true,
		},
		{
			Provider: a.CodeName, ServiceCode: "EXP", ServiceName: a.CodeName + " Air",
			Tier: pricing.ServiceExpress, TotalPrice: 150 + 18*billable, Currency: "INR",
			BillableWeightKg: billable, TransitDays: 2, CODAvailable: true,
		},
	}, nil
}

// Book returns a canned booking correlated with the request's order id.
func (a *Adapter) Book(ctx context.Context, req *courier.BookRequest) (*courier.Booking, error) {
	if a.Err != nil {
		return nil, a.Err
	}
	if a.OnBook != nil {
		return a.OnBook(ctx, req)
	}
	eta := time.Now().AddDate(0, 0, 4)
	return &courier.Booking{
		Provider:          a.CodeName,
		OrderID:           req.OrderID,
		ProviderOrderID:   fmt.Sprintf("%s-ord-%d", a.CodeName, time.Now().UnixNano()),
		TrackingID:        fmt.Sprintf("%s-trk-%d", a.CodeName, time.Now().UnixNano()%1_000_000_000),
		LabelURL:          fmt.Sprintf("https://labels.%s.mock/%s.pdf", a.CodeName, req.OrderID),
		EstimatedDelivery: &eta,
		TotalAmount:       120,
		Currency:          "INR",
	}, nil
}

// Track returns a two-event canned history, newest first.
func (a *Adapter) Track(ctx context.Context, trackingID string) ([]courier.TrackingEvent, error) {
	if a.Err != nil {
		return nil, a.Err
	}
	if a.OnTrack != nil {
		return a.OnTrack(ctx, trackingID)
	}
	now := time.Now()
	return []courier.TrackingEvent{
		{Status: courier.StatusInTransit, RawStatus: "IN TRANSIT", Location: "Bhiwandi Hub", Timestamp: now.Add(-2 * time.Hour), Description: "Shipment in transit"},
		{Status: courier.StatusPickedUp, RawStatus: "PICKED UP", Location: "Mumbai", Timestamp: now.Add(-26 * time.Hour), Description: "Shipment picked up"},
	}, nil
}

// Cancel succeeds unless Err is set.
func (a *Adapter) Cancel(ctx context.Context, providerOrderID string) (bool, error) {
	if a.Err != nil {
		return false, a.Err
	}
	return true, nil
}

// Label returns a mock label URL.
func (a *Adapter) Label(ctx context.Context, providerOrderID string) (string, error) {
	if a.Err != nil {
		return "", a.Err
	}
	return fmt.Sprintf("https://labels.%s.mock/%s.pdf", a.CodeName, providerOrderID), nil
}

// SchedulePickup succeeds unless Err is set.
func (a *Adapter) SchedulePickup(ctx context.Context, providerOrderID string, date time.Time) (bool, error) {
	if a.Err != nil {
		return false, a.Err
	}
	return true, nil
}

var _ courier.Adapter = (*Adapter)(nil)
