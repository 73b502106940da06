// Package delhivery provides integration with the Delhivery courier API.
package delhivery

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"github.com/vttayde/smart-ship-app-sub000/pkg/courier"
	"github.com/vttayde/smart-ship-app-sub000/pkg/pricing"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const carrierName = "delhivery"

// scanTimeLayout is the timestamp format used in Delhivery scan payloads.
const scanTimeLayout = "2006-01-02T15:04:05"

// Config holds Delhivery configuration.
type Config struct {
	Token      string
	BaseURL    string
	PickupName string // registered warehouse name used for manifests and pickups
	UseMock    bool
}

// Client is the Delhivery courier adapter.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new Delhivery client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			Token:   cfg.Token,
			Timeout: 30 * time.Second,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new Delhivery client with a custom API client.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// Code returns the provider code.
func (c *Client) Code() string {
	return carrierName
}

// CanDeliver checks destination serviceability. A malformed pincode is
// rejected locally without a network call.
func (c *Client) CanDeliver(ctx context.Context, postalCode string) (bool, error) {
	if !validPincode(postalCode) {
		return false, nil
	}

	resp, err := c.apiClient.CheckPincode(ctx, postalCode)
	if err != nil {
		c.logger.Error("Delhivery pincode check failed",
			zap.String("pincode", postalCode), zap.Error(err))
		return false, err
	}

	for _, dc := range resp.DeliveryCodes {
		if dc.PostalCode.Pin == postalCode && dc.PostalCode.PrePaid == "Y" {
			return true, nil
		}
	}
	return false, nil
}

// ServiceTypes returns Delhivery's service catalogue.
func (c *Client) ServiceTypes(ctx context.Context) ([]courier.ServiceType, error) {
	return []courier.ServiceType{
		{Code: "S", Name: "Delhivery Surface", Tier: pricing.ServiceStandard, MaxWeightKg: 50},
		{Code: "E", Name: "Delhivery Express", Tier: pricing.ServiceExpress, MaxWeightKg: 25},
	}, nil
}

// Rates returns priced options for a shipment. The volumetric-weight rule is
// applied locally; the remote API is always queried with billable grams.
func (c *Client) Rates(ctx context.Context, req *courier.RateRequest) ([]courier.RateQuote, error) {
	billableKg := req.Shipment.BillableWeightKg()

	c.logger.Info("Getting Delhivery charges",
		zap.String("origin_pin", req.Pickup.PostalCode),
		zap.String("destination_pin", req.Delivery.PostalCode),
		zap.Float64("billable_weight_kg", billableKg),
	)

	apiReq := &ChargesRequest{
		OriginPin:      req.Pickup.PostalCode,
		DestinationPin: req.Delivery.PostalCode,
		WeightGrams:    billableKg * 1000,
		PaymentMode:    paymentMode(req.Shipment.COD),
		ServiceCode:    req.ServiceCode,
	}
	if req.Shipment.COD {
		apiReq.DeclaredValue = req.Shipment.DeclaredValue
	}

	apiResp, err := c.apiClient.GetCharges(ctx, apiReq)
	if err != nil {
		c.logger.Error("Delhivery API error", zap.Error(err))
		return nil, err
	}

	quotes := make([]courier.RateQuote, 0, len(apiResp.Charges))
	for _, ch := range apiResp.Charges {
		eta := time.Now().AddDate(0, 0, ch.TAT)
		quotes = append(quotes, courier.RateQuote{
			Provider:          carrierName,
			ServiceCode:       ch.ServiceCode,
			ServiceName:       ch.ServiceName,
			Tier:              tierFor(ch.ServiceCode),
			TotalPrice:        ch.TotalAmount,
			Currency:          "INR",
			BillableWeightKg:  billableKg,
			TransitDays:       ch.TAT,
			EstimatedDelivery: &eta,
			CODAvailable:      ch.CODAvailable,
		})
	}
	return quotes, nil
}

// Book manifests a shipment and allocates a waybill. The waybill doubles as
// Delhivery's order reference and tracking id.
func (c *Client) Book(ctx context.Context, req *courier.BookRequest) (*courier.Booking, error) {
	c.logger.Info("Creating Delhivery package",
		zap.String("order_id", req.OrderID),
		zap.String("service_code", req.ServiceCode),
	)

	pickupName := c.config.PickupName
	if pickupName == "" {
		pickupName = req.Pickup.Name
	}

	apiReq := &CreateRequest{
		PickupLocation: PickupLocation{
			Name:    pickupName,
			Address: joinLines(req.Pickup.Line1, req.Pickup.Line2),
			City:    req.Pickup.City,
			State:   req.Pickup.State,
			Pin:     req.Pickup.PostalCode,
			Phone:   req.Pickup.Phone,
		},
		Shipments: []Shipment{
			{
				OrderID:       req.OrderID,
				Name:          req.Delivery.Name,
				Address:       joinLines(req.Delivery.Line1, req.Delivery.Line2),
				City:          req.Delivery.City,
				State:         req.Delivery.State,
				Pin:           req.Delivery.PostalCode,
				Phone:         req.Delivery.Phone,
				PaymentMode:   manifestPaymentMode(req.Shipment.COD),
				WeightGrams:   req.Shipment.BillableWeightKg() * 1000,
				ServiceCode:   req.ServiceCode,
				ProductDesc:   req.Shipment.Description,
				DeclaredValue: req.Shipment.DeclaredValue,
			},
		},
	}
	if req.Shipment.COD {
		apiReq.Shipments[0].CODAmount = req.Shipment.DeclaredValue
	}

	apiResp, err := c.apiClient.CreatePackage(ctx, apiReq)
	if err != nil {
		c.logger.Error("Delhivery API error", zap.Error(err))
		return nil, err
	}
	if len(apiResp.Packages) == 0 {
		return nil, courier.NewProviderError(carrierName, "manifest returned no packages")
	}

	pkg := apiResp.Packages[0]
	if !strings.EqualFold(pkg.Status, "Success") {
		msg := pkg.Remarks
		if msg == "" {
			msg = "package rejected: " + pkg.Status
		}
		return nil, courier.NewProviderError(carrierName, msg)
	}

	raw, _ := json.Marshal(apiResp)
	return &courier.Booking{
		Provider:        carrierName,
		OrderID:         req.OrderID,
		ProviderOrderID: pkg.Waybill,
		TrackingID:      pkg.Waybill,
		LabelURL:        fmt.Sprintf("https://track.delhivery.com/api/p/packing_slip/%s.pdf", pkg.Waybill),
		Currency:        "INR",
		Raw:             raw,
	}, nil
}

// Track returns the normalized scan history for a waybill, newest first.
func (c *Client) Track(ctx context.Context, trackingID string) ([]courier.TrackingEvent, error) {
	apiResp, err := c.apiClient.TrackPackage(ctx, trackingID)
	if err != nil {
		c.logger.Error("Delhivery API error", zap.Error(err))
		return nil, err
	}
	if len(apiResp.ShipmentData) == 0 {
		return nil, nil
	}

	scans := apiResp.ShipmentData[0].Shipment.Scans
	events := make([]courier.TrackingEvent, 0, len(scans))
	for _, s := range scans {
		ts, err := time.Parse(scanTimeLayout, s.Detail.ScanDateTime)
		if err != nil {
			// A scan with an unparseable timestamp still counts; sort it last.
			ts = time.Time{}
		}
		events = append(events, courier.TrackingEvent{
			Status:      mapScanStatus(s.Detail.Scan),
			RawStatus:   s.Detail.Scan,
			Location:    s.Detail.Location,
			Timestamp:   ts,
			Description: s.Detail.Instructions,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
	return events, nil
}

// Cancel cancels a manifested package by waybill.
func (c *Client) Cancel(ctx context.Context, providerOrderID string) (bool, error) {
	c.logger.Info("Cancelling Delhivery package",
		zap.String("waybill", providerOrderID),
	)

	apiResp, err := c.apiClient.CancelPackage(ctx, providerOrderID)
	if err != nil {
		c.logger.Error("Delhivery API error", zap.Error(err))
		return false, err
	}
	return apiResp.Status, nil
}

// Label returns the packing slip URL for a waybill.
func (c *Client) Label(ctx context.Context, providerOrderID string) (string, error) {
	apiResp, err := c.apiClient.GetPackingSlip(ctx, providerOrderID)
	if err != nil {
		c.logger.Error("Delhivery API error", zap.Error(err))
		return "", err
	}
	if len(apiResp.Packages) == 0 {
		return "", courier.NewProviderError(carrierName, "no packing slip for waybill "+providerOrderID)
	}
	return apiResp.Packages[0].PDFLink, nil
}

// SchedulePickup books a pickup at the registered warehouse.
func (c *Client) SchedulePickup(ctx context.Context, providerOrderID string, date time.Time) (bool, error) {
	apiResp, err := c.apiClient.CreatePickup(ctx, &PickupRequest{
		PickupLocation: c.config.PickupName,
		PickupDate:     date.Format("2006-01-02"),
		PickupTime:     "11:00:00",
		ExpectedCount:  1,
	})
	if err != nil {
		c.logger.Error("Delhivery API error", zap.Error(err))
		return false, err
	}
	return apiResp.Success, nil
}

// ============================================================================
// Conversion helpers
// ============================================================================

// delhiveryStatuses maps Delhivery scan names onto the canonical vocabulary.
// Unknown scans fall back to courier.DefaultStatus.
var delhiveryStatuses = map[string]courier.Status{
	"manifested":       courier.StatusPending,
	"not picked":       courier.StatusPending,
	"picked up":        courier.StatusPickedUp,
	"pickup done":      courier.StatusPickedUp,
	"in transit":       courier.StatusInTransit,
	"reached hub":      courier.StatusInTransit,
	"dispatched":       courier.StatusOutForDelivery,
	"out for delivery": courier.StatusOutForDelivery,
	"delivered":        courier.StatusDelivered,
	"rto initiated":    courier.StatusReturned,
	"returned":         courier.StatusReturned,
	"cancelled":        courier.StatusCancelled,
}

func mapScanStatus(scan string) courier.Status {
	if s, ok := delhiveryStatuses[strings.ToLower(scan)]; ok {
		return s
	}
	return courier.DefaultStatus
}

func tierFor(serviceCode string) pricing.ServiceTier {
	switch serviceCode {
	case "E":
		return pricing.ServiceExpress
	default:
		return pricing.ServiceStandard
	}
}

func paymentMode(cod bool) string {
	if cod {
		return "COD"
	}
	return "Pre-paid"
}

func manifestPaymentMode(cod bool) string {
	if cod {
		return "COD"
	}
	return "Prepaid"
}

func validPincode(pin string) bool {
	if len(pin) != 6 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func joinLines(line1, line2 string) string {
	if line2 == "" {
		return line1
	}
	return line1 + ", " + line2
}

var _ courier.Adapter = (*Client)(nil)
