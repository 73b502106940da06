// Package xpressbees provides integration with the Xpressbees courier API.
package xpressbees

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

const carrierName = "xpressbees"

// eventTimeLayout is the timestamp format in Xpressbees tracking payloads.
const eventTimeLayout = "2006-01-02 15:04:05"

// Config holds Xpressbees configuration.
type Config struct {
	APIKey    string
	BaseURL   string
	OriginPin string // registered warehouse pincode, used for serviceability
	UseMock   bool
}

// Client is the Xpressbees courier adapter.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new Xpressbees client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
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

// NewWithAPIClient creates a new Xpressbees client with a custom API client.
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

// CanDeliver checks lane serviceability from the registered warehouse.
func (c *Client) CanDeliver(ctx context.Context, postalCode string) (bool, error) {
	if !validPincode(postalCode) {
		return false, nil
	}

	resp, err := c.apiClient.CheckServiceability(ctx, c.config.OriginPin, postalCode)
	if err != nil {
		c.logger.Error("Xpressbees serviceability check failed",
			zap.String("pincode", postalCode), zap.Error(err))
		return false, err
	}
	return resp.Status, nil
}

// ServiceTypes returns Xpressbees' service catalogue.
func (c *Client) ServiceTypes(ctx context.Context) ([]courier.ServiceType, error) {
	return []courier.ServiceType{
		{Code: "1", Name: "Xpressbees Surface", Tier: pricing.ServiceStandard, MaxWeightKg: 50},
		{Code: "2", Name: "Xpressbees Air", Tier: pricing.ServiceExpress, MaxWeightKg: 20},
	}, nil
}

// Rates returns priced options for a shipment.
func (c *Client) Rates(ctx context.Context, req *courier.RateRequest) ([]courier.RateQuote, error) {
	billableKg := req.Shipment.BillableWeightKg()

	apiReq := &CourierRequest{
		OriginPin:      req.Pickup.PostalCode,
		DestinationPin: req.Delivery.PostalCode,
		WeightGrams:    billableKg * 1000,
		PaymentType:    paymentType(req.Shipment.COD),
	}
	if d := req.Shipment.Dimensions; d != nil {
		apiReq.LengthCm = d.LengthCm
		apiReq.WidthCm = d.WidthCm
		apiReq.HeightCm = d.HeightCm
	}
	if req.Shipment.COD {
		apiReq.OrderAmount = req.Shipment.DeclaredValue
	}

	apiResp, err := c.apiClient.FetchCouriers(ctx, apiReq)
	if err != nil {
		c.logger.Error("Xpressbees API error", zap.Error(err))
		return nil, err
	}

	quotes := make([]courier.RateQuote, 0, len(apiResp.Data))
	for _, opt := range apiResp.Data {
		if req.ServiceCode != "" && opt.ID != req.ServiceCode {
			continue
		}
		q := courier.RateQuote{
			Provider:         carrierName,
			ServiceCode:      opt.ID,
			ServiceName:      opt.Name,
			Tier:             tierFor(opt.Name),
			TotalPrice:       opt.TotalCharge,
			Currency:         "INR",
			BillableWeightKg: billableKg,
			CODAvailable:     true,
		}
		if opt.EDD != "" {
			if edd, err := time.Parse("2006-01-02", opt.EDD); err == nil {
				q.EstimatedDelivery = &edd
				q.TransitDays = transitDays(edd)
			}
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// Book creates a shipment. The AWB is the operative reference for every
// later call, so it is used as both provider order id and tracking id.
func (c *Client) Book(ctx context.Context, req *courier.BookRequest) (*courier.Booking, error) {
	c.logger.Info("Creating Xpressbees shipment",
		zap.String("order_id", req.OrderID),
		zap.String("courier_id", req.ServiceCode),
	)

	apiReq := &ShipmentRequest{
		OrderNumber: req.OrderID,
		PaymentType: paymentType(req.Shipment.COD),
		OrderAmount: req.Shipment.DeclaredValue,
		WeightGrams: req.Shipment.BillableWeightKg() * 1000,
		CourierID:   req.ServiceCode,
		Consignee: PartyAddress{
			Name:    req.Delivery.Name,
			Address: req.Delivery.Line1,
			City:    req.Delivery.City,
			State:   req.Delivery.State,
			Pincode: req.Delivery.PostalCode,
			Phone:   req.Delivery.Phone,
		},
		Pickup: PartyAddress{
			Name:    req.Pickup.Name,
			Address: req.Pickup.Line1,
			City:    req.Pickup.City,
			State:   req.Pickup.State,
			Pincode: req.Pickup.PostalCode,
			Phone:   req.Pickup.Phone,
		},
	}
	if req.Shipment.COD {
		apiReq.CollectableAmt = req.Shipment.DeclaredValue
	}
	if req.Shipment.Description != "" {
		apiReq.Items = []OrderItem{{Name: req.Shipment.Description, Qty: 1, Price: req.Shipment.DeclaredValue}}
	}

	apiResp, err := c.apiClient.CreateShipment(ctx, apiReq)
	if err != nil {
		c.logger.Error("Xpressbees API error", zap.Error(err))
		return nil, err
	}

	raw, _ := json.Marshal(apiResp)
	return &courier.Booking{
		Provider:        carrierName,
		OrderID:         req.OrderID,
		ProviderOrderID: apiResp.Data.AWB,
		TrackingID:      apiResp.Data.AWB,
		LabelURL:        apiResp.Data.Label,
		TotalAmount:     apiResp.Data.Charges,
		Currency:        "INR",
		Raw:             raw,
	}, nil
}

// Track returns the normalized tracking history for an AWB, newest first.
func (c *Client) Track(ctx context.Context, trackingID string) ([]courier.TrackingEvent, error) {
	apiResp, err := c.apiClient.TrackShipment(ctx, trackingID)
	if err != nil {
		c.logger.Error("Xpressbees API error", zap.Error(err))
		return nil, err
	}

	events := make([]courier.TrackingEvent, 0, len(apiResp.Data.History))
	for _, scan := range apiResp.Data.History {
		ts, err := time.Parse(eventTimeLayout, scan.EventTime)
		if err != nil {
			ts = time.Time{}
		}
		events = append(events, courier.TrackingEvent{
			Status:      mapStatusCode(scan.StatusCode),
			RawStatus:   scan.Status,
			Location:    scan.Location,
			Timestamp:   ts,
			Description: scan.Remark,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
	return events, nil
}

// Cancel cancels a shipment by AWB.
func (c *Client) Cancel(ctx context.Context, providerOrderID string) (bool, error) {
	apiResp, err := c.apiClient.CancelShipment(ctx, providerOrderID)
	if err != nil {
		c.logger.Error("Xpressbees API error", zap.Error(err))
		return false, err
	}
	return apiResp.Status, nil
}

// Label returns the label URL for an AWB.
func (c *Client) Label(ctx context.Context, providerOrderID string) (string, error) {
	return fmt.Sprintf("https://shipment.xpressbees.com/label/%s.pdf", providerOrderID), nil
}

// SchedulePickup requests a pickup for a booked AWB.
func (c *Client) SchedulePickup(ctx context.Context, providerOrderID string, date time.Time) (bool, error) {
	apiResp, err := c.apiClient.SchedulePickup(ctx, &PickupRequest{
		AWB:        providerOrderID,
		PickupDate: date.Format("2006-01-02"),
	})
	if err != nil {
		c.logger.Error("Xpressbees API error", zap.Error(err))
		return false, err
	}
	return apiResp.Status, nil
}

// ============================================================================
// Conversion helpers
// ============================================================================

// xpressbeesStatuses maps Xpressbees status codes onto the canonical
// vocabulary. Unknown codes fall back to courier.DefaultStatus.
var xpressbeesStatuses = map[string]courier.Status{
	"RFP": courier.StatusPending, // ready for pickup
	"PND": courier.StatusPending,
	"PUD": courier.StatusPickedUp,
	"IT":  courier.StatusInTransit,
	"RAD": courier.StatusInTransit, // reached at destination hub
	"OFD": courier.StatusOutForDelivery,
	"DLV": courier.StatusDelivered,
	"RTO": courier.StatusReturned,
	"CAN": courier.StatusCancelled,
}

func mapStatusCode(code string) courier.Status {
	if s, ok := xpressbeesStatuses[strings.ToUpper(code)]; ok {
		return s
	}
	return courier.DefaultStatus
}

func tierFor(serviceName string) pricing.ServiceTier {
	if strings.Contains(strings.ToLower(serviceName), "air") {
		return pricing.ServiceExpress
	}
	return pricing.ServiceStandard
}

func paymentType(cod bool) string {
	if cod {
		return "cod"
	}
	return "prepaid"
}

func transitDays(edd time.Time) int {
	d := int(time.Until(edd).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
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

var _ courier.Adapter = (*Client)(nil)
