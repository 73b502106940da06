package xpressbees

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vttayde/smart-ship-app-sub000/pkg/courier"
)

// HTTPAPIClient is the production implementation of APIClient using HTTP/JSON.
type HTTPAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL string
	APIKey  string // bearer token from the Xpressbees login flow
	Timeout time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPAPIClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CheckServiceability checks whether a pincode lane is serviceable.
func (c *HTTPAPIClient) CheckServiceability(ctx context.Context, originPin, destPin string) (*ServiceabilityResponse, error) {
	q := url.Values{}
	q.Set("origin", originPin)
	q.Set("destination", destPin)

	var out ServiceabilityResponse
	if err := c.get(ctx, "/api/courier/serviceability?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchCouriers fetches available services with pricing.
func (c *HTTPAPIClient) FetchCouriers(ctx context.Context, req *CourierRequest) (*CourierResponse, error) {
	var out CourierResponse
	if err := c.post(ctx, "/api/courier/fetch", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateShipment books a shipment.
func (c *HTTPAPIClient) CreateShipment(ctx context.Context, req *ShipmentRequest) (*ShipmentResponse, error) {
	var out ShipmentResponse
	if err := c.post(ctx, "/api/shipments2", req, &out); err != nil {
		return nil, err
	}
	if !out.Status {
		msg := out.Message
		if msg == "" {
			msg = "shipment rejected"
		}
		return nil, courier.NewProviderError(carrierName, msg)
	}
	return &out, nil
}

// TrackShipment retrieves tracking history for an AWB.
func (c *HTTPAPIClient) TrackShipment(ctx context.Context, awb string) (*TrackResponse, error) {
	var out TrackResponse
	if err := c.get(ctx, "/api/shipments2/track/"+url.PathEscape(awb), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelShipment cancels a booked shipment.
func (c *HTTPAPIClient) CancelShipment(ctx context.Context, awb string) (*CancelResponse, error) {
	var out CancelResponse
	if err := c.post(ctx, "/api/shipments2/cancel", map[string]string{"awb": awb}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SchedulePickup requests a pickup for a booked shipment.
func (c *HTTPAPIClient) SchedulePickup(ctx context.Context, req *PickupRequest) (*PickupResponse, error) {
	var out PickupResponse
	if err := c.post(ctx, "/api/shipments2/pickup", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// HTTP Helpers
// ============================================================================

func (c *HTTPAPIClient) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *HTTPAPIClient) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *HTTPAPIClient) do(ctx context.Context, method, path string, body []byte, out any) error {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return courier.NewProviderError(carrierName, "request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return c.parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *HTTPAPIClient) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var payload struct {
		Message string `json:"message"`
	}
	msg := fmt.Sprintf("unexpected status %d", resp.StatusCode)
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		msg = payload.Message
	}

	return courier.NewProviderError(carrierName, msg).
		WithStatusCode(resp.StatusCode).
		WithRawBody(string(body))
}

var _ APIClient = (*HTTPAPIClient)(nil)
