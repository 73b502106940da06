package delhivery

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
	token      string
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL string
	Token   string // Delhivery API token, sent as "Token <value>"
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
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CheckPincode checks destination serviceability.
func (c *HTTPAPIClient) CheckPincode(ctx context.Context, pincode string) (*PincodeResponse, error) {
	path := "/c/api/pin-codes/json/?filter_codes=" + url.QueryEscape(pincode)
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var out PincodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// GetCharges fetches shipping charges for a lane.
func (c *HTTPAPIClient) GetCharges(ctx context.Context, req *ChargesRequest) (*ChargesResponse, error) {
	q := url.Values{}
	q.Set("o_pin", req.OriginPin)
	q.Set("d_pin", req.DestinationPin)
	q.Set("cgm", fmt.Sprintf("%.0f", req.WeightGrams))
	q.Set("pt", req.PaymentMode)
	if req.DeclaredValue > 0 {
		q.Set("cod_amount", fmt.Sprintf("%.2f", req.DeclaredValue))
	}
	if req.ServiceCode != "" {
		q.Set("ss", req.ServiceCode)
	}

	path := "/api/kinko/v1/invoice/charges/.json?" + q.Encode()
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var out ChargesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// CreatePackage manifests a package and allocates a waybill.
func (c *HTTPAPIClient) CreatePackage(ctx context.Context, req *CreateRequest) (*CreateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/cmu/create.json", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.parseError(resp)
	}

	var out CreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !out.Success {
		msg := "manifest rejected"
		if len(out.Remarks) > 0 {
			msg = out.Remarks[0]
		}
		return nil, courier.NewProviderError(carrierName, msg)
	}
	return &out, nil
}

// TrackPackage retrieves the scan history for a waybill.
func (c *HTTPAPIClient) TrackPackage(ctx context.Context, waybill string) (*TrackResponse, error) {
	path := "/api/v1/packages/json/?waybill=" + url.QueryEscape(waybill)
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var out TrackResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// CancelPackage cancels a manifested package.
func (c *HTTPAPIClient) CancelPackage(ctx context.Context, waybill string) (*CancelResponse, error) {
	body, err := json.Marshal(map[string]any{
		"waybill":      waybill,
		"cancellation": true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/p/edit", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var out CancelResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// GetPackingSlip retrieves the label link for a waybill.
func (c *HTTPAPIClient) GetPackingSlip(ctx context.Context, waybill string) (*SlipResponse, error) {
	path := "/api/p/packing_slip?wbns=" + url.QueryEscape(waybill) + "&pdf=true"
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var out SlipResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// CreatePickup books a pickup at the origin warehouse.
func (c *HTTPAPIClient) CreatePickup(ctx context.Context, req *PickupRequest) (*PickupResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/fm/request/new/", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.parseError(resp)
	}

	var out PickupResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// ============================================================================
// HTTP Helpers
// ============================================================================

func (c *HTTPAPIClient) doRequest(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Delhivery authenticates with a static API token
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, courier.NewProviderError(carrierName, "request failed").WithCause(err)
	}
	return resp, nil
}

func (c *HTTPAPIClient) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	// Try to extract a structured error message
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := fmt.Sprintf("unexpected status %d", resp.StatusCode)
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			msg = payload.Error
		} else if payload.Message != "" {
			msg = payload.Message
		}
	}

	return courier.NewProviderError(carrierName, msg).
		WithStatusCode(resp.StatusCode).
		WithRawBody(string(body))
}

var _ APIClient = (*HTTPAPIClient)(nil)
