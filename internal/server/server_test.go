package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"github.com/vttayde/smart-ship-app-sub000/internal/server"
	"github.com/vttayde/smart-ship-app-sub000/internal/store"
	"github.com/vttayde/smart-ship-app-sub000/internal/telemetry"
	"github.com/vttayde/smart-ship-app-sub000/pkg/courier"
	"github.com/vttayde/smart-ship-app-sub000/pkg/courier/mock"
	"github.com/vttayde/smart-ship-app-sub000/pkg/pricing"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (http.Handler, *store.MemoryStore) {
	t.Helper()

	logger := otelzap.New(zap.NewNop())
	engine := pricing.NewEngine(pricing.DefaultRateCard(), logger)

	orderStore := store.NewMemoryStore()
	manager := courier.NewManager(orderStore, logger)
	manager.Register(mock.New("delhivery"))
	manager.Register(mock.New("xpressbees"))

	srv := server.NewWithMetrics(
		server.Config{Port: 8080},
		engine, manager, orderStore, logger,
		telemetry.NewMetricsWith(prometheus.NewRegistry()),
	)
	return srv.Router(), orderStore
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func quoteBody() map[string]any {
	return map[string]any{
		"origin":      map[string]any{"city": "Mumbai", "state": "Maharashtra"},
		"destination": map[string]any{"city": "Delhi", "state": "Delhi"},
		"weight_kg":   0.5,
	}
}

func bookingBody() map[string]any {
	return map[string]any{
		"provider":     "delhivery",
		"service_code": "STD",
		"pickup": map[string]any{
			"name": "Sender", "city": "Mumbai", "state": "Maharashtra",
			"postal_code": "400001", "phone": "9800000001", "line1": "12 MG Road",
		},
		"delivery": map[string]any{
			"name": "Receiver", "city": "Delhi", "state": "Delhi",
			"postal_code": "110001", "phone": "9800000002", "line1": "45 CP",
		},
		"shipment": map[string]any{"actual_weight_kg": 1.5, "declared_value": 800},
	}
}

func TestServer_Health(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestServer_Quotes(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/quotes", quoteBody())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Quotes []pricing.Quote `json:"quotes"`
		Count  int             `json:"count"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, 4, resp.Count)

	// Sorted ascending, with the reliability-gated recommendation.
	for i := 1; i < len(resp.Quotes); i++ {
		assert.LessOrEqual(t, resp.Quotes[i-1].TotalPrice, resp.Quotes[i].TotalPrice)
	}
	var recommended string
	for _, q := range resp.Quotes {
		if q.IsRecommended {
			recommended = q.Provider
		}
	}
	assert.Equal(t, "delhivery", recommended)
}

func TestServer_Quotes_InvalidRequest(t *testing.T) {
	handler, _ := newTestServer(t)

	body := quoteBody()
	body["weight_kg"] = 0
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/quotes", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "weight")
}

func TestServer_Quotes_InvalidJSON(t *testing.T) {
	handler, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Rates(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/rates", map[string]any{
		"pickup":   map[string]any{"city": "Mumbai", "postal_code": "400001"},
		"delivery": map[string]any{"city": "Delhi", "postal_code": "110001"},
		"shipment": map[string]any{"actual_weight_kg": 2},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Rates  []courier.RateQuote `json:"rates"`
		Errors []string            `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Rates, 4) // two mock adapters, two services each
	assert.Empty(t, resp.Errors)
}

func TestServer_Providers(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/providers", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []struct {
		Code     string                `json:"code"`
		Services []courier.ServiceType `json:"services"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "delhivery", resp[0].Code)
	assert.NotEmpty(t, resp[0].Services)
}

func TestServer_BookingLifecycle(t *testing.T) {
	handler, orderStore := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/bookings", bookingBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		OrderID string           `json:"order_id"`
		Booking *courier.Booking `json:"booking"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.NotEmpty(t, created.OrderID)
	assert.NotEmpty(t, created.Booking.TrackingID)

	stored, err := orderStore.GetOrder(context.Background(), created.OrderID)
	require.NoError(t, err)
	assert.Equal(t, courier.OrderConfirmed, stored.Status)

	// Fetch the booking back.
	rec = doJSON(t, handler, http.MethodGet, "/api/v1/bookings/"+created.OrderID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Refresh tracking persists events and advances the lifecycle.
	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/v1/bookings/%s/tracking", created.OrderID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tracked struct {
		Order  *courier.Order          `json:"order"`
		Events []courier.TrackingEvent `json:"events"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&tracked))
	assert.NotEmpty(t, tracked.Events)
	assert.Equal(t, courier.OrderInTransit, tracked.Order.Status)

	// Label.
	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/v1/bookings/%s/label", created.OrderID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "label_url")

	// Cancel succeeds once, then conflicts.
	rec = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%s/cancel", created.OrderID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%s/cancel", created.OrderID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestServer_Booking_UnknownProvider(t *testing.T) {
	handler, _ := newTestServer(t)

	body := bookingBody()
	body["provider"] = "ghost"
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/bookings", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Booking_MissingFields(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/bookings", map[string]any{"provider": "delhivery"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_GetBooking_NotFound(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/bookings/no-such-order", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Track(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/track/some-waybill?provider=delhivery", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		TrackingID string                  `json:"tracking_id"`
		Events     []courier.TrackingEvent `json:"events"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "some-waybill", resp.TrackingID)
	assert.NotEmpty(t, resp.Events)
}

func TestServer_Track_UnknownProvider(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/track/some-waybill?provider=ghost", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_SchedulePickup(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/bookings", bookingBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		OrderID string `json:"order_id"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	rec = doJSON(t, handler, http.MethodPost,
		fmt.Sprintf("/api/v1/bookings/%s/pickup", created.OrderID),
		map[string]any{"date": "2025-07-01"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"scheduled":true`)

	rec = doJSON(t, handler, http.MethodPost,
		fmt.Sprintf("/api/v1/bookings/%s/pickup", created.OrderID),
		map[string]any{"date": "bad-date"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
