package xpressbees_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"github.com/vttayde/smart-ship-app-sub000/pkg/courier"
	"github.com/vttayde/smart-ship-app-sub000/pkg/courier/xpressbees"
	"github.com/vttayde/smart-ship-app-sub000/pkg/pricing"
	"go.uber.org/zap"
)

func newTestClient(mockClient *xpressbees.MockAPIClient) *xpressbees.Client {
	logger := otelzap.New(zap.NewNop())
	return xpressbees.NewWithAPIClient(
		xpressbees.Config{OriginPin: "400001"},
		mockClient,
		logger,
		nil,
	)
}

func testRateRequest() *courier.RateRequest {
	return &courier.RateRequest{
		Pickup:   courier.Address{Name: "Sender", City: "Mumbai", State: "Maharashtra", PostalCode: "400001", Phone: "9800000001", Line1: "12 MG Road"},
		Delivery: courier.Address{Name: "Receiver", City: "Delhi", State: "Delhi", PostalCode: "110001", Phone: "9800000002", Line1: "45 CP"},
		Shipment: courier.ShipmentDetails{ActualWeightKg: 3},
	}
}

func TestClient_CanDeliver(t *testing.T) {
	client := newTestClient(xpressbees.NewMockAPIClient())

	ok, err := client.CanDeliver(context.Background(), "110001")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.CanDeliver(context.Background(), "11-001")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_Rates_Success(t *testing.T) {
	client := newTestClient(xpressbees.NewMockAPIClient())

	quotes, err := client.Rates(context.Background(), testRateRequest())
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	assert.Equal(t, "xpressbees", quotes[0].Provider)
	assert.Equal(t, pricing.ServiceStandard, quotes[0].Tier)
	assert.Equal(t, pricing.ServiceExpress, quotes[1].Tier)
	assert.Equal(t, 3.0, quotes[0].BillableWeightKg)
}

func TestClient_Rates_ServiceFilter(t *testing.T) {
	client := newTestClient(xpressbees.NewMockAPIClient())

	req := testRateRequest()
	req.ServiceCode = "2"
	quotes, err := client.Rates(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "Xpressbees Air", quotes[0].ServiceName)
}

func TestClient_Book_Success(t *testing.T) {
	client := newTestClient(xpressbees.NewMockAPIClient())

	booking, err := client.Book(context.Background(), &courier.BookRequest{
		OrderID:     "ord-200",
		Pickup:      testRateRequest().Pickup,
		Delivery:    testRateRequest().Delivery,
		Shipment:    courier.ShipmentDetails{ActualWeightKg: 1, DeclaredValue: 500},
		ServiceCode: "1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ord-200", booking.OrderID)
	assert.Equal(t, booking.ProviderOrderID, booking.TrackingID)
	assert.NotEmpty(t, booking.LabelURL)
}

func TestClient_Book_Rejected(t *testing.T) {
	mockAPI := xpressbees.NewMockAPIClient()
	mockAPI.OnCreateShipment = func(ctx context.Context, req *xpressbees.ShipmentRequest) (*xpressbees.ShipmentResponse, error) {
		return nil, courier.NewProviderError("xpressbees", "insufficient wallet balance").WithStatusCode(402)
	}
	client := newTestClient(mockAPI)

	_, err := client.Book(context.Background(), &courier.BookRequest{OrderID: "ord-201", ServiceCode: "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wallet")
}

func TestClient_Track_NewestFirstAndMapped(t *testing.T) {
	client := newTestClient(xpressbees.NewMockAPIClient())

	events, err := client.Track(context.Background(), "XB000000000001")
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, courier.StatusInTransit, events[0].Status)
	assert.Equal(t, courier.StatusPickedUp, events[1].Status)
	assert.True(t, events[0].Timestamp.After(events[1].Timestamp))
}

func TestClient_Cancel(t *testing.T) {
	client := newTestClient(xpressbees.NewMockAPIClient())

	ok, err := client.Cancel(context.Background(), "XB000000000002")
	require.NoError(t, err)
	assert.True(t, ok)
}
