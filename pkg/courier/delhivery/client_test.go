package delhivery_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"github.com/vttayde/smart-ship-app-sub000/pkg/courier"
	"github.com/vttayde/smart-ship-app-sub000/pkg/courier/delhivery"
	"github.com/vttayde/smart-ship-app-sub000/pkg/pricing"
	"go.uber.org/zap"
)

func newTestClient(mockClient *delhivery.MockAPIClient) *delhivery.Client {
	logger := otelzap.New(zap.NewNop())
	return delhivery.NewWithAPIClient(
		delhivery.Config{PickupName: "test-warehouse"},
		mockClient,
		logger,
		nil,
	)
}

func testRateRequest() *courier.RateRequest {
	return &courier.RateRequest{
		Pickup: courier.Address{
			Name:       "Sender",
			Line1:      "12 MG Road",
			City:       "Mumbai",
			State:      "Maharashtra",
			PostalCode: "400001",
			Phone:      "9800000001",
		},
		Delivery: courier.Address{
			Name:       "Receiver",
			Line1:      "45 Connaught Place",
			City:       "Delhi",
			State:      "Delhi",
			PostalCode: "110001",
			Phone:      "9800000002",
		},
		Shipment: courier.ShipmentDetails{ActualWeightKg: 2},
	}
}

func TestClient_CanDeliver(t *testing.T) {
	client := newTestClient(delhivery.NewMockAPIClient())

	ok, err := client.CanDeliver(context.Background(), "110001")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClient_CanDeliver_MalformedPincode(t *testing.T) {
	mockAPI := delhivery.NewMockAPIClient()
	mockAPI.OnCheckPincode = func(ctx context.Context, pincode string) (*delhivery.PincodeResponse, error) {
		t.Fatal("malformed pincodes must not reach the API")
		return nil, nil
	}
	client := newTestClient(mockAPI)

	for _, pin := range []string{"", "1100", "11000A", "1100011"} {
		ok, err := client.CanDeliver(context.Background(), pin)
		require.NoError(t, err, "pin %q", pin)
		assert.False(t, ok, "pin %q", pin)
	}
}

func TestClient_CanDeliver_NotServiceable(t *testing.T) {
	mockAPI := delhivery.NewMockAPIClient()
	mockAPI.OnCheckPincode = func(ctx context.Context, pincode string) (*delhivery.PincodeResponse, error) {
		return &delhivery.PincodeResponse{}, nil // no delivery codes
	}
	client := newTestClient(mockAPI)

	ok, err := client.CanDeliver(context.Background(), "999999")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_Rates_Success(t *testing.T) {
	client := newTestClient(delhivery.NewMockAPIClient())

	quotes, err := client.Rates(context.Background(), testRateRequest())
	require.NoError(t, err)
	require.Len(t, quotes, 2) // Mock returns surface and express

	for _, q := range quotes {
		assert.Equal(t, "delhivery", q.Provider)
		assert.Equal(t, "INR", q.Currency)
		assert.Equal(t, 2.0, q.BillableWeightKg)
	}
	assert.Equal(t, pricing.ServiceStandard, quotes[0].Tier)
	assert.Equal(t, pricing.ServiceExpress, quotes[1].Tier)
}

func TestClient_Rates_UsesBillableWeight(t *testing.T) {
	var gotGrams float64
	mockAPI := delhivery.NewMockAPIClient()
	mockAPI.OnGetCharges = func(ctx context.Context, req *delhivery.ChargesRequest) (*delhivery.ChargesResponse, error) {
		gotGrams = req.WeightGrams
		return &delhivery.ChargesResponse{}, nil
	}
	client := newTestClient(mockAPI)

	req := testRateRequest()
	req.Shipment.ActualWeightKg = 1
	req.Shipment.Dimensions = &pricing.Dimensions{LengthCm: 50, WidthCm: 40, HeightCm: 30}

	_, err := client.Rates(context.Background(), req)
	require.NoError(t, err)

	// 50x40x30 / 5000 = 12kg volumetric beats 1kg actual.
	assert.Equal(t, 12000.0, gotGrams)
}

func TestClient_Rates_APIError(t *testing.T) {
	mockAPI := delhivery.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	client := newTestClient(mockAPI)

	_, err := client.Rates(context.Background(), testRateRequest())
	assert.Error(t, err)

	var pe *courier.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "delhivery", pe.Provider)
}

func TestClient_Book_Success(t *testing.T) {
	client := newTestClient(delhivery.NewMockAPIClient())

	req := &courier.BookRequest{
		OrderID:     "ord-100",
		Pickup:      testRateRequest().Pickup,
		Delivery:    testRateRequest().Delivery,
		Shipment:    courier.ShipmentDetails{ActualWeightKg: 1.5, DeclaredValue: 1200},
		ServiceCode: "S",
	}

	booking, err := client.Book(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "delhivery", booking.Provider)
	assert.Equal(t, "ord-100", booking.OrderID)
	assert.NotEmpty(t, booking.TrackingID)
	// Delhivery's waybill serves as both references.
	assert.Equal(t, booking.ProviderOrderID, booking.TrackingID)
	assert.Contains(t, booking.LabelURL, booking.TrackingID)
}

func TestClient_Book_PackageRejected(t *testing.T) {
	mockAPI := delhivery.NewMockAPIClient()
	mockAPI.OnCreatePackage = func(ctx context.Context, req *delhivery.CreateRequest) (*delhivery.CreateResponse, error) {
		return &delhivery.CreateResponse{
			Success: true,
			Packages: []delhivery.Package{
				{RefNum: req.Shipments[0].OrderID, Status: "Fail", Remarks: "pincode not serviceable"},
			},
		}, nil
	}
	client := newTestClient(mockAPI)

	_, err := client.Book(context.Background(), &courier.BookRequest{OrderID: "ord-101", ServiceCode: "S"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pincode not serviceable")
}

func TestClient_Book_CODAmountForwarded(t *testing.T) {
	var got *delhivery.CreateRequest
	mockAPI := delhivery.NewMockAPIClient()
	mockAPI.OnCreatePackage = func(ctx context.Context, req *delhivery.CreateRequest) (*delhivery.CreateResponse, error) {
		got = req
		return &delhivery.CreateResponse{
			Success:  true,
			Packages: []delhivery.Package{{Waybill: "wb-1", RefNum: req.Shipments[0].OrderID, Status: "Success"}},
		}, nil
	}
	client := newTestClient(mockAPI)

	_, err := client.Book(context.Background(), &courier.BookRequest{
		OrderID:     "ord-102",
		Shipment:    courier.ShipmentDetails{ActualWeightKg: 1, DeclaredValue: 999, COD: true},
		ServiceCode: "S",
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "COD", got.Shipments[0].PaymentMode)
	assert.Equal(t, 999.0, got.Shipments[0].CODAmount)
	assert.Equal(t, "test-warehouse", got.PickupLocation.Name)
}

func TestClient_Track_NewestFirst(t *testing.T) {
	client := newTestClient(delhivery.NewMockAPIClient())

	events, err := client.Track(context.Background(), "1400000000001")
	require.NoError(t, err)
	require.Len(t, events, 3)

	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].Timestamp.After(events[i-1].Timestamp), "events must be newest first")
	}
	assert.Equal(t, courier.StatusInTransit, events[0].Status)
	assert.Equal(t, courier.StatusPending, events[len(events)-1].Status) // Manifested
}

func TestClient_Track_UnknownScanFallsBack(t *testing.T) {
	mockAPI := delhivery.NewMockAPIClient()
	mockAPI.OnTrackPackage = func(ctx context.Context, waybill string) (*delhivery.TrackResponse, error) {
		return &delhivery.TrackResponse{
			ShipmentData: []delhivery.ShipmentTrack{
				{Shipment: delhivery.TrackedShipment{
					Waybill: waybill,
					Scans: []delhivery.Scan{
						{Detail: delhivery.ScanDetail{
							Scan:         "Bagged At Origin",
							ScanDateTime: time.Now().Format("2006-01-02T15:04:05"),
							Location:     "Mumbai Hub",
						}},
					},
				}},
			},
		}, nil
	}
	client := newTestClient(mockAPI)

	events, err := client.Track(context.Background(), "wb-2")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, courier.DefaultStatus, events[0].Status)
	assert.Equal(t, "Bagged At Origin", events[0].RawStatus)
}

func TestClient_Track_NoData(t *testing.T) {
	mockAPI := delhivery.NewMockAPIClient()
	mockAPI.OnTrackPackage = func(ctx context.Context, waybill string) (*delhivery.TrackResponse, error) {
		return &delhivery.TrackResponse{}, nil
	}
	client := newTestClient(mockAPI)

	events, err := client.Track(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestClient_Cancel(t *testing.T) {
	client := newTestClient(delhivery.NewMockAPIClient())

	ok, err := client.Cancel(context.Background(), "wb-3")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClient_Label(t *testing.T) {
	client := newTestClient(delhivery.NewMockAPIClient())

	url, err := client.Label(context.Background(), "wb-4")
	require.NoError(t, err)
	assert.Contains(t, url, "wb-4")
}

func TestClient_SchedulePickup(t *testing.T) {
	var got *delhivery.PickupRequest
	mockAPI := delhivery.NewMockAPIClient()
	mockAPI.OnCreatePickup = func(ctx context.Context, req *delhivery.PickupRequest) (*delhivery.PickupResponse, error) {
		got = req
		return &delhivery.PickupResponse{Success: true, PickupDate: req.PickupDate}, nil
	}
	client := newTestClient(mockAPI)

	date := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	ok, err := client.SchedulePickup(context.Background(), "wb-5", date)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, "2025-07-01", got.PickupDate)
	assert.Equal(t, "test-warehouse", got.PickupLocation)
}
