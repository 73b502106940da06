package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vttayde/smart-ship-app-sub000/pkg/courier"
	"github.com/vttayde/smart-ship-app-sub000/pkg/pricing"
	"go.uber.org/zap"
)

// ============================================================================
// Request/response types
// ============================================================================

type endpointInput struct {
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

type quoteRequest struct {
	Origin        endpointInput       `json:"origin"`
	Destination   endpointInput       `json:"destination"`
	WeightKg      float64             `json:"weight_kg"`
	Dimensions    *pricing.Dimensions `json:"dimensions,omitempty"`
	DeclaredValue float64             `json:"declared_value,omitempty"`
	COD           bool                `json:"cod,omitempty"`
	Service       string              `json:"service,omitempty"`
	Description   string              `json:"description,omitempty"`
}

type quoteResponse struct {
	Quotes []pricing.Quote `json:"quotes"`
	Count  int             `json:"count"`
}

type rateRequest struct {
	Pickup      courier.Address         `json:"pickup"`
	Delivery    courier.Address         `json:"delivery"`
	Shipment    courier.ShipmentDetails `json:"shipment"`
	ServiceCode string                  `json:"service_code,omitempty"`
}

type rateResponse struct {
	Rates  []courier.RateQuote `json:"rates"`
	Errors []string            `json:"errors,omitempty"`
}

type bookingRequest struct {
	Provider    string                  `json:"provider"`
	Pickup      courier.Address         `json:"pickup"`
	Delivery    courier.Address         `json:"delivery"`
	Shipment    courier.ShipmentDetails `json:"shipment"`
	ServiceCode string                  `json:"service_code"`
	PickupDate  string                  `json:"pickup_date,omitempty"` // YYYY-MM-DD
}

type bookingResponse struct {
	OrderID string           `json:"order_id"`
	Booking *courier.Booking `json:"booking"`
}

type orderResponse struct {
	Order  *courier.Order          `json:"order"`
	Events []courier.TrackingEvent `json:"events"`
}

type providerInfo struct {
	Code     string                `json:"code"`
	Services []courier.ServiceType `json:"services,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ============================================================================
// Handlers
// ============================================================================

func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}

	service := pricing.ServiceTier(req.Service)
	if req.Service == "" {
		service = pricing.ServiceStandard
	}

	quotes, err := s.engine.GenerateQuotes(pricing.ShipmentRequest{
		OriginCity:       req.Origin.City,
		OriginState:      req.Origin.State,
		OriginPostalCode: req.Origin.PostalCode,
		DestCity:         req.Destination.City,
		DestState:        req.Destination.State,
		DestPostalCode:   req.Destination.PostalCode,
		ActualWeightKg:   req.WeightKg,
		Dimensions:       req.Dimensions,
		DeclaredValue:    req.DeclaredValue,
		COD:              req.COD,
		Service:          service,
		Description:      req.Description,
	})
	if err != nil {
		s.writeError(w, "quotes", err)
		return
	}

	s.metrics.RecordRequest("quotes", "all", "ok", time.Since(start).Seconds())
	s.metrics.RecordQuotes("ratecard", len(quotes))
	writeJSON(w, http.StatusOK, quoteResponse{Quotes: quotes, Count: len(quotes)})
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}

	rates, errs := s.manager.GetAllRates(r.Context(), &courier.RateRequest{
		Pickup:      req.Pickup,
		Delivery:    req.Delivery,
		Shipment:    req.Shipment,
		ServiceCode: req.ServiceCode,
	})

	resp := rateResponse{Rates: rates}
	for _, err := range errs {
		resp.Errors = append(resp.Errors, err.Error())
		var pe *courier.ProviderError
		if errors.As(err, &pe) {
			s.metrics.RecordError(pe.Provider, string(pe.Kind))
		}
	}

	s.metrics.RecordRequest("rates", "all", "ok", time.Since(start).Seconds())
	s.metrics.RecordQuotes("live", len(rates))
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	codes := s.manager.Codes()
	out := make([]providerInfo, 0, len(codes))
	for _, code := range codes {
		info := providerInfo{Code: code}
		if adapter, err := s.manager.Get(code); err == nil {
			if services, err := adapter.ServiceTypes(r.Context()); err == nil {
				info.Services = services
			}
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}
	if req.Provider == "" || req.ServiceCode == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "provider and service_code are required"})
		return
	}

	bookReq := &courier.BookRequest{
		OrderID:     uuid.New().String(),
		Pickup:      req.Pickup,
		Delivery:    req.Delivery,
		Shipment:    req.Shipment,
		ServiceCode: req.ServiceCode,
	}
	if req.PickupDate != "" {
		date, err := time.Parse("2006-01-02", req.PickupDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "pickup_date must be YYYY-MM-DD"})
			return
		}
		bookReq.PickupDate = &date
	}

	booking, err := s.manager.BookShipment(r.Context(), req.Provider, bookReq)
	if err != nil {
		s.metrics.RecordRequest("book", req.Provider, "error", time.Since(start).Seconds())
		s.writeError(w, "book", err)
		return
	}

	s.metrics.RecordRequest("book", req.Provider, "ok", time.Since(start).Seconds())
	writeJSON(w, http.StatusCreated, bookingResponse{OrderID: booking.OrderID, Booking: booking})
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	order, err := s.store.GetOrder(r.Context(), orderID)
	if err != nil {
		s.writeError(w, "get_booking", err)
		return
	}
	events, err := s.store.ListTrackingEvents(r.Context(), orderID)
	if err != nil {
		s.writeError(w, "get_booking", err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{Order: order, Events: events})
}

func (s *Server) handleRefreshTracking(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	orderID := chi.URLParam(r, "orderID")

	events, err := s.manager.RefreshTracking(r.Context(), orderID)
	if err != nil {
		s.writeError(w, "tracking", err)
		return
	}

	order, err := s.store.GetOrder(r.Context(), orderID)
	if err != nil {
		s.writeError(w, "tracking", err)
		return
	}

	s.metrics.RecordRequest("tracking", order.Provider, "ok", time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, orderResponse{Order: order, Events: events})
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	trackingID := chi.URLParam(r, "trackingID")
	provider := r.URL.Query().Get("provider")

	events, err := s.manager.TrackShipment(r.Context(), trackingID, provider)
	if err != nil {
		s.writeError(w, "track", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tracking_id": trackingID,
		"events":      events,
	})
}

func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	ok, err := s.manager.CancelShipment(r.Context(), orderID)
	if err != nil {
		s.writeError(w, "cancel", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order_id": orderID, "cancelled": ok})
}

func (s *Server) handleLabel(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	url, err := s.manager.GenerateLabel(r.Context(), orderID)
	if err != nil {
		s.writeError(w, "label", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"order_id": orderID, "label_url": url})
}

func (s *Server) handleSchedulePickup(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req struct {
		Date string `json:"date"` // YYYY-MM-DD
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "date must be YYYY-MM-DD"})
		return
	}

	ok, err := s.manager.SchedulePickup(r.Context(), orderID, date)
	if err != nil {
		s.writeError(w, "pickup", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order_id": orderID, "scheduled": ok})
}

// ============================================================================
// Helpers
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, operation string, err error) {
	status := http.StatusInternalServerError

	var pe *courier.ProviderError
	switch {
	case errors.Is(err, pricing.ErrInvalidShipment):
		status = http.StatusBadRequest
	case errors.Is(err, courier.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, courier.ErrProviderUnavailable):
		status = http.StatusBadRequest
	case errors.Is(err, courier.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.As(err, &pe):
		s.metrics.RecordError(pe.Provider, string(pe.Kind))
		if pe.Kind == courier.KindRateLimit {
			status = http.StatusServiceUnavailable
		} else {
			status = http.StatusBadGateway
		}
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("operation", operation), zap.Error(err))
	} else {
		s.logger.Warn("Request rejected",
			zap.String("operation", operation), zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
