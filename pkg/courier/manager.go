package courier

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultCallTimeout is the per-adapter network budget for one remote call.
// A timed-out call counts as an adapter failure and is not retried here;
// retry policy belongs to the caller.
const DefaultCallTimeout = 30 * time.Second

// Manager owns the set of initialized provider adapters, fans rate requests
// out across them, and routes booking, tracking, and cancellation calls to
// the right adapter. Booking results and tracking updates are persisted
// through the OrderStore collaborator; the manager never owns persistence.
//
// The manager is safe for concurrent use: adapters carry no per-request
// mutable state and the registry is read-mostly.
type Manager struct {
	mu          sync.RWMutex
	adapters    map[string]Adapter
	order       []string // registration order, drives the tracking fallback
	store       OrderStore
	logger      *otelzap.Logger
	callTimeout time.Duration
}

// NewManager creates a manager over an order store. Adapters are added with
// Register, one per active provider configuration.
func NewManager(store OrderStore, logger *otelzap.Logger) *Manager {
	return &Manager{
		adapters:    make(map[string]Adapter),
		store:       store,
		logger:      logger,
		callTimeout: DefaultCallTimeout,
	}
}

// SetCallTimeout overrides the per-adapter call budget.
func (m *Manager) SetCallTimeout(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callTimeout = d
}

// Register adds an adapter. Registering the same code twice replaces the
// adapter but keeps its original position in the fallback order.
func (m *Manager) Register(a Adapter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.adapters[a.Code()]; !exists {
		m.order = append(m.order, a.Code())
	}
	m.adapters[a.Code()] = a
}

// Get returns the adapter for a provider code.
func (m *Manager) Get(code string) (Adapter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.adapters[code]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, code)
}

// Codes returns the registered provider codes in registration order.
func (m *Manager) Codes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Count returns the number of registered adapters.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.adapters)
}

func (m *Manager) all() []Adapter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Adapter, 0, len(m.order))
	for _, code := range m.order {
		out = append(out, m.adapters[code])
	}
	return out
}

func (m *Manager) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	m.mu.RLock()
	d := m.callTimeout
	m.mu.RUnlock()
	return context.WithTimeout(ctx, d)
}

// GetAllRates checks deliverability with every adapter and concurrently
// requests rates from the ones that serve the destination. A single
// adapter's failure never aborts the others; it contributes nothing and is
// reported in the error slice. The merged list is sorted ascending by total
// price. No partial results are returned early.
func (m *Manager) GetAllRates(ctx context.Context, req *RateRequest) ([]RateQuote, []error) {
	adapters := m.all()
	if len(adapters) == 0 {
		return nil, []error{ErrProviderUnavailable}
	}

	var (
		quotes []RateQuote
		errs   []error
		outMu  sync.Mutex
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, a := range adapters {
		a := a
		g.Go(func() error {
			callCtx, cancel := m.callCtx(gctx)
			defer cancel()

			ok, err := a.CanDeliver(callCtx, req.Delivery.PostalCode)
			if err != nil {
				m.logger.Warn("Deliverability check failed",
					zap.String("provider", a.Code()), zap.Error(err))
				outMu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", a.Code(), err))
				outMu.Unlock()
				return nil
			}
			if !ok {
				return nil
			}

			rates, err := a.Rates(callCtx, req)
			outMu.Lock()
			defer outMu.Unlock()
			if err != nil {
				m.logger.Warn("Rate request failed",
					zap.String("provider", a.Code()), zap.Error(err))
				errs = append(errs, fmt.Errorf("%s: %w", a.Code(), err))
				return nil
			}
			quotes = append(quotes, rates...)
			return nil
		})
	}
	g.Wait()

	sort.SliceStable(quotes, func(i, j int) bool {
		if quotes[i].TotalPrice != quotes[j].TotalPrice {
			return quotes[i].TotalPrice < quotes[j].TotalPrice
		}
		return quotes[i].Provider < quotes[j].Provider
	})
	return quotes, errs
}

// BookShipment routes a booking to exactly one adapter. The order is created
// pending in the store before the provider call; a provider failure marks it
// failed and re-raises, so a broken booking is never left pending. On
// success the provider references are persisted and the order confirmed,
// then a pickup is scheduled when the request carries a pickup date.
func (m *Manager) BookShipment(ctx context.Context, providerCode string, req *BookRequest) (*Booking, error) {
	adapter, err := m.Get(providerCode)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &Order{
		ID:          req.OrderID,
		Provider:    providerCode,
		Status:      OrderPending,
		ServiceCode: req.ServiceCode,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := m.store.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}

	callCtx, cancel := m.callCtx(ctx)
	defer cancel()

	booking, err := adapter.Book(callCtx, req)
	if err != nil {
		if serr := m.store.UpdateOrderStatus(ctx, order.ID, OrderFailed); serr != nil {
			m.logger.Error("Failed to mark order failed",
				zap.String("order_id", order.ID), zap.Error(serr))
		}
		return nil, err
	}

	if err := m.store.SetProviderRefs(ctx, order.ID, booking.ProviderOrderID, booking.TrackingID); err != nil {
		m.logger.Error("Failed to persist provider refs",
			zap.String("order_id", order.ID), zap.Error(err))
	}
	if err := m.store.UpdateOrderStatus(ctx, order.ID, OrderConfirmed); err != nil {
		m.logger.Error("Failed to confirm order",
			zap.String("order_id", order.ID), zap.Error(err))
	}

	if req.PickupDate != nil {
		pickupCtx, cancelPickup := m.callCtx(ctx)
		scheduled, perr := adapter.SchedulePickup(pickupCtx, booking.ProviderOrderID, *req.PickupDate)
		cancelPickup()
		if perr != nil {
			// Pickup scheduling is best-effort during booking; the caller can
			// retry through SchedulePickup.
			m.logger.Warn("Pickup scheduling failed after booking",
				zap.String("order_id", order.ID),
				zap.String("provider", providerCode), zap.Error(perr))
		} else if scheduled {
			if serr := m.store.UpdateOrderStatus(ctx, order.ID, OrderPickupScheduled); serr != nil {
				m.logger.Error("Failed to mark pickup scheduled",
					zap.String("order_id", order.ID), zap.Error(serr))
			}
		}
	}

	m.logger.Info("Shipment booked",
		zap.String("order_id", order.ID),
		zap.String("provider", providerCode),
		zap.String("tracking_id", booking.TrackingID),
	)
	return booking, nil
}

// TrackShipment returns the tracking history for a tracking id. With a
// provider code it queries that adapter only. Without one it tries adapters
// in registration order and returns the first non-empty history: a
// degraded-information fallback, not a merge of partial histories.
func (m *Manager) TrackShipment(ctx context.Context, trackingID, providerCode string) ([]TrackingEvent, error) {
	if providerCode != "" {
		adapter, err := m.Get(providerCode)
		if err != nil {
			return nil, err
		}
		callCtx, cancel := m.callCtx(ctx)
		defer cancel()
		return adapter.Track(callCtx, trackingID)
	}

	var lastErr error
	for _, a := range m.all() {
		callCtx, cancel := m.callCtx(ctx)
		events, err := a.Track(callCtx, trackingID)
		cancel()
		if err != nil {
			lastErr = err
			continue
		}
		if len(events) > 0 {
			return events, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, nil
}

// RefreshTracking pulls the latest tracking history for a booked order,
// persists the events through the order store, and advances the order's
// lifecycle state from the newest event when the transition is valid.
func (m *Manager) RefreshTracking(ctx context.Context, orderID string) ([]TrackingEvent, error) {
	order, err := m.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	adapter, err := m.Get(order.Provider)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := m.callCtx(ctx)
	defer cancel()
	events, err := adapter.Track(callCtx, order.TrackingID)
	if err != nil {
		return nil, err
	}

	for _, ev := range events {
		if serr := m.store.UpsertTrackingEvent(ctx, orderID, ev); serr != nil {
			m.logger.Error("Failed to persist tracking event",
				zap.String("order_id", orderID), zap.Error(serr))
		}
	}

	if len(events) > 0 {
		if next, ok := orderStatusFor(events[0].Status); ok &&
			next != order.Status && order.Status.CanTransition(next) {
			if serr := m.store.UpdateOrderStatus(ctx, orderID, next); serr != nil {
				m.logger.Error("Failed to advance order status",
					zap.String("order_id", orderID), zap.Error(serr))
			}
		}
	}
	return events, nil
}

// CancelShipment cancels a booked order. The order's lifecycle must allow a
// transition into cancelled; terminal orders are rejected before any
// provider call.
func (m *Manager) CancelShipment(ctx context.Context, orderID string) (bool, error) {
	order, err := m.store.GetOrder(ctx, orderID)
	if err != nil {
		return false, err
	}
	if !order.Status.CanTransition(OrderCancelled) {
		return false, fmt.Errorf("%w: order %s in state %q cannot be cancelled", ErrInvalidTransition, orderID, order.Status)
	}
	adapter, err := m.Get(order.Provider)
	if err != nil {
		return false, err
	}

	callCtx, cancel := m.callCtx(ctx)
	defer cancel()
	ok, err := adapter.Cancel(callCtx, order.ProviderOrderID)
	if err != nil {
		return false, err
	}
	if ok {
		if serr := m.store.UpdateOrderStatus(ctx, orderID, OrderCancelled); serr != nil {
			m.logger.Error("Failed to mark order cancelled",
				zap.String("order_id", orderID), zap.Error(serr))
		}
	}
	return ok, nil
}

// GenerateLabel returns the label URL for a booked order.
func (m *Manager) GenerateLabel(ctx context.Context, orderID string) (string, error) {
	order, err := m.store.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	adapter, err := m.Get(order.Provider)
	if err != nil {
		return "", err
	}
	callCtx, cancel := m.callCtx(ctx)
	defer cancel()
	return adapter.Label(callCtx, order.ProviderOrderID)
}

// SchedulePickup books a pickup for an order on the given date.
func (m *Manager) SchedulePickup(ctx context.Context, orderID string, date time.Time) (bool, error) {
	order, err := m.store.GetOrder(ctx, orderID)
	if err != nil {
		return false, err
	}
	adapter, err := m.Get(order.Provider)
	if err != nil {
		return false, err
	}
	callCtx, cancel := m.callCtx(ctx)
	defer cancel()
	ok, err := adapter.SchedulePickup(callCtx, order.ProviderOrderID, date)
	if err != nil {
		return false, err
	}
	if ok && order.Status.CanTransition(OrderPickupScheduled) {
		if serr := m.store.UpdateOrderStatus(ctx, orderID, OrderPickupScheduled); serr != nil {
			m.logger.Error("Failed to mark pickup scheduled",
				zap.String("order_id", orderID), zap.Error(serr))
		}
	}
	return ok, nil
}
