// Package store provides order persistence backends implementing the
// courier.OrderStore contract: an in-memory store for development and tests,
// and a PostgreSQL store for production.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/vttayde/smart-ship-app-sub000/pkg/courier"
)

// MemoryStore is an in-memory OrderStore. Used when no DATABASE_URL is
// configured; state does not survive a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[string]*courier.Order
	events map[string][]courier.TrackingEvent
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders: make(map[string]*courier.Order),
		events: make(map[string][]courier.TrackingEvent),
	}
}

// CreateOrder inserts a new order. An existing id is an error.
func (s *MemoryStore) CreateOrder(ctx context.Context, order *courier.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[order.ID]; exists {
		return ErrDuplicateOrder
	}
	cp := *order
	s.orders[order.ID] = &cp
	return nil
}

// GetOrder returns a copy of the order.
func (s *MemoryStore) GetOrder(ctx context.Context, id string) (*courier.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, courier.ErrOrderNotFound
	}
	cp := *order
	return &cp, nil
}

// UpdateOrderStatus sets the order's lifecycle status.
func (s *MemoryStore) UpdateOrderStatus(ctx context.Context, id string, status courier.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return courier.ErrOrderNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	return nil
}

// SetProviderRefs records the provider order id and tracking id.
func (s *MemoryStore) SetProviderRefs(ctx context.Context, id, providerOrderID, trackingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return courier.ErrOrderNotFound
	}
	order.ProviderOrderID = providerOrderID
	order.TrackingID = trackingID
	order.UpdatedAt = time.Now()
	return nil
}

// UpsertTrackingEvent stores a tracking event, deduplicated on the
// (timestamp, raw status) pair so repeated refreshes are idempotent.
func (s *MemoryStore) UpsertTrackingEvent(ctx context.Context, orderID string, ev courier.TrackingEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[orderID]; !ok {
		return courier.ErrOrderNotFound
	}
	for _, existing := range s.events[orderID] {
		if existing.Timestamp.Equal(ev.Timestamp) && existing.RawStatus == ev.RawStatus {
			return nil
		}
	}
	s.events[orderID] = append(s.events[orderID], ev)
	return nil
}

// ListTrackingEvents returns the stored events for an order, newest first.
func (s *MemoryStore) ListTrackingEvents(ctx context.Context, orderID string) ([]courier.TrackingEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.orders[orderID]; !ok {
		return nil, courier.ErrOrderNotFound
	}
	events := make([]courier.TrackingEvent, len(s.events[orderID]))
	copy(events, s.events[orderID])
	sortEventsNewestFirst(events)
	return events, nil
}

var _ courier.OrderStore = (*MemoryStore)(nil)
