package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vttayde/smart-ship-app-sub000/pkg/courier"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id                TEXT PRIMARY KEY,
	provider          TEXT NOT NULL,
	status            TEXT NOT NULL,
	service_code      TEXT NOT NULL DEFAULT '',
	provider_order_id TEXT NOT NULL DEFAULT '',
	tracking_id       TEXT NOT NULL DEFAULT '',
	amount            DOUBLE PRECISION NOT NULL DEFAULT 0,
	currency          TEXT NOT NULL DEFAULT 'INR',
	created_at        TIMESTAMPTZ NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS tracking_events (
	order_id    TEXT NOT NULL REFERENCES orders(id),
	status      TEXT NOT NULL,
	raw_status  TEXT NOT NULL,
	location    TEXT NOT NULL DEFAULT '',
	occurred_at TIMESTAMPTZ NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (order_id, occurred_at, raw_status)
);

CREATE INDEX IF NOT EXISTS idx_orders_tracking_id ON orders (tracking_id);
`

// PostgresStore is the production OrderStore backed by PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and ensures the schema exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// CreateOrder inserts a new order.
func (s *PostgresStore) CreateOrder(ctx context.Context, order *courier.Order) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO orders (id, provider, status, service_code, provider_order_id, tracking_id, amount, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		order.ID, order.Provider, order.Status, order.ServiceCode,
		order.ProviderOrderID, order.TrackingID, order.Amount, order.Currency,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}
	return nil
}

// GetOrder returns the order by id.
func (s *PostgresStore) GetOrder(ctx context.Context, id string) (*courier.Order, error) {
	var order courier.Order
	err := s.pool.QueryRow(ctx, `
		SELECT id, provider, status, service_code, provider_order_id, tracking_id, amount, currency, created_at, updated_at
		FROM orders WHERE id = $1`, id,
	).Scan(
		&order.ID, &order.Provider, &order.Status, &order.ServiceCode,
		&order.ProviderOrderID, &order.TrackingID, &order.Amount, &order.Currency,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, courier.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("selecting order: %w", err)
	}
	return &order, nil
}

// UpdateOrderStatus sets the order's lifecycle status.
func (s *PostgresStore) UpdateOrderStatus(ctx context.Context, id string, status courier.OrderStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return courier.ErrOrderNotFound
	}
	return nil
}

// SetProviderRefs records the provider order id and tracking id.
func (s *PostgresStore) SetProviderRefs(ctx context.Context, id, providerOrderID, trackingID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE orders SET provider_order_id = $2, tracking_id = $3, updated_at = $4 WHERE id = $1`,
		id, providerOrderID, trackingID, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("updating provider refs: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return courier.ErrOrderNotFound
	}
	return nil
}

// UpsertTrackingEvent stores a tracking event idempotently on the
// (order, timestamp, raw status) key.
func (s *PostgresStore) UpsertTrackingEvent(ctx context.Context, orderID string, ev courier.TrackingEvent) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tracking_events (order_id, status, raw_status, location, occurred_at, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (order_id, occurred_at, raw_status) DO UPDATE
		SET status = EXCLUDED.status, location = EXCLUDED.location, description = EXCLUDED.description`,
		orderID, ev.Status, ev.RawStatus, ev.Location, ev.Timestamp, ev.Description,
	)
	if err != nil {
		return fmt.Errorf("upserting tracking event: %w", err)
	}
	return nil
}

// ListTrackingEvents returns the stored events for an order, newest first.
func (s *PostgresStore) ListTrackingEvents(ctx context.Context, orderID string) ([]courier.TrackingEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT status, raw_status, location, occurred_at, description
		FROM tracking_events WHERE order_id = $1
		ORDER BY occurred_at DESC`, orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("selecting tracking events: %w", err)
	}
	defer rows.Close()

	var events []courier.TrackingEvent
	for rows.Next() {
		var ev courier.TrackingEvent
		if err := rows.Scan(&ev.Status, &ev.RawStatus, &ev.Location, &ev.Timestamp, &ev.Description); err != nil {
			return nil, fmt.Errorf("scanning tracking event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading tracking events: %w", err)
	}
	return events, nil
}

var _ courier.OrderStore = (*PostgresStore)(nil)
