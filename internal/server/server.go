// Package server exposes the pricing engine and courier manager over a JSON
// HTTP API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"github.com/vttayde/smart-ship-app-sub000/internal/telemetry"
	"github.com/vttayde/smart-ship-app-sub000/pkg/courier"
	"github.com/vttayde/smart-ship-app-sub000/pkg/pricing"
	"go.uber.org/zap"
)

// Server is the HTTP server for the shipping aggregation service.
type Server struct {
	port    int
	engine  *pricing.Engine
	manager *courier.Manager
	store   courier.OrderStore
	logger  *otelzap.Logger
	metrics *telemetry.Metrics
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance.
func New(cfg Config, engine *pricing.Engine, manager *courier.Manager, store courier.OrderStore, logger *otelzap.Logger) *Server {
	return NewWithMetrics(cfg, engine, manager, store, logger, telemetry.NewMetrics())
}

// NewWithMetrics creates a server with externally constructed metrics. Tests
// pass metrics bound to a fresh registry.
func NewWithMetrics(cfg Config, engine *pricing.Engine, manager *courier.Manager, store courier.OrderStore, logger *otelzap.Logger, metrics *telemetry.Metrics) *Server {
	return &Server{
		port:    cfg.Port,
		engine:  engine,
		manager: manager,
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/quotes", s.handleQuotes)
		r.Post("/rates", s.handleRates)
		r.Get("/providers", s.handleProviders)
		r.Get("/track/{trackingID}", s.handleTrack)

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", s.handleCreateBooking)
			r.Get("/{orderID}", s.handleGetBooking)
			r.Get("/{orderID}/tracking", s.handleRefreshTracking)
			r.Post("/{orderID}/cancel", s.handleCancelBooking)
			r.Get("/{orderID}/label", s.handleLabel)
			r.Post("/{orderID}/pickup", s.handleSchedulePickup)
		})
	})

	return r
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
