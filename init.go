package main

import (
	"context"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"github.com/vttayde/smart-ship-app-sub000/internal/config"
	"github.com/vttayde/smart-ship-app-sub000/internal/store"
	"github.com/vttayde/smart-ship-app-sub000/internal/telemetry"
	"github.com/vttayde/smart-ship-app-sub000/pkg/courier"
	"github.com/vttayde/smart-ship-app-sub000/pkg/courier/delhivery"
	"github.com/vttayde/smart-ship-app-sub000/pkg/courier/xpressbees"
	"github.com/vttayde/smart-ship-app-sub000/pkg/pricing"
	"go.opentelemetry.io/otel"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return func(context.Context) error { return nil }, nil
	}

	_, shutdown, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
	return shutdown, err
}

// initStore selects the persistence backend: PostgreSQL when DATABASE_URL is
// set, in-memory otherwise.
func initStore(ctx context.Context, cfg *config.Config, logger *otelzap.Logger) (courier.OrderStore, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info("Using in-memory order store")
		return store.NewMemoryStore(), func() {}, nil
	}

	pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Using PostgreSQL order store")
	return pg, pg.Close, nil
}

func initPricingEngine(logger *otelzap.Logger) *pricing.Engine {
	return pricing.NewEngine(pricing.DefaultRateCard(), logger)
}

func initCourierManager(cfg *config.Config, orderStore courier.OrderStore, logger *otelzap.Logger) *courier.Manager {
	manager := courier.NewManager(orderStore, logger)
	tracer := otel.GetTracerProvider().Tracer(cfg.ServiceName)

	if cfg.DelhiveryEnabled {
		manager.Register(delhivery.New(delhivery.Config{
			Token:      cfg.DelhiveryToken,
			BaseURL:    cfg.DelhiveryBaseURL,
			PickupName: cfg.DelhiveryPickupName,
			UseMock:    cfg.DelhiveryUseMock,
		}, logger, tracer))
	}

	if cfg.XpressbeesEnabled {
		manager.Register(xpressbees.New(xpressbees.Config{
			APIKey:    cfg.XpressbeesAPIKey,
			BaseURL:   cfg.XpressbeesBaseURL,
			OriginPin: cfg.XpressbeesOriginPin,
			UseMock:   cfg.XpressbeesUseMock,
		}, logger, tracer))
	}

	return manager
}
