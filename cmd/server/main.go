// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/playmaker/internal/api"
	"github.com/tomtom215/playmaker/internal/config"
	"github.com/tomtom215/playmaker/internal/eventprocessor"
	"github.com/tomtom215/playmaker/internal/feed"
	"github.com/tomtom215/playmaker/internal/logging"
	"github.com/tomtom215/playmaker/internal/supervisor"
	"github.com/tomtom215/playmaker/internal/supervisor/services"
)

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logging.Info().Msg("Starting Playmaker with supervisor tree")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Error().Err(err).Msg("Playmaker stopped with error")
		stop()
		os.Exit(1)
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config) error {
	natsComponents, err := InitNATS(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize NATS: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		natsComponents.Shutdown(shutdownCtx)
	}()

	stores, err := InitStores(ctx, cfg, natsComponents, logging.WithComponent("store"))
	if err != nil {
		return fmt.Errorf("initialize stores: %w", err)
	}
	defer func() {
		if err := stores.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing stores")
		}
	}()

	feedCfg, err := buildFeedConfig(&cfg.Feed)
	if err != nil {
		return err
	}
	generator, err := feed.NewGenerator(stores.Docs, stores.Feeds, feedCfg, logging.WithComponent("feed"))
	if err != nil {
		return fmt.Errorf("create feed generator: %w", err)
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	// Data layer
	if cfg.Store.GCInterval > 0 && !cfg.Store.InMemory {
		tree.AddDataService(services.NewStoreGCService(
			stores.Badger, cfg.Store.GCInterval, cfg.Store.GCDiscardRatio, logging.WithComponent("store-gc")))
		logging.Info().Dur("interval", cfg.Store.GCInterval).Msg("Store GC service added")
	}

	// Messaging layer
	var regenerator api.Regenerator = directRegenerator{generator: generator}
	if natsComponents != nil {
		handler, err := eventprocessor.NewFeedHandler(generator, logging.WithComponent("events"))
		if err != nil {
			return err
		}
		tree.AddMessagingService(services.NewEventRouterService(
			natsComponents.RouterFactory(&cfg.NATS, handler), logging.WithComponent("events")))

		requester, err := natsComponents.Requester(cfg.NATS.GenerateTopic)
		if err != nil {
			return err
		}
		regenerator = requester
		logging.Info().Str("topic", cfg.NATS.GenerateTopic).Msg("Event router service added")
	}

	if cfg.Refresh.Enabled {
		refresh, err := services.NewRefreshService(generator, stores.Docs, services.RefreshServiceConfig{
			Schedule:      cfg.Refresh.Schedule,
			MaxViewers:    cfg.Refresh.MaxViewers,
			RatePerSecond: cfg.Refresh.RatePerSecond,
			ViewerTimeout: cfg.Refresh.ViewerTimeout,
			OnStartup:     cfg.Refresh.OnStartup,
		}, logging.WithComponent("refresh"))
		if err != nil {
			return fmt.Errorf("create refresh service: %w", err)
		}
		tree.AddMessagingService(refresh)
		logging.Info().Str("schedule", cfg.Refresh.Schedule).Msg("Refresh service added")
	}

	// API layer
	opsHandler := api.NewHandler(stores.Checks...).WithRegenerator(regenerator)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(opsHandler, nil),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	var runErr error
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
			runErr = err
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}
	return runErr
}

// directRegenerator rebuilds synchronously when no broker is configured.
type directRegenerator struct {
	generator *feed.Generator
}

func (d directRegenerator) RequestRegeneration(ctx context.Context, viewerID, _ string) error {
	_, err := d.generator.GenerateFeed(logging.EnsureCorrelationID(ctx), viewerID)
	if errors.Is(err, feed.ErrViewerNotFound) {
		return fmt.Errorf("%w: %w", api.ErrUnknownViewer, err)
	}
	return err
}
