// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/videomark/internal/api"
	"github.com/tomtom215/videomark/internal/config"
	"github.com/tomtom215/videomark/internal/enrichment"
	"github.com/tomtom215/videomark/internal/logging"
	"github.com/tomtom215/videomark/internal/storage"
	"github.com/tomtom215/videomark/internal/supervisor"
	"github.com/tomtom215/videomark/internal/supervisor/services"
	"github.com/tomtom215/videomark/internal/viewing"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("storage_backend", cfg.Storage.Backend).
		Str("remote_base_url", cfg.Remote.BaseURL).
		Bool("remote_offline", cfg.Remote.Offline).
		Msg("Starting VideoMark viewing server")

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing storage")
		}
	}()

	lister, ok := store.(storage.Lister)
	if !ok {
		logging.Fatal().Str("backend", cfg.Storage.Backend).Msg("Storage backend cannot list viewings")
	}

	remote, connectivity, probe, breaker := newEnrichment(cfg)

	deps := viewing.Deps{
		Storage:      store,
		Remote:       remote,
		Connectivity: connectivity,
	}
	repository := viewing.NewRepository(deps, cfg.Records.CacheCapacity, cfg.Records.CacheTTL)
	catalog := viewing.NewCatalog(lister)

	handler := api.NewHandler(repository, catalog, connectivity, breaker)
	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           api.NewRouter(handler, api.RouterConfig{RateLimit: cfg.Server.RateLimit}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Detail reads may wait on remote enrichment.
		WriteTimeout: cfg.Remote.Timeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfigFrom(cfg.Supervisor))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Data layer
	tree.AddDataService(repository)
	if gc, ok := store.(storage.GarbageCollector); ok && cfg.Storage.Backend == config.BackendBadger && cfg.Storage.GCInterval > 0 {
		tree.AddDataService(services.NewStorageGCService(gc, cfg.Storage.GCInterval))
	}

	// Network layer
	if probe != nil {
		tree.AddNetworkService(probe)
	}

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// newEnrichment builds the Remote Enrichment Port. When the remote is forced
// offline no client or probe is created and every lookup is skipped.
func newEnrichment(cfg *config.Config) (enrichment.Client, enrichment.Connectivity, *enrichment.Probe, api.BreakerState) {
	if cfg.Remote.Offline {
		logging.Info().Msg("Remote enrichment disabled (REMOTE_OFFLINE=true)")
		return nil, enrichment.Static(false), nil, nil
	}

	client := enrichment.NewCircuitBreakerClient(enrichment.NewHTTPClient(&cfg.Remote), &cfg.Remote)
	probe := enrichment.NewProbe(cfg.Remote.ProbeAddress, cfg.Remote.ProbeInterval, cfg.Remote.Timeout, nil)

	logging.Info().
		Str("probe_address", cfg.Remote.ProbeAddress).
		Dur("probe_interval", cfg.Remote.ProbeInterval).
		Msg("Remote enrichment enabled")

	return client, probe, probe, client
}
