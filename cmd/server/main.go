// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

// Package main is the entry point for the f1telemetry query API server.
//
// f1telemetry stores F1 live-timing documents (laps, car data, intervals,
// weather, and the rest of the OpenF1 collection set) in DuckDB and serves
// them back over a small HTTP query surface: one route per collection, plus
// the "latest" meeting/session alias, CSV export, and health/metrics
// endpoints.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: load settings from environment variables and config
//     files via Koanf v2.
//  2. Logging: configure the global zerolog logger.
//  3. Store: open the DuckDB-backed document store.
//  4. Schedule: start the "latest" meeting/session resolver cache, refreshed
//     on an interval by the cron scheduler.
//  5. HTTP Server: mount the query API router plus health and Prometheus
//     metrics endpoints.
//
// This binary serves queries against whatever has already been written to
// the store; ingesting the live timing feed into that store is a separate
// concern (see cmd/historical for backfills).
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM, waiting for
// in-flight requests to complete before closing the store.
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

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/f1telemetry/internal/api"
	"github.com/tomtom215/f1telemetry/internal/cache"
	"github.com/tomtom215/f1telemetry/internal/config"
	"github.com/tomtom215/f1telemetry/internal/logging"
	"github.com/tomtom215/f1telemetry/internal/schedule"
	"github.com/tomtom215/f1telemetry/internal/store"
)

// responseCacheTTL bounds how long a collection query response may be
// served from cache before it is re-run against the store.
const responseCacheTTL = 2 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.Open(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open document store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing document store")
		}
	}()
	logging.Info().Str("path", cfg.Database.Path).Msg("Document store opened")

	latest := schedule.NewLatestCache(cfg.Schedule.LatestCacheTTL, schedule.NewStoreResolver(st))

	scheduler, err := schedule.NewScheduler()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create scheduler")
	}
	if err := scheduler.RegisterLatestRefresh(latest, cfg.Schedule.LatestRefreshInterval); err != nil {
		logging.Fatal().Err(err).Msg("Failed to register latest-session refresh job")
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			logging.Error().Err(err).Msg("Error stopping scheduler")
		}
	}()
	logging.Info().
		Dur("interval", cfg.Schedule.LatestRefreshInterval).
		Msg("Latest-session refresh scheduler started")

	responseCache := cache.NewTTL(responseCacheTTL)

	handler := api.NewHandler(st, latest, responseCache, &cfg.API)
	router := api.NewRouter(handler, &cfg.Security)

	mux := http.NewServeMux()
	mux.Handle("/", router.Setup())
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-serverErrCh:
		if err != nil {
			logging.Error().Err(err).Msg("HTTP server failed")
		}
		cancel()
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Warn().Err(err).Msg("HTTP server did not shut down cleanly within timeout")
	}

	<-serverErrCh
	cancel()

	logging.Info().Msg("Application stopped gracefully")
}
