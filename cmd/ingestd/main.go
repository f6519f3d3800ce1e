// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

// Package main is the entry point for the real-time ingestion daemon.
//
// f1telemetryd supervises the external recording subprocess that speaks
// to the upstream live-timing feed, tails the raw frames it appends to
// disk, and folds them into the document store one message at a time —
// the same collections used by cmd/historical's bulk backfill, so a
// query against cmd/server sees no difference between a live write and
// a replayed one.
//
// # Application Architecture
//
//  1. Configuration: load settings from environment variables and config
//     files via Koanf v2.
//  2. Logging: configure the global zerolog logger.
//  3. Store: open the DuckDB-backed document store.
//  4. Publish (optional): start the Watermill/NATS fan-out publisher if
//     NATS_ENABLED=true.
//  5. WAL (optional, build tag "wal"): front the publisher with a
//     write-ahead log so a NATS outage can't drop a record.
//  6. Ingest: build the frame parser, real-time ingestor, and driver
//     feeding the store (and, if enabled, the publisher) from tailed
//     capture lines.
//  7. Supervisor tree: supervise the recording subprocess and the tailer
//     under a suture.Supervisor tree, so one crashing doesn't take the
//     other down with it. The WAL retry/compaction loops are started by
//     the WAL initialization in step 5, outside the tree.
//  8. Backup (optional): schedule periodic S3 uploads of the raw capture
//     file if BACKUP_ENABLED=true.
//
// # Signal Handling
//
// The daemon handles graceful shutdown on SIGINT and SIGTERM: the
// supervisor tree is given its ShutdownTimeout to stop every service
// before the process exits.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/f1telemetry/internal/backup"
	"github.com/tomtom215/f1telemetry/internal/config"
	"github.com/tomtom215/f1telemetry/internal/ingest"
	"github.com/tomtom215/f1telemetry/internal/logging"
	"github.com/tomtom215/f1telemetry/internal/publish"
	"github.com/tomtom215/f1telemetry/internal/schedule"
	"github.com/tomtom215/f1telemetry/internal/store"
	"github.com/tomtom215/f1telemetry/internal/supervisor"
	"github.com/tomtom215/f1telemetry/internal/supervisor/services"
)

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

	var pub *publish.Publisher
	if cfg.NATS.Enabled {
		pub, err = publish.NewPublisher(publish.DefaultPublisherConfig(cfg.NATS.URL), nil)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to create NATS publisher")
		}
		defer func() {
			if err := pub.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing NATS publisher")
			}
		}()
		logging.Info().Str("url", cfg.NATS.URL).Msg("NATS publisher started")
	} else {
		logging.Info().Msg("NATS fan-out disabled (NATS_ENABLED=false)")
	}

	walComponents, err := InitWAL(ctx, pub)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize WAL")
	}
	defer walComponents.Shutdown()

	var sink ingest.Sink = st
	if pub != nil {
		sink = ingest.NewPublishSink(st, walComponents)
	}

	driver := ingest.NewDriver(sink)
	ingestor := ingest.NewRealtimeIngestor(driver)
	tailer := ingest.NewTailer(cfg.Feed.RawCapturePath)

	slogLogger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddIngestService(services.NewSubprocessService(ingest.SubprocessConfig{
		Command:       cfg.Feed.RecorderCommand,
		Args:          cfg.Feed.RecorderArgs,
		CapturePath:   cfg.Feed.RawCapturePath,
		ReconnectWait: cfg.Feed.ReconnectWait,
		ReconnectMax:  cfg.Feed.ReconnectMax,
	}))
	tree.AddIngestService(services.NewTailerService(tailer, ingestor))
	logging.Info().
		Str("command", cfg.Feed.RecorderCommand).
		Str("capture_path", cfg.Feed.RawCapturePath).
		Msg("Ingest services added")

	var sched *schedule.Scheduler
	if cfg.Backup.Enabled {
		backupMgr, err := backup.NewManager(cfg.Backup, cfg.Feed.RawCapturePath)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to create backup manager")
		}
		sched, err = schedule.NewScheduler()
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to create backup scheduler")
		}
		if err := sched.RegisterBackupUpload(backupMgr, cfg.Backup.Interval); err != nil {
			logging.Fatal().Err(err).Msg("Failed to register backup upload job")
		}
		sched.Start()
		defer func() {
			if err := sched.Stop(); err != nil {
				logging.Error().Err(err).Msg("Error stopping backup scheduler")
			}
		}()
		logging.Info().Str("bucket", cfg.Backup.Bucket).Dur("interval", cfg.Backup.Interval).
			Msg("Raw capture backup scheduled")
	} else {
		logging.Info().Msg("Raw capture backup disabled (BACKUP_ENABLED=false)")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Ingestion daemon stopped gracefully")
}
