// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

/*
Package config provides centralized configuration management for the
telemetry ingestion, storage, and query service.

This package handles loading, validation, and parsing of environment variables
for all application components. It ensures consistent configuration across the
ingest, storage, and API surfaces and provides sensible defaults for optional
settings.

# Configuration Sources

The package reads configuration from, in increasing order of precedence:

 1. Built-in struct defaults
 2. An optional YAML config file (config.yaml, or the path named by CONFIG_PATH)
 3. Environment variables

# Configuration Structure

The package organizes configuration into logical groups:

  - FeedConfig: recording subprocess command and capture-file settings
  - DatabaseConfig: DuckDB document store connection and performance tuning
  - NATSConfig: optional Watermill/NATS JetStream fan-out of processed records
  - ScheduleConfig: latest-session cache refresh cadence and retry policy
  - ServerConfig: HTTP server settings (host, port, timeouts)
  - APIConfig: query surface pagination limits
  - SecurityConfig: CORS and rate-limiting (no authentication surface)
  - LoggingConfig: zerolog level/format settings
  - BackupConfig: raw-capture archival to S3
  - HistoricalConfig: cmd/historical bounded worker pool tuning

# Environment Variables

Feed (recording subprocess, FeedConfig):
  - FEED_RECORDER_COMMAND / FEED_RECORDER_ARGS: the external process that
    records raw live-timing frames to disk
  - FEED_RAW_CAPTURE_PATH: file cmd/ingestd tails for new frames
  - FEED_RECONNECT_WAIT / FEED_RECONNECT_MAX: restart backoff if the
    recorder exits
  - FEED_STALL_TIMEOUT: loaded into FeedConfig.StallTimeout; the recorder
    supervisor does not read it and kills a stalled recorder after a fixed
    60s

Database (DatabaseConfig):
  - DUCKDB_PATH: database file path (default: /data/f1telemetry.duckdb)
  - DUCKDB_THREADS: thread count (default: CPU count)
  - DUCKDB_MAX_MEMORY: memory limit (default: 2GB)

NATS (optional fan-out, NATSConfig):
  - NATS_ENABLED: enable the publish path (default: false)
  - NATS_URL, NATS_EMBEDDED, NATS_STORE_DIR, NATS_MAX_MEMORY, NATS_MAX_STORE
  - NATS_RETENTION_DAYS, NATS_SUBSCRIBERS, NATS_DURABLE_NAME, NATS_QUEUE_GROUP
  - NATS_ROUTER_*: retry, throttle, deduplication, and poison-queue settings

Schedule (ScheduleConfig):
  - SCHEDULE_LATEST_REFRESH_INTERVAL, SCHEDULE_LATEST_CACHE_TTL
  - SCHEDULE_RETRY_ATTEMPTS, SCHEDULE_RETRY_DELAY

HTTP Server (ServerConfig):
  - HTTP_HOST: bind address (default: 0.0.0.0)
  - HTTP_PORT: listen port (default: 3857)
  - HTTP_TIMEOUT: request timeout (default: 30s)
  - ENVIRONMENT: development, staging, or production

API (APIConfig):
  - API_DEFAULT_PAGE_SIZE, API_MAX_PAGE_SIZE

Security (SecurityConfig — ambient hardening only, no AuthMode/JWT/OIDC):
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - CORS_ORIGINS: comma-separated list of allowed origins
  - TRUSTED_PROXIES: comma-separated list of trusted proxy IPs/CIDRs

Logging (LoggingConfig):
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json, console (default: json)
  - LOG_CALLER: include caller file:line (default: false)

Backup (BackupConfig):
  - BACKUP_ENABLED, BACKUP_BUCKET, BACKUP_PREFIX, BACKUP_REGION
  - BACKUP_INTERVAL, BACKUP_RETENTION

Historical (HistoricalConfig):
  - HISTORICAL_WORKERS, HISTORICAL_REQUEST_TIMEOUT

# Usage Example

Basic configuration loading:

	import "github.com/tomtom215/f1telemetry/internal/config"

	cfg, err := config.Load()
	if err != nil {
	    log.Fatalf("Failed to load config: %v", err)
	}

	fmt.Printf("Starting server on %s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("Recorder: %s %v\n", cfg.Feed.RecorderCommand, cfg.Feed.RecorderArgs)
	fmt.Printf("Database: %s\n", cfg.Database.Path)

Testing with custom configuration:

	os.Setenv("HTTP_PORT", "8080")
	os.Setenv("FEED_RAW_CAPTURE_PATH", "/tmp/test-capture.txt")

	cfg, err := config.Load()
	// Use cfg for testing

# Validation

The package performs validation on load:

  - Required fields: FEED_RECORDER_COMMAND, FEED_RAW_CAPTURE_PATH; NATS_URL
    and NATS_DURABLE_NAME if NATS_ENABLED=true; BACKUP_BUCKET if BACKUP_ENABLED=true
  - Numeric ranges: HTTP_PORT (1-65535), RATE_LIMIT_REQUESTS (1-100000)
  - Duration ranges: RATE_LIMIT_WINDOW (1s-1h), NATS_RETENTION_DAYS (1-365)
  - URL formats: NATS_URL must be nats/tls/ws/wss
  - CORS: wildcard CORS_ORIGINS is rejected when ENVIRONMENT=production

# Defaults

Sensible defaults are provided for all optional settings:

  - HTTP_PORT: 3857
  - FEED_RECONNECT_WAIT: 2s
  - SCHEDULE_LATEST_REFRESH_INTERVAL: 1m
  - DUCKDB_THREADS: 0 (runtime.NumCPU())
  - NATS_RETENTION_DAYS: 7

# Thread Safety

The Config struct is immutable after Load() returns, making it safe for concurrent
access from multiple goroutines without synchronization.

# Performance

Configuration loading is fast (<10ms) and only happens once at startup. Values
are parsed and validated during Load(), so runtime access is direct field reads
with zero overhead.
*/
package config
