// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables
// and an optional config file.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in sensible defaults for all optional settings
//  2. Config File: optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: override any setting
//
// Configuration Categories:
//
//  1. Feed: the live-timing WebSocket/SignalR source this process ingests from.
//  2. Infrastructure: DuckDB document store, optional NATS fan-out, HTTP server,
//     S3 raw-capture archival.
//  3. API: pagination and query limits for the read surface.
//  4. Observability: log levels and output format.
//
// Config is immutable after Load() and safe for concurrent read access from
// multiple goroutines.
type Config struct {
	Feed       FeedConfig       `koanf:"feed"`
	Database   DatabaseConfig   `koanf:"database"`
	NATS       NATSConfig       `koanf:"nats"` // Optional: fan-out to internal/publish
	Schedule   ScheduleConfig   `koanf:"schedule"`
	Server     ServerConfig     `koanf:"server"`
	API        APIConfig        `koanf:"api"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
	Backup     BackupConfig     `koanf:"backup"`     // Optional: raw-capture archival to S3
	Historical HistoricalConfig `koanf:"historical"` // cmd/historical ingestor tuning
}

// FeedConfig holds settings for the external process that records raw
// live-timing frames to disk. cmd/ingestd supervises this subprocess and
// tails the file it writes; it never speaks the live-timing wire protocol
// itself.
//
// Environment Variables:
//   - FEED_RECORDER_COMMAND: executable that records frames (default: python3)
//   - FEED_RECORDER_ARGS: comma-separated arguments passed to the recorder
//   - FEED_RAW_CAPTURE_PATH: file the recorder appends raw frames to, and
//     cmd/ingestd tails
//   - FEED_RECONNECT_WAIT: base delay before restarting a dead recorder (default: 2s)
//   - FEED_RECONNECT_MAX: maximum restart attempts before giving up, 0 = unlimited
//   - FEED_STALL_TIMEOUT: loaded into StallTimeout (default: 60s); the
//     recorder supervisor in internal/ingest does not read it and always
//     uses its own fixed 60s stall check
type FeedConfig struct {
	RecorderCommand string        `koanf:"recorder_command"`
	RecorderArgs    []string      `koanf:"recorder_args"`
	RawCapturePath  string        `koanf:"raw_capture_path"`
	ReconnectWait   time.Duration `koanf:"reconnect_wait"`
	ReconnectMax    int           `koanf:"reconnect_max"`
	StallTimeout    time.Duration `koanf:"stall_timeout"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // Number of DuckDB threads (0 = use NumCPU)
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // Whether to preserve insertion order (default true)
	SeedMockData           bool   `koanf:"seed_mock_data"`           // Enable mock data seeding for CI/CD screenshot tests
}

// NATSConfig holds NATS JetStream configuration for the optional fan-out of
// processed records to external subscribers (internal/publish). Ingestion
// never depends on this: a missing or misconfigured NATS server only
// disables the fan-out, never the document store writes.
//
// Environment Variables:
//   - NATS_ENABLED: enable the fan-out (default: false)
//   - NATS_URL: NATS server connection URL (default: nats://127.0.0.1:4222)
//   - NATS_EMBEDDED: use an embedded NATS server (default: true)
//   - NATS_STORE_DIR: JetStream storage directory
//   - NATS_MAX_MEMORY / NATS_MAX_STORE: JetStream resource limits in bytes
//   - NATS_RETENTION_DAYS: stream retention period
//   - NATS_SUBSCRIBERS: number of concurrent message processors
//   - NATS_DURABLE_NAME / NATS_QUEUE_GROUP: consumer identity
type NATSConfig struct {
	Enabled             bool          `koanf:"enabled"`
	URL                 string        `koanf:"url"`
	EmbeddedServer      bool          `koanf:"embedded_server"`
	StoreDir            string        `koanf:"store_dir"`
	MaxMemory           int64         `koanf:"max_memory"`
	MaxStore            int64         `koanf:"max_store"`
	StreamRetentionDays int           `koanf:"stream_retention_days"`
	SubscribersCount    int           `koanf:"subscribers_count"`
	DurableName         string        `koanf:"durable_name"`
	QueueGroup          string        `koanf:"queue_group"`

	// Router configuration (Watermill Router-based message processing)
	RouterRetryCount           int           `koanf:"router_retry_count"`
	RouterRetryInitialInterval time.Duration `koanf:"router_retry_initial_interval"`
	RouterThrottlePerSecond    int           `koanf:"router_throttle_per_second"`
	RouterDeduplicationEnabled bool          `koanf:"router_deduplication_enabled"`
	RouterDeduplicationTTL     time.Duration `koanf:"router_deduplication_ttl"`
	RouterPoisonQueueEnabled   bool          `koanf:"router_poison_queue_enabled"`
	RouterPoisonQueueTopic     string        `koanf:"router_poison_queue_topic"`
	RouterCloseTimeout         time.Duration `koanf:"router_close_timeout"`
}

// ScheduleConfig holds the cadence for the latest-session resolution cache
// refresh and the bounded-worker historical backfill retry policy.
type ScheduleConfig struct {
	LatestRefreshInterval time.Duration `koanf:"latest_refresh_interval"`
	LatestCacheTTL        time.Duration `koanf:"latest_cache_ttl"`
	RetryAttempts         int           `koanf:"retry_attempts"`
	RetryDelay            time.Duration `koanf:"retry_delay"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development", "staging", "production" (default: "development")
}

// APIConfig holds API pagination and response limits for the /v1/{collection}
// query surface.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds the ambient HTTP hardening settings that apply
// regardless of authentication — the spec's no-auth Non-goal means there is
// no AuthMode/JWT/OIDC surface here, only CORS and rate limiting.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// BackupConfig holds settings for archiving raw captured feed frames to S3,
// independent of the document store — this is the audit/replay trail, not
// the query path.
//
// Environment Variables:
//   - BACKUP_ENABLED: enable periodic upload (default: false)
//   - BACKUP_BUCKET: destination S3 bucket
//   - BACKUP_PREFIX: key prefix under the bucket
//   - BACKUP_INTERVAL: upload cadence (default: 5m)
//   - BACKUP_RETENTION: how long uploaded objects are kept before expiry (default: 720h)
//   - BACKUP_ACCESS_KEY_ID / BACKUP_SECRET_ACCESS_KEY: static credentials; if
//     either is empty, the AWS SDK's default credential chain is used instead
//     (instance role, shared config, environment)
type BackupConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Bucket          string        `koanf:"bucket"`
	Prefix          string        `koanf:"prefix"`
	Region          string        `koanf:"region"`
	Interval        time.Duration `koanf:"interval"`
	Retention       time.Duration `koanf:"retention"`
	AccessKeyID     string        `koanf:"access_key_id"`
	SecretAccessKey string        `koanf:"secret_access_key"`
}

// HistoricalConfig tunes the cmd/historical bounded worker pool used to
// backfill past sessions/meetings/seasons.
//
// Environment Variables:
//   - HISTORICAL_WORKERS: concurrent session workers (default: 4)
//   - HISTORICAL_REQUEST_TIMEOUT: per-request timeout against the archive (default: 30s)
type HistoricalConfig struct {
	Workers        int           `koanf:"workers"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// Load reads configuration from environment variables and optional config file.
// Configuration is loaded in the following order (later sources override earlier ones):
//  1. Built-in defaults
//  2. Config file (config.yaml if exists, or path specified in CONFIG_PATH env var)
//  3. Environment variables
//
// This function uses Koanf v2 for flexible, layered configuration management.
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// LoadLegacy reads configuration directly from environment variables only.
// Preserved for tests that want a config without touching the filesystem.
//
// Deprecated: Use Load() instead for new code.
func LoadLegacy() (*Config, error) {
	cfg := &Config{
		Feed: FeedConfig{
			RecorderCommand: getEnv("FEED_RECORDER_COMMAND", "python3"),
			RecorderArgs:    getSliceEnv("FEED_RECORDER_ARGS", []string{"-m", "fastf1_livetiming", "save"}),
			RawCapturePath:  getEnv("FEED_RAW_CAPTURE_PATH", "/data/raw/capture.txt"),
			ReconnectWait:   getDurationEnv("FEED_RECONNECT_WAIT", 2*time.Second),
			ReconnectMax:    getIntEnv("FEED_RECONNECT_MAX", 0),
			StallTimeout:    getDurationEnv("FEED_STALL_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Path:                   getEnv("DUCKDB_PATH", "/data/f1telemetry.duckdb"),
			MaxMemory:              getEnv("DUCKDB_MAX_MEMORY", "2GB"),
			Threads:                getIntEnv("DUCKDB_THREADS", 0), // 0 means use runtime.NumCPU()
			PreserveInsertionOrder: getBoolEnv("DUCKDB_PRESERVE_INSERTION_ORDER", true),
			SeedMockData:           getBoolEnv("SEED_MOCK_DATA", false),
		},
		NATS: NATSConfig{
			Enabled:             getBoolEnv("NATS_ENABLED", false),
			URL:                 getEnv("NATS_URL", "nats://127.0.0.1:4222"),
			EmbeddedServer:      getBoolEnv("NATS_EMBEDDED", true),
			StoreDir:            getEnv("NATS_STORE_DIR", "/data/nats/jetstream"),
			MaxMemory:           getInt64Env("NATS_MAX_MEMORY", 1<<30), // 1GB default
			MaxStore:            getInt64Env("NATS_MAX_STORE", 10<<30), // 10GB default
			StreamRetentionDays: getIntEnv("NATS_RETENTION_DAYS", 7),
			SubscribersCount:    getIntEnv("NATS_SUBSCRIBERS", 4),
			DurableName:         getEnv("NATS_DURABLE_NAME", "timing-publisher"),
			QueueGroup:          getEnv("NATS_QUEUE_GROUP", "processors"),

			RouterRetryCount:           getIntEnv("NATS_ROUTER_RETRY_COUNT", 3),
			RouterRetryInitialInterval: getDurationEnv("NATS_ROUTER_RETRY_INTERVAL", 100*time.Millisecond),
			RouterThrottlePerSecond:    getIntEnv("NATS_ROUTER_THROTTLE", 0),
			RouterDeduplicationEnabled: getBoolEnv("NATS_ROUTER_DEDUP_ENABLED", false),
			RouterDeduplicationTTL:     getDurationEnv("NATS_ROUTER_DEDUP_TTL", 5*time.Minute),
			RouterPoisonQueueEnabled:   getBoolEnv("NATS_ROUTER_POISON_ENABLED", true),
			RouterPoisonQueueTopic:     getEnv("NATS_ROUTER_POISON_TOPIC", "dlq.records"),
			RouterCloseTimeout:         getDurationEnv("NATS_ROUTER_CLOSE_TIMEOUT", 30*time.Second),
		},
		Schedule: ScheduleConfig{
			LatestRefreshInterval: getDurationEnv("SCHEDULE_LATEST_REFRESH_INTERVAL", time.Minute),
			LatestCacheTTL:        getDurationEnv("SCHEDULE_LATEST_CACHE_TTL", 90*time.Second),
			RetryAttempts:         getIntEnv("SCHEDULE_RETRY_ATTEMPTS", 5),
			RetryDelay:            getDurationEnv("SCHEDULE_RETRY_DELAY", 2*time.Second),
		},
		Server: ServerConfig{
			Port:        getIntEnv("HTTP_PORT", 3857),
			Host:        getEnv("HTTP_HOST", "0.0.0.0"),
			Timeout:     getDurationEnv("HTTP_TIMEOUT", 30*time.Second),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		API: APIConfig{
			DefaultPageSize: getIntEnv("API_DEFAULT_PAGE_SIZE", 100),
			MaxPageSize:     getIntEnv("API_MAX_PAGE_SIZE", 10000),
		},
		Security: SecurityConfig{
			RateLimitReqs:     getIntEnv("RATE_LIMIT_REQUESTS", 100),
			RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", 1*time.Minute),
			RateLimitDisabled: getBoolEnv("DISABLE_RATE_LIMIT", false),
			CORSOrigins:       getSliceEnv("CORS_ORIGINS", []string{"*"}),
			TrustedProxies:    getSliceEnv("TRUSTED_PROXIES", []string{}),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Caller: getBoolEnv("LOG_CALLER", false),
		},
		Backup: BackupConfig{
			Enabled:         getBoolEnv("BACKUP_ENABLED", false),
			Bucket:          getEnv("BACKUP_BUCKET", ""),
			Prefix:          getEnv("BACKUP_PREFIX", "raw-captures"),
			Region:          getEnv("BACKUP_REGION", "us-east-1"),
			Interval:        getDurationEnv("BACKUP_INTERVAL", 5*time.Minute),
			Retention:       getDurationEnv("BACKUP_RETENTION", 720*time.Hour),
			AccessKeyID:     getEnv("BACKUP_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("BACKUP_SECRET_ACCESS_KEY", ""),
		},
		Historical: HistoricalConfig{
			Workers:        getIntEnv("HISTORICAL_WORKERS", 4),
			RequestTimeout: getDurationEnv("HISTORICAL_REQUEST_TIMEOUT", 30*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}

// NOTE: Validate() method is in config_validate.go
// NOTE: URL validation functions are in config_url.go
// NOTE: Environment variable helpers are in config_env.go
