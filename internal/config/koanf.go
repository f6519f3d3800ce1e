// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/f1telemetry/config.yaml",
	"/etc/f1telemetry/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Feed: FeedConfig{
			RecorderCommand: "python3",
			RecorderArgs:    []string{"-m", "fastf1_livetiming", "save"},
			RawCapturePath:  "/data/raw/capture.txt",
			ReconnectWait:   2 * time.Second,
			ReconnectMax:    0, // unlimited
			StallTimeout:    60 * time.Second,
		},
		Database: DatabaseConfig{
			Path:                   "/data/f1telemetry.duckdb",
			MaxMemory:              "2GB",
			Threads:                0, // use runtime.NumCPU()
			PreserveInsertionOrder: true,
			SeedMockData:           false,
		},
		NATS: NATSConfig{
			Enabled:             false,
			URL:                 "nats://127.0.0.1:4222",
			EmbeddedServer:      true,
			StoreDir:            "/data/nats/jetstream",
			MaxMemory:           1 << 30,  // 1GB
			MaxStore:            10 << 30, // 10GB
			StreamRetentionDays: 7,
			SubscribersCount:    4,
			DurableName:         "timing-publisher",
			QueueGroup:          "processors",

			RouterRetryCount:           3,
			RouterRetryInitialInterval: 100 * time.Millisecond,
			RouterThrottlePerSecond:    0,
			RouterDeduplicationEnabled: false,
			RouterDeduplicationTTL:     5 * time.Minute,
			RouterPoisonQueueEnabled:   true,
			RouterPoisonQueueTopic:     "dlq.records",
			RouterCloseTimeout:         30 * time.Second,
		},
		Schedule: ScheduleConfig{
			LatestRefreshInterval: time.Minute,
			LatestCacheTTL:        90 * time.Second,
			RetryAttempts:         5,
			RetryDelay:            2 * time.Second,
		},
		Server: ServerConfig{
			Port:        3857,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		API: APIConfig{
			DefaultPageSize: 100,
			MaxPageSize:     10000,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
			TrustedProxies:    []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Backup: BackupConfig{
			Enabled:         false,
			Bucket:          "",
			Prefix:          "raw-captures",
			Region:          "us-east-1",
			Interval:        5 * time.Minute,
			Retention:       720 * time.Hour,
			AccessKeyID:     "",
			SecretAccessKey: "",
		},
		Historical: HistoricalConfig{
			Workers:        4,
			RequestTimeout: 30 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration in three layers: struct defaults, an
// optional YAML config file, then environment variables — each layer
// overriding the one before it.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// Transform environment variable names to koanf paths:
	// FEED_RECORDER_COMMAND -> feed.recorder_command
	// NATS_DURABLE_NAME -> nats.durable_name
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	// Unmarshal into Config struct
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	// Search default paths
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
	"feed.recorder_args",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// If it's already a slice (from YAML file), skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		// If it's a string, split by comma
		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - FEED_RECORDER_COMMAND -> feed.recorder_command
//   - DUCKDB_PATH -> database.path
//   - HTTP_PORT -> server.port
//   - NATS_DURABLE_NAME -> nats.durable_name
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Feed (recording subprocess)
		"feed_recorder_command": "feed.recorder_command",
		"feed_recorder_args":    "feed.recorder_args",
		"feed_raw_capture_path": "feed.raw_capture_path",
		"feed_reconnect_wait":   "feed.reconnect_wait",
		"feed_reconnect_max":    "feed.reconnect_max",
		"feed_stall_timeout":    "feed.stall_timeout",

		// Database (DuckDB document store)
		"duckdb_path":                       "database.path",
		"duckdb_max_memory":                 "database.max_memory",
		"duckdb_threads":                    "database.threads",
		"duckdb_preserve_insertion_order":   "database.preserve_insertion_order",
		"seed_mock_data":                    "database.seed_mock_data",

		// NATS (optional publish fan-out)
		"nats_enabled":                  "nats.enabled",
		"nats_url":                      "nats.url",
		"nats_embedded":                 "nats.embedded_server",
		"nats_store_dir":                "nats.store_dir",
		"nats_max_memory":               "nats.max_memory",
		"nats_max_store":                "nats.max_store",
		"nats_retention_days":           "nats.stream_retention_days",
		"nats_subscribers":              "nats.subscribers_count",
		"nats_durable_name":             "nats.durable_name",
		"nats_queue_group":              "nats.queue_group",
		"nats_router_retry_count":       "nats.router_retry_count",
		"nats_router_retry_interval":    "nats.router_retry_initial_interval",
		"nats_router_throttle":          "nats.router_throttle_per_second",
		"nats_router_dedup_enabled":     "nats.router_deduplication_enabled",
		"nats_router_dedup_ttl":         "nats.router_deduplication_ttl",
		"nats_router_poison_enabled":    "nats.router_poison_queue_enabled",
		"nats_router_poison_topic":      "nats.router_poison_queue_topic",
		"nats_router_close_timeout":     "nats.router_close_timeout",

		// Schedule (latest-session cache + historical backfill retry policy)
		"schedule_latest_refresh_interval": "schedule.latest_refresh_interval",
		"schedule_latest_cache_ttl":        "schedule.latest_cache_ttl",
		"schedule_retry_attempts":          "schedule.retry_attempts",
		"schedule_retry_delay":             "schedule.retry_delay",

		// HTTP server
		"http_port":    "server.port",
		"http_host":    "server.host",
		"http_timeout": "server.timeout",
		"environment":  "server.environment",

		// API pagination
		"api_default_page_size": "api.default_page_size",
		"api_max_page_size":     "api.max_page_size",

		// Security (CORS + rate limiting only — no auth surface)
		"rate_limit_requests": "security.rate_limit_reqs",
		"rate_limit_window":   "security.rate_limit_window",
		"disable_rate_limit":  "security.rate_limit_disabled",
		"cors_origins":        "security.cors_origins",
		"trusted_proxies":     "security.trusted_proxies",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		// Backup (raw-capture S3 archival)
		"backup_enabled":           "backup.enabled",
		"backup_bucket":            "backup.bucket",
		"backup_prefix":            "backup.prefix",
		"backup_region":            "backup.region",
		"backup_interval":          "backup.interval",
		"backup_retention":         "backup.retention",
		"backup_access_key_id":     "backup.access_key_id",
		"backup_secret_access_key": "backup.secret_access_key",

		// Historical ingestor tuning
		"historical_workers":         "historical.workers",
		"historical_request_timeout": "historical.request_timeout",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped environment variables are ignored rather than guessed at,
	// so unrelated process env vars never leak into the config tree.
	return ""
}

// GetKoanfInstance returns a new Koanf instance for advanced usage.
// This is useful for:
//   - Hot-reload scenarios (with proper mutex protection)
//   - Custom configuration sources
//   - Testing with mock configurations
func GetKoanfInstance() *koanf.Koanf {
	return koanf.New(".")
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// Note: The caller is responsible for mutex protection when accessing
// configuration during reloads.
//
// Example usage:
//
//	var cfgMu sync.RWMutex
//	var cfg *Config
//
//	err := WatchConfigFile(configPath, func() {
//	    cfgMu.Lock()
//	    defer cfgMu.Unlock()
//	    newCfg, err := LoadWithKoanf()
//	    if err != nil {
//	        log.Printf("Config reload failed: %v", err)
//	        return
//	    }
//	    cfg = newCfg
//	    log.Println("Configuration reloaded successfully")
//	})
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	// Start watching the file for changes
	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
