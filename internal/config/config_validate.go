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

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateFeed(); err != nil {
		return err
	}

	if err := c.validateNATS(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateBackup(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateFeed validates the recording subprocess settings.
func (c *Config) validateFeed() error {
	if c.Feed.RecorderCommand == "" {
		return fmt.Errorf("FEED_RECORDER_COMMAND is required")
	}
	if c.Feed.RawCapturePath == "" {
		return fmt.Errorf("FEED_RAW_CAPTURE_PATH is required")
	}
	if c.Feed.ReconnectMax < 0 {
		return fmt.Errorf("FEED_RECONNECT_MAX must be >= 0, got %d", c.Feed.ReconnectMax)
	}
	return nil
}

const (
	natsMinMemory      = 64 * 1024 * 1024  // 64MB
	natsMinStore       = 100 * 1024 * 1024 // 100MB
	natsMaxRetention   = 365
	natsMinRetention   = 1
	natsMaxSubscribers = 32
)

// validateNATS validates NATS fan-out configuration (only meaningful if enabled,
// since a disabled publisher never touches any of these settings).
func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}

	if c.NATS.URL == "" {
		return fmt.Errorf("NATS_URL is required when NATS_ENABLED=true")
	}
	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}

	if err := c.validateNATSLimits(); err != nil {
		return err
	}

	if c.NATS.StreamRetentionDays < natsMinRetention || c.NATS.StreamRetentionDays > natsMaxRetention {
		return fmt.Errorf("NATS_RETENTION_DAYS must be between %d and %d, got %d",
			natsMinRetention, natsMaxRetention, c.NATS.StreamRetentionDays)
	}

	if c.NATS.SubscribersCount < 1 || c.NATS.SubscribersCount > natsMaxSubscribers {
		return fmt.Errorf("NATS_SUBSCRIBERS must be between 1 and %d, got %d",
			natsMaxSubscribers, c.NATS.SubscribersCount)
	}

	if c.NATS.DurableName == "" {
		return fmt.Errorf("NATS_DURABLE_NAME must not be empty when NATS_ENABLED=true")
	}

	return nil
}

func (c *Config) validateNATSLimits() error {
	if c.NATS.EmbeddedServer {
		if c.NATS.MaxMemory < natsMinMemory {
			return fmt.Errorf("NATS_MAX_MEMORY must be at least %d bytes, got %d", natsMinMemory, c.NATS.MaxMemory)
		}
		if c.NATS.MaxStore < natsMinStore {
			return fmt.Errorf("NATS_MAX_STORE must be at least %d bytes, got %d", natsMinStore, c.NATS.MaxStore)
		}
	}
	return nil
}

// validateServer validates HTTP server configuration.
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	return nil
}

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateSecurity validates the ambient CORS/rate-limit hardening settings.
// There is no authentication surface to validate — the spec's no-auth
// Non-goal means AuthMode/JWT/OIDC never existed in this Config shape.
func (c *Config) validateSecurity() error {
	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

func (c *Config) validateCORS() error {
	if c.IsProduction() && hasWildcardCORS(c.Security.CORSOrigins) {
		// Wildcard CORS in production is a footgun worth flagging loudly even
		// without an auth boundary: it still lets any origin read responses
		// from a browser that has the API open in another tab.
		return fmt.Errorf("CORS_ORIGINS must not be \"*\" when ENVIRONMENT=production; list explicit origins")
	}
	return nil
}

func hasWildcardCORS(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if err := validateRateLimitRequests(c.Security.RateLimitReqs); err != nil {
		return err
	}
	return validateRateLimitWindow(c.Security.RateLimitWindow)
}

func validateRateLimitRequests(n int) error {
	if n < minRateLimitRequests || n > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d, got %d",
			minRateLimitRequests, maxRateLimitRequests, n)
	}
	return nil
}

func validateRateLimitWindow(d time.Duration) error {
	if d < minRateLimitWindow || d > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %s and %s, got %s",
			minRateLimitWindow, maxRateLimitWindow, d)
	}
	return nil
}

// validateBackup validates raw-capture archival settings (only if enabled).
func (c *Config) validateBackup() error {
	if !c.Backup.Enabled {
		return nil
	}
	if c.Backup.Bucket == "" {
		return fmt.Errorf("BACKUP_BUCKET is required when BACKUP_ENABLED=true")
	}
	if c.Backup.Interval <= 0 {
		return fmt.Errorf("BACKUP_INTERVAL must be positive, got %s", c.Backup.Interval)
	}
	if containsPlaceholder(c.Backup.AccessKeyID) || containsPlaceholder(c.Backup.SecretAccessKey) {
		return fmt.Errorf("BACKUP_ACCESS_KEY_ID/BACKUP_SECRET_ACCESS_KEY still hold placeholder text")
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

var validLogFormats = map[string]bool{
	"json": true, "console": true,
}

// validateLogging validates logging configuration.
func (c *Config) validateLogging() error {
	if err := validateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	return validateLogFormat(c.Logging.Format)
}

func validateLogLevel(level string) error {
	if !validLogLevels[strings.ToLower(level)] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", level)
	}
	return nil
}

func validateLogFormat(format string) error {
	if !validLogFormats[strings.ToLower(format)] {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", format)
	}
	return nil
}

// placeholderPatterns are values commonly left in example config files that
// should never reach a running instance.
var placeholderPatterns = []string{
	"REPLACE", "CHANGEME", "CHANGE_ME", "YOUR_SECRET", "YOUR_PASSWORD",
	"PLACEHOLDER", "TODO", "FIXME", "XXX", "EXAMPLE",
}

// containsPlaceholder reports whether a config value still holds example text,
// used for secret-bearing fields like the backup credentials.
func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	return containsAnyPattern(upper, placeholderPatterns)
}

func containsAnyPattern(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
