// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package config

import (
	"os"
	"testing"
)

// setupTestEnv sets up test environment variables and returns cleanup function.
func setupTestEnv(t *testing.T, envVars map[string]string) func() {
	t.Helper()
	os.Clearenv()
	for k, v := range envVars {
		if err := os.Setenv(k, v); err != nil {
			t.Fatalf("failed to set env var %s: %v", k, err)
		}
	}
	return func() {
		os.Clearenv()
	}
}

func TestLoadLegacy_Defaults(t *testing.T) {
	defer setupTestEnv(t, nil)()

	cfg, err := LoadLegacy()
	if err != nil {
		t.Fatalf("LoadLegacy: %v", err)
	}

	if cfg.Feed.RecorderCommand != "python3" {
		t.Errorf("Feed.RecorderCommand = %q, want python3", cfg.Feed.RecorderCommand)
	}
	if cfg.Server.Port != 3857 {
		t.Errorf("Server.Port = %d, want 3857", cfg.Server.Port)
	}
	if cfg.Historical.Workers != 4 {
		t.Errorf("Historical.Workers = %d, want 4", cfg.Historical.Workers)
	}
	if cfg.Backup.Enabled {
		t.Errorf("Backup.Enabled = true, want false by default")
	}
}

func TestLoadLegacy_OverridesFromEnv(t *testing.T) {
	defer setupTestEnv(t, map[string]string{
		"FEED_RAW_CAPTURE_PATH": "/tmp/capture.jsonl",
		"HTTP_PORT":             "9000",
		"HISTORICAL_WORKERS":    "8",
		"BACKUP_ENABLED":        "true",
		"BACKUP_BUCKET":         "f1-raw-captures",
	})()

	cfg, err := LoadLegacy()
	if err != nil {
		t.Fatalf("LoadLegacy: %v", err)
	}

	if cfg.Feed.RawCapturePath != "/tmp/capture.jsonl" {
		t.Errorf("Feed.RawCapturePath = %q, want /tmp/capture.jsonl", cfg.Feed.RawCapturePath)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Historical.Workers != 8 {
		t.Errorf("Historical.Workers = %d, want 8", cfg.Historical.Workers)
	}
	if !cfg.Backup.Enabled {
		t.Errorf("Backup.Enabled = false, want true")
	}
}

func TestLoadLegacy_RejectsMissingBackupBucketWhenEnabled(t *testing.T) {
	defer setupTestEnv(t, map[string]string{
		"BACKUP_ENABLED": "true",
	})()

	if _, err := LoadLegacy(); err == nil {
		t.Fatal("expected error for BACKUP_ENABLED=true without BACKUP_BUCKET, got nil")
	}
}

func TestLoadLegacy_RejectsPlaceholderBackupCredentials(t *testing.T) {
	defer setupTestEnv(t, map[string]string{
		"BACKUP_ENABLED":          "true",
		"BACKUP_BUCKET":           "f1-raw-captures",
		"BACKUP_ACCESS_KEY_ID":    "CHANGEME",
		"BACKUP_SECRET_ACCESS_KEY": "s3cret",
	})()

	if _, err := LoadLegacy(); err == nil {
		t.Fatal("expected error for placeholder BACKUP_ACCESS_KEY_ID, got nil")
	}
}

func TestLoadLegacy_RejectsWildcardCORSInProduction(t *testing.T) {
	defer setupTestEnv(t, map[string]string{
		"ENVIRONMENT":  "production",
		"CORS_ORIGINS": "*",
	})()

	if _, err := LoadLegacy(); err == nil {
		t.Fatal("expected error for wildcard CORS in production, got nil")
	}
}

func TestLoadLegacy_RejectsInvalidLogLevel(t *testing.T) {
	defer setupTestEnv(t, map[string]string{
		"LOG_LEVEL": "verbose",
	})()

	if _, err := LoadLegacy(); err == nil {
		t.Fatal("expected error for invalid LOG_LEVEL, got nil")
	}
}

func TestIsProductionIsDevelopment(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Environment: "production"}}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true for \"production\"")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false for \"production\"")
	}

	cfg.Server.Environment = ""
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true for empty environment")
	}
}
