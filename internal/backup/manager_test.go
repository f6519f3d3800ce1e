// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package backup

import (
	"context"
	"testing"

	"github.com/tomtom215/f1telemetry/internal/config"
)

func TestNewManager_DefaultsRegion(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	mgr, err := NewManager(config.BackupConfig{Bucket: "f1-raw-captures"}, "/tmp/capture.jsonl")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if mgr.cfg.Bucket != "f1-raw-captures" {
		t.Errorf("bucket = %q, want f1-raw-captures", mgr.cfg.Bucket)
	}
}

func TestExpireObjects_NoRetentionIsANoOp(t *testing.T) {
	mgr := &Manager{cfg: config.BackupConfig{Retention: 0}}
	if err := mgr.ExpireObjects(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
