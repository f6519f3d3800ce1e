// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

// Package backup archives the raw live-timing capture file to S3,
// independent of the document store.
//
// This is an audit/replay trail, not a restorable database snapshot: the
// document store already holds every processed record, and cmd/historical
// can re-derive it from F1's own public archive. What this package
// protects against is losing the exact bytes cmd/ingestd's recorder
// subprocess wrote, in case a future reprocessing needs them (a bug in
// internal/collections discovered after the fact, for instance).
//
// Usage:
//
//	mgr, err := backup.NewManager(cfg.Backup, cfg.Feed.RawCapturePath)
//	sched.RegisterBackupUpload(mgr, cfg.Backup.Interval)
package backup
