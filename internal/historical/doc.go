// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

// Package historical backfills the document store from F1's public
// historical archive instead of a live recording subprocess: it resolves
// a session's archive path from the yearly schedule index, downloads
// every topic file recorded for that session, estimates the session's
// wall-clock start time (t0), and replays the decoded messages through
// the same internal/ingest.Driver and internal/collections processors the
// real-time path uses — a record written by a backfill is
// indistinguishable from one written live.
//
// cmd/historical exposes this as five subcommands: list-topics and
// get-messages for inspecting an archive without writing anything,
// and ingest-session/ingest-meeting/ingest-season for increasingly broad
// backfills.
package historical
