// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

// Package publish is the optional fan-out of processed records to external
// subscribers, over Watermill on NATS JetStream. It sits beside the store,
// not in front of it: the ingest driver writes to internal/store directly
// and, only if a publisher is configured, also hands the same records to
// this package. A subscriber losing its connection, or there being no NATS
// server configured at all, never affects what gets persisted — publish
// failures are logged, not propagated back into the ingest path.
//
//	ingest.Driver.ProcessMessage
//	        │
//	        ├──► store.Write            (always)
//	        └──► publish.Publisher      (only if configured)
//	                  │
//	                  ▼
//	           NATS JetStream stream "TIMING_RECORDS"
//	           subjects "records.<collection>"
//
// # Usage
//
//	pub, err := publish.NewPublisher(publish.DefaultPublisherConfig(natsURL), nil)
//	if err != nil { ... }
//	defer pub.Close()
//
//	err = pub.PublishRecord(ctx, record)
//
// # Components
//
//   - Publisher: circuit-breaker-protected Watermill publisher.
//   - router.go: a Watermill router for processes that want to consume
//     the same stream they publish to.
//   - health.go: readiness/liveness checks for the publisher and router;
//     no command in this repository registers them with an HTTP endpoint.
package publish
