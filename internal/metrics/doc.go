// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package implements application instrumentation using the Prometheus client
library, exposing metrics for monitoring query performance, ingestion throughput,
publish/subscribe health, and system state.

# Overview

The package provides metrics for:
  - API request latency and throughput
  - DuckDB query performance
  - Ingestion statistics (live feed session close, historical backfill runs)
  - Circuit breaker state transitions (NATS publish path)
  - Dead Letter Queue depth and retry outcomes
  - NATS publish/consume/processing throughput
  - Cache hit/miss rates

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:3857/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Database Metrics:
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation, table
  - duckdb_query_errors_total: Failed queries (counter)
    Labels: operation, table, error_type
  - duckdb_connection_pool_size: Active connections (gauge)

Ingestion Metrics:
  - ingest_duration_seconds: Ingestion run duration (histogram)
  - ingest_records_processed_total: Records processed (counter)
  - ingest_errors_total: Failed ingestion runs (counter)
    Labels: error_type (feed, database, decode, other)
  - ingest_last_success_timestamp: Unix timestamp of last successful run (gauge)
  - ingest_batch_size: Records per ingestion batch (histogram)

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Request outcomes (counter)
    Labels: name, result (success, failure, rejected)
  - circuit_breaker_consecutive_failures: Current failure streak (gauge)
    Labels: name
  - circuit_breaker_state_transitions_total: State changes (counter)
    Labels: name, from_state, to_state

Dead Letter Queue Metrics:
  - dlq_entries_total: Current DLQ size (gauge)
  - dlq_entries_by_category: Current DLQ size by error category (gauge)
    Labels: category
  - dlq_messages_added_total / dlq_messages_removed_total / dlq_messages_expired_total (counters)
  - dlq_retry_attempts_total / dlq_retry_successes_total / dlq_retry_failures_total (counters)
  - dlq_oldest_entry_age_seconds: Age of the oldest DLQ entry (gauge)

NATS Metrics:
  - nats_messages_published_total / nats_messages_consumed_total / nats_messages_processed_total (counters)
  - nats_messages_deduplicated_total / nats_messages_parse_failed_total (counters)
  - nats_processing_duration_seconds / nats_batch_flush_duration_seconds (histograms)
  - nats_batch_size (histogram)
  - nats_queue_depth / nats_consumer_lag (gauges)

Cache Metrics:
  - cache_hits_total / cache_misses_total / cache_evictions_total (counters)
    Labels: cache_type
  - cache_entries: Current cached entry count (gauge)
    Labels: cache_type

System Metrics:
  - app_info: Version and build information (gauge)
    Labels: version, go_version
  - app_uptime_seconds: Application uptime (gauge)

# Usage Example

Basic setup in main.go:

	import (
	    "github.com/tomtom215/f1telemetry/internal/metrics"
	    "github.com/prometheus/client_golang/prometheus/promhttp"
	)

	func main() {
	    http.Handle("/metrics", promhttp.Handler())

	    metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
	}

Recording a database query:

	start := time.Now()
	rows, err := conn.QueryContext(ctx, sql)
	metrics.RecordDBQuery("SELECT", "laps", time.Since(start), err)

Recording an ingestion run (no package in this repository calls
RecordIngestRun):

	start := time.Now()
	n, err := ingestSession(ctx, sessionKey)
	metrics.RecordIngestRun(time.Since(start), n, err)

# Prometheus Configuration

Example prometheus.yml configuration:

	scrape_configs:
	  - job_name: 'f1telemetry'
	    static_configs:
	      - targets: ['localhost:3857']
	    metrics_path: '/metrics'
	    scrape_interval: 15s

# Example PromQL queries

	# API p95 latency
	histogram_quantile(0.95, rate(api_request_duration_seconds_bucket[5m]))

	# DuckDB query rate
	rate(duckdb_query_duration_seconds_count[5m])

	# Cache hit rate
	sum(rate(cache_hits_total[5m])) / (sum(rate(cache_hits_total[5m])) + sum(rate(cache_misses_total[5m])))

	# DLQ backlog
	dlq_entries_total

# Thread Safety

All metric recording functions are thread-safe and designed for concurrent use
from multiple goroutines. The Prometheus client library handles synchronization
internally.

# Cardinality Management

To prevent high cardinality issues:
  - The /v1/{collection} handler labels requests with its route pattern;
    the chi middleware labels other requests with the URL path (query
    string excluded)
  - Ingest error types are a fixed set (feed, database, decode, other); the
    DB query error_type label is the error message cut to 50 characters,
    so it is not drawn from a fixed set
  - DLQ/circuit-breaker "name"/"category" labels are drawn from small fixed sets

# See Also

  - internal/api: PrometheusMetrics middleware (api_* family)
  - internal/publish: circuit breaker, DLQ, and NATS metrics
  - internal/api: DuckDB query metrics, recorded by the collection handler
  - https://prometheus.io/docs/practices/naming/: Metric naming conventions
*/
package metrics
