// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package metrics

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordDBQuery tests database query metric recording
func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		duration  time.Duration
		err       error
	}{
		{
			name:      "successful SELECT query",
			operation: "SELECT",
			table:     "laps",
			duration:  10 * time.Millisecond,
			err:       nil,
		},
		{
			name:      "successful INSERT query",
			operation: "INSERT",
			table:     "car_data",
			duration:  5 * time.Millisecond,
			err:       nil,
		},
		{
			name:      "failed query with short error",
			operation: "UPDATE",
			table:     "sessions",
			duration:  100 * time.Millisecond,
			err:       errors.New("connection refused"),
		},
		{
			name:      "failed query with long error - should truncate to 50 chars",
			operation: "DELETE",
			table:     "meetings",
			duration:  50 * time.Millisecond,
			err:       errors.New("this is a very long error message that exceeds fifty characters and should be truncated properly"),
		},
		{
			name:      "fast query under 1ms",
			operation: "SELECT",
			table:     "weather",
			duration:  500 * time.Microsecond,
			err:       nil,
		},
		{
			name:      "slow query over 5 seconds",
			operation: "SELECT",
			table:     "position",
			duration:  5500 * time.Millisecond,
			err:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordDBQuery(tt.operation, tt.table, tt.duration, tt.err)
		})
	}
}

// TestRecordDBQuery_ErrorTruncation verifies error messages are truncated at 50 chars
func TestRecordDBQuery_ErrorTruncation(t *testing.T) {
	err50 := errors.New(strings.Repeat("a", 50))
	RecordDBQuery("SELECT", "test", time.Millisecond, err50)

	err51 := errors.New(strings.Repeat("b", 51))
	RecordDBQuery("SELECT", "test", time.Millisecond, err51)

	err100 := errors.New(strings.Repeat("c", 100))
	RecordDBQuery("SELECT", "test", time.Millisecond, err100)

	errShort := errors.New("err")
	RecordDBQuery("SELECT", "test", time.Millisecond, errShort)
}

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
		duration   time.Duration
	}{
		{
			name:       "successful GET laps query",
			method:     "GET",
			endpoint:   "/v1/laps",
			statusCode: "200",
			duration:   25 * time.Millisecond,
		},
		{
			name:       "successful GET sessions query",
			method:     "GET",
			endpoint:   "/v1/sessions",
			statusCode: "200",
			duration:   150 * time.Millisecond,
		},
		{
			name:       "not found request",
			method:     "GET",
			endpoint:   "/v1/unknown",
			statusCode: "404",
			duration:   2 * time.Millisecond,
		},
		{
			name:       "internal server error",
			method:     "GET",
			endpoint:   "/v1/car_data",
			statusCode: "500",
			duration:   500 * time.Millisecond,
		},
		{
			name:       "rate limited request",
			method:     "GET",
			endpoint:   "/v1/position",
			statusCode: "429",
			duration:   1 * time.Millisecond,
		},
		{
			name:       "bad request - invalid filter",
			method:     "GET",
			endpoint:   "/v1/weather",
			statusCode: "400",
			duration:   10 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, tt.duration)
		})
	}
}

// TestRecordIngestRun tests ingestion run metric recording (live feed session
// close, or a historical backfill job)
func TestRecordIngestRun(t *testing.T) {
	tests := []struct {
		name             string
		duration         time.Duration
		recordsProcessed int
		err              error
	}{
		{
			name:             "successful ingest - small session",
			duration:         5 * time.Second,
			recordsProcessed: 100,
			err:              nil,
		},
		{
			name:             "successful ingest - full race",
			duration:         120 * time.Second,
			recordsProcessed: 500000,
			err:              nil,
		},
		{
			name:             "successful ingest - zero records",
			duration:         1 * time.Second,
			recordsProcessed: 0,
			err:              nil,
		},
		{
			name:             "feed connection error",
			duration:         30 * time.Second,
			recordsProcessed: 500,
			err:              errors.New("feed connection reset"),
		},
		{
			name:             "database error",
			duration:         15 * time.Second,
			recordsProcessed: 250,
			err:              errors.New("database write failed"),
		},
		{
			name:             "decode error",
			duration:         20 * time.Second,
			recordsProcessed: 750,
			err:              errors.New("decode deflate payload failed"),
		},
		{
			name:             "unknown error type",
			duration:         10 * time.Second,
			recordsProcessed: 100,
			err:              errors.New("something unexpected happened"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordIngestRun(tt.duration, tt.recordsProcessed, tt.err)
		})
	}
}

// TestTrackActiveRequest tests active request tracking
func TestTrackActiveRequest(t *testing.T) {
	tests := []struct {
		name string
		inc  bool
	}{
		{name: "increment active request", inc: true},
		{name: "decrement active request", inc: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			TrackActiveRequest(tt.inc)
		})
	}
}

// TestTrackActiveRequest_RequestLifecycle simulates realistic request lifecycle
func TestTrackActiveRequest_RequestLifecycle(t *testing.T) {
	for i := 0; i < 10; i++ {
		TrackActiveRequest(true)
	}
	for i := 0; i < 10; i++ {
		TrackActiveRequest(false)
	}
}

// TestContains exercises the prefix-check helper used for ingest error classification
func TestContains(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		substr   string
		expected bool
	}{
		{
			name:     "substring at start",
			s:        "feed connection reset",
			substr:   "feed",
			expected: true,
		},
		{
			name:     "substring not at start",
			s:        "error from feed",
			substr:   "feed",
			expected: false,
		},
		{
			name:     "empty substring - always true",
			s:        "any string",
			substr:   "",
			expected: true,
		},
		{
			name:     "empty string with empty substr",
			s:        "",
			substr:   "",
			expected: true,
		},
		{
			name:     "substring longer than string",
			s:        "hi",
			substr:   "hello",
			expected: false,
		},
		{
			name:     "exact match",
			s:        "database",
			substr:   "database",
			expected: true,
		},
		{
			name:     "case sensitive - no match",
			s:        "Database error",
			substr:   "database",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := contains(tt.s, tt.substr)
			if result != tt.expected {
				t.Errorf("contains(%q, %q) = %v, want %v", tt.s, tt.substr, result, tt.expected)
			}
		})
	}
}

// TestConcurrentMetricRecording tests thread safety of metric recording
func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	numGoroutines := 100
	operationsPerGoroutine := 50

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordDBQuery("SELECT", "test_table", time.Duration(j)*time.Millisecond, nil)
			}
		}(i)
	}

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordAPIRequest("GET", "/v1/test", "200", time.Duration(j)*time.Millisecond)
			}
		}(i)
	}

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				TrackActiveRequest(true)
				TrackActiveRequest(false)
			}
		}(i)
	}

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordIngestRun(time.Second, 100, nil)
			}
		}(i)
	}

	wg.Wait()
}

// TestMetricLabels verifies that metrics have proper labels configured
func TestMetricLabels(t *testing.T) {
	DBQueryDuration.WithLabelValues("SELECT", "laps").Observe(0.1)
	DBQueryDuration.WithLabelValues("INSERT", "car_data").Observe(0.2)

	DBQueryErrors.WithLabelValues("DELETE", "laps", "constraint_violation").Inc()

	APIRequestsTotal.WithLabelValues("GET", "/v1/laps", "200").Inc()
	APIRequestsTotal.WithLabelValues("GET", "/v1/car_data", "500").Inc()

	IngestErrors.WithLabelValues("feed").Inc()
	IngestErrors.WithLabelValues("database").Inc()
	IngestErrors.WithLabelValues("decode").Inc()

	CacheHits.WithLabelValues("query").Inc()
	CacheHits.WithLabelValues("schedule").Inc()
}

// TestCircuitBreakerMetrics tests circuit breaker metric recording
func TestCircuitBreakerMetrics(t *testing.T) {
	cbName := "nats-publish"

	CircuitBreakerState.WithLabelValues(cbName).Set(0) // closed
	CircuitBreakerState.WithLabelValues(cbName).Set(2) // open
	CircuitBreakerState.WithLabelValues(cbName).Set(1) // half-open

	CircuitBreakerRequests.WithLabelValues(cbName, "success").Inc()
	CircuitBreakerRequests.WithLabelValues(cbName, "failure").Inc()
	CircuitBreakerRequests.WithLabelValues(cbName, "rejected").Inc()

	CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(5)

	CircuitBreakerTransitions.WithLabelValues(cbName, "closed", "open").Inc()
	CircuitBreakerTransitions.WithLabelValues(cbName, "open", "half-open").Inc()
	CircuitBreakerTransitions.WithLabelValues(cbName, "half-open", "closed").Inc()
}

// TestAppMetrics tests application-level metrics
func TestAppMetrics(t *testing.T) {
	AppInfo.WithLabelValues("1.0.0", "go1.25.4").Set(1)
	AppUptime.Set(3600)
	AppUptime.Add(60)
}

// TestIngestBatchSize tests ingest batch size histogram
func TestIngestBatchSize(t *testing.T) {
	batchSizes := []float64{10, 50, 100, 250, 500, 1000, 5000, 10000}

	for _, size := range batchSizes {
		IngestBatchSize.Observe(size)
	}
}

// TestAPIRateLimitHits tests rate limit hit counter
func TestAPIRateLimitHits(t *testing.T) {
	endpoints := []string{
		"/v1/laps",
		"/v1/car_data",
		"/v1/position",
		"/v1/sessions",
	}

	for _, endpoint := range endpoints {
		APIRateLimitHits.WithLabelValues(endpoint).Inc()
	}
}

// TestCacheMetrics tests general cache metrics
func TestCacheMetrics(t *testing.T) {
	cacheTypes := []string{"query", "schedule"}

	for _, cacheType := range cacheTypes {
		CacheHits.WithLabelValues(cacheType).Add(100)
		CacheMisses.WithLabelValues(cacheType).Add(20)
		CacheSize.WithLabelValues(cacheType).Set(50)
		CacheEvictions.WithLabelValues(cacheType).Add(5)
	}
}

// TestDBConnectionPoolSize tests connection pool size gauge
func TestDBConnectionPoolSize(t *testing.T) {
	DBConnectionPoolSize.Set(1)
	DBConnectionPoolSize.Inc()
	DBConnectionPoolSize.Set(5)
	DBConnectionPoolSize.Dec()
}

// TestIngestLastSuccess tests ingest-success timestamp recording
func TestIngestLastSuccess(t *testing.T) {
	RecordIngestRun(5*time.Second, 100, nil)
}

// TestMetricsRegistration verifies all metrics are properly registered
func TestMetricsRegistration(t *testing.T) {
	collectors := []prometheus.Collector{
		DBQueryDuration,
		DBQueryErrors,
		DBConnectionPoolSize,
		APIRequestsTotal,
		APIRequestDuration,
		APIActiveRequests,
		APIRateLimitHits,
		IngestDuration,
		IngestRecordsProcessed,
		IngestErrors,
		IngestLastSuccess,
		IngestBatchSize,
		CacheHits,
		CacheMisses,
		CacheSize,
		CacheEvictions,
		CircuitBreakerState,
		CircuitBreakerRequests,
		CircuitBreakerConsecutiveFailures,
		CircuitBreakerTransitions,
		DLQEntriesTotal,
		DLQEntriesByCategory,
		DLQMessagesAdded,
		DLQMessagesRemoved,
		DLQMessagesExpired,
		DLQRetryAttempts,
		DLQRetrySuccesses,
		DLQRetryFailures,
		DLQOldestEntryAge,
		NATSMessagesPublished,
		NATSMessagesConsumed,
		NATSMessagesProcessed,
		NATSMessagesDeduplicated,
		NATSMessagesParseFailed,
		NATSProcessingDuration,
		NATSBatchFlushDuration,
		NATSBatchSize,
		NATSQueueDepth,
		NATSConsumerLag,
		AppInfo,
		AppUptime,
	}

	for _, m := range collectors {
		ch := make(chan *prometheus.Desc, 10)
		m.Describe(ch)
		close(ch)

		count := 0
		for range ch {
			count++
		}
		if count == 0 {
			t.Errorf("Metric has no descriptors")
		}
	}
}

// TestMetricGathering tests that metrics can be gathered using testutil
func TestMetricGathering(t *testing.T) {
	RecordDBQuery("TEST", "test_table", time.Millisecond, nil)
	RecordAPIRequest("GET", "/test", "200", time.Millisecond)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Logf("Lint errors (may be expected): %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s", p.Text)
	}
}

// TestDLQMetrics tests DLQ (Dead Letter Queue) metric recording
func TestDLQMetrics(t *testing.T) {
	categories := []string{"connection", "timeout", "validation", "database", "unknown"}

	for _, category := range categories {
		t.Run("category_"+category, func(t *testing.T) {
			RecordDLQEntry(category)
			RecordDLQRemoval(category)
			RecordDLQExpiry(category)
		})
	}
}

// TestRecordDLQRetry tests DLQ retry metric recording
func TestRecordDLQRetry(t *testing.T) {
	tests := []struct {
		name    string
		success bool
	}{
		{"successful retry", true},
		{"failed retry", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordDLQRetry(tt.success)
		})
	}
}

// TestUpdateDLQGauges tests DLQ gauge updates
func TestUpdateDLQGauges(t *testing.T) {
	UpdateDLQGauges(0, 0.0, map[string]int64{})

	UpdateDLQGauges(10, 300.0, map[string]int64{"connection": 10})

	UpdateDLQGauges(25, 600.0, map[string]int64{
		"connection": 15,
		"timeout":    5,
		"validation": 5,
	})
}

// TestNATSPublishMetrics tests NATS publish metric recording
func TestNATSPublishMetrics(t *testing.T) {
	for i := 0; i < 10; i++ {
		RecordNATSPublish()
	}
}

// TestNATSConsumeMetrics tests NATS consume metric recording
func TestNATSConsumeMetrics(t *testing.T) {
	for i := 0; i < 10; i++ {
		RecordNATSConsume()
	}
}

// TestNATSProcessedMetrics tests NATS processed metric recording
func TestNATSProcessedMetrics(t *testing.T) {
	for i := 0; i < 10; i++ {
		RecordNATSProcessed()
	}
}

// TestNATSDeduplicatedMetrics tests NATS deduplication metric recording
func TestNATSDeduplicatedMetrics(t *testing.T) {
	for i := 0; i < 5; i++ {
		RecordNATSDeduplicated()
	}
}

// TestNATSParseFailedMetrics tests NATS parse failed metric recording
func TestNATSParseFailedMetrics(t *testing.T) {
	for i := 0; i < 3; i++ {
		RecordNATSParseFailed()
	}
}

// TestNATSProcessingDurationMetrics tests NATS processing duration recording
func TestNATSProcessingDurationMetrics(t *testing.T) {
	durations := []time.Duration{
		1 * time.Millisecond,
		10 * time.Millisecond,
		50 * time.Millisecond,
		100 * time.Millisecond,
		500 * time.Millisecond,
	}

	for _, d := range durations {
		RecordNATSProcessingDuration(d)
	}
}

// TestNATSBatchFlushMetrics tests NATS batch flush metric recording
func TestNATSBatchFlushMetrics(t *testing.T) {
	tests := []struct {
		name      string
		duration  time.Duration
		batchSize int
	}{
		{"small batch", 10 * time.Millisecond, 10},
		{"medium batch", 50 * time.Millisecond, 100},
		{"large batch", 100 * time.Millisecond, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordNATSBatchFlush(tt.duration, tt.batchSize)
		})
	}
}

// TestNATSQueueDepthMetrics tests NATS queue depth gauge updates
func TestNATSQueueDepthMetrics(t *testing.T) {
	depths := []int64{0, 10, 100, 1000, 0}

	for _, depth := range depths {
		UpdateNATSQueueDepth(depth)
	}
}

// TestNATSConsumerLagMetrics tests NATS consumer lag gauge updates
func TestNATSConsumerLagMetrics(t *testing.T) {
	lags := []int64{0, 5, 50, 500, 0}

	for _, lag := range lags {
		UpdateNATSConsumerLag(lag)
	}
}

// TestDLQMetricsConcurrent tests DLQ metrics under concurrent access
func TestDLQMetricsConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	numGoroutines := 10
	operationsPerGoroutine := 100

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordDLQEntry("connection")
				RecordDLQRetry(j%2 == 0)
			}
		}(i)
	}

	wg.Wait()
}

// TestNATSMetricsConcurrent tests NATS metrics under concurrent access
func TestNATSMetricsConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	numGoroutines := 10
	operationsPerGoroutine := 100

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordNATSPublish()
				RecordNATSConsume()
				RecordNATSProcessed()
			}
		}(i)
	}

	wg.Wait()
}

// Benchmark tests for metrics performance

func BenchmarkRecordDBQuery(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordDBQuery("SELECT", "laps", 10*time.Millisecond, nil)
	}
}

func BenchmarkRecordDBQueryWithError(b *testing.B) {
	err := errors.New("connection refused")
	for i := 0; i < b.N; i++ {
		RecordDBQuery("SELECT", "laps", 10*time.Millisecond, err)
	}
}

func BenchmarkRecordAPIRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordAPIRequest("GET", "/v1/laps", "200", 25*time.Millisecond)
	}
}

func BenchmarkRecordIngestRun(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordIngestRun(5*time.Second, 1000, nil)
	}
}

func BenchmarkTrackActiveRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		TrackActiveRequest(true)
		TrackActiveRequest(false)
	}
}

func BenchmarkContains(b *testing.B) {
	s := "feed connection refused"
	substr := "feed"
	for i := 0; i < b.N; i++ {
		contains(s, substr)
	}
}
