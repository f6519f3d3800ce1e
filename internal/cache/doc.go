// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

/*
Package cache provides thread-safe in-memory caching with TTL support.

This package implements a simple but effective caching layer for the query
API's repeated requests (cmd/server's short-TTL response cache) and the
NATS router's deduplication (internal/publish, LRUCache), reducing DuckDB
load and improving response times for frequently accessed data.

# Overview

The cache provides:
  - Thread-safe concurrent access (sync.RWMutex)
  - Time-to-live (TTL) expiration for automatic cleanup
  - Simple key-value storage with any value type (interface{})
  - Expiration checked on Get, plus a background goroutine that removes
    expired entries every 5 minutes
  - One external dependency: goccy/go-json, used by GenerateKey

# Use Cases

Primary use cases:
  - Collection query responses (internal/api, short TTL)
  - Message deduplication in the NATS router (internal/publish, LRUCache)
  - Meeting/session metadata lookups (longer TTL — rarely mutated once a
    session has ended)

# Cache Structure

The cache stores items with metadata:

	type Entry struct {
	    Data      interface{}  // Cached value (any type)
	    ExpiresAt time.Time    // Expiration time
	}

# Usage Example

Basic caching:

	import "github.com/tomtom215/f1telemetry/internal/cache"

	// Create cache with 90-second default TTL
	c := cache.New(90 * time.Second)

	// Store value
	c.Set("schedule:latest", sessionKey)

	// Retrieve value
	if value, ok := c.Get("schedule:latest"); ok {
	    sessionKey := value.(int64)
	    // Use cached session key
	}

	// Delete specific key
	c.Delete("schedule:latest")

	// Clear entire cache
	c.Clear()

API handler caching pattern:

	func (h *Handler) GetSessions(w http.ResponseWriter, r *http.Request) {
	    cacheKey := buildCacheKey("sessions", r.URL.Query())

	    // Check cache
	    if cached, ok := h.cache.Get(cacheKey); ok {
	        h.writeJSON(w, http.StatusOK, cached)
	        return
	    }

	    // Cache miss - fetch from the store
	    records, err := h.store.Query(r.Context(), "sessions", compiled)
	    if err != nil {
	        h.writeError(w, http.StatusInternalServerError, "QUERY_ERROR", err.Error())
	        return
	    }

	    // Store in cache
	    h.cache.Set(cacheKey, records)

	    // Return response
	    h.writeJSON(w, http.StatusOK, records)
	}

Parameterized cache keys:

	// Build cache key from the compiled query's filter parameters
	func buildCacheKey(collection string, params url.Values) string {
	    return fmt.Sprintf("%s:%s", collection, params.Encode())
	}

	cacheKey := buildCacheKey("laps", r.URL.Query())
	if cached, ok := cache.Get(cacheKey); ok {
	    return cached.([]map[string]any), nil
	}

# Cache Invalidation

The cache supports two invalidation strategies:

1. TTL-based expiration (automatic):
  - Items expire after the configured TTL
  - Checked during Get operations
  - A background goroutine started by New removes expired entries every
    5 minutes

2. Manual invalidation (on data changes):
  - Clear() removes all cache entries
  - Delete(key) removes a specific entry

Example: overwrite a cached key when its value changes

	func onNewSessionDetected(c *cache.Cache, sessionKey int64) {
	    c.Set("schedule:latest", sessionKey)
	}

# Cache Key Conventions

Use consistent key prefixes for organization:

	schedule:latest                       // Current "latest" session key
	query:sessions:year=2026              // Filtered session query
	query:laps:session_key=9999:...       // Filtered lap query
	meetings:list:year=2026               // Meeting metadata lookups

# Performance Characteristics

  - Get operation: O(1) hash map lookup + TTL check (~100ns)
  - Set operation: O(1) hash map insert with lock (~200ns)
  - Delete operation: O(1) hash map delete with lock (~150ns)
  - Clear operation: O(1) map reassignment (~50ns)
  - Memory overhead: ~100 bytes per cached item (key + metadata)

# Thread Safety

All cache methods are thread-safe using sync.RWMutex:

  - Get: Acquires read lock (concurrent reads allowed)
  - Set: Acquires write lock (exclusive access)
  - Delete: Acquires write lock (exclusive access)
  - Clear: Acquires write lock (exclusive access)

Multiple goroutines can safely access the cache concurrently.

# TTL Configuration

Recommended TTL values by use case:

	Latest-session resolution: 90 seconds
	  - Balances freshness against repeated store lookups during a live session

	Collection query responses: 30-60 seconds
	  - Live sessions mutate the underlying collections continuously

	Meeting/session metadata: several minutes to unbounded
	  - Immutable once a session has ended

# Limitations

The current implementation has intentional limitations for simplicity:

  - No maximum cache size limit (grows unbounded) — see internal/cache/lru.go
    for the bounded alternative used where an upper bound matters
  - No cache persistence (in-memory only)
  - No distributed caching (single instance)

# See Also

  - internal/api: API handlers that use caching
  - internal/publish: the NATS router's LRUCache-based deduplication
  - internal/store: the DuckDB document store cached by this package
*/
package cache
