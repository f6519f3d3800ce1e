// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

// Package schedule resolves the "latest" meeting/session keys a query can
// ask for instead of naming one explicitly, and keeps that resolution
// fresh on a timer instead of re-querying the store on every request.
// Grounded on internal/cache's LRUCache: the same mutex-guarded,
// TTL-bounded read path, specialized here to a single cached value
// instead of a keyed collection of them, since there is exactly one
// "latest" at a time.
package schedule

import (
	"context"
	"sync"
	"time"
)

// Keys identifies one session.
type Keys struct {
	MeetingKey int
	SessionKey int
}

// Resolver looks up the current latest session — normally backed by a
// store query for the highest session_key in the sessions collection.
type Resolver func(ctx context.Context) (Keys, error)

// LatestCache serves Keys from memory, refreshing from a Resolver no more
// often than every TTL. A query landing between refreshes gets the
// previous value rather than blocking on a fresh lookup: staleness on the
// order of the refresh interval is an accepted tradeoff for a "latest"
// query, which by definition has no fixed answer anyway.
type LatestCache struct {
	mu      sync.RWMutex
	value   Keys
	fetched time.Time
	ttl     time.Duration
	resolve Resolver
}

// NewLatestCache returns a LatestCache that refreshes no more than once
// per ttl, using resolve to compute a fresh value.
func NewLatestCache(ttl time.Duration, resolve Resolver) *LatestCache {
	return &LatestCache{ttl: ttl, resolve: resolve}
}

// Get returns the cached Keys, refreshing synchronously if the cache is
// empty or past its TTL.
func (c *LatestCache) Get(ctx context.Context) (Keys, error) {
	c.mu.RLock()
	fresh := !c.fetched.IsZero() && time.Since(c.fetched) < c.ttl
	value := c.value
	c.mu.RUnlock()
	if fresh {
		return value, nil
	}
	return c.refresh(ctx)
}

// Refresh forces an immediate resolve, regardless of TTL — used by the
// periodic scheduler so a request never pays the resolve latency inline.
func (c *LatestCache) Refresh(ctx context.Context) error {
	_, err := c.refresh(ctx)
	return err
}

func (c *LatestCache) refresh(ctx context.Context) (Keys, error) {
	value, err := c.resolve(ctx)
	if err != nil {
		return Keys{}, err
	}
	c.mu.Lock()
	c.value = value
	c.fetched = time.Now()
	c.mu.Unlock()
	return value, nil
}
