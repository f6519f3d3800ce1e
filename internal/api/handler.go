// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package api

import (
	"regexp"
	"sync"
	"time"

	"github.com/tomtom215/f1telemetry/internal/cache"
	"github.com/tomtom215/f1telemetry/internal/config"
	"github.com/tomtom215/f1telemetry/internal/schedule"
	"github.com/tomtom215/f1telemetry/internal/store"
)

// defaultFaviconURL matches the upstream API's favicon, so bookmarking
// behavior looks identical to a client.
const defaultFaviconURL = "https://storage.googleapis.com/openf1-public/images/favicon.png"

// defaultQueryCacheTTL bounds how long an identical collection query is
// served from cache instead of re-hitting DuckDB. Short enough that a
// live session's just-completed lap shows up within a request or two.
const defaultQueryCacheTTL = 2 * time.Second

// collectionNamePattern mirrors internal/store's table-name validation, so
// a malformed collection in the URL path is rejected with 400 here instead
// of silently falling through to store.Query's "never written" empty
// result.
var collectionNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Handler implements every HTTP route: the collection query surface plus
// the ambient health/favicon/welcome endpoints.
type Handler struct {
	store    *store.Store
	latest   *schedule.LatestCache
	cache    cache.Cacher
	apiCfg   *config.APIConfig
	queryTTL time.Duration

	startTime time.Time

	faviconURL  string
	faviconOnce sync.Once
	faviconBody []byte
	faviconErr  error
}

// NewHandler builds a Handler over the given document store, latest-session
// resolver, and response cache. latest and responseCache may be nil: a nil
// latest cache means "latest" aliases are never substituted (predicates
// keep their literal "latest" value and the query will simply match
// nothing), and a nil cache disables response caching entirely.
func NewHandler(st *store.Store, latest *schedule.LatestCache, responseCache cache.Cacher, apiCfg *config.APIConfig) *Handler {
	return &Handler{
		store:      st,
		latest:     latest,
		cache:      responseCache,
		apiCfg:     apiCfg,
		queryTTL:   defaultQueryCacheTTL,
		startTime:  time.Now(),
		faviconURL: defaultFaviconURL,
	}
}
