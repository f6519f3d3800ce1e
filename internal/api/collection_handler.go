// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/tomtom215/f1telemetry/internal/logging"
	"github.com/tomtom215/f1telemetry/internal/metrics"
	"github.com/tomtom215/f1telemetry/internal/query"
)

const collectionRoute = "/v1/{collection}"

// Collection serves GET /v1/{collection}: parse the raw query string into
// predicates, expand bare-date values and "latest" aliases, compile and run
// against the document store, post-process, and encode as JSON (default) or
// CSV (csv=true).
func (h *Handler) Collection(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	collection := chi.URLParam(r, "collection")
	defer func() {
		metrics.RecordAPIRequest(r.Method, collectionRoute, strconv.Itoa(status), time.Since(start))
	}()

	if !collectionNamePattern.MatchString(collection) {
		status = http.StatusBadRequest
		WriteBadRequest(w, r, "invalid collection name")
		return
	}

	predicates, csv, err := query.ParseRawQuery(r.URL.RawQuery)
	if err != nil {
		status = http.StatusBadRequest
		WriteBadRequest(w, r, err.Error())
		return
	}

	predicates, err = query.ExpandDateOnly(predicates)
	if err != nil {
		status = http.StatusBadRequest
		WriteBadRequest(w, r, err.Error())
		return
	}

	predicates, err = h.resolveLatest(r, predicates)
	if err != nil {
		status = http.StatusServiceUnavailable
		WriteError(w, r, status, ErrCodeServiceUnavailable, "could not resolve the current live session")
		return
	}

	compiled := query.Compile(predicates)

	docs, err := h.queryCollection(r, collection, compiled)
	if err != nil {
		status = http.StatusInternalServerError
		logging.CtxErr(r.Context(), err).Str("collection", collection).Msg("collection query failed")
		WriteInternalError(w, r, "query failed")
		return
	}

	results, err := postprocess(collection, docs)
	if err != nil {
		status = http.StatusInternalServerError
		logging.CtxErr(r.Context(), err).Str("collection", collection).Msg("post-processing failed")
		WriteInternalError(w, r, "failed to process results")
		return
	}

	if csv {
		if err := writeCSV(w, collection, results); err != nil {
			status = http.StatusNotFound
			WriteNotFound(w, r, "no rows matched this query")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(results); err != nil {
		logging.CtxErr(r.Context(), err).Msg("encode collection response failed")
	}
}

// resolveLatest substitutes any "latest" meeting_key/session_key value with
// the currently cached live session's keys. It is a no-op (no error, no
// substitution) when no predicate actually references "latest" or when the
// handler has no latest-session resolver configured.
func (h *Handler) resolveLatest(r *http.Request, predicates []query.Predicate) ([]query.Predicate, error) {
	if h.latest == nil {
		return predicates, nil
	}

	needsResolve := false
	for _, p := range predicates {
		if p.Value == "latest" {
			needsResolve = true
			break
		}
	}
	if !needsResolve {
		return predicates, nil
	}

	keys, err := h.latest.Get(r.Context())
	if err != nil {
		return nil, err
	}

	return query.SubstituteLatest(predicates, map[string]string{
		"meeting_key": strconv.Itoa(keys.MeetingKey),
		"session_key": strconv.Itoa(keys.SessionKey),
	}), nil
}

// queryCollection runs the compiled predicate against the store, serving a
// cached result when available — a repeat query for season-long historical
// data shouldn't re-scan DuckDB on every request.
func (h *Handler) queryCollection(r *http.Request, collection string, compiled query.Compiled) ([]json.RawMessage, error) {
	cacheKey := collection + "?" + r.URL.RawQuery

	if h.cache != nil {
		if cached, ok := h.cache.Get(cacheKey); ok {
			if docs, ok := cached.([]json.RawMessage); ok {
				return docs, nil
			}
		}
	}

	qStart := time.Now()
	docs, err := h.store.Query(r.Context(), collection, compiled, 0)
	metrics.RecordDBQuery("SELECT", collection, time.Since(qStart), err)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		h.cache.SetWithTTL(cacheKey, docs, h.queryTTL)
	}
	return docs, nil
}
