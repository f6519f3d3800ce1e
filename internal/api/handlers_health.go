// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package api

import (
	"context"
	"net/http"
	"time"
)

// Health reports process liveness plus uptime. It never touches the
// document store, so it stays cheap enough to poll aggressively.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]any{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	})
}

// HealthLive is a bare liveness probe: the process is running and serving
// HTTP, full stop.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// HealthReady additionally checks the document store connection, since a
// server that can't reach DuckDB can't actually serve query traffic.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		WriteError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "document store unreachable")
		return
	}
	WriteSuccess(w, r, map[string]any{"status": "ready"})
}
