// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package api

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// Favicon serves the project's favicon, fetched once from an external image
// host on first request and cached in memory for the life of the process —
// mirroring the upstream API's lru_cache-memoized fetch. A fetch failure is
// cached too, so a broken or unreachable URL fails fast on every request
// instead of retrying a slow external call each time.
func (h *Handler) Favicon(w http.ResponseWriter, r *http.Request) {
	h.faviconOnce.Do(func() {
		h.faviconBody, h.faviconErr = fetchFavicon(h.faviconURL)
	})
	if h.faviconErr != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(h.faviconBody)
}

func fetchFavicon(url string) ([]byte, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("api: fetch favicon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api: favicon fetch returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Welcome serves GET /, a plain-text landing message — matching the
// upstream API's root route, which exists only so a browser hit to the
// bare host isn't a 404.
func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Welcome to the live timing API.\n"))
}
