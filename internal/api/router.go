// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/f1telemetry/internal/config"
)

// Router wires the query surface's full route table and shared middleware
// stack (CORS, rate limiting, request IDs, security headers) onto a
// Handler.
type Router struct {
	handler    *Handler
	middleware *ChiMiddleware
}

// NewRouter builds a Router from a Handler and the ambient security
// configuration (CORS origins, rate limit budget).
func NewRouter(handler *Handler, secCfg *config.SecurityConfig) *Router {
	mw := NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins:   secCfg.CORSOrigins,
		CORSAllowedMethods:   []string{"GET", "OPTIONS"},
		CORSAllowedHeaders:   []string{"Content-Type"},
		CORSExposedHeaders:   []string{"Content-Disposition"},
		CORSAllowCredentials: false,
		CORSMaxAge:           86400,

		RateLimitRequests: secCfg.RateLimitReqs,
		RateLimitWindow:   secCfg.RateLimitWindow,
		RateLimitDisabled: secCfg.RateLimitDisabled,
	})

	return &Router{handler: handler, middleware: mw}
}

// Setup builds the chi.Router serving every route.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(RequestIDWithLogging())
	r.Use(APISecurityHeaders())
	r.Use(E2EDebugLogging())
	r.Use(router.middleware.CORS())
	r.Use(router.middleware.RateLimit())
	r.Use(Compression)

	// PrometheusMetrics covers every route EXCEPT collectionRoute: the
	// collection handler already records its own RecordAPIRequest/
	// RecordDBQuery pair scoped to the templated route path, so wrapping it
	// here too would double-count every query.
	r.Group(func(r chi.Router) {
		r.Use(PrometheusMetrics)

		r.Get("/", router.handler.Welcome)
		r.Get("/favicon.ico", router.handler.Favicon)

		r.Group(func(r chi.Router) {
			r.Use(router.middleware.RateLimitHealth())
			r.Get("/health", router.handler.Health)
			r.Get("/health/live", router.handler.HealthLive)
			r.Get("/health/ready", router.handler.HealthReady)
		})
	})

	r.Get(collectionRoute, router.handler.Collection)

	return r
}
