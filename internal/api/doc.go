// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

/*
Package api provides the HTTP read surface over the document store.

The API is intentionally small and unauthenticated: every collection the
ingestion pipeline writes to (internal/collections) is readable through one
generic route, plus a handful of ambient endpoints.

Routes:

  - GET /v1/{collection}: predicate-filtered query over a collection, e.g.
    /v1/laps?session_key=9161&driver_number=55. Query parameters are
    "field<op>value" clauses (internal/query), ANDed across fields and ORed
    within a field; add csv=true to receive a CSV attachment instead of JSON.
  - GET /: plain-text welcome message.
  - GET /favicon.ico: static icon, fetched once from an external host and
    cached for the life of the process.
  - GET /health, /health/live, /health/ready: liveness/readiness checks.

Key Components:

  - Router: chi route configuration and middleware stack (CORS, rate
    limiting, request IDs, security headers).
  - Handler: the above routes' implementation, holding the document store,
    the latest-session cache, and a short-TTL response cache.
  - Post-processing (postprocess.go): strips internal (underscore-prefixed)
    fields, applies the meetings collection's keep-first-by-meeting_key
    dedup rule, and sorts results the same way regardless of collection.
  - CSV encoding (csv.go): header is the alphabetized union of every
    matched row's keys, not just the first row's.

Security:

  - No authentication: the query surface is read-only and exposes only
    document bodies the ingestion pipeline itself produced.
  - CORS defaults match the upstream API this mirrors (wide open) unless
    narrowed by configuration.
  - IP-keyed rate limiting via go-chi/httprate.
  - Security headers (X-Content-Type-Options, X-Frame-Options) on every
    response; HSTS only when the request arrived over TLS or carries
    X-Forwarded-Proto: https.

See Also:

  - internal/query: URL grammar parsing and SQL predicate compilation.
  - internal/store: the DuckDB document store queried here.
  - internal/schedule: "latest" meeting/session key resolution.
  - internal/cache: the short-TTL response cache.
*/
package api
