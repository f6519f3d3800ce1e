// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

// Package api provides HTTP handlers for the query surface.
//
// errors.go - sentinel errors for common API error conditions.
package api

import "errors"

// ErrCSVEmpty is returned by writeCSV when a collection query matched no
// rows — there is no header to derive without at least one document.
var ErrCSVEmpty = errors.New("api: no rows available for csv export")
