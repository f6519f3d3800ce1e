// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package api

import (
	"fmt"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
)

// sortKeys is the field precedence every collection's results are ordered
// by, earliest key first; a row missing a key sorts before one that has it.
// Ties on every key fall back to store (id) order, since sortResults uses a
// stable sort.
var sortKeys = []string{
	"date_start", "date", "meeting_key", "session_key", "position",
	"lap_start", "lap_number", "lap_end", "date_end", "stint_number",
	"driver_number",
}

// postprocess unmarshals each stored document, strips internal
// (underscore-prefixed) fields, applies the meetings collection's
// keep-first-by-meeting_key dedup rule, and sorts the result.
//
// Storage-level dedup (internal/store's upsert-by-max-id write path)
// already keeps only the newest document per key, so this is not a second
// pass of that same rule — meetings is the one collection whose semantics
// keep the *earliest* version of a given meeting_key, which is the opposite
// direction and has to be applied here, after the newest-wins write path.
func postprocess(collection string, docs []json.RawMessage) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(docs))
	for _, raw := range docs {
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("api: decode %s document: %w", collection, err)
		}
		stripUnderscoreFields(m)
		out = append(out, m)
	}

	if collection == "meetings" {
		out = dedupeByMeetingKeyKeepFirst(out)
	}

	sortResults(out)
	return out, nil
}

func stripUnderscoreFields(m map[string]any) {
	for k := range m {
		if strings.HasPrefix(k, "_") {
			delete(m, k)
		}
	}
}

func dedupeByMeetingKeyKeepFirst(rows []map[string]any) []map[string]any {
	seen := make(map[string]bool, len(rows))
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		key := fmt.Sprint(row["meeting_key"])
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, row)
	}
	return out
}

func sortResults(rows []map[string]any) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range sortKeys {
			a, b := rows[i][k], rows[j][k]
			if a == nil && b == nil {
				continue
			}
			if a == nil {
				return true
			}
			if b == nil {
				return false
			}
			if cmp := compareValues(a, b); cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
}

// compareValues orders two decoded JSON scalars. Numbers (always float64
// after encoding/json/goccy decode) compare numerically; everything else
// falls back to a string comparison, which is exact for the string-typed
// sort keys (dates are ISO 8601 and compare correctly as strings).
func compareValues(a, b any) int {
	if av, ok := a.(float64); ok {
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
