// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"sort"
)

// writeCSV renders rows as a CSV attachment. The header is the
// alphabetically sorted union of every row's keys rather than just the
// first row's, since documents within one collection are not guaranteed to
// share an identical key set. A row missing a header's key writes an empty
// field for it.
func writeCSV(w http.ResponseWriter, collection string, rows []map[string]any) error {
	if len(rows) == 0 {
		return ErrCSVEmpty
	}

	fieldSet := make(map[string]struct{})
	for _, row := range rows {
		for k := range row {
			fieldSet[k] = struct{}{}
		}
	}
	fields := make([]string, 0, len(fieldSet))
	for k := range fieldSet {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", collection))
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	if err := cw.Write(fields); err != nil {
		return fmt.Errorf("api: write csv header: %w", err)
	}
	for _, row := range rows {
		record := make([]string, len(fields))
		for i, f := range fields {
			if v, ok := row[f]; ok && v != nil {
				record[i] = fmt.Sprint(v)
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("api: write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
