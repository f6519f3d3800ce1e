// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package schedule

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/f1telemetry/internal/query"
	"github.com/tomtom215/f1telemetry/internal/store"
)

// NewStoreResolver returns a Resolver that finds the current live session as
// the highest session_key among everything written to the sessions
// collection so far. The session with the highest key is also the most
// recently started one, and therefore the one still receiving live updates.
func NewStoreResolver(st *store.Store) Resolver {
	return func(ctx context.Context) (Keys, error) {
		docs, err := st.Query(ctx, "sessions", query.Compile(nil), 0)
		if err != nil {
			return Keys{}, fmt.Errorf("schedule: query sessions: %w", err)
		}

		var latest Keys
		found := false
		for _, raw := range docs {
			var doc struct {
				MeetingKey int `json:"meeting_key"`
				SessionKey int `json:"session_key"`
			}
			if err := json.Unmarshal(raw, &doc); err != nil {
				continue
			}
			if !found || doc.SessionKey > latest.SessionKey {
				latest = Keys{MeetingKey: doc.MeetingKey, SessionKey: doc.SessionKey}
				found = true
			}
		}
		if !found {
			return Keys{}, fmt.Errorf("schedule: no sessions recorded yet")
		}
		return latest, nil
	}
}
