// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

// Package store is the document store every collection is persisted into:
// one JSON-bodied table per collection, each row addressed by the content
// key collections.Processor assigned it and ordered by the monotonic id
// the ingest driver stamped on it. Queries compiled by internal/query run
// straight against the JSON body, so adding a collection never requires a
// schema migration for its fields.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sync"

	json "github.com/goccy/go-json"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/f1telemetry/internal/config"
	"github.com/tomtom215/f1telemetry/internal/logging"
	"github.com/tomtom215/f1telemetry/internal/query"
	"github.com/tomtom215/f1telemetry/internal/timing"
)

// Store is the DuckDB-backed document store.
type Store struct {
	conn *sql.DB

	mu     sync.RWMutex
	tables map[string]bool // collections a table already exists for
}

// collectionNamePattern bounds what's allowed as a table name component:
// collection names come from trusted Go code (collections.Processor.
// Collection()), never from request input, but the check is cheap
// insurance against a typo turning into a broken identifier.
var collectionNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Open creates (if needed) the database file's parent directory and opens
// the DuckDB connection backing the store.
func Open(cfg *config.DatabaseConfig) (*Store, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	dbDir := filepath.Dir(cfg.Path)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("store: create database directory %s: %w", dbDir, err)
		}
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: connect to database: %w", err)
	}

	if _, err := conn.Exec(`INSTALL json; LOAD json;`); err != nil {
		logging.Warn().Err(err).Msg("store: json extension not preloaded, relying on autoload")
	}

	return &Store{conn: conn, tables: make(map[string]bool)}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Ping verifies the underlying DuckDB connection is reachable, for use by
// the HTTP server's readiness check.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

func tableName(collection string) string {
	return "documents_" + collection
}

// ensureTable creates the per-collection table on first use. One JSON
// column holds the whole document; an id column gives every row a stable
// sort order and lets a write with a lower id lose to one already present
// for the same key, matching the upsert-by-max-id semantics the original
// system relies on for out-of-order real-time delivery.
func (s *Store) ensureTable(ctx context.Context, collection string) error {
	if !collectionNamePattern.MatchString(collection) {
		return fmt.Errorf("store: invalid collection name %q", collection)
	}

	s.mu.RLock()
	exists := s.tables[collection]
	s.mu.RUnlock()
	if exists {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tables[collection] {
		return nil
	}

	table := tableName(collection)
	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key TEXT PRIMARY KEY,
			id BIGINT NOT NULL,
			body JSON NOT NULL
		)`, table)
	if _, err := s.conn.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("store: create table for %s: %w", collection, err)
	}

	indexDDL := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_id_idx ON %s (id)`, table, table)
	if _, err := s.conn.ExecContext(ctx, indexDDL); err != nil {
		return fmt.Errorf("store: create id index for %s: %w", collection, err)
	}

	s.tables[collection] = true
	return nil
}

// Write upserts a batch of records, all belonging to the same collection.
// A record only replaces an existing row for the same key if its id is
// greater — real-time delivery is not guaranteed in order, and a message
// decoded from an earlier snapshot must never clobber a newer one.
func (s *Store) Write(ctx context.Context, records []timing.Record) error {
	if len(records) == 0 {
		return nil
	}
	collection := records[0].Collection
	if err := s.ensureTable(ctx, collection); err != nil {
		return err
	}
	table := tableName(collection)

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (key, id, body) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET id = excluded.id, body = excluded.body
		WHERE excluded.id > %s.id`, table, table))
	if err != nil {
		return fmt.Errorf("store: prepare upsert for %s: %w", collection, err)
	}
	defer stmt.Close()

	for _, r := range records {
		body, err := json.Marshal(r.Body)
		if err != nil {
			return fmt.Errorf("store: marshal %s record %s: %w", collection, r.Key, err)
		}
		if _, err := stmt.ExecContext(ctx, r.Key, r.ID, string(body)); err != nil {
			return fmt.Errorf("store: upsert %s record %s: %w", collection, r.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit %s batch: %w", collection, err)
	}
	return nil
}

// Query runs a compiled predicate against a collection and returns each
// matching document's raw JSON body, in ascending id order. It returns an
// empty (not nil) slice and no error for a collection that has never had
// anything written to it, since querying a quiet session's laps before any
// lap has completed is a normal, not an exceptional, outcome.
func (s *Store) Query(ctx context.Context, collection string, compiled query.Compiled, limit int) ([]json.RawMessage, error) {
	s.mu.RLock()
	exists := s.tables[collection]
	s.mu.RUnlock()
	if !exists {
		return []json.RawMessage{}, nil
	}

	table := tableName(collection)
	sqlText := fmt.Sprintf(`SELECT body FROM %s WHERE %s ORDER BY id`, table, compiled.Where)
	args := compiled.Args
	if limit > 0 {
		sqlText += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.conn.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query %s: %w", collection, err)
	}
	defer rows.Close()

	out := []json.RawMessage{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("store: scan %s row: %w", collection, err)
		}
		out = append(out, json.RawMessage(body))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate %s rows: %w", collection, err)
	}
	return out, nil
}

// Collections lists every collection a table has been created for, in no
// particular order — used by the "list available collections" endpoint.
func (s *Store) Collections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.tables))
	for c := range s.tables {
		out = append(out, c)
	}
	return out
}
