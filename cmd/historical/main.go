// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

// Package main is the entry point for the historical backfill CLI.
//
// historical downloads past sessions from F1's public live-timing archive
// and replays them through the same ingest.Driver and internal/collections
// processors the real-time daemon (cmd/ingestd) uses, so a backfilled
// session is indistinguishable in the document store from one captured
// live. It exposes five subcommands:
//
//   - list-topics: list the topics recorded for a session
//   - get-messages: download and decode one or more topics without writing them
//   - ingest-session: backfill a single session
//   - ingest-meeting: backfill every session of a meeting
//   - ingest-season: backfill every meeting of a season
//
// ingest-meeting and ingest-season bound their concurrency with
// HistoricalConfig.Workers (HISTORICAL_WORKERS).
package main

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"

	"github.com/tomtom215/f1telemetry/internal/config"
	"github.com/tomtom215/f1telemetry/internal/historical"
	"github.com/tomtom215/f1telemetry/internal/ingest"
	"github.com/tomtom215/f1telemetry/internal/logging"
	"github.com/tomtom215/f1telemetry/internal/store"
)

// app bundles the dependencies every subcommand needs, built once in main
// after configuration and logging are ready.
type app struct {
	cfg    *config.Config
	client *historical.Client
}

func (a *app) openDriver() (*ingest.Driver, func(), error) {
	st, err := store.Open(&a.cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open document store: %w", err)
	}
	closeFn := func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing document store")
		}
	}
	return ingest.NewDriver(st), closeFn, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logging.Init(logging.Config{
		Level: cfg.Logging.Level, Format: cfg.Logging.Format, Caller: cfg.Logging.Caller,
		Timestamp: true, Output: os.Stderr,
	})

	client := historical.NewClient(historical.DefaultBaseURL)
	client.HTTPClient.Timeout = cfg.Historical.RequestTimeout
	a := &app{cfg: cfg, client: client}

	parser := flags.NewParser(nil, flags.HelpFlag|flags.PassDoubleDash)

	mustAddCmd(parser, "list-topics", "List the topics recorded for a session", `
List every topic the archive recorded for a given session, without
downloading any message content.
`, &cmdListTopics{app: a})

	mustAddCmd(parser, "get-messages", "Download and decode topics without writing them", `
Download one or more topics for a session, decode each line, and print the
resulting messages to stdout. Does not touch the document store.
`, &cmdGetMessages{app: a})

	mustAddCmd(parser, "ingest-session", "Backfill a single session", `
Resolve a session's archive path, estimate its start time, download every
recorded topic, and write the decoded records to the document store.
`, &cmdIngestSession{app: a})

	mustAddCmd(parser, "ingest-meeting", "Backfill every session of a meeting", `
Backfill every session belonging to a meeting, up to HISTORICAL_WORKERS
sessions concurrently.
`, &cmdIngestMeeting{app: a})

	mustAddCmd(parser, "ingest-season", "Backfill every meeting of a season", `
Backfill every meeting of a season, up to HISTORICAL_WORKERS meetings
concurrently (each meeting in turn bounds its own sessions the same way).
`, &cmdIngestSeason{app: a})

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func mustAddCmd(parser *flags.Parser, name, short, long string, data interface{}) {
	if _, err := parser.AddCommand(name, short, long, data); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register %s command: %v\n", name, err)
		os.Exit(1)
	}
}

type cmdListTopics struct {
	app *app

	Year       int `long:"year" required:"true" description:"Season year, e.g. 2023"`
	MeetingKey int `long:"meeting-key" required:"true" description:"Meeting key"`
	SessionKey int `long:"session-key" required:"true" description:"Session key"`
}

func (cmd *cmdListTopics) Execute(_ []string) error {
	ctx := context.Background()
	sessionURL, err := cmd.app.client.SessionURL(ctx, cmd.Year, cmd.MeetingKey, cmd.SessionKey)
	if err != nil {
		return err
	}
	topics, err := cmd.app.client.ListTopics(ctx, sessionURL)
	if err != nil {
		return err
	}
	for _, topic := range topics {
		fmt.Println(topic)
	}
	return nil
}

type cmdGetMessages struct {
	app *app

	Year       int      `long:"year" required:"true" description:"Season year, e.g. 2023"`
	MeetingKey int      `long:"meeting-key" required:"true" description:"Meeting key"`
	SessionKey int      `long:"session-key" required:"true" description:"Session key"`
	Topics     []string `long:"topic" required:"true" description:"Topic to decode; repeat for multiple"`
}

func (cmd *cmdGetMessages) Execute(_ []string) error {
	ctx := context.Background()
	sessionURL, err := cmd.app.client.SessionURL(ctx, cmd.Year, cmd.MeetingKey, cmd.SessionKey)
	if err != nil {
		return err
	}
	t0, err := cmd.app.client.EstimateT0(ctx, sessionURL)
	if err != nil {
		return fmt.Errorf("estimate t0: %w", err)
	}
	messages, err := cmd.app.client.GetMessages(ctx, sessionURL, cmd.Topics, t0)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	for _, msg := range messages {
		if err := enc.Encode(msg); err != nil {
			return fmt.Errorf("encode message: %w", err)
		}
	}
	return nil
}

type cmdIngestSession struct {
	app *app

	Year       int `long:"year" required:"true" description:"Season year, e.g. 2023"`
	MeetingKey int `long:"meeting-key" required:"true" description:"Meeting key"`
	SessionKey int `long:"session-key" required:"true" description:"Session key"`
}

func (cmd *cmdIngestSession) Execute(_ []string) error {
	driver, closeFn, err := cmd.app.openDriver()
	if err != nil {
		return err
	}
	defer closeFn()
	return cmd.app.client.IngestSession(context.Background(), driver, cmd.Year, cmd.MeetingKey, cmd.SessionKey)
}

type cmdIngestMeeting struct {
	app *app

	Year       int `long:"year" required:"true" description:"Season year, e.g. 2023"`
	MeetingKey int `long:"meeting-key" required:"true" description:"Meeting key"`
}

func (cmd *cmdIngestMeeting) Execute(_ []string) error {
	driver, closeFn, err := cmd.app.openDriver()
	if err != nil {
		return err
	}
	defer closeFn()
	return cmd.app.client.IngestMeeting(context.Background(), driver, cmd.Year, cmd.MeetingKey, cmd.app.cfg.Historical.Workers)
}

type cmdIngestSeason struct {
	app *app

	Year int `long:"year" required:"true" description:"Season year, e.g. 2023"`
}

func (cmd *cmdIngestSeason) Execute(_ []string) error {
	driver, closeFn, err := cmd.app.openDriver()
	if err != nil {
		return err
	}
	defer closeFn()
	return cmd.app.client.IngestSeason(context.Background(), driver, cmd.Year, cmd.app.cfg.Historical.Workers)
}
