// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package services

import (
	"context"
	"fmt"

	"github.com/tomtom215/f1telemetry/internal/ingest"
)

// SubprocessService wraps ingest.RunSubprocess as a supervised service.
//
// RunSubprocess already owns a restart loop (with stall detection and
// jittered backoff), so Serve does nothing but hand it the context and
// translate a context-canceled return into the clean-shutdown suture
// expects.
//
// Example usage:
//
//	svc := services.NewSubprocessService(subprocessCfg)
//	tree.AddIngestService(svc)
type SubprocessService struct {
	config ingest.SubprocessConfig
}

// NewSubprocessService creates a new recording-subprocess service wrapper.
func NewSubprocessService(config ingest.SubprocessConfig) *SubprocessService {
	return &SubprocessService{config: config}
}

// Serve implements suture.Service.
func (s *SubprocessService) Serve(ctx context.Context) error {
	if err := ingest.RunSubprocess(ctx, s.config); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("subprocess service: %w", err)
	}
	return nil
}

// String implements fmt.Stringer for logging.
func (s *SubprocessService) String() string {
	return "recording-subprocess"
}

// TailerService wraps an ingest.Tailer and RealtimeIngestor as a supervised
// service. It follows the recording subprocess's capture file and writes
// every well-formed frame through the ingestor.
//
// Example usage:
//
//	svc := services.NewTailerService(ingest.NewTailer(capturePath), ingestor)
//	tree.AddIngestService(svc)
type TailerService struct {
	tailer   *ingest.Tailer
	ingestor *ingest.RealtimeIngestor
}

// NewTailerService creates a new tailer service wrapper.
func NewTailerService(tailer *ingest.Tailer, ingestor *ingest.RealtimeIngestor) *TailerService {
	return &TailerService{tailer: tailer, ingestor: ingestor}
}

// Serve implements suture.Service.
func (s *TailerService) Serve(ctx context.Context) error {
	err := s.tailer.Run(ctx, func(line string) error {
		return s.ingestor.IngestLine(ctx, line)
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("tailer service: %w", err)
	}
	return nil
}

// String implements fmt.Stringer for logging.
func (s *TailerService) String() string {
	return "capture-tailer"
}
