package ingest

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"time"

	"github.com/tomtom215/f1telemetry/internal/logging"
)

// stallCheckDelay is how long to wait before declaring the recording
// subprocess stalled if its capture file is still empty, mirroring the
// original recorder's one-minute silence check.
const stallCheckDelay = 60 * time.Second

// SubprocessConfig describes the external "frame producer" command this
// process supervises: the recording subprocess that receives the live
// feed and appends raw frames to CapturePath. Per spec.md, the producer
// itself — the process that actually speaks to the upstream feed — is an
// external collaborator: Command/Args name whatever binary fills that
// role in a given deployment.
type SubprocessConfig struct {
	Command       string
	Args          []string
	CapturePath   string
	ReconnectWait time.Duration
	ReconnectMax  int // 0 = unlimited restarts
}

// RunSubprocess runs cfg.Command repeatedly until ctx is canceled or
// ReconnectMax restarts have been exhausted. A run that leaves CapturePath
// empty after stallCheckDelay is killed early and treated as a failed
// attempt, the same stall-recovery the original recorder's file-size
// monitor implements.
func RunSubprocess(ctx context.Context, cfg SubprocessConfig) error {
	attempts := 0
	for {
		if cfg.ReconnectMax > 0 && attempts >= cfg.ReconnectMax {
			return fmt.Errorf("ingest: subprocess: exhausted %d restart attempts", cfg.ReconnectMax)
		}
		attempts++

		if err := runOnce(ctx, cfg); err != nil {
			logging.Warn().Err(err).Int("attempt", attempts).Msg("Recording subprocess exited")
		} else {
			logging.Info().Msg("Recording subprocess completed successfully")
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		wait := cfg.ReconnectWait + time.Duration(rand.Int63n(int64(time.Second)))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func runOnce(ctx context.Context, cfg SubprocessConfig) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := exec.CommandContext(runCtx, cfg.Command, cfg.Args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ingest: subprocess: start: %w", err)
	}

	stallDone := make(chan struct{})
	go monitorStall(runCtx, cfg.CapturePath, stallDone, cancel)
	defer close(stallDone)

	return cmd.Wait()
}

func monitorStall(ctx context.Context, capturePath string, done <-chan struct{}, kill context.CancelFunc) {
	select {
	case <-done:
		return
	case <-ctx.Done():
		return
	case <-time.After(stallCheckDelay):
	}

	info, err := os.Stat(capturePath)
	if err != nil || info.Size() == 0 {
		logging.Warn().Str("path", capturePath).Msg("Capture file empty after stall delay, killing subprocess")
		kill()
	}
}
