package core

// scheduler.go runs background maintenance for the session service.
//
// The only job is the idle-session sweep. Expired sessions are also rejected
// lazily on lookup, so the sweep exists to release memory held by browsers
// that never come back. It is context-aware for graceful shutdown.

import (
	"context"
	"log/slog"
	"time"
)

// SweepConfig holds configuration for the session sweeper.
type SweepConfig struct {
	CheckInterval time.Duration // How often to sweep (default: 1m)
}

// StartSessionSweeper periodically removes idle sessions until ctx is
// cancelled. It blocks; run it in its own goroutine.
func (s *Service) StartSessionSweeper(ctx context.Context, cfg SweepConfig) {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Minute
	}

	slog.Info("session sweeper started",
		"check_interval", cfg.CheckInterval,
		"idle_timeout", s.cfg.IdleTimeout,
	)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			s.runSweep()
		}
	}
}

// runSweep performs one sweep cycle.
func (s *Service) runSweep() {
	start := time.Now()
	removed := s.sweepIdle()
	if removed == 0 {
		return
	}
	slog.Info("idle sessions removed",
		"removed", removed,
		"remaining", s.SessionCount(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
