package bench

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RunnerConfig controls a soak run's pacing and duration.
type RunnerConfig struct {
	BaseURL       string
	RatePerSecond float64
	Duration      time.Duration
}

// Runner polls the dashboard at a steady rate for Duration, reporting a
// summary of what it observed.
type Runner struct {
	client *Client
	bucket *TokenBucket
	cfg    RunnerConfig
	logger *slog.Logger
}

// NewRunner builds a Runner from cfg.
func NewRunner(cfg RunnerConfig, logger *slog.Logger) *Runner {
	return &Runner{
		client: NewClient(cfg.BaseURL, logger),
		bucket: NewTokenBucket(cfg.RatePerSecond, cfg.RatePerSecond),
		cfg:    cfg,
		logger: logger.With("component", "bench-runner"),
	}
}

// Result summarizes a completed soak run.
type Result struct {
	Requests int
	Failures int
}

// Run polls /health and /api/snapshot at the configured rate until Duration
// elapses or ctx is cancelled, then returns a summary.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	deadline := time.Now().Add(r.cfg.Duration)
	var res Result

	for time.Now().Before(deadline) {
		if err := r.bucket.Wait(ctx); err != nil {
			return res, fmt.Errorf("soak run: %w", err)
		}

		res.Requests++
		if err := r.client.Health(ctx); err != nil {
			res.Failures++
			r.logger.Warn("health check failed", "error", err)
			continue
		}

		snap, err := r.client.FetchSnapshot(ctx)
		if err != nil {
			res.Failures++
			r.logger.Warn("snapshot fetch failed", "error", err)
			continue
		}
		r.logger.Debug("snapshot observed", "securities", len(snap.Securities), "workers", snap.Workers)
	}

	return res, nil
}
