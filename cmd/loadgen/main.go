// Command loadgen is a smoke-test client for a running engine's dashboard:
// it polls /health and /api/snapshot at a steady rate for a fixed duration
// and reports how many requests failed.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/fintex/matching-engine/internal/bench"
)

func main() {
	fs := pflag.NewFlagSet("loadgen", pflag.ExitOnError)
	baseURL := fs.String("url", "http://localhost:8090", "dashboard base URL")
	rate := fs.Float64("rate", 10, "requests per second")
	duration := fs.Duration("duration", 30*time.Second, "soak run duration")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	runner := bench.NewRunner(bench.RunnerConfig{
		BaseURL:       *baseURL,
		RatePerSecond: *rate,
		Duration:      *duration,
	}, logger)

	res, err := runner.Run(context.Background())
	if err != nil {
		logger.Error("soak run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("soak run complete", "requests", res.Requests, "failures", res.Failures)
	if res.Failures > 0 {
		os.Exit(1)
	}
}
