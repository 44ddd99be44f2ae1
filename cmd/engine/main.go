// Command engine runs the matching engine: it loads configuration, carves
// the security arena, starts the dispatcher's worker pool, optionally
// serves the read-only monitoring dashboard, and shuts down cleanly on
// SIGINT/SIGTERM.
//
// Architecture:
//
//	main.go                    — entry point: flags/config, build+wire, signal handling
//	internal/arena             — carves per-security book storage from a memory budget
//	internal/security          — per-security book pair + market price, one lock each
//	internal/book              — segmented binary heap order book
//	internal/matching          — the matching core: one side-parameterized sweep algorithm
//	internal/dispatcher        — worker pool routing request-channel messages to securities
//	internal/codec             — fixed-size wire message encode/decode
//	internal/transport         — channel sizing and the response-stream tap for monitoring
//	internal/monitor           — read-only WebSocket/HTTP dashboard
//	internal/config            — YAML + ME_* env + flag configuration
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/fintex/matching-engine/internal/arena"
	"github.com/fintex/matching-engine/internal/book"
	"github.com/fintex/matching-engine/internal/config"
	"github.com/fintex/matching-engine/internal/dispatcher"
	"github.com/fintex/matching-engine/internal/matching"
	"github.com/fintex/matching-engine/internal/monitor"
	"github.com/fintex/matching-engine/internal/transport"
	"github.com/fintex/matching-engine/pkg/types"
)

// overflowSegmentCapacity sizes every overflow segment handed out after the
// primary arena is exhausted. It is independent of the primary segment
// capacity the arena computes from the memory budget.
const overflowSegmentCapacity = 64

func main() {
	fs := pflag.NewFlagSet("engine", pflag.ExitOnError)
	config.RegisterFlags(fs)
	configPath := fs.String("config", "", "path to YAML config file")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath, fs)
	if err != nil {
		slog.Error("failed to load config", "error", err, "path", *configPath)
		os.Exit(1)
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.ChannelCap == 0 {
		cfg.ChannelCap = transport.DefaultCapacity()
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger := buildLogger(cfg.Logging)

	allocFn := func() *book.Segment { return book.NewSegment(overflowSegmentCapacity) }
	ec, err := arena.Init(cfg.CacheSize, cfg.Securities, allocFn, nil)
	if err != nil {
		logger.Error("failed to initialize arena", "error", err)
		os.Exit(1)
	}
	logger.Info("arena initialized", "securities", ec.NSecurities, "segment_capacity", ec.Capacity)

	core := matching.New(logger)
	in, rawOut := transport.NewRequestResponse(cfg.ChannelCap)
	out, tap := transport.Tee(rawOut, cfg.ChannelCap)
	d := dispatcher.New(ec, core, in, rawOut, cfg.Workers, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return d.Run(gctx) })

	g.Go(func() error {
		for {
			select {
			case msg := <-out:
				logger.Debug("response", "type", msg.Type.String(), "security_id", msg.Security)
			case <-gctx.Done():
				return nil
			}
		}
	})

	if cfg.Dashboard.Enabled {
		monServer := monitor.NewServer(cfg.Dashboard, ec, cfg.Workers, tap, logger)
		g.Go(func() error {
			if err := monServer.Start(); err != nil {
				return fmt.Errorf("dashboard: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return monServer.Stop()
		})
		logger.Info("dashboard started", "port", cfg.Dashboard.Port)
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signaled, draining dispatcher")
		select {
		case in <- types.Message{Type: types.MsgPanic}:
		default:
		}
		return nil
	})

	logger.Info("matching engine started", "workers", cfg.Workers, "securities", cfg.Securities, "channel_capacity", cfg.ChannelCap)

	err = g.Wait()

	if err != nil && err != context.Canceled {
		logger.Error("engine exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("matching engine stopped")
}

func buildLogger(cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
