// Package monitor is the engine's read-only WebSocket dashboard: it taps
// the response stream, renders a point-in-time snapshot of every
// security's book, and broadcasts both to connected operators. It never
// has write access to the matching core.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fintex/matching-engine/internal/arena"
	"github.com/fintex/matching-engine/internal/config"
	"github.com/fintex/matching-engine/pkg/types"
)

// Server runs the dashboard's HTTP/WebSocket listener.
type Server struct {
	cfg      config.DashboardConfig
	ec       *arena.EngineContext
	hub      *Hub
	handlers *Handlers
	server   *http.Server
	tap      <-chan types.Message
	logger   *slog.Logger
}

// NewServer builds a Server. tap is the best-effort response-stream feed
// produced by transport.Tee; it is read only for display, never for
// matching decisions.
func NewServer(cfg config.DashboardConfig, ec *arena.EngineContext, workers int, tap <-chan types.Message, logger *slog.Logger) *Server {
	hub := NewHub(logger)
	handlers := NewHandlers(ec, workers, cfg, hub, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", handlers.HandleHealth)
	mux.HandleFunc("/api/snapshot", handlers.HandleSnapshot)
	mux.HandleFunc("/ws", handlers.HandleWebSocket)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		cfg:      cfg,
		ec:       ec,
		hub:      hub,
		handlers: handlers,
		server:   server,
		tap:      tap,
		logger:   logger.With("component", "monitor-server"),
	}
}

// Start runs the hub and the tap consumer, then blocks serving HTTP until
// Stop is called.
func (s *Server) Start() error {
	go s.hub.Run()
	go s.consumeTap()

	s.logger.Info("dashboard server starting", "addr", s.server.Addr)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("dashboard server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP listener.
func (s *Server) Stop() error {
	s.logger.Info("stopping dashboard server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// consumeTap renders every tapped response message as a wire event and
// broadcasts it, until the tap channel closes.
func (s *Server) consumeTap() {
	for msg := range s.tap {
		if msg.Type == types.MsgPanic {
			continue
		}
		s.hub.BroadcastMessage(newWireMessage(msg))
	}
}
