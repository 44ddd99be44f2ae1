package bench

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/api/snapshot", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Snapshot{Timestamp: time.Now(), Workers: 4})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientHealth(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	c := NewClient(srv.URL, slog.Default())
	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health() error = %v", err)
	}
}

func TestClientFetchSnapshot(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	c := NewClient(srv.URL, slog.Default())
	snap, err := c.FetchSnapshot(context.Background())
	if err != nil {
		t.Fatalf("FetchSnapshot() error = %v", err)
	}
	if snap.Workers != 4 {
		t.Errorf("Workers = %d, want 4", snap.Workers)
	}
}

func TestRunnerRunCompletesWithinDeadline(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	r := NewRunner(RunnerConfig{BaseURL: srv.URL, RatePerSecond: 50, Duration: 100 * time.Millisecond}, slog.Default())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	res, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Requests == 0 {
		t.Error("Requests = 0, want at least one poll")
	}
	if res.Failures != 0 {
		t.Errorf("Failures = %d, want 0", res.Failures)
	}
}
