// Package bench is a load-generator and smoke-test client for the
// dashboard's HTTP surface. It has no access to the matching core itself
// — it only drives /health and /api/snapshot the way an external operator
// tool would, to assert steady-state health during a soak run.
package bench

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client is an HTTP client tuned for polling the dashboard.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// NewClient builds a retry-configured resty client against baseURL.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() >= 500
		})

	return &Client{http: httpClient, logger: logger.With("component", "bench-client")}
}

// Snapshot is the subset of the dashboard's snapshot payload the load
// generator checks for steady-state health; it does not need every field
// the dashboard renders.
type Snapshot struct {
	Timestamp  time.Time `json:"timestamp"`
	Workers    int       `json:"workers"`
	Securities []struct {
		ID        int64 `json:"id"`
		BuyDepth  int   `json:"buy_depth"`
		SellDepth int   `json:"sell_depth"`
	} `json:"securities"`
}

// Health calls /health and returns an error unless the engine reports ok.
func (c *Client) Health(ctx context.Context) error {
	var result map[string]string
	resp, err := c.http.R().SetContext(ctx).SetResult(&result).Get("/health")
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("health check: status %d", resp.StatusCode())
	}
	if result["status"] != "ok" {
		return fmt.Errorf("health check: status field = %q, want ok", result["status"])
	}
	return nil
}

// FetchSnapshot pulls the current engine snapshot.
func (c *Client) FetchSnapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	resp, err := c.http.R().SetContext(ctx).SetResult(&snap).Get("/api/snapshot")
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch snapshot: status %d", resp.StatusCode())
	}
	return &snap, nil
}
