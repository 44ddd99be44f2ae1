package monitor

import (
	"testing"

	"github.com/fintex/matching-engine/internal/config"
)

func TestIsOriginAllowedEmptyOrigin(t *testing.T) {
	t.Parallel()
	if !isOriginAllowed("", config.DashboardConfig{}, "engine.local:8090") {
		t.Error("isOriginAllowed(\"\") = false, want true")
	}
}

func TestIsOriginAllowedLocalhost(t *testing.T) {
	t.Parallel()
	if !isOriginAllowed("http://localhost:3000", config.DashboardConfig{}, "engine.local:8090") {
		t.Error("localhost origin should be allowed with no configured allowlist")
	}
}

func TestIsOriginAllowedMatchesRequestHost(t *testing.T) {
	t.Parallel()
	if !isOriginAllowed("http://engine.local:8090", config.DashboardConfig{}, "engine.local:8090") {
		t.Error("origin matching the request host should be allowed")
	}
}

func TestIsOriginAllowedRejectsUnlisted(t *testing.T) {
	t.Parallel()
	if isOriginAllowed("http://evil.example", config.DashboardConfig{}, "engine.local:8090") {
		t.Error("unrelated origin should be rejected with no configured allowlist")
	}
}

func TestIsOriginAllowedExplicitAllowlist(t *testing.T) {
	t.Parallel()
	cfg := config.DashboardConfig{AllowedOrigins: []string{"https://ops.example.com"}}
	if !isOriginAllowed("https://ops.example.com", cfg, "engine.local:8090") {
		t.Error("origin present in AllowedOrigins should be allowed")
	}
	if isOriginAllowed("https://other.example.com", cfg, "engine.local:8090") {
		t.Error("origin absent from AllowedOrigins should be rejected")
	}
}

func TestNormalizeHostStripsPort(t *testing.T) {
	t.Parallel()
	if got := normalizeHost("Engine.Local:8090"); got != "engine.local" {
		t.Errorf("normalizeHost() = %q, want %q", got, "engine.local")
	}
}
