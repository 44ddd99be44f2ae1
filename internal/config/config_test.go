package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func writeTempConfig(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CacheSize != DefaultCacheSize {
		t.Errorf("CacheSize = %d, want %d", cfg.CacheSize, DefaultCacheSize)
	}
	if cfg.Securities != DefaultSecurities {
		t.Errorf("Securities = %d, want %d", cfg.Securities, DefaultSecurities)
	}
	if cfg.ChannelCap != 1024 {
		t.Errorf("ChannelCap = %d, want 1024", cfg.ChannelCap)
	}
}

func TestLoadFromYAML(t *testing.T) {
	t.Parallel()

	path := writeTempConfig(t, "securities: 10\ncache_size: 104857600\nworkers: 4\n")
	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Securities != 10 {
		t.Errorf("Securities = %d, want 10", cfg.Securities)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ME_SECURITIES", "77")
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Securities != 77 {
		t.Errorf("Securities = %d, want 77 from ME_SECURITIES", cfg.Securities)
	}
}

func TestLoadFlagOverride(t *testing.T) {
	t.Parallel()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse([]string{"--securities=55", "--cache-size=99999999"}); err != nil {
		t.Fatalf("fs.Parse() error = %v", err)
	}

	cfg, err := Load("", fs)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Securities != 55 {
		t.Errorf("Securities = %d, want 55 from flag", cfg.Securities)
	}
	if cfg.CacheSize != 99999999 {
		t.Errorf("CacheSize = %d, want 99999999 from flag", cfg.CacheSize)
	}
}

func TestValidateRejectsZeroSecurities(t *testing.T) {
	t.Parallel()

	cfg := &Config{CacheSize: 1 << 20, Securities: 0, ChannelCap: 1}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() error = nil, want error for zero securities")
	}
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	t.Parallel()

	cfg := &Config{CacheSize: 1 << 20, Securities: 1, ChannelCap: 1, Logging: LoggingConfig{Format: "xml"}}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() error = nil, want error for invalid logging format")
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v, want nil", err)
	}
}
