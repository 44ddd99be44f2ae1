// Package config defines all configuration for the matching engine.
//
// Config is loaded from an optional YAML file (none is read when no path
// is given), with every field that has a default overridable via ME_*
// environment variables, and the two
// historically significant settings (cache size and security count) also
// available as literal --cache-size / --securities command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/fintex/matching-engine/internal/arena"
)

// Config is the top-level configuration. Maps directly to the YAML file
// structure.
type Config struct {
	CacheSize  int64           `mapstructure:"cache_size"`
	Securities int             `mapstructure:"securities"`
	Workers    int             `mapstructure:"workers"`
	ChannelCap int             `mapstructure:"channel_capacity"`
	Logging    LoggingConfig   `mapstructure:"logging"`
	Dashboard  DashboardConfig `mapstructure:"dashboard"`
}

// LoggingConfig controls the structured logger built in cmd/engine.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// DashboardConfig controls the read-only monitoring websocket server.
type DashboardConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Defaults mirror the original engine's command-line defaults.
const (
	DefaultCacheSize  int64 = 1610612736 // 1.5 GiB
	DefaultSecurities int   = 400
)

// RegisterFlags adds the engine's command-line flags to fs, for Load to
// bind. Call before fs.Parse.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.Int64("cache-size", DefaultCacheSize, "memory budget for the security arena, in bytes")
	fs.Int("securities", DefaultSecurities, "number of securities to allocate contexts for")
}

// Load reads config from a YAML file, applies ME_* environment overrides,
// and finally layers in any --cache-size / --securities flags the caller
// parsed into fs.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("cache_size", DefaultCacheSize)
	v.SetDefault("securities", DefaultSecurities)
	v.SetDefault("workers", 0) // 0 means runtime.GOMAXPROCS(0)
	v.SetDefault("channel_capacity", 1024)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("dashboard.enabled", false)
	v.SetDefault("dashboard.port", 8090)

	v.SetEnvPrefix("ME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if fs != nil {
		if err := v.BindPFlag("cache_size", fs.Lookup("cache-size")); err != nil {
			return nil, fmt.Errorf("bind cache-size flag: %w", err)
		}
		if err := v.BindPFlag("securities", fs.Lookup("securities")); err != nil {
			return nil, fmt.Errorf("bind securities flag: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the DOMAIN precondition before the arena is allocated:
// the configured budget must fit at least one order per security.
func (c *Config) Validate() error {
	if c.Securities <= 0 {
		return fmt.Errorf("securities must be > 0, got %d", c.Securities)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache_size must be > 0, got %d", c.CacheSize)
	}
	if min := arena.Minimum(c.Securities); c.CacheSize < min {
		return fmt.Errorf("cache_size %d below minimum %d for %d securities: %w", c.CacheSize, min, c.Securities, arena.ErrDomain)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.ChannelCap <= 0 {
		return fmt.Errorf("channel_capacity must be > 0, got %d", c.ChannelCap)
	}
	switch c.Logging.Format {
	case "json", "text", "":
	default:
		return fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format)
	}
	return nil
}
