// Package config provides environment-aware configuration management for
// the engine orchestration service.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `env:"SERVER_HOST"`
	Port int    `env:"SERVER_PORT"`
}

// CacheConfig controls the three cache tiers (L1 in-process, L2 network, L3 precomputed).
type CacheConfig struct {
	L1Size        int    `env:"CACHE_L1_SIZE"`
	L1TTLSeconds  int    `env:"CACHE_L1_TTL_SECONDS"`
	L2Endpoint    string `env:"CACHE_L2_ENDPOINT"`
	L2TTLSeconds  int    `env:"CACHE_L2_TTL_SECONDS"`
	L3Enabled     bool   `env:"CACHE_L3_ENABLED"`
	L3DSN         string `env:"CACHE_L3_DSN"`
	EngineVersion int    `env:"CACHE_ENGINE_VERSION"`
	// WarmerSchedule is a cron expression for the background cache warmer.
	// Empty disables it (the default).
	WarmerSchedule string `env:"CACHE_WARMER_SCHEDULE"`
}

// RateLimitConfig controls the per-principal fixed-count sliding window.
type RateLimitConfig struct {
	DefaultTierLimit int `env:"RATE_LIMIT_DEFAULT"`
	WindowSeconds    int `env:"RATE_LIMIT_WINDOW_SECONDS"`
}

// SidecarConfig controls the bridge to the non-astronomical engine sidecar.
type SidecarConfig struct {
	URL            string `env:"SIDECAR_URL"`
	TimeoutSeconds int    `env:"SIDECAR_TIMEOUT_SECONDS"`
	MaxConcurrency int    `env:"SIDECAR_MAX_CONCURRENCY"`
}

// AuthConfig controls principal derivation from bearer tokens.
type AuthConfig struct {
	SharedSecret string `env:"AUTH_SHARED_SECRET"`
}

// EphemerisConfig locates the ephemeris oracle's backing data.
type EphemerisConfig struct {
	DataPath string `env:"EPHEMERIS_DATA_PATH"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"`
	Format string `env:"LOG_FORMAT"`
}

// Config is the top-level configuration structure for the orchestration service.
type Config struct {
	Server    ServerConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Sidecar   SidecarConfig
	Auth      AuthConfig
	Ephemeris EphemerisConfig
	Logging   LoggingConfig
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Cache: CacheConfig{
			L1Size:        10000,
			L1TTLSeconds:  3600,
			L2TTLSeconds:  86400,
			EngineVersion: 1,
		},
		RateLimit: RateLimitConfig{
			DefaultTierLimit: 100,
			WindowSeconds:    60,
		},
		Sidecar: SidecarConfig{
			TimeoutSeconds: 10,
			MaxConcurrency: 8,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads a .env file if present, applies environment overrides on top of
// New()'s defaults, and enforces the startup-fatal fields: the auth shared
// secret and the ephemeris data path.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := New()
	if err := envdecode.Decode(cfg); err != nil {
		if !strings.Contains(err.Error(), "none of the target fields were set") {
			return nil, fmt.Errorf("decode env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces the fields the service cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.SharedSecret) == "" {
		return fmt.Errorf("AUTH_SHARED_SECRET is required")
	}
	if strings.TrimSpace(c.Ephemeris.DataPath) == "" {
		return fmt.Errorf("EPHEMERIS_DATA_PATH is required")
	}
	return nil
}

// MustLoadForTest loads config with the required fields defaulted, for
// package tests that don't want to export environment variables.
func MustLoadForTest() *Config {
	cfg := New()
	cfg.Auth.SharedSecret = envOrDefault("AUTH_SHARED_SECRET", "test-secret")
	cfg.Ephemeris.DataPath = envOrDefault("EPHEMERIS_DATA_PATH", "testdata/ephemeris")
	if err := envdecode.Decode(cfg); err != nil && !strings.Contains(err.Error(), "none of the target fields were set") {
		panic(err)
	}
	return cfg
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
