package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	os.Setenv("AUTH_SHARED_SECRET", "s3cr3t")
	os.Setenv("EPHEMERIS_DATA_PATH", "testdata/ephemeris")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10000, cfg.Cache.L1Size)
	assert.Equal(t, 100, cfg.RateLimit.DefaultTierLimit)
	assert.Equal(t, 60, cfg.RateLimit.WindowSeconds)
}

func TestLoadMissingRequiredFields(t *testing.T) {
	clearEnv(t)
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverridesFromEnv(t *testing.T) {
	clearEnv(t)
	os.Setenv("AUTH_SHARED_SECRET", "s3cr3t")
	os.Setenv("EPHEMERIS_DATA_PATH", "testdata/ephemeris")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("RATE_LIMIT_DEFAULT", "250")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 250, cfg.RateLimit.DefaultTierLimit)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"AUTH_SHARED_SECRET", "EPHEMERIS_DATA_PATH", "SERVER_PORT",
		"RATE_LIMIT_DEFAULT", "CACHE_L1_SIZE",
	} {
		os.Unsetenv(k)
	}
}
