package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://login-api.snolep.com", cfg.IdentityURL)
	assert.Equal(t, "https://finance-api.snolep.com", cfg.FinanceURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.StateDir)
	assert.NotEmpty(t, cfg.CacheDir)
	assert.Equal(t, int64(1<<30), cfg.MaxCacheSize)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CACONNECT_IDENTITY_URL", "https://id.test.local/")
	t.Setenv("CACONNECT_FINANCE_URL", "https://fin.test.local")
	t.Setenv("CACONNECT_REQUEST_TIMEOUT", "10s")
	t.Setenv("CACONNECT_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://id.test.local", cfg.IdentityURL, "trailing slash is trimmed")
	assert.Equal(t, "https://fin.test.local", cfg.FinanceURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}
