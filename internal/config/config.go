// Package config loads client configuration from the environment.
package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Logesh-Devops/caconnect-clientui/internal/session"
)

// Config holds all client configuration.
type Config struct {
	// Remote services
	IdentityURL    string
	FinanceURL     string
	RequestTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Local state
	StateDir     string
	CacheDir     string
	MaxCacheSize int64
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	// Missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("caconnect")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	stateDir := session.DefaultDir()
	v.SetDefault("identity_url", "https://login-api.snolep.com")
	v.SetDefault("finance_url", "https://finance-api.snolep.com")
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("state_dir", stateDir)
	v.SetDefault("cache_dir", filepath.Join(stateDir, "cache"))
	v.SetDefault("max_cache_size", int64(1<<30))

	cfg := &Config{
		IdentityURL:    strings.TrimRight(v.GetString("identity_url"), "/"),
		FinanceURL:     strings.TrimRight(v.GetString("finance_url"), "/"),
		RequestTimeout: v.GetDuration("request_timeout"),
		LogLevel:       v.GetString("log_level"),
		LogFormat:      v.GetString("log_format"),
		StateDir:       v.GetString("state_dir"),
		CacheDir:       v.GetString("cache_dir"),
		MaxCacheSize:   v.GetInt64("max_cache_size"),
	}
	return cfg, nil
}
