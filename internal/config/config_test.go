package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"PENALTY_MAX_ROUNDS", "PENALTY_LOG_LEVEL", "PENALTY_REDIS_URL",
		"PENALTY_CACHE_TTL", "PENALTY_DATABASE_URL", "PENALTY_LISTEN",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, &Config{
		MaxRounds: 30,
		LogLevel:  "info",
		CacheTTL:  24 * time.Hour,
		Listen:    ":8080",
	}, cfg)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PENALTY_MAX_ROUNDS", "12")
	t.Setenv("PENALTY_LOG_LEVEL", "debug")
	t.Setenv("PENALTY_REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("PENALTY_CACHE_TTL", "90m")
	t.Setenv("PENALTY_DATABASE_URL", "postgres://localhost:5432/penalty")
	t.Setenv("PENALTY_LISTEN", "127.0.0.1:9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.MaxRounds)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "redis://localhost:6379/2", cfg.RedisURL)
	assert.Equal(t, 90*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "postgres://localhost:5432/penalty", cfg.DatabaseURL)
	assert.Equal(t, "127.0.0.1:9000", cfg.Listen)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("PENALTY_CACHE_TTL", "")
	for _, v := range []string{"zero", "0", "-3"} {
		t.Setenv("PENALTY_MAX_ROUNDS", v)
		_, err := Load()
		require.Error(t, err, v)
	}

	t.Setenv("PENALTY_MAX_ROUNDS", "")
	t.Setenv("PENALTY_CACHE_TTL", "tomorrow")
	_, err := Load()
	require.Error(t, err)
}
