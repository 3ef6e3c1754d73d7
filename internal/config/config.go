package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the penalty CLI and server.
type Config struct {
	MaxRounds   int
	LogLevel    string
	RedisURL    string
	CacheTTL    time.Duration
	DatabaseURL string
	Listen      string
}

// Load reads configuration from environment variables with sensible defaults.
// An empty RedisURL disables the report cache; an empty DatabaseURL disables
// solve history.
func Load() (*Config, error) {
	maxRounds, err := strconv.Atoi(getEnv("PENALTY_MAX_ROUNDS", "30"))
	if err != nil || maxRounds <= 0 {
		return nil, fmt.Errorf("PENALTY_MAX_ROUNDS must be a positive integer, got %q", os.Getenv("PENALTY_MAX_ROUNDS"))
	}
	ttl, err := time.ParseDuration(getEnv("PENALTY_CACHE_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("parse PENALTY_CACHE_TTL: %w", err)
	}

	cfg := &Config{
		MaxRounds:   maxRounds,
		LogLevel:    getEnv("PENALTY_LOG_LEVEL", "info"),
		RedisURL:    getEnv("PENALTY_REDIS_URL", ""),
		CacheTTL:    ttl,
		DatabaseURL: getEnv("PENALTY_DATABASE_URL", ""),
		Listen:      getEnv("PENALTY_LISTEN", ":8080"),
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
