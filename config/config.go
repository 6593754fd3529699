package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Backend names for the save store.
const (
	SavesBackendFile  = "file"
	SavesBackendRedis = "redis"
)

// Config holds all configuration for a toolkit host
type Config struct {
	Tick  TickConfig
	Saves SavesConfig
	Redis RedisConfig
}

// TickConfig holds frame-loop configuration
type TickConfig struct {
	// Rate is frames per second for the scheduler
	Rate int

	// FixedDelta is the simulation step passed to fixed-update observers
	FixedDelta time.Duration
}

// SavesConfig selects and configures the save store backend
type SavesConfig struct {
	Backend string
	Dir     string // file backend root
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Tick: TickConfig{
			Rate:       getEnvAsIntOrDefault("TICK_RATE", 60),
			FixedDelta: time.Duration(getEnvAsIntOrDefault("FIXED_DELTA_MS", 20)) * time.Millisecond,
		},
		Saves: SavesConfig{
			Backend: getEnvOrDefault("SAVES_BACKEND", SavesBackendFile),
			Dir:     getEnvOrDefault("SAVES_DIR", "./saves"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
		},
	}

	if cfg.Tick.Rate <= 0 {
		return nil, fmt.Errorf("TICK_RATE must be positive, got %d", cfg.Tick.Rate)
	}
	switch cfg.Saves.Backend {
	case SavesBackendFile, SavesBackendRedis:
	default:
		return nil, fmt.Errorf("SAVES_BACKEND must be %q or %q, got %q",
			SavesBackendFile, SavesBackendRedis, cfg.Saves.Backend)
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
