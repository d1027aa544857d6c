// Package config reads service configuration from the environment, with a
// .env file honored in development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is everything the server binary needs to wire itself up.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// RedisURL connects the room store and the broadcast channel.
	RedisURL string
	// DatabaseURL connects the optional analytics recorder; empty disables it.
	DatabaseURL string
	// TurnTimeout is the per-turn deadline enforced server-side.
	TurnTimeout time.Duration
	// FlushInterval batches non-critical room saves; zero writes through.
	FlushInterval time.Duration
	// MaxPendingRooms bounds the write-debounce cache.
	MaxPendingRooms int
	// LogLevel is a logrus level name.
	LogLevel string
}

// Load parses the environment. A missing .env file is not an error.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Addr:            getString("WHOT_ADDR", ":8080"),
		RedisURL:        getString("REDIS_URL", "redis://localhost:6379/0"),
		DatabaseURL:     getString("DATABASE_URL", ""),
		TurnTimeout:     getSeconds("WHOT_TURN_TIMEOUT_SEC", 30),
		FlushInterval:   getSeconds("WHOT_FLUSH_INTERVAL_SEC", 3),
		MaxPendingRooms: getInt("WHOT_CACHE_ROOMS", 512),
		LogLevel:        getString("WHOT_LOG_LEVEL", "info"),
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getSeconds(key string, fallback int) time.Duration {
	return time.Duration(getInt(key, fallback)) * time.Second
}
