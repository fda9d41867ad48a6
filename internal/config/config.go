// Package config loads service configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every tunable the service reads at startup.
type Config struct {
	Addr       string
	Env        string
	SessionTTL time.Duration

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string

	// ImportMaxBytes caps the size of uploaded import spreadsheets.
	ImportMaxBytes int64
}

// Load reads the environment, after loading a .env file when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:           getenv("HTTP_ADDR", ":8080"),
		Env:            getenv("APP_ENV", "development"),
		SessionTTL:     getenvDuration("SESSION_TTL", 12*time.Hour),
		DBHost:         getenv("DB_HOST", "localhost"),
		DBPort:         getenv("DB_PORT", "5432"),
		DBName:         getenv("DB_NAME", "patrimonio"),
		DBUser:         getenv("DB_USER", "postgres"),
		DBPassword:     getenv("DB_PASS", "postgres"),
		ImportMaxBytes: getenvInt64("IMPORT_MAX_BYTES", 50*1024*1024),
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func getenvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
