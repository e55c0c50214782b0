// Package config loads and validates application configuration from environment
// variables.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all configuration for the itinerary API server.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// StorageBackend selects the itinerary repository: "memory" (default) or
	// "postgres".
	StorageBackend string

	// DatabaseURL is the Postgres connection string. Required when
	// StorageBackend is "postgres".
	DatabaseURL string

	// AuthMode is "jwt" (default) or "dev". In dev mode the API trusts the
	// X-Debug-Subject header instead of verifying bearer tokens.
	AuthMode string

	// JWTSecret signs and verifies HS256 bearer tokens. Required in jwt mode.
	JWTSecret string

	// DevSubject is the fallback subject used by dev-mode auth when the
	// request carries no X-Debug-Subject header.
	DevSubject string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override the default
	// local dev server origin.
	CORSOrigins []string

	// LogLevel controls the minimum log level: debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from environment variables. It returns an error
// listing every required variable missing for the selected modes.
func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		StorageBackend: getEnv("STORAGE_BACKEND", "memory"),
		AuthMode:       getEnv("AUTH_MODE", "jwt"),
		DevSubject:     getEnv("DEV_SUBJECT", "dev|local"),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.StorageBackend == "postgres" && cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.AuthMode != "dev" && cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
