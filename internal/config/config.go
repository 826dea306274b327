package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Database
	DatabaseURL string

	// Redis (optional; backs the rate limiter when set)
	RedisURL string

	// OIDC token verification. The identity provider is Firebase; its ID
	// tokens are standard OIDC tokens with issuer
	// https://securetoken.google.com/<project-id>.
	OIDCIssuer   string
	OIDCAudience string

	// Gemini text-generation service
	GeminiAPIURL string
	GeminiAPIKey string

	// Push transport (FCM HTTP v1)
	FCMEndpoint        string
	FCMCredentialsFile string

	// Price update pipeline
	UpdateInterval time.Duration // how often the full catalog is refreshed
	UpdateDelay    time.Duration // pause between consecutive products in a batch
	NotifyWorkers  int           // bounded push dispatch pool size

	// CORS
	CORSOrigins string // Comma-separated allowed origins
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:         getEnv("ENV", "development"),
		ServerAddr:  getEnv("SERVER_ADDR", ":3000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:3000"),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/dealspy?sslmode=disable"),
		RedisURL:    getEnv("REDIS_URL", ""),

		OIDCIssuer:   getEnv("OIDC_ISSUER", ""),
		OIDCAudience: getEnv("OIDC_AUDIENCE", ""),

		GeminiAPIURL: getEnv("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),

		FCMEndpoint:        getEnv("FCM_ENDPOINT", ""),
		FCMCredentialsFile: getEnv("FCM_CREDENTIALS_FILE", ""),

		UpdateInterval: getEnvDuration("UPDATE_INTERVAL", 4*time.Hour),
		UpdateDelay:    getEnvDuration("UPDATE_DELAY", 1500*time.Millisecond),
		NotifyWorkers:  getEnvInt("NOTIFY_WORKERS", 5),

		CORSOrigins: getEnv("CORS_ORIGINS", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}
