// Package config provides environment configuration for the gateway.
package config

import (
	"os"
	"strconv"
	"time"
)

const (
	// DefaultHistoryWindow is the trailing number of turns sent upstream as
	// conversational context. Bounded to keep request size and cost in check.
	DefaultHistoryWindow = 8
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration

	// Local RAG backend
	BackendURL     string
	BackendTimeout time.Duration

	// Health monitor
	HealthProbeTimeout time.Duration
	HealthInterval     time.Duration

	// Cloud inference
	AnthropicAPIKey string
	OpenAIAPIKey    string
	DefaultProvider string

	// Conversation state
	HistoryWindow int

	// JWT settings
	JWTSecret    string
	AuthRequired bool

	// Event mirror (optional)
	NATSURL   string
	NATSToken string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 120*time.Second),

		// Backend
		BackendURL:     getEnv("BACKEND_URL", "http://127.0.0.1:8000"),
		BackendTimeout: getDurationEnv("BACKEND_TIMEOUT", 30*time.Second),

		// Health monitor
		HealthProbeTimeout: getDurationEnv("HEALTH_PROBE_TIMEOUT", 2*time.Second),
		HealthInterval:     getDurationEnv("HEALTH_INTERVAL", 10*time.Second),

		// Cloud inference
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		DefaultProvider: getEnv("DEFAULT_PROVIDER", "openai"),

		// Conversation state
		HistoryWindow: getIntEnv("HISTORY_WINDOW", DefaultHistoryWindow),

		// JWT
		JWTSecret:    getEnv("JWT_SECRET", "development-secret-change-in-production"),
		AuthRequired: getBoolEnv("AUTH_REQUIRED", false),

		// Event mirror
		NATSURL:   getEnv("NATS_URL", ""),
		NATSToken: getEnv("NATS_TOKEN", ""),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
