package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration. The 100 m icon threshold and
// the ring geometry are business rules, not configuration, and live next to
// the code that applies them.
type Config struct {
	DatabaseURL string
	HTTPPort    string
	LogLevel    string

	RedisAddr string
	RedisPass string
	RedisDB   int

	// Reconciliation loop cadence and per-tick fetch budget.
	TickInterval time.Duration
	TickTimeout  time.Duration

	// Default search radius of the nearby query when the caller omits one.
	NearbyRadiusKm float64

	// Render delivery webhook (optional; diffs always land in Redis).
	RenderWebhookURL        string
	RenderWebhookSecret     string
	RenderWebhookTimeout    time.Duration
	RenderWebhookMaxRetries int
	RenderWebhookBaseDelay  time.Duration

	APIKeys []string
}

// LoadConfig reads configuration from the environment and an optional .env
// file.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		HTTPPort:                getEnv("HTTP_PORT", "8080"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		RedisAddr:               getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:               os.Getenv("REDIS_PASSWORD"),
		RedisDB:                 getEnvAsInt("REDIS_DB", 0),
		TickInterval:            getEnvAsDuration("TICK_INTERVAL", 5*time.Second),
		TickTimeout:             getEnvAsDuration("TICK_TIMEOUT", 4*time.Second),
		NearbyRadiusKm:          getEnvAsFloat("NEARBY_RADIUS_KM", 10),
		RenderWebhookURL:        os.Getenv("RENDER_WEBHOOK_URL"),
		RenderWebhookSecret:     os.Getenv("RENDER_WEBHOOK_SECRET"),
		RenderWebhookTimeout:    getEnvAsDuration("RENDER_WEBHOOK_TIMEOUT", 5*time.Second),
		RenderWebhookMaxRetries: getEnvAsInt("RENDER_WEBHOOK_MAX_RETRIES", 3),
		RenderWebhookBaseDelay:  getEnvAsDuration("RENDER_WEBHOOK_BASE_DELAY", time.Second),
	}

	if apiKeys := os.Getenv("API_KEYS"); apiKeys != "" {
		for _, key := range strings.Split(apiKeys, ",") {
			cfg.APIKeys = append(cfg.APIKeys, strings.TrimSpace(key))
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil && floatValue > 0 {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
