package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	LogLevel           string
	HTTPListenAddr     string
	ServiceName        string
	StaticDir          string
	CatalogPath        string
	CORSAllowedOrigins []string
	RequestTimeout     time.Duration
	MetricsNamespace   string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RedisTLS           bool
	RateLimitPerMinute int
	DatabaseURL        string
	WebhookJWTSecret   string
}

// Load returns configuration populated from environment variables with fallbacks.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:             getenvDefault("APP_ENV", "development"),
		LogLevel:           getenvDefault("LOG_LEVEL", "info"),
		HTTPListenAddr:     getenvDefault("HTTP_LISTEN_ADDR", ":3000"),
		ServiceName:        getenvDefault("SERVICE_NAME", "Ecommerce Chatbot API"),
		StaticDir:          trimmedEnv("STATIC_DIR"),
		CatalogPath:        trimmedEnv("CATALOG_PATH"),
		CORSAllowedOrigins: splitAndTrim(getenvDefault("CORS_ALLOWED_ORIGINS", "*")),
		MetricsNamespace:   getenvDefault("METRICS_NAMESPACE", "shopbot"),
		RedisAddr:          trimmedEnv("REDIS_ADDR"),
		RedisPassword:      trimmedEnv("REDIS_PASSWORD"),
		DatabaseURL:        trimmedEnv("DATABASE_URL"),
		WebhookJWTSecret:   trimmedEnv("WEBHOOK_JWT_SECRET"),
	}

	if port := trimmedEnv("PORT"); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return nil, fmt.Errorf("invalid PORT value: %w", err)
		}
		cfg.HTTPListenAddr = ":" + port
	}

	var err error
	timeoutStr := getenvDefault("REQUEST_TIMEOUT", "5s")
	if cfg.RequestTimeout, err = time.ParseDuration(timeoutStr); err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT duration: %w", err)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if redisDBStr := getenvDefault("REDIS_DB", "0"); redisDBStr != "" {
		db, convErr := strconv.Atoi(redisDBStr)
		if convErr != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value: %w", convErr)
		}
		cfg.RedisDB = db
	}

	cfg.RedisTLS = strings.EqualFold(getenvDefault("REDIS_TLS", "false"), "true")

	limitStr := getenvDefault("RATE_LIMIT_PER_MINUTE", "30")
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE value: %w", err)
	}
	if limit < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE cannot be negative")
	}
	cfg.RateLimitPerMinute = limit

	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func getenvDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		if trimmed := strings.TrimSpace(val); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func splitAndTrim(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			res = append(res, trimmed)
		}
	}
	return res
}

func trimmedEnv(key string) string {
	if val, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(val)
	}
	return ""
}
