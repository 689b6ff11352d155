package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"APP_ENV", "LOG_LEVEL", "HTTP_LISTEN_ADDR", "PORT", "SERVICE_NAME", "STATIC_DIR",
	"CATALOG_PATH", "CORS_ALLOWED_ORIGINS", "REQUEST_TIMEOUT", "METRICS_NAMESPACE",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_TLS", "RATE_LIMIT_PER_MINUTE",
	"DATABASE_URL", "WEBHOOK_JWT_SECRET",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":3000", cfg.HTTPListenAddr)
	assert.Equal(t, "Ecommerce Chatbot API", cfg.ServiceName)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "shopbot", cfg.MetricsNamespace)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.WebhookJWTSecret)
	assert.False(t, cfg.RedisTLS)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "Production")
	t.Setenv("PORT", "8081")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("REQUEST_TIMEOUT", "750ms")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_TLS", "TRUE")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "0")
	t.Setenv("DATABASE_URL", " sqlite:data/chat.db ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, ":8081", cfg.HTTPListenAddr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 750*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.RedisTLS)
	assert.Equal(t, 0, cfg.RateLimitPerMinute)
	assert.Equal(t, "sqlite:data/chat.db", cfg.DatabaseURL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"bad timeout":      {"REQUEST_TIMEOUT", "soon"},
		"zero timeout":     {"REQUEST_TIMEOUT", "0s"},
		"bad redis db":     {"REDIS_DB", "one"},
		"bad rate limit":   {"RATE_LIMIT_PER_MINUTE", "many"},
		"negative limit":   {"RATE_LIMIT_PER_MINUTE", "-1"},
		"non-numeric port": {"PORT", "http"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
