package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"shopbot/internal/cache"
	"shopbot/internal/catalog"
	"shopbot/internal/config"
	"shopbot/internal/convo"
	"shopbot/internal/handlers"
	"shopbot/internal/metrics"
	"shopbot/internal/repo"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	for _, issue := range cat.Inconsistencies() {
		logger.Warn("catalog inconsistency", "detail", issue)
	}

	m := metrics.New(cfg.MetricsNamespace)

	var limiter handlers.Limiter
	if cfg.RedisAddr != "" {
		rdb, err := cache.NewRedis(ctx, cache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TLS:      cfg.RedisTLS,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()
		limiter = cache.NewRateLimiter(rdb, "webhook", cfg.RateLimitPerMinute, time.Minute)
		logger.Info("rate limiting enabled", "per_minute", cfg.RateLimitPerMinute)
	}

	var transcripts repo.Store
	if cfg.DatabaseURL != "" {
		store, err := repo.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open transcript store: %w", err)
		}
		defer store.Close()
		transcripts = store
		logger.Info("transcript logging enabled")
	}

	srv := handlers.NewServer(handlers.Options{
		Responder:      convo.New(cat, m, logger),
		Catalog:        cat,
		Metrics:        m,
		Logger:         logger,
		Limiter:        limiter,
		Transcripts:    transcripts,
		JWTSecret:      cfg.WebhookJWTSecret,
		ServiceName:    cfg.ServiceName,
		StaticDir:      cfg.StaticDir,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logStartup(logger, cfg, cat)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func logStartup(logger *slog.Logger, cfg *config.Config, cat *catalog.Catalog) {
	ids := make([]string, 0)
	for _, o := range cat.Orders() {
		ids = append(ids, fmt.Sprintf("%s (%s)", o.ID, o.Status))
	}
	logger.Info("chatbot webhook listening",
		"service", cfg.ServiceName,
		"addr", cfg.HTTPListenAddr,
		"webhook", "/webhook",
		"health", "/health",
		"demo_orders", strings.Join(ids, ", "),
		"products", len(cat.Products()),
	)
}
