package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"shopbot/internal/catalog"
	"shopbot/internal/convo"
	"shopbot/internal/metrics"
	"shopbot/internal/repo"
)

// Responder produces a chat reply for a message.
type Responder interface {
	Reply(text string, params map[string]string) convo.Result
}

// Limiter decides whether a session may send another message.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Options wires the HTTP server. Limiter, Transcripts, JWTSecret and
// StaticDir are optional.
type Options struct {
	Responder      Responder
	Catalog        *catalog.Catalog
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
	Limiter        Limiter
	Transcripts    repo.Store
	JWTSecret      string
	ServiceName    string
	StaticDir      string
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// Server exposes the webhook, the catalog API and operational endpoints.
type Server struct {
	responder      Responder
	catalog        *catalog.Catalog
	metrics        *metrics.Metrics
	logger         *slog.Logger
	limiter        Limiter
	transcripts    repo.Store
	jwtSecret      []byte
	serviceName    string
	staticDir      string
	allowedOrigins []string
	requestTimeout time.Duration
}

// NewServer constructs the HTTP server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s := &Server{
		responder:      opts.Responder,
		catalog:        opts.Catalog,
		metrics:        opts.Metrics,
		logger:         logger.With("component", "http"),
		limiter:        opts.Limiter,
		transcripts:    opts.Transcripts,
		serviceName:    opts.ServiceName,
		staticDir:      opts.StaticDir,
		allowedOrigins: origins,
		requestTimeout: timeout,
	}
	if opts.JWTSecret != "" {
		s.jwtSecret = []byte(opts.JWTSecret)
	}
	return s
}

// Handler builds the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Group(func(r chi.Router) {
		if s.jwtSecret != nil {
			r.Use(s.requireJWT)
		}
		r.Post("/webhook", s.handleWebhook)
	})

	r.Get("/api/orders/{id}", s.handleGetOrder)
	r.Get("/api/products/{id}", s.handleGetProduct)
	if s.transcripts != nil {
		r.Get("/api/sessions/{session}/messages", s.handleListMessages)
	}
	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	if s.staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.staticDir)))
	}

	c := cors.New(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveRequest(route, status, elapsed)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", status,
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
