package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/chatboard/chatboard/internal/middleware"
)

// RouterConfig wires handlers and middleware settings into the router.
type RouterConfig struct {
	Root      *Handler
	Users     *UserHandler
	Messages  *MessageHandler
	Health    *HealthHandler
	Metrics   *MetricsHandler
	Logger    *slog.Logger
	CORS      middleware.CORSConfig
	Security  middleware.SecurityConfig
	RateLimit middleware.RateLimitConfig
	// PanicStack includes stack traces in panic logs.
	PanicStack bool
}

// NewRouter builds the chi router with the full middleware chain.
func NewRouter(cfg RouterConfig) *chi.Mux {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Root == nil {
		cfg.Root = New()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger, cfg.PanicStack))
	r.Use(middleware.Security(cfg.Security))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.MaxBodySize(cfg.Security.MaxRequestBodySize))

	if cfg.Health != nil {
		r.Get("/healthz", cfg.Health.Healthz)
		r.Get("/readyz", cfg.Health.Readyz)
	}
	if cfg.Metrics != nil {
		r.Get("/metrics", cfg.Metrics.Metrics)
	}

	r.Get("/", cfg.Root.Hello)

	writes := middleware.RateLimitWrites(cfg.RateLimit)

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", cfg.Users.List)
		r.With(writes).Post("/", cfg.Users.Create)
		r.With(writes).Delete("/{id}", cfg.Users.Delete)
	})

	r.Route("/messages", func(r chi.Router) {
		r.Get("/", cfg.Messages.List)
		r.With(writes).Post("/", cfg.Messages.Create)
	})

	r.NotFound(cfg.Root.NotFound)
	r.MethodNotAllowed(cfg.Root.MethodNotAllowed)

	return r
}
