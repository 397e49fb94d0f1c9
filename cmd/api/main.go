// Package main is the entrypoint for the chatboard API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"

	"github.com/chatboard/chatboard/internal/cache"
	"github.com/chatboard/chatboard/internal/config"
	"github.com/chatboard/chatboard/internal/handler"
	"github.com/chatboard/chatboard/internal/metrics"
	"github.com/chatboard/chatboard/internal/middleware"
	"github.com/chatboard/chatboard/internal/repository"
	"github.com/chatboard/chatboard/internal/server"
	"github.com/chatboard/chatboard/internal/service"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	mongoURI := cfg.MongoURIOrDefault()

	store, err := repository.Open(ctx, repository.Options{
		Driver:        cfg.StoreDriver,
		DatabaseURL:   cfg.DatabaseURL,
		MongoURI:      mongoURI,
		MongoDatabase: cfg.MongoDatabase,
		BadgerDir:     cfg.BadgerDir,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("open %s store: %s", cfg.StoreDriver, sanitizeError(err, cfg.DatabaseURL, mongoURI))
	}
	logger.Info("connected to store", "driver", cfg.StoreDriver, "target", storeTarget(cfg, mongoURI))

	// cacheCheck and limiter stay untyped nil without Redis so readiness
	// reports "not configured" and writes are not throttled.
	var (
		cacheClient *cache.Cache
		cacheCheck  handler.HealthChecker
		limiter     middleware.Limiter
	)
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			_ = store.Close()
			return errors.New("connect redis: " + sanitizeError(err, cfg.RedisURL))
		}
		cacheCheck = cacheClient
		limiter = cacheClient
		logger.Info("connected to redis", "url", redactURL(cfg.RedisURL))
	} else {
		logger.Warn("REDIS_URL not set, write rate limiting disabled")
	}

	recorder := metrics.NewInMemory()

	userService := service.NewUserService(store, recorder)
	messageService := service.NewMessageService(store, recorder)

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	router := handler.NewRouter(handler.RouterConfig{
		Root:     handler.New(),
		Users:    handler.NewUserHandler(userService, logger),
		Messages: handler.NewMessageHandler(messageService, logger),
		Health:   handler.NewHealthHandler(store, cacheCheck),
		Metrics:  handler.NewMetricsHandler(recorder),
		Logger:   logger,
		CORS:     cors,
		Security: middleware.SecurityConfig{
			IsDevelopment:      cfg.IsDevelopment(),
			MaxRequestBodySize: cfg.MaxRequestBodySize,
		},
		RateLimit: middleware.RateLimitConfig{
			Enabled: cfg.RateLimitWriteEnabled,
			Limiter: limiter,
			RPS:     cfg.RateLimitWriteRPS,
			Burst:   cfg.RateLimitWriteBurst,
			Metrics: recorder,
			Logger:  logger,
		},
		PanicStack: cfg.IsDevelopment(),
	})

	srv := server.New(router, server.Options{
		Addr:            cfg.Addr(),
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          logger,
	})

	srv.OnShutdown("store", func(context.Context) error { return store.Close() })
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error { return cacheClient.Close() })
	}

	logger.Info("starting server",
		"addr", cfg.Addr(),
		"env", cfg.AppEnv,
		"store", cfg.StoreDriver,
	)

	return srv.Run(ctx)
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func storeTarget(cfg *config.Config, mongoURI string) string {
	switch cfg.StoreDriver {
	case repository.DriverPostgres:
		return redactURL(cfg.DatabaseURL)
	case repository.DriverMongo:
		return redactURL(mongoURI)
	default:
		if cfg.BadgerDir == "" {
			return "memory"
		}
		return cfg.BadgerDir
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

// redactURL drops the password from a connection URL.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		if username := parsed.User.Username(); username != "" {
			parsed.User = url.User(username)
		} else {
			parsed.User = url.User("redacted")
		}
	}

	return parsed.String()
}

// sanitizeError replaces every secret URL in err's message with its
// redacted form.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
