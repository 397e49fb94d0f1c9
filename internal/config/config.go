// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/chatboard/chatboard/internal/repository"
)

// Config holds all server configuration.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppHost string `env:"APP_HOST" envDefault:"0.0.0.0"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Document store
	StoreDriver string `env:"STORE_DRIVER" envDefault:"badger"`
	DatabaseURL string `env:"DATABASE_URL"`
	BadgerDir   string `env:"BADGER_DIR" envDefault:"data"`

	// MongoDB. MongoURI wins over the individual parts when set.
	MongoURI      string `env:"MONGO_URI"`
	MongoHost     string `env:"MONGO_HOST" envDefault:"localhost"`
	MongoPort     int    `env:"MONGO_PORT" envDefault:"27017"`
	MongoUser     string `env:"MONGO_INITDB_ROOT_USERNAME"`
	MongoPassword string `env:"MONGO_INITDB_ROOT_PASSWORD"`
	MongoDatabase string `env:"MONGO_DB" envDefault:"testdb"`

	// Cache (Redis). Optional.
	RedisURL string `env:"REDIS_URL"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Write rate limiting, active only when Redis is configured.
	RateLimitWriteEnabled bool `env:"RATE_LIMIT_WRITE_ENABLED" envDefault:"true"`
	RateLimitWriteRPS     int  `env:"RATE_LIMIT_WRITE_RPS" envDefault:"5"`
	RateLimitWriteBurst   int  `env:"RATE_LIMIT_WRITE_BURST" envDefault:"10"`

	// Comma-separated list of allowed origins; "*" allows any origin.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.AppHost, strconv.Itoa(c.AppPort))
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// MongoURIOrDefault returns MONGO_URI, or assembles one from the host,
// port and root credentials.
func (c *Config) MongoURIOrDefault() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}

	u := url.URL{
		Scheme: "mongodb",
		Host:   net.JoinHostPort(c.MongoHost, strconv.Itoa(c.MongoPort)),
		Path:   "/",
	}
	if c.MongoUser != "" {
		u.User = url.UserPassword(c.MongoUser, c.MongoPassword)
		u.RawQuery = "authSource=admin"
	}
	return u.String()
}

// Validate checks cross-field constraints env tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case repository.DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE_DRIVER=postgres"))
		}
	case repository.DriverMongo, repository.DriverBadger:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	if c.AppPort <= 0 || c.AppPort > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT out of range: %d", c.AppPort))
	}
	if c.RateLimitWriteEnabled && (c.RateLimitWriteRPS <= 0 || c.RateLimitWriteBurst <= 0) {
		errs = append(errs, errors.New("RATE_LIMIT_WRITE_RPS and RATE_LIMIT_WRITE_BURST must be positive"))
	}

	return errors.Join(errs...)
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
