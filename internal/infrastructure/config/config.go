package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v10"
)

// ErrMissingJWTSecret is returned when auth is enabled without a secret.
var ErrMissingJWTSecret = errors.New("AUTH_ENABLED requires JWT_SECRET")

// Config holds all application configuration.
type Config struct {
	// Redis (optional - leave empty to disable idempotency keys)
	RedisURL            string `env:"REDIS_URL"             envDefault:""`
	RedisConnectRetries uint64 `env:"REDIS_CONNECT_RETRIES" envDefault:"5"`

	// NATS (optional - leave empty to log events instead)
	NATSURL           string `env:"NATS_URL"            envDefault:""`
	NATSSubjectPrefix string `env:"NATS_SUBJECT_PREFIX" envDefault:"ledger"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Idempotency
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`

	// Rate limiting (0 disables)
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// Authentication (optional - leave empty to disable)
	JWTSecret     string        `env:"JWT_SECRET"     envDefault:""`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`
	AuthEnabled   bool          `env:"AUTH_ENABLED"   envDefault:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.AuthEnabled && cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	return cfg, nil
}

// RedisEnabled reports whether a Redis URL was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != ""
}

// NATSEnabled reports whether a NATS URL was configured.
func (c *Config) NATSEnabled() bool {
	return c.NATSURL != ""
}
