package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type AppConfig struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"APP_ENV" envDefault:"development"`

	Database DatabaseConfig
	Password PasswordConfig
	Cache    CacheConfig

	RateLimitEnabled bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitSignup  int           `env:"RATE_LIMIT_SIGNUP" envDefault:"5"`
	RateLimitLogin   int           `env:"RATE_LIMIT_LOGIN" envDefault:"10"`
	RateLimitDefault int           `env:"RATE_LIMIT_DEFAULT" envDefault:"60"`
	RateLimitWindow  time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`

	EnforceHTTPS bool `env:"ENFORCE_HTTPS" envDefault:"false"`

	LokiURL        string `env:"LOKI_URL"`
	OTLPEndpoint   string `env:"OTLP_ENDPOINT"`
	MetricsPort    string `env:"METRICS_PORT" envDefault:"9091"`
	ServiceName    string `env:"SERVICE_NAME" envDefault:"accountapp"`
	ServiceVersion string `env:"SERVICE_VERSION" envDefault:"1.0.0"`
}

type DatabaseConfig struct {
	Driver     string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	Path       string `env:"DATABASE_PATH" envDefault:"accounts.db"`
	URL        string `env:"DATABASE_URL"`
	LogQueries bool   `env:"DATABASE_LOG_QUERIES" envDefault:"false"`
}

type PasswordConfig struct {
	// Salt is shared by every account. Changing it invalidates stored digests.
	Salt   string `env:"PASSWORD_SALT" envDefault:"salt"`
	Hasher string `env:"PASSWORD_HASHER" envDefault:"sha256"`
}

type CacheConfig struct {
	Enabled  bool          `env:"CACHE_ENABLED" envDefault:"true"`
	Driver   string        `env:"CACHE_DRIVER" envDefault:"memory"`
	TTL      time.Duration `env:"CACHE_TTL" envDefault:"30s"`
	RedisURL string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Load reads the environment on top of the defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetDefaultConfig returns the defaults without looking at the environment.
func GetDefaultConfig() *AppConfig {
	cfg := &AppConfig{}

	if err := env.ParseWithOptions(cfg, env.Options{Environment: map[string]string{}}); err != nil {
		panic(err)
	}

	return cfg
}

func (c *AppConfig) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for the %s driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("config: unknown DATABASE_DRIVER %q", c.Database.Driver)
	}

	if c.Cache.Driver != CacheMemory && c.Cache.Driver != CacheRedis {
		return fmt.Errorf("config: unknown CACHE_DRIVER %q", c.Cache.Driver)
	}

	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("config: RATE_LIMIT_WINDOW must be positive")
	}

	return nil
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// RateLimits keys limits by "METHOD /path"; "default" covers every other route.
func (c *AppConfig) RateLimits() map[string]RateLimitConfig {
	return map[string]RateLimitConfig{
		"POST /api/signup": {Requests: c.RateLimitSignup, Window: c.RateLimitWindow},
		"POST /api/login":  {Requests: c.RateLimitLogin, Window: c.RateLimitWindow},
		"default":          {Requests: c.RateLimitDefault, Window: c.RateLimitWindow},
	}
}
