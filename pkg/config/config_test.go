package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultConfig(t *testing.T) {
	t.Setenv("PORT", "9999")

	cfg := GetDefaultConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "accounts.db", cfg.Database.Path)
	assert.Equal(t, "salt", cfg.Password.Salt)
	assert.Equal(t, "sha256", cfg.Password.Hasher)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, "9091", cfg.MetricsPort)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("PASSWORD_SALT", "pepper")
	t.Setenv("CACHE_DRIVER", "redis")
	t.Setenv("RATE_LIMIT_SIGNUP", "2")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "pepper", cfg.Password.Salt)
	assert.Equal(t, CacheRedis, cfg.Cache.Driver)
	assert.Equal(t, RateLimitConfig{Requests: 2, Window: 30 * time.Second}, cfg.RateLimits()["POST /api/signup"])
}

func TestLoad_PostgresNeedsURL(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()

	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoad_RejectsUnknownDrivers(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "mysql")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("CACHE_DRIVER", "memcached")

	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("RATE_LIMIT_LOGIN", "ten")

	_, err := Load()

	assert.ErrorContains(t, err, "parse env")
}
