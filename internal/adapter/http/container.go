package http

import (
	"context"
	"fmt"
	"io"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"

	memorycache "accountapp/internal/adapter/cache/memory"
	rediscache "accountapp/internal/adapter/cache/redis"
	"accountapp/internal/adapter/database/postgres"
	pgrepository "accountapp/internal/adapter/database/postgres/repository"
	"accountapp/internal/adapter/database/sqlite"
	sqliterepository "accountapp/internal/adapter/database/sqlite/repository"
	"accountapp/internal/adapter/http/handler"
	"accountapp/internal/adapter/validation"
	"accountapp/internal/core/port"
	"accountapp/internal/core/service"
	"accountapp/internal/core/util"
	"accountapp/pkg/config"
)

type Container struct {
	UserRepo port.UserRepository
	Cache    port.CacheRepository

	AccountService port.AccountService
	AccountHandler *handler.AccountHandler

	closers []io.Closer
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// NewContainer opens the configured store and cache and wires the account
// service over them. Close releases both.
func NewContainer(ctx context.Context, cfg *config.AppConfig, logger *otelzap.Logger, telemetry port.Telemetry) (*Container, error) {
	c := &Container{}

	repo, err := c.openRepository(ctx, cfg, telemetry)

	if err != nil {
		return nil, err
	}

	c.UserRepo = repo

	if cfg.Cache.Enabled {
		cache, err := openCache(ctx, cfg)

		if err != nil {
			c.Close()
			return nil, err
		}

		c.Cache = cache
		c.closers = append(c.closers, cache)
	}

	hasher, err := util.NewPasswordHasher(cfg.Password.Hasher, cfg.Password.Salt)

	if err != nil {
		c.Close()
		return nil, err
	}

	validator, err := validation.New()

	if err != nil {
		c.Close()
		return nil, err
	}

	c.AccountService = service.NewAccountService(service.AccountServiceConfig{
		Repo:      repo,
		Hasher:    hasher,
		Validator: validator,
		Cache:     c.Cache,
		CacheTTL:  cfg.Cache.TTL,
		Telemetry: telemetry,
		Logger:    logger.Logger,
	})

	c.AccountHandler = handler.NewAccountHandler(c.AccountService, logger)

	return c, nil
}

func (c *Container) openRepository(ctx context.Context, cfg *config.AppConfig, telemetry port.Telemetry) (port.UserRepository, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, postgres.Options{URL: cfg.Database.URL})

		if err != nil {
			return nil, err
		}

		c.closers = append(c.closers, closerFunc(func() error {
			db.Close()
			return nil
		}))

		return pgrepository.NewUserRepository(db, telemetry), nil
	case config.DriverSQLite:
		db, err := sqlite.NewDB(sqlite.Options{Path: cfg.Database.Path, LogQueries: cfg.Database.LogQueries})

		if err != nil {
			return nil, err
		}

		c.closers = append(c.closers, db)

		return sqliterepository.NewUserRepository(db, telemetry), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func openCache(ctx context.Context, cfg *config.AppConfig) (port.CacheRepository, error) {
	if cfg.Cache.Driver == config.CacheRedis {
		return rediscache.NewCache(ctx, cfg.Cache.RedisURL)
	}

	return memorycache.NewCache(cfg.Cache.TTL), nil
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() error {
	var firstErr error

	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	c.closers = nil

	return firstErr
}
