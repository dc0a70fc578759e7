// Package bootstrap opens the stores selected by configuration and hands
// them to the services as one Backends value.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"portfolio/internal/cache"
	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/handlers"
	"portfolio/internal/memstore"
	"portfolio/internal/models"
	"portfolio/internal/repository"
	"portfolio/internal/service"
	"portfolio/internal/storage"
)

const (
	DriverPostgres = "postgres"
	DriverMinio    = "minio"
	DriverMemory   = "memory"
)

// Runtime owns the connections behind Backends. Pool and Redis are nil when
// the matching driver is not in use.
type Runtime struct {
	Backends service.Backends
	Checks   []handlers.HealthCheck
	Pool     *pgxpool.Pool
	Redis    *redis.Client

	closers []func()
}

// Open connects every configured backend. A redis outage is tolerated: the
// API then runs without a cache and without background tasks.
func Open(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) (*Runtime, error) {
	rt := &Runtime{}

	if err := rt.openContent(ctx, cfg.Database); err != nil {
		rt.Close()
		return nil, err
	}
	if err := rt.openResumes(ctx, cfg.Storage); err != nil {
		rt.Close()
		return nil, err
	}

	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, running without cache")
		} else {
			rt.Redis = client
			rt.Backends.Cache = cache.NewContentCache(client, cfg.Redis.CacheTTL)
			rt.Checks = append(rt.Checks, handlers.HealthCheck{
				Name: "cache",
				Ping: func(ctx context.Context) error { return client.Ping(ctx).Err() },
			})
			rt.closers = append(rt.closers, func() { _ = client.Close() })
		}
	}

	log.Info().
		Str("database", cfg.Database.Driver).
		Str("storage", cfg.Storage.Driver).
		Bool("cache", rt.Redis != nil).
		Msg("backends ready")
	return rt, nil
}

func (rt *Runtime) openContent(ctx context.Context, cfg config.DatabaseConfig) error {
	switch cfg.Driver {
	case DriverPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		rt.Pool = pool
		rt.closers = append(rt.closers, pool.Close)
		rt.Checks = append(rt.Checks, handlers.HealthCheck{Name: "database", Ping: pool.Ping})

		rt.Backends.Heroes = repository.NewContentRepository(pool, repository.HeroSchema)
		rt.Backends.Skills = repository.NewContentRepository(pool, repository.SkillSchema)
		rt.Backends.Experience = repository.NewContentRepository(pool, repository.ExperienceSchema)
		rt.Backends.Projects = repository.NewContentRepository(pool, repository.ProjectSchema)
	case DriverMemory:
		rt.Backends.Heroes = memstore.NewCollection(models.HeroDescriptor)
		rt.Backends.Skills = memstore.NewCollection(models.SkillDescriptor)
		rt.Backends.Experience = memstore.NewCollection(models.ExperienceDescriptor)
		rt.Backends.Projects = memstore.NewCollection(models.ProjectDescriptor)
	default:
		return fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	return nil
}

func (rt *Runtime) openResumes(ctx context.Context, cfg config.StorageConfig) error {
	switch cfg.Driver {
	case DriverMinio:
		store, err := storage.NewObjectStore(cfg)
		if err != nil {
			return err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return err
		}
		rt.Backends.Resumes = store
		rt.Checks = append(rt.Checks, handlers.HealthCheck{Name: "storage", Ping: store.Ping})
	case DriverMemory:
		rt.Backends.Resumes = memstore.NewBlobStore()
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	return nil
}

// Close releases connections in reverse order of opening.
func (rt *Runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}
