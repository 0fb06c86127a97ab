// Package repository provides the initialization for repository implementations
package repository

import (
	"fmt"

	"github.com/baazbike/turfbook/internal/config"
	"github.com/baazbike/turfbook/internal/repository/memory"
	"github.com/baazbike/turfbook/internal/repository/postgres"
	"github.com/baazbike/turfbook/internal/repository/redis"
)

// Constructor variables let the factory stay decoupled from the concrete
// implementations and let tests swap them out.
var (
	newRedisRepository    func(cfg config.RedisConfig) (Repository, error)
	newPostgresRepository func(cfg config.PostgresConfig) (Repository, error)
	newMemoryRepository   func() Repository
)

// init registers the actual repository implementations
func init() {
	newRedisRepository = func(cfg config.RedisConfig) (Repository, error) {
		return redis.NewRepository(cfg)
	}

	newPostgresRepository = func(cfg config.PostgresConfig) (Repository, error) {
		return postgres.NewRepository(cfg)
	}

	newMemoryRepository = func() Repository {
		return memory.NewRepository()
	}
}

// NewRepository selects a backend from configuration: Redis when
// enabled, otherwise Postgres when enabled, otherwise in-memory.
func NewRepository(storage config.StorageConfig) (Repository, error) {
	switch {
	case storage.Redis.Enabled:
		repo, err := newRedisRepository(storage.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis repository: %w", err)
		}
		return repo, nil
	case storage.Postgres.Enabled:
		repo, err := newPostgresRepository(storage.Postgres)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres repository: %w", err)
		}
		return repo, nil
	default:
		return newMemoryRepository(), nil
	}
}
