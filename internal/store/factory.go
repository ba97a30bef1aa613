package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stacklok/instsrc/database"
	"github.com/stacklok/instsrc/internal/config"
)

// New creates the Store selected by cfg.
//
// For database storage it builds a connection pool, applies pending
// migrations and returns a cleanup function closing the pool. For the
// other backends the cleanup function is a no-op.
func New(ctx context.Context, cfg *config.Config) (Store, func(), error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("config cannot be nil")
	}

	switch cfg.GetStorageType() {
	case config.StorageTypeDatabase:
		if cfg.Database == nil {
			return nil, nil, fmt.Errorf("database configuration is required for database storage type")
		}
		connStr, err := cfg.Database.GetConnectionString()
		if err != nil {
			return nil, nil, err
		}
		if err := database.MigrateUp(connStr); err != nil {
			return nil, nil, err
		}
		pool, err := buildConnectionPool(ctx, cfg.Database, connStr)
		if err != nil {
			return nil, nil, err
		}
		return NewPostgresStore(pool), func() {
			slog.Info("Closing database connection pool")
			pool.Close()
		}, nil
	case config.StorageTypeMemory:
		slog.Warn("Using in-memory source store, sources are lost on exit")
		return NewMemoryStore(), func() {}, nil
	case config.StorageTypeSQLite:
		slog.Debug("Using SQLite source store")
		return NewSQLiteStore(), func() {}, nil
	default:
		slog.Debug("Using file source store")
		return NewFileStore(), func() {}, nil
	}
}

func buildConnectionPool(ctx context.Context, db *config.DatabaseConfig, connStr string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database connection string: %w", err)
	}

	if db.MaxOpenConns > 0 {
		poolConfig.MaxConns = db.MaxOpenConns
	}
	if db.MaxIdleConns > 0 {
		poolConfig.MinConns = db.MaxIdleConns
	}
	if db.ConnMaxLifetime != "" {
		lifetime, err := time.ParseDuration(db.ConnMaxLifetime)
		if err != nil {
			return nil, fmt.Errorf("failed to parse connMaxLifetime: %w", err)
		}
		poolConfig.MaxConnLifetime = lifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	slog.Info("Database connection pool created successfully")
	return pool, nil
}
