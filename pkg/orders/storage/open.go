package storage

import (
	"fmt"

	"mealkit-hq/backoffice/pkg/config"
	"mealkit-hq/backoffice/pkg/orders"
)

// Open creates the order store selected by cfg.Backend.
func Open(cfg config.StorageConfig) (orders.Store, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStore(), nil

	case "sqlite", "":
		return NewSQLiteStore(&SQLiteConfig{
			Path:         cfg.SQLite.Path,
			Driver:       cfg.SQLite.Driver,
			MaxOpenConns: cfg.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.SQLite.MaxIdleConns,
			WALMode:      cfg.SQLite.WALEnabled(),
			BusyTimeout:  cfg.SQLite.BusyTimeout,
		})

	case "postgres":
		return NewPostgresStore(&PostgresConfig{
			DSN:           cfg.Postgres.DSN,
			SlowThreshold: cfg.Postgres.SlowThreshold,
			AutoMigrate:   cfg.Postgres.AutoMigrate,
		})

	default:
		return nil, orders.NewStorageError(cfg.Backend, "open", fmt.Errorf("unsupported backend %q", cfg.Backend))
	}
}
