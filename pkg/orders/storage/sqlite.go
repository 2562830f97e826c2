package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // registers "sqlite3" (cgo)
	_ "modernc.org/sqlite"          // registers "sqlite" (pure Go)

	"mealkit-hq/backoffice/pkg/orders"
)

// SQLite driver names accepted by SQLiteConfig.Driver.
const (
	DriverCGO    = "sqlite3"
	DriverPureGo = "sqlite"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// Driver selects the database/sql driver: "sqlite3" (mattn/go-sqlite3,
	// requires cgo) or "sqlite" (modernc.org/sqlite, pure Go).
	// Default: "sqlite3"
	Driver string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/orders.db",
		Driver:       DriverCGO,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements orders.Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens the database and initializes the schema.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Driver == "" {
		config.Driver = DriverCGO
	}
	if config.Driver != DriverCGO && config.Driver != DriverPureGo {
		return nil, orders.NewStorageError("sqlite", "open",
			fmt.Errorf("unsupported driver %q (want %q or %q)", config.Driver, DriverCGO, DriverPureGo))
	}

	logger := slog.Default().With("component", "orders.storage.sqlite")

	db, err := sql.Open(config.Driver, config.Path)
	if err != nil {
		return nil, orders.NewStorageError("sqlite", "open", err)
	}

	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite order store initialized",
		"path", config.Path,
		"driver", config.Driver,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return orders.NewStorageError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return orders.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return orders.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return orders.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return orders.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return orders.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)
	return nil
}

// List fetches every order document.
func (s *SQLiteStore) List(ctx context.Context) ([]*orders.Order, error) {
	rows, err := s.db.QueryContext(ctx, selectAllOrders)
	if err != nil {
		return nil, orders.NewStorageError("sqlite", "list", err)
	}
	defer rows.Close()

	var results []*orders.Order
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, orders.NewStorageError("sqlite", "list", err)
		}
		order, err := decodeOrder([]byte(data))
		if err != nil {
			return nil, orders.NewStorageError("sqlite", "list", err)
		}
		results = append(results, order)
	}
	if err := rows.Err(); err != nil {
		return nil, orders.NewStorageError("sqlite", "list", err)
	}

	return results, nil
}

// Get fetches a single order document.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*orders.Order, error) {
	var data string
	err := s.db.QueryRowContext(ctx, selectOrderData, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, orders.ErrNotFound
	}
	if err != nil {
		return nil, orders.NewStorageError("sqlite", "get", err)
	}

	order, err := decodeOrder([]byte(data))
	if err != nil {
		return nil, orders.NewStorageError("sqlite", "get", err)
	}
	return order, nil
}

// Put creates or replaces an order document.
func (s *SQLiteStore) Put(ctx context.Context, order *orders.Order) error {
	now := time.Now().UTC()
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}

	data, err := encodeOrder(order)
	if err != nil {
		return orders.NewStorageError("sqlite", "put", err)
	}

	_, err = s.db.ExecContext(ctx, upsertOrder,
		order.ID, string(data), formatTime(order.CreatedAt), formatTime(order.UpdatedAt))
	if err != nil {
		return orders.NewStorageError("sqlite", "put", err)
	}
	return nil
}

// Apply performs a single mutation in its own transaction.
func (s *SQLiteStore) Apply(ctx context.Context, m orders.Mutation) error {
	if err := s.commit(ctx, []orders.Mutation{m}); err != nil {
		return orders.NewStorageError("sqlite", "apply", err)
	}
	return nil
}

// NewBatch starts an empty batch.
func (s *SQLiteStore) NewBatch() orders.Batch {
	return &sqliteBatch{store: s}
}

// Ping verifies the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return orders.NewStorageError("sqlite", "close", err)
	}
	return nil
}

// commit applies mutations inside one transaction. Any failure rolls back
// the whole set.
func (s *SQLiteStore) commit(ctx context.Context, mutations []orders.Mutation) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	selectStmt, err := tx.PrepareContext(ctx, selectOrderData)
	if err != nil {
		return fmt.Errorf("failed to prepare select: %w", err)
	}
	defer selectStmt.Close()

	updateStmt, err := tx.PrepareContext(ctx, updateOrderData)
	if err != nil {
		return fmt.Errorf("failed to prepare update: %w", err)
	}
	defer updateStmt.Close()

	for _, m := range mutations {
		var raw string
		if err = selectStmt.QueryRowContext(ctx, m.OrderID).Scan(&raw); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				err = fmt.Errorf("%s: %w", m.OrderID, orders.ErrNotFound)
			}
			return err
		}

		var patched []byte
		patched, err = patchDocument([]byte(raw), m)
		if err != nil {
			return err
		}

		if _, err = updateStmt.ExecContext(ctx, string(patched), formatTime(m.UpdatedAt), m.OrderID); err != nil {
			return fmt.Errorf("failed to update order %s: %w", m.OrderID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type sqliteBatch struct {
	store     *SQLiteStore
	mutations []orders.Mutation
	committed bool
}

func (b *sqliteBatch) Update(m orders.Mutation) error {
	if b.committed {
		return orders.ErrBatchCommitted
	}
	if len(b.mutations) >= orders.MaxBatchSize {
		return orders.ErrBatchFull
	}
	b.mutations = append(b.mutations, m)
	return nil
}

func (b *sqliteBatch) Len() int {
	return len(b.mutations)
}

func (b *sqliteBatch) Commit(ctx context.Context) error {
	if b.committed {
		return orders.ErrBatchCommitted
	}
	if len(b.mutations) == 0 {
		b.committed = true
		return nil
	}

	start := time.Now()
	if err := b.store.commit(ctx, b.mutations); err != nil {
		return orders.NewStorageError("sqlite", "commit", err)
	}
	b.committed = true

	b.store.logger.Debug("batch committed",
		"mutations", len(b.mutations),
		"duration", time.Since(start),
	)
	return nil
}
