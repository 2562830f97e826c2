package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"mealkit-hq/backoffice/pkg/orders"
)

// orderDocument is the gorm model backing PostgresStore. The order itself
// lives in the jsonb data column.
type orderDocument struct {
	ID        string    `gorm:"primaryKey;type:text"`
	Data      string    `gorm:"type:jsonb;not null"`
	CreatedAt time.Time `gorm:"type:timestamp with time zone;not null"`
	UpdatedAt time.Time `gorm:"type:timestamp with time zone;not null;index"`
}

// TableName pins the table name independently of gorm's pluralization.
func (orderDocument) TableName() string {
	return "order_documents"
}

// PostgresConfig contains configuration for the Postgres storage backend.
type PostgresConfig struct {
	// DSN is the libpq-style connection string.
	DSN string

	// SlowThreshold is the query duration above which gorm logs a warning.
	// Default: 300ms
	SlowThreshold time.Duration

	// AutoMigrate creates or updates the order_documents table on open.
	AutoMigrate bool
}

// PostgresStore implements orders.Store on Postgres through gorm.
type PostgresStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewPostgresStore connects to Postgres and optionally migrates the schema.
func NewPostgresStore(cfg *PostgresConfig) (*PostgresStore, error) {
	if cfg == nil || cfg.DSN == "" {
		return nil, orders.NewStorageError("postgres", "open", errors.New("dsn is required"))
	}
	slow := cfg.SlowThreshold
	if slow <= 0 {
		slow = 300 * time.Millisecond
	}

	storeLogger := slog.Default().With("component", "orders.storage.postgres")
	gormLogger := logger.New(
		slog.NewLogLogger(storeLogger.Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             slow,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger,
	})
	if err != nil {
		return nil, orders.NewStorageError("postgres", "open", err)
	}

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(&orderDocument{}); err != nil {
			return nil, orders.NewStorageError("postgres", "migrate", err)
		}
	}

	return &PostgresStore{
		db:     db,
		logger: storeLogger,
	}, nil
}

// List fetches every order document.
func (s *PostgresStore) List(ctx context.Context) ([]*orders.Order, error) {
	var docs []orderDocument
	if err := s.db.WithContext(ctx).Order("id").Find(&docs).Error; err != nil {
		return nil, orders.NewStorageError("postgres", "list", err)
	}

	results := make([]*orders.Order, 0, len(docs))
	for _, doc := range docs {
		order, err := decodeOrder([]byte(doc.Data))
		if err != nil {
			return nil, orders.NewStorageError("postgres", "list", err)
		}
		results = append(results, order)
	}
	return results, nil
}

// Get fetches a single order document.
func (s *PostgresStore) Get(ctx context.Context, id string) (*orders.Order, error) {
	var doc orderDocument
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, orders.ErrNotFound
	}
	if err != nil {
		return nil, orders.NewStorageError("postgres", "get", err)
	}

	order, err := decodeOrder([]byte(doc.Data))
	if err != nil {
		return nil, orders.NewStorageError("postgres", "get", err)
	}
	return order, nil
}

// Put creates or replaces an order document.
func (s *PostgresStore) Put(ctx context.Context, order *orders.Order) error {
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
		return orders.NewStorageError("postgres", "put", err)
	}

	doc := orderDocument{
		ID:        order.ID,
		Data:      string(data),
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return orders.NewStorageError("postgres", "put", err)
	}
	return nil
}

// Apply performs a single mutation.
func (s *PostgresStore) Apply(ctx context.Context, m orders.Mutation) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applyJSONPatch(tx, m)
	})
	if err != nil {
		return orders.NewStorageError("postgres", "apply", err)
	}
	return nil
}

// NewBatch starts an empty batch.
func (s *PostgresStore) NewBatch() orders.Batch {
	return &postgresBatch{store: s}
}

// Ping verifies the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return orders.NewStorageError("postgres", "close", err)
	}
	return sqlDB.Close()
}

// applyJSONPatch merges the mutation's top-level fields into the stored
// document with jsonb concatenation, leaving every other key untouched.
func applyJSONPatch(tx *gorm.DB, m orders.Mutation) error {
	patch, err := json.Marshal(m.Patch())
	if err != nil {
		return fmt.Errorf("failed to encode patch for order %s: %w", m.OrderID, err)
	}

	result := tx.Model(&orderDocument{}).
		Where("id = ?", m.OrderID).
		Updates(map[string]any{
			"data":       gorm.Expr("data || ?::jsonb", string(patch)),
			"updated_at": m.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update order %s: %w", m.OrderID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", m.OrderID, orders.ErrNotFound)
	}
	return nil
}

type postgresBatch struct {
	store     *PostgresStore
	mutations []orders.Mutation
	committed bool
}

func (b *postgresBatch) Update(m orders.Mutation) error {
	if b.committed {
		return orders.ErrBatchCommitted
	}
	if len(b.mutations) >= orders.MaxBatchSize {
		return orders.ErrBatchFull
	}
	b.mutations = append(b.mutations, m)
	return nil
}

func (b *postgresBatch) Len() int {
	return len(b.mutations)
}

func (b *postgresBatch) Commit(ctx context.Context) error {
	if b.committed {
		return orders.ErrBatchCommitted
	}

	err := b.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range b.mutations {
			if err := applyJSONPatch(tx, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return orders.NewStorageError("postgres", "commit", err)
	}
	b.committed = true

	b.store.logger.Debug("batch committed", "mutations", len(b.mutations))
	return nil
}
