package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"mealkit-hq/backoffice/pkg/orders"
)

// MemoryStore implements orders.Store using an in-memory map.
// This implementation is intended for testing and local development only.
//
// It can be told to fail specific operations so callers can exercise their
// partial-failure paths.
type MemoryStore struct {
	orders map[string]*orders.Order
	mu     sync.RWMutex

	listErr   error
	commitErr map[int]error // keyed by 1-based commit attempt
	commits   int           // commit attempts, successful or not
	applied   int           // mutations durably applied
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders:    make(map[string]*orders.Order),
		commitErr: make(map[int]error),
	}
}

// List returns copies of every stored order, ordered by ID.
func (s *MemoryStore) List(ctx context.Context) ([]*orders.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return nil, orders.NewStorageError("memory", "list", err)
	}
	if s.listErr != nil {
		return nil, orders.NewStorageError("memory", "list", s.listErr)
	}

	results := make([]*orders.Order, 0, len(s.orders))
	for _, order := range s.orders {
		results = append(results, order.Clone())
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })

	return results, nil
}

// Get returns a copy of a single order.
func (s *MemoryStore) Get(ctx context.Context, id string) (*orders.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, orders.ErrNotFound
	}
	return order.Clone(), nil
}

// Put creates or replaces an order.
func (s *MemoryStore) Put(ctx context.Context, order *orders.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

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

	s.orders[order.ID] = order.Clone()
	return nil
}

// Apply performs a single mutation.
func (s *MemoryStore) Apply(ctx context.Context, m orders.Mutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[m.OrderID]
	if !ok {
		return orders.NewStorageError("memory", "apply", fmt.Errorf("%s: %w", m.OrderID, orders.ErrNotFound))
	}
	m.ApplyTo(order)
	s.applied++
	return nil
}

// NewBatch starts an empty batch.
func (s *MemoryStore) NewBatch() orders.Batch {
	return &memoryBatch{store: s}
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close releases all stored orders.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = make(map[string]*orders.Order)
	return nil
}

// FailListWith makes every subsequent List call fail with err.
// Pass nil to clear (for testing).
func (s *MemoryStore) FailListWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listErr = err
}

// FailCommitAt makes the n-th batch commit attempt (1-based, counted from
// store creation) fail with err without applying anything (for testing).
func (s *MemoryStore) FailCommitAt(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commitErr[n] = err
}

// Commits returns the number of batch commit attempts (for testing).
func (s *MemoryStore) Commits() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.commits
}

// AppliedMutations returns the number of mutations durably applied through
// batches or Apply (for testing).
func (s *MemoryStore) AppliedMutations() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.applied
}

// Size returns the number of stored orders (for testing).
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.orders)
}

type memoryBatch struct {
	store     *MemoryStore
	mutations []orders.Mutation
	committed bool
}

func (b *memoryBatch) Update(m orders.Mutation) error {
	if b.committed {
		return orders.ErrBatchCommitted
	}
	if len(b.mutations) >= orders.MaxBatchSize {
		return orders.ErrBatchFull
	}
	b.mutations = append(b.mutations, m)
	return nil
}

func (b *memoryBatch) Len() int {
	return len(b.mutations)
}

// Commit validates every target exists before touching anything, so a batch
// either applies fully or not at all.
func (b *memoryBatch) Commit(ctx context.Context) error {
	if b.committed {
		return orders.ErrBatchCommitted
	}

	s := b.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commits++
	if err, ok := s.commitErr[s.commits]; ok {
		return orders.NewStorageError("memory", "commit", err)
	}
	if err := ctx.Err(); err != nil {
		return orders.NewStorageError("memory", "commit", err)
	}

	for _, m := range b.mutations {
		if _, ok := s.orders[m.OrderID]; !ok {
			return orders.NewStorageError("memory", "commit", fmt.Errorf("%s: %w", m.OrderID, orders.ErrNotFound))
		}
	}
	for _, m := range b.mutations {
		m.ApplyTo(s.orders[m.OrderID])
	}
	s.applied += len(b.mutations)
	b.committed = true

	return nil
}
