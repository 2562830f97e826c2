package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"time"
)

// Collection is the name of the document collection holding orders.
const Collection = "orders"

// MaxBatchSize is the largest number of mutations a single atomic batch may
// carry. Backends reject the 501st staged mutation with ErrBatchFull.
const MaxBatchSize = 500

// DailyStatus is the per-day payload attached to an order, kept as the raw
// JSON it was stored with. Its shape is owned by the order workflow; storage
// and retention code pass it through without decoding it, so numbers and
// key order survive a rewrite.
type DailyStatus = json.RawMessage

// Order is a meal-subscription order document.
type Order struct {
	// Identity
	ID string `json:"id"` // assigned by the store on first Put

	// Business fields
	CustomerID string `json:"customerId,omitempty"`
	Status     string `json:"status,omitempty"`
	Plan       string `json:"plan,omitempty"`

	// Fields holds every other document attribute (delivery address, meal
	// selections, allergy notes, ...). Retention never touches it.
	Fields map[string]any `json:"fields,omitempty"`

	// DailyStatuses maps a YYYY-MM-DD date key to that day's status payload.
	DailyStatuses map[string]DailyStatus `json:"dailyStatuses,omitempty"`

	// Timestamps
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	LastCleanup       *time.Time `json:"lastCleanup,omitempty"`
	LastManualCleanup *time.Time `json:"lastManualCleanup,omitempty"`
}

// Clone returns a deep copy of the order so callers can never alias
// store-owned maps or payload bytes.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}

	c := *o
	if o.Fields != nil {
		c.Fields = cloneAny(o.Fields)
	}
	if o.DailyStatuses != nil {
		c.DailyStatuses = CloneStatuses(o.DailyStatuses)
	}
	if o.LastCleanup != nil {
		t := *o.LastCleanup
		c.LastCleanup = &t
	}
	if o.LastManualCleanup != nil {
		t := *o.LastManualCleanup
		c.LastManualCleanup = &t
	}
	return &c
}

// CloneStatuses deep-copies a dailyStatuses map.
func CloneStatuses(in map[string]DailyStatus) map[string]DailyStatus {
	if in == nil {
		return nil
	}
	out := make(map[string]DailyStatus, len(in))
	for k, v := range in {
		out[k] = bytes.Clone(v)
	}
	return out
}

func cloneAny(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneAny(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	case json.RawMessage:
		return bytes.Clone(v)
	default:
		return v
	}
}

// AuditField names the document field a sweep stamps on each rewritten order.
type AuditField string

const (
	// AuditLastCleanup is stamped by the scheduled sweep.
	AuditLastCleanup AuditField = "lastCleanup"

	// AuditLastManualCleanup is stamped by an on-demand sweep.
	AuditLastManualCleanup AuditField = "lastManualCleanup"
)

// Mutation is a field-update against one order document. It replaces
// dailyStatuses wholesale, sets updatedAt and stamps the audit field; every
// other field of the document is left as is.
type Mutation struct {
	OrderID       string
	DailyStatuses map[string]DailyStatus
	UpdatedAt     time.Time
	AuditField    AuditField
}

// Patch returns the top-level document fields the mutation writes, keyed by
// their JSON names.
func (m Mutation) Patch() map[string]any {
	statuses := m.DailyStatuses
	if statuses == nil {
		statuses = map[string]DailyStatus{}
	}
	patch := map[string]any{
		"dailyStatuses": statuses,
		"updatedAt":     m.UpdatedAt,
	}
	if m.AuditField != "" {
		patch[string(m.AuditField)] = m.UpdatedAt
	}
	return patch
}

// ApplyTo performs the mutation on an in-memory order.
func (m Mutation) ApplyTo(o *Order) {
	o.DailyStatuses = CloneStatuses(m.DailyStatuses)
	if o.DailyStatuses == nil {
		o.DailyStatuses = map[string]DailyStatus{}
	}
	o.UpdatedAt = m.UpdatedAt

	stamp := m.UpdatedAt
	switch m.AuditField {
	case AuditLastCleanup:
		o.LastCleanup = &stamp
	case AuditLastManualCleanup:
		o.LastManualCleanup = &stamp
	}
}

// Store is the document-collection abstraction over the orders collection.
// Implementations must be safe for concurrent use.
type Store interface {
	// List fetches every order in the collection.
	List(ctx context.Context) ([]*Order, error)

	// Get fetches a single order. Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*Order, error)

	// Put creates or replaces an order. An empty ID is assigned by the store
	// and written back to the argument.
	Put(ctx context.Context, order *Order) error

	// Apply performs a single field-update outside of any batch.
	Apply(ctx context.Context, m Mutation) error

	// NewBatch starts an empty atomic write batch.
	NewBatch() Batch

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the backend.
	Close() error
}

// Batch is a group of up to MaxBatchSize mutations committed as one unit.
type Batch interface {
	// Update stages a mutation. Returns ErrBatchFull once the batch holds
	// MaxBatchSize mutations and ErrBatchCommitted after Commit.
	Update(m Mutation) error

	// Len returns the number of staged mutations.
	Len() int

	// Commit applies every staged mutation atomically. A batch can be
	// committed once.
	Commit(ctx context.Context) error
}
