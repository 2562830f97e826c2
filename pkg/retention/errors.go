package retention

import (
	"fmt"
)

// FetchError is returned when the initial read of the orders collection
// fails. Nothing has been written.
type FetchError struct {
	CutoffDate string
	Cause      error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch orders (cutoff=%s): %v", e.CutoffDate, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewFetchError creates a new FetchError.
func NewFetchError(cutoffDate string, cause error) *FetchError {
	return &FetchError{
		CutoffDate: cutoffDate,
		Cause:      cause,
	}
}

// BatchCommitError is returned when a batch commit fails part way through a
// sweep. The batches counted in CommittedBatches are durable; the failed
// batch and everything after it are not.
type BatchCommitError struct {
	CutoffDate string

	// CommittedBatches is the number of batches committed before the failure.
	CommittedBatches int

	// CommittedMutations is the number of order rewrites those batches held.
	CommittedMutations int

	// PendingMutations is the size of the batch that failed.
	PendingMutations int

	// ProcessedOrders is the number of orders examined before the failure.
	ProcessedOrders int

	Cause error
}

// Error implements the error interface.
func (e *BatchCommitError) Error() string {
	return fmt.Sprintf("failed to commit batch %d (cutoff=%s, committed_batches=%d, committed_orders=%d, pending_orders=%d): %v",
		e.CommittedBatches+1, e.CutoffDate, e.CommittedBatches, e.CommittedMutations, e.PendingMutations, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *BatchCommitError) Unwrap() error {
	return e.Cause
}
