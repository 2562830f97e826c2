package retention

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"mealkit-hq/backoffice/pkg/orders"
	"mealkit-hq/backoffice/pkg/telemetry/tracing"
)

// batcher accumulates mutations for one sweep and commits them in batches
// of at most size. It is local to a single Run.
type batcher struct {
	store    orders.Store
	size     int
	trigger  Trigger
	observer Observer
	tracer   trace.Tracer
	logger   *slog.Logger

	current   orders.Batch
	committed int // batches
	mutations int // mutations in committed batches
}

func newBatcher(store orders.Store, size int, trigger Trigger, observer Observer, tracer trace.Tracer, logger *slog.Logger) *batcher {
	return &batcher{
		store:    store,
		size:     size,
		trigger:  trigger,
		observer: observer,
		tracer:   tracer,
		logger:   logger,
	}
}

// add stages m and commits the batch once it holds size mutations.
func (b *batcher) add(ctx context.Context, m orders.Mutation) error {
	if b.current == nil {
		b.current = b.store.NewBatch()
	}
	if err := b.current.Update(m); err != nil {
		return err
	}
	if b.current.Len() >= b.size {
		return b.flush(ctx)
	}
	return nil
}

// flush commits the staged batch. An empty batch is not committed.
func (b *batcher) flush(ctx context.Context) error {
	if b.current == nil || b.current.Len() == 0 {
		return nil
	}

	batch := b.current
	b.current = nil

	ctx, span := b.tracer.Start(ctx, "retention.batch_commit",
		trace.WithAttributes(tracing.BatchAttributes(b.committed+1, batch.Len())...),
	)
	start := time.Now()
	err := batch.Commit(ctx)
	b.observer.BatchCommitted(b.trigger, batch.Len(), time.Since(start), err)
	tracing.SetStatus(span, err)
	span.End()
	if err != nil {
		return &BatchCommitError{
			CommittedBatches:   b.committed,
			CommittedMutations: b.mutations,
			PendingMutations:   batch.Len(),
			Cause:              err,
		}
	}

	b.committed++
	b.mutations += batch.Len()
	b.logger.DebugContext(ctx, "batch committed",
		"batch", b.committed,
		"size", batch.Len(),
		"committed_orders", b.mutations,
	)
	return nil
}
