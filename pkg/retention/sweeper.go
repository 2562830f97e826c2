package retention

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"mealkit-hq/backoffice/pkg/orders"
	"mealkit-hq/backoffice/pkg/telemetry/logging"
	"mealkit-hq/backoffice/pkg/telemetry/tracing"
)

// Sweeper removes daily statuses older than the retention window from every
// order and commits the rewrites in bounded batches.
//
// A Sweeper holds no state between runs, so the scheduled and manual entry
// points may share one instance. Concurrent runs are not coordinated; each
// rewrite only narrows dailyStatuses, so a lost update is redone by the next
// run.
type Sweeper struct {
	store    orders.Store
	config   *Config
	now      func() time.Time
	observer Observer
	tracer   trace.Tracer
	logger   *slog.Logger
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) {
		s.now = now
	}
}

// WithObserver registers an observer for batch and sweep events.
func WithObserver(o Observer) Option {
	return func(s *Sweeper) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithTracer records a span per sweep and per batch commit.
func WithTracer(t trace.Tracer) Option {
	return func(s *Sweeper) {
		if t != nil {
			s.tracer = t
		}
	}
}

// NewSweeper creates a new sweeper over store.
func NewSweeper(store orders.Store, config *Config, opts ...Option) *Sweeper {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Sweeper{
		store:    store,
		config:   config,
		now:      time.Now,
		observer: nopObserver{},
		tracer:   noop.NewTracerProvider().Tracer(tracing.InstrumentationName),
		logger:   slog.Default().With("component", "retention.sweeper"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunScheduled runs a sweep as the nightly job. Rewritten orders are
// stamped with lastCleanup.
func (s *Sweeper) RunScheduled(ctx context.Context) (*Report, error) {
	return s.Run(ctx, TriggerScheduled)
}

// RunManual runs an on-demand sweep. Rewritten orders are stamped with
// lastManualCleanup and the report carries triggerType "manual".
// Authorization is the caller's job.
func (s *Sweeper) RunManual(ctx context.Context) (*Report, error) {
	return s.Run(ctx, TriggerManual)
}

// Run performs one full sweep.
//
// The orders collection is read once. Every order with at least one status
// dated before the cutoff gets a mutation that keeps only the remaining
// entries; orders with nothing to drop are not written. Mutations are
// committed whenever BatchSize of them are staged, then once more for the
// remainder.
//
// A failed read returns *FetchError and writes nothing. A failed commit
// returns *BatchCommitError; the batches before it stay committed. Either
// way a fresh Run is safe: already-cleaned orders produce no mutation.
func (s *Sweeper) Run(ctx context.Context, trigger Trigger) (*Report, error) {
	started := time.Now()
	now := s.now()
	cutoff := CutoffDate(now, s.config.location(), s.config.RetentionDays)

	if logging.GetRunID(ctx) == "" {
		ctx = logging.WithRunID(ctx, logging.NewRunID())
	}
	ctx = logging.WithTrigger(ctx, string(trigger))

	ctx, span := s.tracer.Start(ctx, "retention.sweep",
		trace.WithAttributes(tracing.SweepStartAttributes(
			logging.GetRunID(ctx), string(trigger), cutoff, s.config.RetentionDays)...),
	)
	defer span.End()

	s.logger.InfoContext(ctx, "retention sweep started",
		"cutoff_date", cutoff,
		"retention_days", s.config.RetentionDays,
	)

	report, err := s.sweep(ctx, trigger, now, cutoff)
	duration := time.Since(started)
	s.observer.SweepFinished(trigger, report, duration, err)
	tracing.SetStatus(span, err)

	if err != nil {
		s.logError(ctx, cutoff, err)
		return nil, err
	}

	report.Duration = duration
	span.SetAttributes(tracing.SweepResultAttributes(report.ProcessedOrders, report.CleanedOrders)...)
	s.logger.InfoContext(ctx, "retention sweep completed",
		"cutoff_date", cutoff,
		"processed_orders", report.ProcessedOrders,
		"cleaned_orders", report.CleanedOrders,
		"batches", report.Batches,
		"duration", duration,
	)
	return report, nil
}

func (s *Sweeper) sweep(ctx context.Context, trigger Trigger, now time.Time, cutoff string) (*Report, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, NewFetchError(cutoff, err)
	}

	b := newBatcher(s.store, s.config.batchSize(), trigger, s.observer, s.tracer, s.logger)
	audit := trigger.AuditField()
	stamp := now.UTC()

	processed, cleaned := 0, 0
	for _, order := range all {
		processed++

		keep, dropped := Partition(order.DailyStatuses, cutoff)
		if dropped == 0 {
			continue
		}
		cleaned++

		s.logger.DebugContext(ctx, "staging order rewrite",
			"order_id", order.ID,
			"dropped_statuses", dropped,
			"kept_statuses", len(keep),
		)

		err := b.add(ctx, orders.Mutation{
			OrderID:       order.ID,
			DailyStatuses: keep,
			UpdatedAt:     stamp,
			AuditField:    audit,
		})
		if err != nil {
			return nil, commitFailure(err, cutoff, processed)
		}
	}

	if err := b.flush(ctx); err != nil {
		return nil, commitFailure(err, cutoff, processed)
	}

	report := &Report{
		Success:         true,
		ProcessedOrders: processed,
		CleanedOrders:   cleaned,
		CutoffDate:      cutoff,
		Timestamp:       s.now().UTC(),
		Batches:         b.committed,
		Mutations:       b.mutations,
	}
	if trigger == TriggerManual {
		report.TriggerType = TriggerManual
	}
	return report, nil
}

// commitFailure completes a *BatchCommitError with sweep context. Staging
// errors are wrapped as they are.
func commitFailure(err error, cutoff string, processed int) error {
	var bce *BatchCommitError
	if errors.As(err, &bce) {
		bce.CutoffDate = cutoff
		bce.ProcessedOrders = processed
		return bce
	}
	return fmt.Errorf("failed to stage order rewrite (cutoff=%s): %w", cutoff, err)
}

func (s *Sweeper) logError(ctx context.Context, cutoff string, err error) {
	var bce *BatchCommitError
	if errors.As(err, &bce) {
		s.logger.ErrorContext(ctx, "retention sweep failed during batch commit",
			"cutoff_date", cutoff,
			"committed_batches", bce.CommittedBatches,
			"committed_orders", bce.CommittedMutations,
			"pending_orders", bce.PendingMutations,
			"processed_orders", bce.ProcessedOrders,
			"error", bce.Cause,
		)
		return
	}

	s.logger.ErrorContext(ctx, "retention sweep failed",
		"cutoff_date", cutoff,
		"error", err,
	)
}
