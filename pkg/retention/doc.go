// Package retention trims old daily statuses from order documents.
//
// # Retention Policy
//
// Every order carries a dailyStatuses map keyed by YYYY-MM-DD. A sweep keeps
// the entries dated on or after the cutoff (today minus RetentionDays, in
// the configured time zone) and removes the rest. Other order fields are not
// touched; updatedAt and an audit timestamp are stamped on rewritten orders.
//
// # Entry Points
//
//	sweeper := retention.NewSweeper(store, retention.DefaultConfig())
//
//	// Nightly job, stamps lastCleanup
//	report, err := sweeper.RunScheduled(ctx)
//
//	// Operator action, stamps lastManualCleanup, report.TriggerType == "manual"
//	report, err := sweeper.RunManual(ctx)
//
// # Batching and Failures
//
// Rewrites are committed in atomic batches of at most 500. A sweep is not
// atomic across batches: if a commit fails, *BatchCommitError reports how
// many batches and orders are already durable. A failed initial read
// returns *FetchError before anything is written. Both are safe to retry by
// running the whole sweep again.
//
// # Scheduling
//
//	scheduler := retention.NewScheduler(sweeper, cfg)
//	if err := scheduler.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer scheduler.Stop()
//
// The scheduler retries a failed sweep with exponential backoff, within
// MaxRetries and MaxRetryDuration, and bounds each attempt by Timeout.
package retention
