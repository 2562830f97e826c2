package health

import (
	"context"
	"errors"
	"fmt"

	"mealkit-hq/backoffice/pkg/retention"
)

// Pinger is implemented by every order store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreCheck reports whether the order store answers.
func StoreCheck(store Pinger) CheckFunc {
	return func(ctx context.Context) error {
		if err := store.Ping(ctx); err != nil {
			return fmt.Errorf("order store unreachable: %w", err)
		}
		return nil
	}
}

// SchedulerStatus is the part of retention.Scheduler the health check reads.
type SchedulerStatus interface {
	IsRunning() bool
	LastRun() *retention.RunStatus
}

// SchedulerCheck fails when the scheduler is not running. A failed last
// run is only a warning: the next run retries from scratch.
func SchedulerCheck(s SchedulerStatus) CheckFunc {
	return func(ctx context.Context) error {
		if !s.IsRunning() {
			return errors.New("retention scheduler is not running")
		}
		if last := s.LastRun(); last != nil && last.Error != "" {
			return Warn(fmt.Errorf("last scheduled sweep at %s failed after %d attempts: %s",
				last.StartedAt.UTC().Format("2006-01-02T15:04:05Z"), last.Attempts, last.Error))
		}
		return nil
	}
}
