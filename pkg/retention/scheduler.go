package retention

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RunStatus describes the most recent scheduled invocation.
type RunStatus struct {
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Attempts   int       `json:"attempts"`
	Report     *Report   `json:"report,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Scheduler runs the scheduled sweep on a cron schedule with retries.
//
// A failed attempt is retried after MinBackoff, doubling each time, up to
// MaxRetries times and only while the time since the first failure stays
// within MaxRetryDuration. Every attempt is a complete sweep bounded by
// Timeout.
type Scheduler struct {
	sweeper *Sweeper
	config  *Config
	cron    *cron.Cron
	entryID cron.EntryID
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
	cancel  context.CancelFunc

	last *RunStatus

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewScheduler creates a new retention scheduler.
func NewScheduler(sweeper *Sweeper, config *Config) *Scheduler {
	if config == nil {
		config = sweeper.config
	}

	return &Scheduler{
		sweeper: sweeper,
		config:  config,
		logger:  slog.Default().With("component", "retention.scheduler"),
		now:     time.Now,
		sleep:   sleepContext,
	}
}

// Start registers the scheduled sweep and starts the cron runner. The
// schedule is evaluated in config.Location.
//
// If Schedule is empty, the scheduler does nothing. Starting a running
// scheduler is an error; the job is registered exactly once.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.Schedule == "" {
		s.logger.Info("retention schedule not configured, skipping scheduler")
		return nil
	}
	if s.running {
		return errors.New("retention scheduler already running")
	}

	if _, err := cron.ParseStandard(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.config.Schedule, err)
	}

	jobCtx, cancel := context.WithCancel(ctx)

	cronLogger := cron.PrintfLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn))
	s.cron = cron.New(
		cron.WithLocation(s.config.location()),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger)),
	)

	id, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runWithRetry(jobCtx)
	})
	if err != nil {
		cancel()
		return fmt.Errorf("failed to schedule retention sweep: %w", err)
	}
	s.entryID = id

	s.cron.Start()
	s.running = true
	s.cancel = cancel

	s.logger.Info("retention scheduler started",
		"schedule", s.config.Schedule,
		"time_zone", s.config.location().String(),
		"retention_days", s.config.RetentionDays,
		"max_retries", s.config.MaxRetries,
		"timeout", s.config.Timeout,
	)

	go func() {
		<-jobCtx.Done()
		s.Stop()
	}()

	return nil
}

// runWithRetry executes one scheduled invocation, retrying failed attempts
// under the retry policy.
func (s *Scheduler) runWithRetry(ctx context.Context) (*Report, error) {
	status := &RunStatus{StartedAt: s.now()}
	defer s.record(status)

	var firstFailure time.Time
	backoff := s.config.MinBackoff

	for {
		status.Attempts++
		report, err := s.attempt(ctx)
		if err == nil {
			status.Report = report
			status.Error = ""
			status.FinishedAt = s.now()
			return report, nil
		}

		status.Error = err.Error()
		status.FinishedAt = s.now()

		if firstFailure.IsZero() {
			firstFailure = s.now()
		}
		retries := status.Attempts - 1

		if retries >= s.config.MaxRetries {
			s.logger.Error("scheduled sweep failed, retries exhausted",
				"attempts", status.Attempts,
				"error", err,
			)
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, err
		}
		if s.config.MaxRetryDuration > 0 && s.now().Sub(firstFailure)+backoff > s.config.MaxRetryDuration {
			s.logger.Error("scheduled sweep failed, retry window exceeded",
				"attempts", status.Attempts,
				"max_retry_duration", s.config.MaxRetryDuration,
				"error", err,
			)
			return nil, err
		}

		s.logger.Warn("scheduled sweep failed, retrying",
			"attempt", status.Attempts,
			"backoff", backoff,
			"error", err,
		)
		if serr := s.sleep(ctx, backoff); serr != nil {
			return nil, err
		}
		backoff *= 2
	}
}

// attempt runs one scheduled sweep bounded by the configured timeout.
func (s *Scheduler) attempt(ctx context.Context) (*Report, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}
	return s.sweeper.RunScheduled(ctx)
}

func (s *Scheduler) record(status *RunStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = status
}

// Stop stops the scheduler. A running invocation is cancelled, including any
// pending retry backoff, and Stop waits for it to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	running := s.running
	cancel := s.cancel
	s.running = false
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if c != nil && running {
		ctx := c.Stop()
		<-ctx.Done()
		s.logger.Info("retention scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled sweep time, or nil when the scheduler
// is not running.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil || !s.running {
		return nil
	}

	entry := s.cron.Entry(s.entryID)
	if entry.ID == 0 || entry.Next.IsZero() {
		return nil
	}
	next := entry.Next
	return &next
}

// LastRun returns the status of the most recent scheduled invocation, or
// nil if none has run.
func (s *Scheduler) LastRun() *RunStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil {
		return nil
	}
	status := *s.last
	return &status
}

// LastReport returns the report of the most recent scheduled invocation if
// it succeeded.
func (s *Scheduler) LastReport() *Report {
	if last := s.LastRun(); last != nil {
		return last.Report
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
