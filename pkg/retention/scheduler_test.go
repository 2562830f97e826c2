package retention

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"mealkit-hq/backoffice/pkg/orders"
	"mealkit-hq/backoffice/pkg/orders/storage"
)

func TestScheduler_Start(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		wantRunning bool
		wantError   bool
	}{
		{name: "nightly schedule", schedule: "0 2 * * *", wantRunning: true},
		{name: "hourly schedule", schedule: "0 * * * *", wantRunning: true},
		{name: "empty schedule - no error, not running", schedule: ""},
		{name: "invalid schedule", schedule: "invalid cron", wantError: true},
		{name: "seconds field not accepted", schedule: "0 0 2 * * *", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Schedule = tt.schedule
			scheduler := NewScheduler(NewSweeper(storage.NewMemoryStore(), cfg), cfg)

			err := scheduler.Start(context.Background())
			defer scheduler.Stop()

			if (err != nil) != tt.wantError {
				t.Errorf("Start() error = %v, wantError %v", err, tt.wantError)
			}
			if scheduler.IsRunning() != tt.wantRunning {
				t.Errorf("IsRunning() = %v, want %v", scheduler.IsRunning(), tt.wantRunning)
			}
			if !tt.wantRunning && scheduler.NextRun() != nil {
				t.Error("NextRun() should be nil when not running")
			}
		})
	}
}

func TestScheduler_StartTwice(t *testing.T) {
	cfg := DefaultConfig()
	scheduler := NewScheduler(NewSweeper(storage.NewMemoryStore(), cfg), cfg)

	if err := scheduler.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer scheduler.Stop()

	if err := scheduler.Start(context.Background()); err == nil {
		t.Error("second Start should fail")
	}
	if n := len(scheduler.cron.Entries()); n != 1 {
		t.Errorf("expected exactly one registered job, got %d", n)
	}
}

func TestScheduler_NextRunInUTC(t *testing.T) {
	cfg := DefaultConfig()
	scheduler := NewScheduler(NewSweeper(storage.NewMemoryStore(), cfg), cfg)

	if err := scheduler.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer scheduler.Stop()

	next := scheduler.NextRun()
	if next == nil {
		t.Fatal("expected a next run time")
	}

	utc := next.UTC()
	if utc.Hour() != 2 || utc.Minute() != 0 {
		t.Errorf("next run = %v, want 02:00 UTC", utc)
	}
	if until := time.Until(*next); until <= 0 || until > 24*time.Hour {
		t.Errorf("next run %v is not within the next day", next)
	}
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	cfg := DefaultConfig()
	scheduler := NewScheduler(NewSweeper(storage.NewMemoryStore(), cfg), cfg)

	ctx, cancel := context.WithCancel(context.Background())
	if err := scheduler.Start(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for scheduler.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("scheduler still running after context cancel")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// fakeTime advances only when the scheduler sleeps.
type fakeTime struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
	onWake func()
}

func (f *fakeTime) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeTime) Sleep(ctx context.Context, d time.Duration) error {
	f.mu.Lock()
	f.sleeps = append(f.sleeps, d)
	f.now = f.now.Add(d)
	wake := f.onWake
	f.mu.Unlock()

	if wake != nil {
		wake()
	}
	return ctx.Err()
}

func newRetryScheduler(store orders.Store, cfg *Config) (*Scheduler, *fakeTime) {
	ft := &fakeTime{now: sweepTime}
	s := NewScheduler(NewSweeper(store, cfg, WithClock(fixedClock)), cfg)
	s.now = ft.Now
	s.sleep = ft.Sleep
	return s, ft
}

func TestScheduler_RetriesUntilExhausted(t *testing.T) {
	store := storage.NewMemoryStore()
	store.FailListWith(errors.New("unavailable"))

	cfg := DefaultConfig()
	cfg.MinBackoff = time.Second
	scheduler, ft := newRetryScheduler(store, cfg)

	_, err := scheduler.runWithRetry(context.Background())

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if !reflect.DeepEqual(ft.sleeps, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}) {
		t.Errorf("backoffs = %v", ft.sleeps)
	}

	last := scheduler.LastRun()
	if last == nil {
		t.Fatal("expected a recorded run")
	}
	if last.Attempts != 4 {
		t.Errorf("attempts = %d, want 4 (1 + 3 retries)", last.Attempts)
	}
	if last.Error == "" || last.Report != nil {
		t.Errorf("unexpected status %+v", last)
	}
	if scheduler.LastReport() != nil {
		t.Error("LastReport should be nil after a failed run")
	}
}

func TestScheduler_RetryWindow(t *testing.T) {
	store := storage.NewMemoryStore()
	store.FailListWith(errors.New("unavailable"))

	cfg := DefaultConfig()
	cfg.MinBackoff = time.Second
	cfg.MaxRetryDuration = 5 * time.Second
	scheduler, ft := newRetryScheduler(store, cfg)

	if _, err := scheduler.runWithRetry(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	// 1s and 2s fit in the window; the 4s backoff would end at 7s.
	if !reflect.DeepEqual(ft.sleeps, []time.Duration{time.Second, 2 * time.Second}) {
		t.Errorf("backoffs = %v", ft.sleeps)
	}
	if got := scheduler.LastRun().Attempts; got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestScheduler_RetriesDisabled(t *testing.T) {
	store := storage.NewMemoryStore()
	store.FailListWith(errors.New("unavailable"))

	cfg := DefaultConfig()
	cfg.MaxRetries = -1
	scheduler, ft := newRetryScheduler(store, cfg)

	if _, err := scheduler.runWithRetry(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(ft.sleeps) != 0 {
		t.Errorf("unexpected retries: %v", ft.sleeps)
	}
}

func TestScheduler_RecoversOnRetry(t *testing.T) {
	store := storage.NewMemoryStore()
	seedExpired(t, store, 1200)
	store.FailCommitAt(3, errors.New("deadline exceeded"))

	cfg := DefaultConfig()
	cfg.MinBackoff = time.Second
	scheduler, ft := newRetryScheduler(store, cfg)

	report, err := scheduler.runWithRetry(context.Background())
	if err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if len(ft.sleeps) != 1 {
		t.Errorf("expected one retry, got %v", ft.sleeps)
	}
	if report.CleanedOrders != 200 {
		t.Errorf("retry cleaned %d, want the 200 left over", report.CleanedOrders)
	}

	last := scheduler.LastRun()
	if last.Attempts != 2 || last.Error != "" {
		t.Errorf("unexpected status %+v", last)
	}
	if scheduler.LastReport() != report {
		t.Error("LastReport should return the successful report")
	}
	if store.AppliedMutations() != 1200 {
		t.Errorf("durable mutations = %d, want 1200", store.AppliedMutations())
	}
}

func TestScheduler_StopsRetryingOnCancel(t *testing.T) {
	store := storage.NewMemoryStore()
	store.FailListWith(errors.New("unavailable"))

	cfg := DefaultConfig()
	cfg.MinBackoff = time.Second
	scheduler, ft := newRetryScheduler(store, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	ft.onWake = cancel

	if _, err := scheduler.runWithRetry(ctx); err == nil {
		t.Fatal("expected error")
	}
	if len(ft.sleeps) != 1 {
		t.Errorf("expected to stop after first backoff, got %v", ft.sleeps)
	}
}

func TestScheduler_StopInterruptsBackoff(t *testing.T) {
	store := storage.NewMemoryStore()
	store.FailListWith(errors.New("unavailable"))

	cfg := DefaultConfig()
	cfg.Schedule = "@every 1s"
	cfg.MinBackoff = time.Hour
	cfg.MaxRetryDuration = 0
	scheduler := NewScheduler(NewSweeper(store, cfg), cfg)

	backingOff := make(chan struct{})
	var once sync.Once
	scheduler.sleep = func(ctx context.Context, d time.Duration) error {
		once.Do(func() { close(backingOff) })
		return sleepContext(ctx, d)
	}

	if err := scheduler.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	select {
	case <-backingOff:
	case <-time.After(5 * time.Second):
		scheduler.Stop()
		t.Fatal("scheduled sweep never reached its retry backoff")
	}

	stopped := make(chan struct{})
	go func() {
		scheduler.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() blocked on the retry backoff")
	}

	last := scheduler.LastRun()
	if last == nil || last.Error == "" || last.Attempts != 1 {
		t.Errorf("last run = %+v, want one failed attempt", last)
	}
}

// deadlineStore records whether List was called with a deadline.
type deadlineStore struct {
	*storage.MemoryStore
	mu          sync.Mutex
	hadDeadline bool
}

func (d *deadlineStore) List(ctx context.Context) ([]*orders.Order, error) {
	d.mu.Lock()
	_, d.hadDeadline = ctx.Deadline()
	d.mu.Unlock()
	return d.MemoryStore.List(ctx)
}

func TestScheduler_AttemptTimeout(t *testing.T) {
	store := &deadlineStore{MemoryStore: storage.NewMemoryStore()}

	cfg := DefaultConfig()
	scheduler, _ := newRetryScheduler(store, cfg)

	if _, err := scheduler.runWithRetry(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !store.hadDeadline {
		t.Error("scheduled attempt ran without a timeout")
	}
}
