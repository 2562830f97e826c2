package retention

import (
	"fmt"
	"time"

	"mealkit-hq/backoffice/pkg/config"
	"mealkit-hq/backoffice/pkg/orders"
)

// Config contains configuration for the retention sweeper and its schedule.
type Config struct {
	// RetentionDays is the number of days of daily statuses to keep.
	RetentionDays int

	// BatchSize is the number of mutations committed per atomic batch.
	// Values above orders.MaxBatchSize are clamped.
	BatchSize int

	// Schedule is a standard cron expression for the scheduled sweep.
	// An empty schedule disables the scheduler.
	Schedule string

	// Location is the time zone for both the schedule and the cutoff date.
	Location *time.Location

	// MaxRetries is how many times a failed scheduled sweep is re-run.
	// Zero or negative disables retries.
	MaxRetries int

	// MaxRetryDuration caps the time from the first failure to the last
	// retry.
	MaxRetryDuration time.Duration

	// MinBackoff is the delay before the first retry. Each later retry
	// doubles it.
	MinBackoff time.Duration

	// Timeout bounds every scheduled attempt. Zero means no bound.
	Timeout time.Duration
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays:    7,
		BatchSize:        orders.MaxBatchSize,
		Schedule:         "0 2 * * *",
		Location:         time.UTC,
		MaxRetries:       3,
		MaxRetryDuration: 300 * time.Second,
		MinBackoff:       10 * time.Second,
		Timeout:          9 * time.Minute,
	}
}

// FromSettings converts the file configuration into a sweeper Config.
// A disabled scheduler yields an empty Schedule.
func FromSettings(cfg config.RetentionConfig) (*Config, error) {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid retention time zone %q: %w", cfg.TimeZone, err)
	}

	schedule := cfg.Schedule
	if !cfg.SchedulerEnabled() {
		schedule = ""
	}

	return &Config{
		RetentionDays:    cfg.Days,
		BatchSize:        cfg.BatchSize,
		Schedule:         schedule,
		Location:         loc,
		MaxRetries:       cfg.MaxRetries,
		MaxRetryDuration: cfg.MaxRetryDuration,
		MinBackoff:       cfg.MinBackoff,
		Timeout:          cfg.Timeout,
	}, nil
}

func (c *Config) batchSize() int {
	if c.BatchSize <= 0 || c.BatchSize > orders.MaxBatchSize {
		return orders.MaxBatchSize
	}
	return c.BatchSize
}

func (c *Config) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}
