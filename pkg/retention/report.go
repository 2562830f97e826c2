package retention

import (
	"time"

	"mealkit-hq/backoffice/pkg/orders"
)

// Trigger identifies which entry point started a sweep.
type Trigger string

const (
	// TriggerScheduled is the nightly cron entry point.
	TriggerScheduled Trigger = "scheduled"

	// TriggerManual is the on-demand operator entry point.
	TriggerManual Trigger = "manual"
)

// AuditField returns the order field stamped by sweeps of this trigger.
func (t Trigger) AuditField() orders.AuditField {
	if t == TriggerManual {
		return orders.AuditLastManualCleanup
	}
	return orders.AuditLastCleanup
}

// Report is the result of a successful sweep.
type Report struct {
	Success         bool      `json:"success"`
	ProcessedOrders int       `json:"processedOrders"`
	CleanedOrders   int       `json:"cleanedOrders"`
	CutoffDate      string    `json:"cutoffDate"`
	Timestamp       time.Time `json:"timestamp"`

	// TriggerType is set to "manual" for on-demand sweeps and omitted
	// otherwise.
	TriggerType Trigger `json:"triggerType,omitempty"`

	// Not serialized: kept for logs and metrics.
	Batches   int           `json:"-"`
	Mutations int           `json:"-"`
	Duration  time.Duration `json:"-"`
}
