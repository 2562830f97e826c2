package retention

import (
	"time"

	"mealkit-hq/backoffice/pkg/orders"
)

// CutoffDate returns the oldest date key a sweep at now keeps: the calendar
// day in loc that lies days before now.
func CutoffDate(now time.Time, loc *time.Location, days int) string {
	if loc == nil {
		loc = time.UTC
	}
	return orders.DateKey(now.In(loc).AddDate(0, 0, -days))
}

// Partition splits statuses around cutoff. Entries keyed on or after cutoff
// are returned in keep; dropped counts the others. Keys compare as
// YYYY-MM-DD strings, so string order is date order.
//
// keep shares payloads with statuses. When nothing is dropped keep is nil.
func Partition(statuses map[string]orders.DailyStatus, cutoff string) (keep map[string]orders.DailyStatus, dropped int) {
	for key := range statuses {
		if key < cutoff {
			dropped++
		}
	}
	if dropped == 0 {
		return nil, 0
	}

	keep = make(map[string]orders.DailyStatus, len(statuses)-dropped)
	for key, status := range statuses {
		if key >= cutoff {
			keep[key] = status
		}
	}
	return keep, dropped
}
