package tracing

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys for retention spans.
const (
	AttrRunID           = "backoffice.retention.run_id"
	AttrTrigger         = "backoffice.retention.trigger"
	AttrCutoffDate      = "backoffice.retention.cutoff_date"
	AttrRetentionDays   = "backoffice.retention.days"
	AttrProcessedOrders = "backoffice.retention.processed_orders"
	AttrCleanedOrders   = "backoffice.retention.cleaned_orders"
	AttrBatchIndex      = "backoffice.retention.batch.index"
	AttrBatchSize       = "backoffice.retention.batch.size"
)

// Attribute keys for API spans.
const (
	AttrHTTPMethod = "http.method"
	AttrHTTPRoute  = "http.route"
	AttrHTTPStatus = "http.status_code"
	AttrOperator   = "backoffice.operator"
)

// SweepStartAttributes describes a sweep at the moment it starts.
func SweepStartAttributes(runID, trigger, cutoff string, days int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrRunID, runID),
		attribute.String(AttrTrigger, trigger),
		attribute.String(AttrCutoffDate, cutoff),
		attribute.Int(AttrRetentionDays, days),
	}
}

// SweepResultAttributes describes the work a sweep did.
func SweepResultAttributes(processed, cleaned int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrProcessedOrders, processed),
		attribute.Int(AttrCleanedOrders, cleaned),
	}
}

// BatchAttributes describes one batch commit.
func BatchAttributes(index, size int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrBatchIndex, index),
		attribute.Int(AttrBatchSize, size),
	}
}
