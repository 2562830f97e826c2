package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"mealkit-hq/backoffice/pkg/config"
	"mealkit-hq/backoffice/pkg/retention"
)

func newTestCollector(t *testing.T, enabled bool) *Collector {
	t.Helper()
	cfg := config.MetricsConfig{Enabled: &enabled}
	return NewCollector(cfg, prometheus.NewRegistry())
}

func TestCollector_SweepFinished(t *testing.T) {
	c := newTestCollector(t, true)
	ts := time.Date(2025, 7, 25, 2, 0, 0, 0, time.UTC)

	report := &retention.Report{
		Success:         true,
		ProcessedOrders: 1200,
		CleanedOrders:   800,
		CutoffDate:      "2025-07-18",
		Timestamp:       ts,
	}
	c.SweepFinished(retention.TriggerScheduled, report, 3*time.Second, nil)

	sm := c.sweepMetrics
	if got := testutil.ToFloat64(sm.sweepsTotal.WithLabelValues("scheduled", "success")); got != 1 {
		t.Errorf("sweeps_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(sm.processedTotal.WithLabelValues("scheduled")); got != 1200 {
		t.Errorf("orders_processed_total = %v, want 1200", got)
	}
	if got := testutil.ToFloat64(sm.cleanedTotal.WithLabelValues("scheduled")); got != 800 {
		t.Errorf("orders_cleaned_total = %v, want 800", got)
	}
	if got := testutil.ToFloat64(sm.lastSuccessTime.WithLabelValues("scheduled")); got != float64(ts.Unix()) {
		t.Errorf("last_success_timestamp_seconds = %v, want %v", got, ts.Unix())
	}
}

func TestCollector_SweepStatusLabels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status string
	}{
		{"success", nil, "success"},
		{"fetch error", retention.NewFetchError("2025-07-18", errors.New("unavailable")), "fetch_error"},
		{"commit error", &retention.BatchCommitError{CutoffDate: "2025-07-18", Cause: errors.New("aborted")}, "commit_error"},
		{"other", errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCollector(t, true)
			var report *retention.Report
			if tt.err == nil {
				report = &retention.Report{Success: true}
			}
			c.SweepFinished(retention.TriggerManual, report, time.Second, tt.err)

			got := testutil.ToFloat64(c.sweepMetrics.sweepsTotal.WithLabelValues("manual", tt.status))
			if got != 1 {
				t.Errorf("sweeps_total{status=%q} = %v, want 1", tt.status, got)
			}
			if tt.err != nil {
				if got := testutil.ToFloat64(c.sweepMetrics.processedTotal.WithLabelValues("manual")); got != 0 {
					t.Errorf("failed sweep counted %v processed orders", got)
				}
			}
		})
	}
}

func TestCollector_BatchCommitted(t *testing.T) {
	c := newTestCollector(t, true)

	c.BatchCommitted(retention.TriggerScheduled, 500, 10*time.Millisecond, nil)
	c.BatchCommitted(retention.TriggerScheduled, 500, 10*time.Millisecond, nil)
	c.BatchCommitted(retention.TriggerScheduled, 200, 10*time.Millisecond, errors.New("aborted"))

	commits := c.sweepMetrics.batchCommits
	if got := testutil.ToFloat64(commits.WithLabelValues("scheduled", "success")); got != 2 {
		t.Errorf("successful commits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(commits.WithLabelValues("scheduled", "error")); got != 1 {
		t.Errorf("failed commits = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(c.sweepMetrics.batchSize); got != 1 {
		t.Errorf("batch_size series = %d, want 1", got)
	}
	if got := testutil.CollectAndCount(c.sweepMetrics.batchDuration); got != 2 {
		t.Errorf("batch_commit_duration_seconds series = %d, want 2", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	c := newTestCollector(t, false)

	c.SweepFinished(retention.TriggerScheduled, &retention.Report{Success: true, ProcessedOrders: 3}, time.Second, nil)
	c.BatchCommitted(retention.TriggerScheduled, 3, time.Millisecond, nil)
	c.RecordHTTPRequest("/health", http.MethodGet, 200, time.Millisecond)

	if got := testutil.CollectAndCount(c.sweepMetrics.sweepsTotal); got != 0 {
		t.Errorf("disabled collector recorded %d sweep series", got)
	}
	if got := testutil.CollectAndCount(c.httpMetrics.requestsTotal); got != 0 {
		t.Errorf("disabled collector recorded %d request series", got)
	}
}

func TestCollector_RecordHTTPRequest(t *testing.T) {
	c := newTestCollector(t, true)

	c.RecordHTTPRequest("/v1/retention/sweep", http.MethodPost, 200, 50*time.Millisecond)
	c.RecordHTTPRequest("/v1/retention/sweep", http.MethodPost, 401, time.Millisecond)

	got := testutil.ToFloat64(c.httpMetrics.requestsTotal.WithLabelValues("/v1/retention/sweep", "POST", "401"))
	if got != 1 {
		t.Errorf("requests_total{code=401} = %v, want 1", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := newTestCollector(t, true)
	c.SweepFinished(retention.TriggerManual, &retention.Report{Success: true, ProcessedOrders: 2}, time.Second, nil)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"backoffice_retention_sweeps_total",
		"backoffice_retention_orders_processed_total",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}

func TestNewCollector_DefaultRegistry(t *testing.T) {
	c := NewCollector(config.MetricsConfig{}, nil)

	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	found := false
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), "go_") {
			found = true
			break
		}
	}
	if !found {
		t.Error("default registry should include Go runtime metrics")
	}
}
