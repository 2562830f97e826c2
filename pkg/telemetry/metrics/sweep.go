package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mealkit-hq/backoffice/pkg/config"
	"mealkit-hq/backoffice/pkg/retention"
)

// SweepMetrics tracks retention sweep outcomes.
//
// Metrics:
//   - backoffice_retention_sweeps_total: Sweeps by trigger and status
//   - backoffice_retention_sweep_duration_seconds: Sweep duration histogram
//   - backoffice_retention_orders_processed_total: Orders examined
//   - backoffice_retention_orders_cleaned_total: Orders rewritten
//   - backoffice_retention_batch_commits_total: Batch commits by status
//   - backoffice_retention_batch_size: Mutations per committed batch
//   - backoffice_retention_batch_commit_duration_seconds: Commit latency by status
//   - backoffice_retention_last_success_timestamp_seconds: Last successful sweep
type SweepMetrics struct {
	sweepsTotal     *prometheus.CounterVec
	sweepDuration   *prometheus.HistogramVec
	processedTotal  *prometheus.CounterVec
	cleanedTotal    *prometheus.CounterVec
	batchCommits    *prometheus.CounterVec
	batchSize       prometheus.Histogram
	batchDuration   *prometheus.HistogramVec
	lastSuccessTime *prometheus.GaugeVec
}

// NewSweepMetrics creates and registers sweep metrics with the provided
// registry.
func NewSweepMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *SweepMetrics {
	sm := &SweepMetrics{
		sweepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "sweeps_total",
				Help:      "Total number of retention sweeps by trigger and status",
			},
			[]string{"trigger", "status"},
		),

		sweepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "sweep_duration_seconds",
				Help:      "Duration of retention sweeps in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 180, 540},
			},
			[]string{"trigger"},
		),

		processedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "orders_processed_total",
				Help:      "Total number of orders examined by successful sweeps",
			},
			[]string{"trigger"},
		),

		cleanedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "orders_cleaned_total",
				Help:      "Total number of orders rewritten by successful sweeps",
			},
			[]string{"trigger"},
		),

		batchCommits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "batch_commits_total",
				Help:      "Total number of batch commit attempts by trigger and status",
			},
			[]string{"trigger", "status"},
		),

		batchSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "batch_size",
				Help:      "Number of mutations per committed batch",
				Buckets:   []float64{1, 10, 50, 100, 250, 500},
			},
		),

		batchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "batch_commit_duration_seconds",
				Help:      "Duration of batch commits in seconds",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"trigger", "status"},
		),

		lastSuccessTime: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last successful sweep",
			},
			[]string{"trigger"},
		),
	}

	registry.MustRegister(
		sm.sweepsTotal,
		sm.sweepDuration,
		sm.processedTotal,
		sm.cleanedTotal,
		sm.batchCommits,
		sm.batchSize,
		sm.batchDuration,
		sm.lastSuccessTime,
	)

	return sm
}

// RecordSweep records one finished sweep.
func (sm *SweepMetrics) RecordSweep(trigger string, report *retention.Report, duration time.Duration, err error) {
	sm.sweepsTotal.WithLabelValues(trigger, sweepStatus(err)).Inc()
	sm.sweepDuration.WithLabelValues(trigger).Observe(duration.Seconds())

	if err != nil || report == nil {
		return
	}
	sm.processedTotal.WithLabelValues(trigger).Add(float64(report.ProcessedOrders))
	sm.cleanedTotal.WithLabelValues(trigger).Add(float64(report.CleanedOrders))
	sm.lastSuccessTime.WithLabelValues(trigger).Set(float64(report.Timestamp.Unix()))
}

// RecordBatch records one batch commit attempt.
func (sm *SweepMetrics) RecordBatch(trigger string, size int, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	sm.batchCommits.WithLabelValues(trigger, status).Inc()
	sm.batchDuration.WithLabelValues(trigger, status).Observe(duration.Seconds())
	if err == nil {
		sm.batchSize.Observe(float64(size))
	}
}

// sweepStatus maps a sweep error onto a low-cardinality label value.
func sweepStatus(err error) string {
	if err == nil {
		return "success"
	}

	var fe *retention.FetchError
	var bce *retention.BatchCommitError
	switch {
	case errors.As(err, &fe):
		return "fetch_error"
	case errors.As(err, &bce):
		return "commit_error"
	default:
		return "error"
	}
}
