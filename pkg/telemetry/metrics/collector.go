package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"mealkit-hq/backoffice/pkg/config"
	"mealkit-hq/backoffice/pkg/retention"
)

// Collector owns the Prometheus registry and every metric the service
// exports. It implements retention.Observer.
type Collector struct {
	config   config.MetricsConfig
	registry *prometheus.Registry

	sweepMetrics *SweepMetrics
	httpMetrics  *HTTPMetrics
}

var _ retention.Observer = (*Collector)(nil)

// NewCollector creates a new metrics collector. If registry is nil a fresh
// registry is created, with the Go runtime and process collectors added.
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}

	return &Collector{
		config:       cfg,
		registry:     registry,
		sweepMetrics: NewSweepMetrics(cfg, registry),
		httpMetrics:  NewHTTPMetrics(cfg, registry),
	}
}

// BatchCommitted records one batch commit attempt.
func (c *Collector) BatchCommitted(trigger retention.Trigger, size int, duration time.Duration, err error) {
	if !c.config.IsEnabled() {
		return
	}
	c.sweepMetrics.RecordBatch(string(trigger), size, duration, err)
}

// SweepFinished records the outcome of one sweep.
func (c *Collector) SweepFinished(trigger retention.Trigger, report *retention.Report, duration time.Duration, err error) {
	if !c.config.IsEnabled() {
		return
	}
	c.sweepMetrics.RecordSweep(string(trigger), report, duration, err)
}

// RecordHTTPRequest records a completed API request.
func (c *Collector) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	if !c.config.IsEnabled() {
		return
	}
	c.httpMetrics.RecordRequest(route, method, status, duration)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
