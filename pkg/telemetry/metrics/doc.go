// Package metrics provides Prometheus metrics for the back-office service.
//
// # Metrics Categories
//
//   - Sweep metrics: sweep count and duration, orders processed and cleaned,
//     batch commits, time of the last successful sweep
//   - HTTP metrics: API request count and duration by route
//   - Go runtime and process metrics
//
// # Usage
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	sweeper := retention.NewSweeper(store, rcfg, retention.WithObserver(collector))
//	mux.Handle("/metrics", collector.Handler())
package metrics
