// Package server provides the back-office HTTP API.
//
// # Routes
//
//   - POST /v1/retention/sweep: run a manual retention sweep (API key
//     required). 200 with the sweep report, or 500 with
//     {"success": false, "error": "<message>"}.
//   - GET /v1/retention/schedule: schedule, next run and last run of the
//     nightly sweep.
//   - /health, /ready, /version: probes and build information.
//   - GET /metrics (configurable): Prometheus metrics.
//
// Every request gets an X-Request-ID, a log line, and a server span when a
// tracer is configured.
//
// # Basic Usage
//
//	srv, err := server.NewServer(cfg.Server, server.Dependencies{
//	    Sweeper:   sweeper,
//	    Scheduler: scheduler,
//	    Retention: rcfg,
//	    Auth:      auth.FromConfig(cfg.Security),
//	    Checker:   checker,
//	    Metrics:   collector,
//	})
//	if err != nil {
//	    return err
//	}
//	return srv.Start(ctx) // blocks until ctx is cancelled
//
// A manual sweep keeps running if the client disconnects; it is bounded by
// the retention timeout, and graceful shutdown waits for it up to
// ShutdownTimeout.
package server
