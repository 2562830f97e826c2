// Package health provides liveness, readiness and version endpoints.
//
// # Endpoints
//
//   - /health: liveness; 200 while the process is up
//   - /ready: readiness; runs every registered check, 503 if any is unhealthy
//   - /version: build information
//
// # Usage
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.RegisterCheck("store", health.StoreCheck(store))
//	checker.RegisterCheck("scheduler", health.SchedulerCheck(scheduler))
//
//	mux.HandleFunc("/health", checker.LivenessHandler())
//	mux.HandleFunc("/ready", checker.ReadinessHandler())
//	mux.HandleFunc("/version", health.VersionHandler(version, commit, buildTime))
//
// Checks run concurrently, each bounded by the checker's timeout. A check
// that returns an error wrapped with Warn shows up as "warning" without
// taking the service out of rotation; the scheduler check uses this for a
// failed last sweep.
package health
