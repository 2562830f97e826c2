// Package telemetry groups the observability of the back office.
//
// # Components
//
//   - logging: structured slog logging with secret and customer PII
//     redaction and run, request and trace IDs taken from the context
//   - metrics: Prometheus counters and histograms for sweeps, batch
//     commits and HTTP requests
//   - tracing: OpenTelemetry spans for sweeps, batch commits and requests,
//     exported over OTLP/gRPC
//   - health: liveness, readiness and version endpoints with store and
//     scheduler checks
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json", RedactPII: true})
//	slog.SetDefault(logger.Slog())
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	tracer, err := tracing.New(cfg.Telemetry.Tracing, version)
//	defer tracer.Shutdown(context.Background())
//
//	sweeper := retention.NewSweeper(store, rcfg,
//	    retention.WithObserver(collector),
//	    retention.WithTracer(tracer.Tracer()),
//	)
//
// By default customer contact details and API keys are masked in every
// log record, including records from third-party code logging through
// slog.Default.
package telemetry
