// Package tracing provides OpenTelemetry tracing for the back-office service.
//
// Every retention sweep produces a "retention.sweep" span with one
// "retention.batch_commit" child per committed batch, and every API request
// produces a server span. Spans are exported over OTLP/gRPC; with tracing
// disabled a noop tracer is used and spans cost next to nothing.
//
// # Trace Context Propagation
//
// Incoming requests are parented on the W3C traceparent header, so a manual
// sweep triggered by an instrumented caller joins the caller's trace:
//
//	traceparent: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//
// # Sampling Strategies
//
//   - always: sample every trace
//   - never: sample no root trace
//   - ratio: sample a fraction of traces by trace ID
//
// All strategies honour the sampling decision of a remote parent.
//
// # Usage
//
//	tracer, err := tracing.New(cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	sweeper := retention.NewSweeper(store, rcfg, retention.WithTracer(tracer.Tracer()))
//
// # Configuration
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    exporter: otlp
//	    endpoint: localhost:4317
//	    insecure: true
//	    sampler: ratio
//	    sample_ratio: 0.25
package tracing
