// Package logging provides structured logging on top of log/slog.
//
// # Overview
//
//   - JSON or text output
//   - A shared slog.LevelVar, so the level can change while running
//   - Run, trigger, request and operator fields pulled from the context
//   - Optional redaction of secrets and customer contact details
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:     "info",
//	    Format:    "json",
//	    RedactPII: true,
//	})
//	slog.SetDefault(logger.Slog())
//
//	ctx = logging.WithRunID(ctx, logging.NewRunID())
//	slog.InfoContext(ctx, "sweep started") // includes run_id
//
//	_ = logger.SetLevel("debug") // e.g. from the config watcher
package logging
