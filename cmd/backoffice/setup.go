package main

import (
	"io"
	"log/slog"

	"mealkit-hq/backoffice/pkg/cli"
	"mealkit-hq/backoffice/pkg/config"
	"mealkit-hq/backoffice/pkg/telemetry/logging"
)

// loadConfig loads the file named by --config with environment overrides
// and publishes it as the process-wide configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, err)
	}
	config.SetConfig(cfg)
	return cfg, nil
}

// setupLogging builds the redacting logger from cfg, writing to w, and
// installs it as the slog default.
func setupLogging(cfg *config.Config, w io.Writer) (*logging.Logger, error) {
	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:     level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
		RedactPII: true,
		Writer:    w,
	})
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, err)
	}

	slog.SetDefault(logger.Slog())
	return logger, nil
}
