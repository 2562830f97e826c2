package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mealkit-hq/backoffice/pkg/cli"
	"mealkit-hq/backoffice/pkg/config"
	"mealkit-hq/backoffice/pkg/orders/storage"
	"mealkit-hq/backoffice/pkg/retention"
	"mealkit-hq/backoffice/pkg/security/auth"
	"mealkit-hq/backoffice/pkg/security/secrets"
	"mealkit-hq/backoffice/pkg/server"
	"mealkit-hq/backoffice/pkg/telemetry/health"
	"mealkit-hq/backoffice/pkg/telemetry/logging"
	"mealkit-hq/backoffice/pkg/telemetry/metrics"
	"mealkit-hq/backoffice/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the API server and the retention scheduler",
	Long: `Start the back-office HTTP API and the nightly retention scheduler.

The server exposes the manual sweep endpoint, schedule status, health probes
and Prometheus metrics. Log level and API keys are reloaded when the config
file changes or on SIGHUP.

Examples:
  # Start with default config
  backoffice run

  # Start with custom config
  backoffice run --config /etc/backoffice/backoffice.yaml

  # Override listen address
  backoffice run --listen 0.0.0.0:8080

  # Validate config without starting
  backoffice run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	logger, err := setupLogging(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	rcfg, err := retention.FromSettings(cfg.Retention)
	if err != nil {
		return cli.NewConfigError(cfgFile, err)
	}

	if runFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "configuration valid")
		return nil
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer store.Close()

	tracer, err := tracing.New(cfg.Telemetry.Tracing, Version)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}()

	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)

	sweeper := retention.NewSweeper(store, rcfg,
		retention.WithObserver(collector),
		retention.WithTracer(tracer.Tracer()),
	)

	scheduler := retention.NewScheduler(sweeper, rcfg)
	if err := scheduler.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	defer scheduler.Stop()

	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
	checker.RegisterCheck("order_store", health.StoreCheck(store))
	if rcfg.Schedule != "" {
		checker.RegisterCheck("retention_scheduler", health.SchedulerCheck(scheduler))
	}

	secretManager, err := secrets.FromConfig(cfg.Security.Secrets)
	if err != nil {
		return cli.NewConfigError(cfgFile, err)
	}
	defer secretManager.Close()

	keys, err := auth.LoadKeys(ctx, cfg.Security, secretManager)
	if err != nil {
		return cli.NewConfigError(cfgFile, err)
	}
	validator := auth.NewAPIKeyValidator(keys)
	if len(keys) == 0 {
		logger.Warn("no API keys configured, manual sweeps will be refused")
	}

	deps := server.Dependencies{
		Sweeper:   sweeper,
		Scheduler: scheduler,
		Retention: rcfg,
		Auth:      validator,
		Checker:   checker,
		Tracer:    tracer,
		Build: server.BuildInfo{
			Version:   Version,
			Commit:    Commit,
			BuildTime: BuildTime,
		},
	}
	if cfg.Telemetry.Metrics.IsEnabled() {
		deps.Metrics = collector
		deps.MetricsPath = cfg.Telemetry.Metrics.Path
	}

	srv, err := server.NewServer(cfg.Server, deps)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	go watchConfig(ctx, logger, validator, secretManager)

	logger.Info("backoffice starting",
		"version", Version,
		"config", cfgFile,
		"listen_address", cfg.Server.ListenAddress,
		"storage_backend", cfg.Storage.Backend,
		"retention_days", rcfg.RetentionDays,
		"schedule", rcfg.Schedule,
		"tracing", tracer.Enabled(),
	)

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	logger.Info("backoffice stopped")
	return nil
}

// watchConfig applies reloadable settings when the config file changes or
// SIGHUP arrives. Settings that need a restart (storage, schedule, listen
// address) are ignored until then.
func watchConfig(ctx context.Context, logger *logging.Logger, validator *auth.APIKeyValidator, secretManager *secrets.Manager) {
	apply := func(cfg *config.Config) {
		if err := logger.SetLevel(cfg.Telemetry.Logging.Level); err != nil {
			logger.Warn("ignoring reloaded log level", "error", err)
		}

		if err := secretManager.Refresh(ctx); err != nil {
			logger.Warn("secret refresh incomplete", "error", err)
		}
		keys, err := auth.LoadKeys(ctx, cfg.Security, secretManager)
		if err != nil {
			logger.Error("keeping previous API keys", "error", err)
			return
		}
		validator.Replace(keys)

		logger.Info("configuration reloaded",
			"log_level", cfg.Telemetry.Logging.Level,
			"api_keys", len(cfg.Security.APIKeys),
		)
	}

	hup := cli.ReloadSignal()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				cfg, err := config.ReloadConfig(cfgFile)
				if err != nil {
					logger.Error("configuration reload failed", "error", err)
					continue
				}
				apply(cfg)
			}
		}
	}()

	watcher, err := config.NewWatcher(cfgFile, 0)
	if err != nil {
		logger.Warn("config file watching disabled", "error", err)
		return
	}
	if err := watcher.Watch(ctx, apply); err != nil {
		logger.Warn("config watcher stopped", "error", err)
	}
}
