package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"mealkit-hq/backoffice/pkg/cli"
	"mealkit-hq/backoffice/pkg/orders/storage"
	"mealkit-hq/backoffice/pkg/retention"
)

var sweepFlags struct {
	scheduled bool
	days      int
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a retention sweep once",
	Long: `Run a single retention sweep against the configured order store and
print the report as JSON.

By default the sweep is recorded as manual: every cleaned order gets its
lastManualCleanup stamped and the report carries "triggerType": "manual".
With --scheduled it behaves exactly like the nightly job, for running the
sweep from an external cron.

The exit code tells failures apart: 3 when orders could not be fetched,
4 when a batch failed to commit.

Examples:
  # Manual sweep with the configured window
  backoffice sweep

  # Nightly-style sweep from system cron
  backoffice sweep --scheduled`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().BoolVar(&sweepFlags.scheduled, "scheduled", false, "record the sweep as a scheduled run")
	sweepCmd.Flags().IntVar(&sweepFlags.days, "days", 0, "override the retention window in days")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := setupLogging(cfg, cmd.ErrOrStderr()); err != nil {
		return err
	}

	rcfg, err := retention.FromSettings(cfg.Retention)
	if err != nil {
		return cli.NewConfigError(cfgFile, err)
	}
	if sweepFlags.days < 0 {
		return cli.NewCommandError("sweep", errors.New("--days must not be negative"))
	}
	if sweepFlags.days > 0 {
		rcfg.RetentionDays = sweepFlags.days
	}

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return cli.NewCommandError("sweep", err)
	}
	defer store.Close()

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()
	if rcfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rcfg.Timeout)
		defer cancel()
	}

	sweeper := retention.NewSweeper(store, rcfg)
	run := sweeper.RunManual
	if sweepFlags.scheduled {
		run = sweeper.RunScheduled
	}

	report, err := run(ctx)
	if err != nil {
		return cli.NewCommandError("sweep", err)
	}

	return cli.NewFormatter(cli.FormatJSON).FormatTo(cmd.OutOrStdout(), report)
}
