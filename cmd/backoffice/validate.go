package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mealkit-hq/backoffice/pkg/cli"
	"mealkit-hq/backoffice/pkg/retention"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load the configuration file with environment overrides, apply defaults
and report every invalid field. Exits with code 2 when the configuration is
invalid.

Examples:
  backoffice validate --config /etc/backoffice/backoffice.yaml`,
	Args: cobra.NoArgs,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rcfg, err := retention.FromSettings(cfg.Retention)
	if err != nil {
		return cli.NewConfigError(cfgFile, err)
	}

	schedule := rcfg.Schedule
	if schedule == "" {
		schedule = "disabled"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "configuration valid: %s\n", cfgFile)
	fmt.Fprintf(out, "  storage:   %s\n", cfg.Storage.Backend)
	fmt.Fprintf(out, "  retention: %d days, batches of %d\n", rcfg.RetentionDays, rcfg.BatchSize)
	fmt.Fprintf(out, "  schedule:  %s (%s)\n", schedule, rcfg.Location)
	fmt.Fprintf(out, "  api keys:  %d\n", len(cfg.Security.APIKeys))
	return nil
}
