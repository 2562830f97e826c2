package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mealkit-hq/backoffice/pkg/cli"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "backoffice",
	Short: "Meal-kit order back office",
	Long: `Backoffice maintains the meal-kit orders collection.

It runs a nightly retention sweep that removes daily delivery statuses older
than the retention window, exposes an HTTP API to trigger the sweep manually,
and ships operator commands to load and inspect orders.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the code matching the error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "backoffice.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
