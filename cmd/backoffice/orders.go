package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mealkit-hq/backoffice/pkg/cli"
	"mealkit-hq/backoffice/pkg/orders"
	"mealkit-hq/backoffice/pkg/orders/storage"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Load and inspect order documents",
	Long: `Operator commands for the orders collection.

Subcommands:
  import - Load orders from a JSON export
  list   - Show every order with its daily-status range`,
}

var importFlags struct {
	quiet bool
}

var ordersImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Load orders from a JSON file",
	Long: `Load a JSON array of order documents into the configured store.

Orders with an id replace the stored document; orders without one are
created with a generated id.

Examples:
  backoffice orders import export.json
  backoffice orders import export.json --quiet`,
	Args: cobra.ExactArgs(1),
	RunE: importOrders,
}

var listFlags struct {
	output string
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders",
	Long: `List every order with the range of daily statuses it carries and when
it was last cleaned.

Examples:
  backoffice orders list
  backoffice orders list --output csv > orders.csv`,
	Args: cobra.NoArgs,
	RunE: listOrders,
}

func init() {
	rootCmd.AddCommand(ordersCmd)
	ordersCmd.AddCommand(ordersImportCmd)
	ordersCmd.AddCommand(ordersListCmd)

	ordersImportCmd.Flags().BoolVarP(&importFlags.quiet, "quiet", "q", false, "do not show progress")
	ordersListCmd.Flags().StringVarP(&listFlags.output, "output", "o", "text", "output format: text, json, csv")
}

func importOrders(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := setupLogging(cfg, cmd.ErrOrStderr()); err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return cli.NewCommandError("orders import", err)
	}

	var docs []*orders.Order
	if err := json.Unmarshal(data, &docs); err != nil {
		return cli.NewCommandError("orders import", fmt.Errorf("failed to parse %s: %w", args[0], err))
	}

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return cli.NewCommandError("orders import", err)
	}
	defer store.Close()

	var progress cli.ProgressReporter = nopProgress{}
	if !importFlags.quiet {
		progress = cli.NewProgressReporter(cmd.ErrOrStderr(), "orders")
	}

	ctx := cmd.Context()
	progress.Start(int64(len(docs)))
	for i, order := range docs {
		if order == nil {
			continue
		}
		for key := range order.DailyStatuses {
			if !orders.ValidDateKey(key) {
				slog.Warn("order has a daily status key that is not a date",
					"order_id", order.ID,
					"key", key,
				)
			}
		}
		if err := store.Put(ctx, order); err != nil {
			progress.Error(err)
			return cli.NewCommandError("orders import", fmt.Errorf("order %d: %w", i, err))
		}
		progress.Update(int64(i + 1))
	}
	progress.Finish()

	fmt.Fprintf(cmd.OutOrStdout(), "imported %d orders\n", len(docs))
	return nil
}

func listOrders(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(listFlags.output)
	if err != nil {
		return cli.NewCommandError("orders list", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := setupLogging(cfg, cmd.ErrOrStderr()); err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return cli.NewCommandError("orders list", err)
	}
	defer store.Close()

	all, err := store.List(cmd.Context())
	if err != nil {
		return cli.NewCommandError("orders list", err)
	}
	slices.SortFunc(all, func(a, b *orders.Order) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), ordersTable(all))
}

func ordersTable(all []*orders.Order) *cli.Table {
	table := &cli.Table{
		Headers: []string{"id", "customer", "status", "statuses", "oldest", "newest", "last_cleanup", "last_manual_cleanup"},
	}

	for _, o := range all {
		keys := slices.Sorted(maps.Keys(o.DailyStatuses))
		var oldest, newest string
		if len(keys) > 0 {
			oldest, newest = keys[0], keys[len(keys)-1]
		}

		table.Rows = append(table.Rows, []string{
			o.ID,
			o.CustomerID,
			o.Status,
			strconv.Itoa(len(keys)),
			oldest,
			newest,
			formatStamp(o.LastCleanup),
			formatStamp(o.LastManualCleanup),
		})
	}
	return table
}

func formatStamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

type nopProgress struct{}

func (nopProgress) Start(int64) {}

func (nopProgress) Update(int64) {}

func (nopProgress) Finish() {}

func (nopProgress) Error(error) {}
