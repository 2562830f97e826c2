/*
Package cli provides helpers shared by the backoffice commands: output
formatting, progress reporting, signal handling and exit codes.

Output Formatting:

	formatter := cli.NewFormatter(cli.FormatJSON)
	table := &cli.Table{Headers: []string{"id", "statuses"}, Rows: rows}
	if err := formatter.FormatTo(os.Stdout, table); err != nil {
		return err
	}

Exit Codes:

	backoffice sweep; echo $?
	0  sweep succeeded
	1  other error
	2  invalid configuration
	3  orders could not be read, nothing was changed
	4  a batch commit failed, earlier batches stand

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
