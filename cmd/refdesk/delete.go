package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:     "rm <id>...",
	Aliases: []string{"delete"},
	Short:   "Delete references",
	Long: `Delete one or more references. Attached PDFs are removed with
their references. A missing id is reported but does not stop the rest of
the batch.

Example:
  refdesk rm 3f2a... 9c81...`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	lib, _ := openLibrary()
	defer lib.Close()

	result := lib.BulkDelete(context.Background(), args)

	if humanOutput {
		printBulkResult("Deleted", result)
	} else {
		outputJSON(result)
	}
	if !result.OK() {
		os.Exit(ExitDataError)
	}
	return nil
}
