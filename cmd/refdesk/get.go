package main

import (
	"context"

	"github.com/larocca/refdesk/internal/library"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a single reference by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	lib, _ := openLibrary()
	defer lib.Close()

	ref, err := lib.Get(context.Background(), args[0])
	if err != nil {
		if library.IsNotFound(err) {
			exitWithError(ExitDataError, "reference not found: %s", args[0])
		}
		exitWithError(ExitError, "getting reference: %v", err)
	}

	if humanOutput {
		printRefDetail(*ref)
	} else {
		outputJSON(ref)
	}
	return nil
}
