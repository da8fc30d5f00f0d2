package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/larocca/refdesk/internal/library"
	"github.com/larocca/refdesk/internal/reference"
	"github.com/spf13/cobra"
)

var noteAppend bool

func init() {
	noteCmd.Flags().BoolVar(&noteAppend, "append", false, "Append to existing notes instead of replacing")
	rootCmd.AddCommand(noteCmd)
}

var noteCmd = &cobra.Command{
	Use:   "note <id> <text>",
	Short: "Set or append to a reference's notes",
	Long: `Set or append to a reference's notes. Notes belong to the user;
no import or enrichment ever modifies them.

Examples:
  refdesk note 3f2a... "seminal paper, see fig 2"
  refdesk note 3f2a... "follow up on this" --append`,
	Args: cobra.ExactArgs(2),
	RunE: runNote,
}

func runNote(cmd *cobra.Command, args []string) error {
	lib, _ := openLibrary()
	defer lib.Close()

	id, text := args[0], args[1]
	ref, err := lib.Update(context.Background(), id, func(ref *reference.Reference) error {
		if noteAppend && ref.Notes != "" {
			ref.Notes = strings.TrimRight(ref.Notes, "\n") + "\n" + text
		} else {
			ref.Notes = text
		}
		return nil
	})
	if err != nil {
		if library.IsNotFound(err) {
			exitWithError(ExitDataError, "reference not found: %s", id)
		}
		exitWithError(ExitError, "updating notes: %v", err)
	}

	if humanOutput {
		fmt.Println(ref.Notes)
	} else {
		outputJSON(ref)
	}
	return nil
}
