package main

import (
	"context"

	"github.com/larocca/refdesk/internal/library"
	"github.com/larocca/refdesk/internal/reference"
	"github.com/spf13/cobra"
)

var (
	updateTitle   string
	updateYear    int
	updateJournal string
	updateType    string
	updateDOI     string
	updateURL     string
	updateNotes   string
)

func init() {
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "New title")
	updateCmd.Flags().IntVar(&updateYear, "year", 0, "New publication year")
	updateCmd.Flags().StringVar(&updateJournal, "journal", "", "New journal")
	updateCmd.Flags().StringVar(&updateType, "type", "", "New reference type")
	updateCmd.Flags().StringVar(&updateDOI, "doi", "", "New DOI")
	updateCmd.Flags().StringVar(&updateURL, "url", "", "New URL")
	updateCmd.Flags().StringVar(&updateNotes, "notes", "", "New notes")
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of a reference",
	Long: `Update fields of a reference. Only flags that are set change the
record.

Example:
  refdesk update 3f2a... --year 2023 --notes "re-read section 4"`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	lib, _ := openLibrary()
	defer lib.Close()

	flags := cmd.Flags()
	ref, err := lib.Update(context.Background(), args[0], func(ref *reference.Reference) error {
		if flags.Changed("title") {
			ref.Title = updateTitle
		}
		if flags.Changed("year") {
			ref.Year = updateYear
		}
		if flags.Changed("journal") {
			ref.Journal = updateJournal
		}
		if flags.Changed("type") {
			ref.Type = reference.Type(updateType)
		}
		if flags.Changed("doi") {
			ref.DOI = updateDOI
		}
		if flags.Changed("url") {
			ref.URL = updateURL
		}
		if flags.Changed("notes") {
			ref.Notes = updateNotes
		}
		return nil
	})
	if err != nil {
		if library.IsNotFound(err) {
			exitWithError(ExitDataError, "reference not found: %s", args[0])
		}
		exitWithError(ExitDataError, "updating reference: %v", err)
	}

	if humanOutput {
		printRefDetail(*ref)
	} else {
		outputJSON(ref)
	}
	return nil
}
