package main

import (
	"context"
	"fmt"

	"github.com/larocca/refdesk/internal/reference"
	"github.com/spf13/cobra"
)

var (
	addAuthors []string
	addYear    int
	addJournal string
	addType    string
	addDOI     string
	addURL     string
	addTags    []string
	addNotes   string
)

func init() {
	addCmd.Flags().StringArrayVar(&addAuthors, "author", nil, "Author in \"Family, Given\" form (repeatable)")
	addCmd.Flags().IntVar(&addYear, "year", 0, "Publication year")
	addCmd.Flags().StringVar(&addJournal, "journal", "", "Journal or venue")
	addCmd.Flags().StringVar(&addType, "type", "", "Reference type (e.g. \"Journal Article\")")
	addCmd.Flags().StringVar(&addDOI, "doi", "", "DOI")
	addCmd.Flags().StringVar(&addURL, "url", "", "URL")
	addCmd.Flags().StringSliceVar(&addTags, "tag", nil, "Tag (repeatable)")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "Free-text notes")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a reference by manual entry",
	Long: `Add a reference by manual entry.

Example:
  refdesk add "A Study of Things" --author "Doe, Jane" --year 2024 --journal Nature`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	lib, _ := openLibrary()
	defer lib.Close()

	ref := reference.Reference{
		Title:   args[0],
		Authors: addAuthors,
		Year:    addYear,
		Journal: addJournal,
		Type:    reference.Type(addType),
		DOI:     addDOI,
		URL:     addURL,
		Tags:    addTags,
		Notes:   addNotes,
	}

	created, err := lib.Create(context.Background(), ref)
	if err != nil {
		exitWithError(ExitDataError, "creating reference: %v", err)
	}

	if humanOutput {
		fmt.Printf("Added %s (%s)\n", created.ID, created.CitationKey)
	} else {
		outputJSON(created)
	}
	return nil
}
