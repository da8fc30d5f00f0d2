package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

var searchLimit int

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Full-text search across the library",
	Long: `Full-text search across titles, abstracts, authors and tags,
ranked by relevance.

Example:
  refdesk search bayesian phylogenetics`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	lib, _ := openLibrary()
	defer lib.Close()

	query := strings.Join(args, " ")
	refs, err := lib.Search(context.Background(), query, searchLimit)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	if humanOutput {
		for _, ref := range refs {
			printRefLine(ref)
		}
	} else {
		outputJSON(ListResponse{References: refs, Total: len(refs)})
	}
	return nil
}
