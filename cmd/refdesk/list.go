package main

import (
	"context"
	"fmt"

	"github.com/larocca/refdesk/internal/library"
	"github.com/spf13/cobra"
)

var (
	listFavorites  bool
	listRecent     bool
	listCollection string
	listSearch     string
)

func init() {
	listCmd.Flags().BoolVar(&listFavorites, "favorites", false, "Only favorites")
	listCmd.Flags().BoolVar(&listRecent, "recent", false, "Most recently added first")
	listCmd.Flags().StringVar(&listCollection, "collection", "", "Only members of a collection (by id)")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Case-insensitive substring filter across title, authors, journal, abstract and tags")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List references",
	Long: `List references, optionally filtered.

Examples:
  refdesk list
  refdesk list --favorites
  refdesk list --recent --search immune`,
	RunE: runList,
}

// ListResponse is the JSON payload of the list command.
type ListResponse struct {
	References interface{} `json:"references"`
	Total      int         `json:"total"`
}

func runList(cmd *cobra.Command, args []string) error {
	lib, _ := openLibrary()
	defer lib.Close()

	filter := library.Filter{
		CollectionID: listCollection,
		Search:       listSearch,
	}
	switch {
	case listFavorites:
		filter.Folder = library.FolderFavorites
	case listRecent:
		filter.Folder = library.FolderRecent
	}

	result, err := lib.Query(context.Background(), filter)
	if err != nil {
		exitWithError(ExitError, "querying references: %v", err)
	}

	if humanOutput {
		for _, ref := range result.References {
			printRefLine(ref)
		}
		fmt.Printf("\n%d reference(s)\n", result.Total)
	} else {
		outputJSON(ListResponse{References: result.References, Total: result.Total})
	}
	return nil
}
