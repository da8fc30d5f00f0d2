package main

import (
	"context"
	"fmt"

	"github.com/larocca/refdesk/internal/library"
	"github.com/larocca/refdesk/internal/reference"
	"github.com/spf13/cobra"
)

var tagRemove bool

func init() {
	tagCmd.Flags().BoolVar(&tagRemove, "remove", false, "Remove the tags instead of adding them")
	rootCmd.AddCommand(tagCmd)
}

var tagCmd = &cobra.Command{
	Use:   "tag <id> <tag>...",
	Short: "Add or remove tags on a reference",
	Long: `Add or remove tags on a reference.

Examples:
  refdesk tag 3f2a... immunology methods
  refdesk tag 3f2a... methods --remove`,
	Args: cobra.MinimumNArgs(2),
	RunE: runTag,
}

func runTag(cmd *cobra.Command, args []string) error {
	lib, _ := openLibrary()
	defer lib.Close()

	id, tags := args[0], args[1:]
	ref, err := lib.Update(context.Background(), id, func(ref *reference.Reference) error {
		if tagRemove {
			ref.Tags = removeTags(ref.Tags, tags)
		} else {
			ref.Tags = appendTags(ref.Tags, tags)
		}
		return nil
	})
	if err != nil {
		if library.IsNotFound(err) {
			exitWithError(ExitDataError, "reference not found: %s", id)
		}
		exitWithError(ExitError, "updating tags: %v", err)
	}

	if humanOutput {
		fmt.Printf("Tags: %v\n", ref.Tags)
	} else {
		outputJSON(ref)
	}
	return nil
}

func appendTags(existing, toAdd []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[t] = true
	}
	for _, t := range toAdd {
		if !seen[t] {
			existing = append(existing, t)
			seen[t] = true
		}
	}
	return existing
}

func removeTags(existing, toRemove []string) []string {
	drop := make(map[string]bool, len(toRemove))
	for _, t := range toRemove {
		drop[t] = true
	}
	var kept []string
	for _, t := range existing {
		if !drop[t] {
			kept = append(kept, t)
		}
	}
	return kept
}
