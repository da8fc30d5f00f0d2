package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(favCmd)
	rootCmd.AddCommand(unfavCmd)
}

var favCmd = &cobra.Command{
	Use:   "fav <id>...",
	Short: "Mark references as favorites",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetFavorite(args, true)
	},
}

var unfavCmd = &cobra.Command{
	Use:   "unfav <id>...",
	Short: "Unmark references as favorites",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetFavorite(args, false)
	},
}

func runSetFavorite(ids []string, favorite bool) error {
	lib, _ := openLibrary()
	defer lib.Close()

	result := lib.BulkSetFavorite(context.Background(), ids, favorite)

	if humanOutput {
		verb := "Favorited"
		if !favorite {
			verb = "Unfavorited"
		}
		printBulkResult(verb, result)
	} else {
		outputJSON(result)
	}
	if !result.OK() {
		os.Exit(ExitDataError)
	}
	return nil
}
