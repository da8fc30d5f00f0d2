package main

import (
	"context"
	"fmt"

	"github.com/larocca/refdesk/internal/library"
	"github.com/spf13/cobra"
)

var collectionCreateColor string

func init() {
	collectionCreateCmd.Flags().StringVar(&collectionCreateColor, "color", "", "Presentation color hint")
	collectionCmd.AddCommand(collectionCreateCmd)
	collectionCmd.AddCommand(collectionListCmd)
	collectionCmd.AddCommand(collectionRenameCmd)
	collectionCmd.AddCommand(collectionColorCmd)
	collectionCmd.AddCommand(collectionDeleteCmd)
	collectionCmd.AddCommand(collectionAddCmd)
	collectionCmd.AddCommand(collectionRemoveCmd)
	rootCmd.AddCommand(collectionCmd)
}

var collectionCmd = &cobra.Command{
	Use:     "collection",
	Aliases: []string{"coll"},
	Short:   "Manage collections",
}

var collectionCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, _ := openLibrary()
		defer lib.Close()

		coll, err := lib.CreateCollection(context.Background(), args[0], collectionCreateColor)
		if err != nil {
			exitWithError(ExitDataError, "creating collection: %v", err)
		}
		if humanOutput {
			fmt.Printf("Created collection %s (%s)\n", coll.Name, coll.ID)
		} else {
			outputJSON(coll)
		}
		return nil
	},
}

var collectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections with reference counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, _ := openLibrary()
		defer lib.Close()

		infos, err := lib.Collections(context.Background())
		if err != nil {
			exitWithError(ExitError, "listing collections: %v", err)
		}
		if humanOutput {
			for _, info := range infos {
				fmt.Printf("%s  %s (%d)\n", info.ID, info.Name, info.Count)
			}
		} else {
			outputJSON(infos)
		}
		return nil
	},
}

var collectionRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a collection",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, _ := openLibrary()
		defer lib.Close()

		if err := lib.RenameCollection(context.Background(), args[0], args[1]); err != nil {
			exitWithError(collectionExitCode(err), "renaming collection: %v", err)
		}
		reportCollectionChange("renamed", args[0])
		return nil
	},
}

var collectionColorCmd = &cobra.Command{
	Use:   "color <id> <color>",
	Short: "Set a collection's color",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, _ := openLibrary()
		defer lib.Close()

		if err := lib.SetCollectionColor(context.Background(), args[0], args[1]); err != nil {
			exitWithError(collectionExitCode(err), "setting color: %v", err)
		}
		reportCollectionChange("recolored", args[0])
		return nil
	},
}

var collectionDeleteCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a collection",
	Long: `Delete a collection. Member references lose the membership but
are otherwise untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, _ := openLibrary()
		defer lib.Close()

		if err := lib.DeleteCollection(context.Background(), args[0]); err != nil {
			exitWithError(collectionExitCode(err), "deleting collection: %v", err)
		}
		reportCollectionChange("deleted", args[0])
		return nil
	},
}

var collectionAddCmd = &cobra.Command{
	Use:   "add <collection-id> <ref-id>...",
	Short: "Add references to a collection",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, _ := openLibrary()
		defer lib.Close()

		ctx := context.Background()
		for _, refID := range args[1:] {
			if err := lib.AddToCollection(ctx, refID, args[0]); err != nil {
				exitWithError(collectionExitCode(err), "adding %s: %v", refID, err)
			}
		}
		reportCollectionChange("updated", args[0])
		return nil
	},
}

var collectionRemoveCmd = &cobra.Command{
	Use:   "remove <collection-id> <ref-id>...",
	Short: "Remove references from a collection",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, _ := openLibrary()
		defer lib.Close()

		ctx := context.Background()
		for _, refID := range args[1:] {
			if err := lib.RemoveFromCollection(ctx, refID, args[0]); err != nil {
				exitWithError(collectionExitCode(err), "removing %s: %v", refID, err)
			}
		}
		reportCollectionChange("updated", args[0])
		return nil
	},
}

func collectionExitCode(err error) int {
	if library.IsNotFound(err) {
		return ExitDataError
	}
	return ExitError
}

func reportCollectionChange(status, id string) {
	if humanOutput {
		fmt.Printf("Collection %s %s\n", id, status)
	} else {
		outputJSON(StatusResponse{Status: status, ID: id})
	}
}
