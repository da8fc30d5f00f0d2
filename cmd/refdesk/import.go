package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file.pdf>",
	Short: "Import a PDF as a new reference",
	Long: `Import a PDF as a new reference.

The PDF is attached to the new reference and its front matter sniffed for
title, year and DOI. When a DOI is found, the registry is consulted to
fill in the remaining metadata; a failed lookup keeps the sniffed record.

Example:
  refdesk import ~/Downloads/paper.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	lib, _ := openLibrary()
	defer lib.Close()

	enricher := newEnricher(lib)
	ref, err := enricher.ImportPDF(context.Background(), args[0])
	if err != nil {
		exitWithError(ExitDataError, "importing PDF: %v", err)
	}

	if humanOutput {
		fmt.Printf("Imported %s\n", ref.ID)
		fmt.Printf("  %s\n", truncateString(ref.Title, 60))
		if ref.DOI != "" {
			fmt.Printf("  DOI: %s\n", ref.DOI)
		}
	} else {
		outputJSON(ref)
	}
	return nil
}
