package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/larocca/refdesk/internal/gemini"
	"github.com/larocca/refdesk/internal/library"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <id>",
	Short: "Generate a technical review from the attached PDF",
	Long: `Generate a technical review from the attached PDF.

Extracts text from the reference's PDF and asks Gemini for a structured
review (summary, methodology, strengths, weaknesses, rating). The API key
comes from GEMINI_API_KEY or the global config; personal notes in an
existing review are never overwritten.

Example:
  refdesk analyze 3f2a...`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	lib, _ := openLibrary()
	defer lib.Close()

	enricher := newEnricher(lib)
	ref, err := enricher.Analyze(context.Background(), args[0])
	if err != nil {
		switch {
		case errors.Is(err, gemini.ErrInvalidCredential):
			exitWithError(ExitAuthError, "Gemini credential rejected: %v", err)
		case errors.Is(err, library.ErrNoPDF):
			exitWithError(ExitDataError, "reference has no attached PDF")
		default:
			exitWithError(ExitDataError, "analysis failed: %v", err)
		}
	}

	if humanOutput {
		fmt.Printf("Analyzed %s\n\n", ref.ID)
		printRefDetail(*ref)
	} else {
		outputJSON(ref)
	}
	return nil
}
