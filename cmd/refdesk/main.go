// Package main provides the refdesk CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	// A .env in the working directory may carry GEMINI_API_KEY.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refdesk",
	Short: "Personal research library manager",
	Long: `refdesk manages a personal library of bibliographic references.

References live in a SQLite-backed library marked by a .refdesk directory.
PDFs attach as blobs, metadata enriches from the CrossRef registry and
Gemini analysis, and entries export as BibTeX or APA. All commands output
JSON by default for easy integration with other tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
