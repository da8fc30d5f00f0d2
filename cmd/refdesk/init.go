package main

import (
	"fmt"
	"os"

	"github.com/larocca/refdesk/internal/config"
	"github.com/larocca/refdesk/internal/library"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new refdesk library",
	Long: `Initialize a new refdesk library in the current directory.

Creates:
  .refdesk/
  ├── library.db      # SQLite database
  ├── config.json     # Default config
  └── blobs/          # PDF payloads`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	if config.IsLibrary(root) {
		exitWithError(ExitError, "directory already contains a refdesk library")
	}

	lib, err := library.Open(root)
	if err != nil {
		exitWithError(ExitError, "creating library: %v", err)
	}
	defer lib.Close()

	cfg := &config.Config{PDFReader: "system"}
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "creating config.json: %v", err)
	}

	if humanOutput {
		fmt.Printf("Initialized refdesk library in %s\n", root)
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: root})
	}
	return nil
}
