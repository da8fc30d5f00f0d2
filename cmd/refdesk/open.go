package main

import (
	"context"
	"fmt"

	"github.com/larocca/refdesk/internal/config"
	"github.com/larocca/refdesk/internal/library"
	"github.com/larocca/refdesk/internal/pdf"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open a reference's PDF in the configured viewer",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpen,
}

// OpenResult is the response for the open command.
type OpenResult struct {
	Status string `json:"status"`
	Path   string `json:"path"`
}

func runOpen(cmd *cobra.Command, args []string) error {
	lib, root := openLibrary()
	defer lib.Close()

	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	ref, err := lib.Get(context.Background(), args[0])
	if err != nil {
		if library.IsNotFound(err) {
			exitWithError(ExitDataError, "reference not found: %s", args[0])
		}
		exitWithError(ExitError, "getting reference: %v", err)
	}
	if ref.PDFID == "" {
		exitWithError(ExitDataError, "no PDF attached to reference: %s", args[0])
	}

	path := lib.BlobPath(ref.PDFID)
	opener := pdf.NewOpener(cfg.PDFReader)
	if err := opener.Open(path); err != nil {
		exitWithError(ExitError, "opening PDF: %v", err)
	}

	if humanOutput {
		fmt.Printf("Opening: %s\n", path)
	} else {
		outputJSON(OpenResult{Status: "opened", Path: path})
	}
	return nil
}
