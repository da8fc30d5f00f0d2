package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/larocca/refdesk/internal/library"
	"github.com/spf13/cobra"
)

func init() {
	pdfCmd.AddCommand(pdfAttachCmd)
	pdfCmd.AddCommand(pdfDetachCmd)
	rootCmd.AddCommand(pdfCmd)
}

var pdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Manage PDF attachments",
}

var pdfAttachCmd = &cobra.Command{
	Use:   "attach <id> <file.pdf>",
	Short: "Attach a PDF to a reference",
	Long: `Attach a PDF to a reference. An existing attachment is replaced
and its payload released.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, _ := openLibrary()
		defer lib.Close()

		ref, err := lib.AttachPDF(context.Background(), args[0], args[1])
		if err != nil {
			if library.IsNotFound(err) {
				exitWithError(ExitDataError, "reference not found: %s", args[0])
			}
			exitWithError(ExitError, "attaching PDF: %v", err)
		}

		if humanOutput {
			fmt.Printf("Attached PDF to %s\n", ref.ID)
		} else {
			outputJSON(ref)
		}
		return nil
	},
}

var pdfDetachCmd = &cobra.Command{
	Use:   "detach <id>",
	Short: "Remove a reference's PDF attachment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, _ := openLibrary()
		defer lib.Close()

		ref, err := lib.DetachPDF(context.Background(), args[0])
		if err != nil {
			switch {
			case errors.Is(err, library.ErrNoPDF):
				exitWithError(ExitDataError, "no PDF attached to reference: %s", args[0])
			case library.IsNotFound(err):
				exitWithError(ExitDataError, "reference not found: %s", args[0])
			default:
				exitWithError(ExitError, "detaching PDF: %v", err)
			}
		}

		if humanOutput {
			fmt.Printf("Detached PDF from %s\n", ref.ID)
		} else {
			outputJSON(ref)
		}
		return nil
	},
}
