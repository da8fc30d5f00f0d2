package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/larocca/refdesk/internal/export"
	"github.com/larocca/refdesk/internal/library"
	"github.com/larocca/refdesk/internal/reference"
	"github.com/spf13/cobra"
)

var (
	exportAPA        bool
	exportCollection string
	exportAppendFile string
)

func init() {
	exportCmd.Flags().BoolVar(&exportAPA, "apa", false, "Export APA citations instead of BibTeX")
	exportCmd.Flags().StringVar(&exportCollection, "collection", "", "Export only members of a collection (by id)")
	exportCmd.Flags().StringVar(&exportAppendFile, "append", "", "Append to a .bib file, skipping entries already in it")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [id]...",
	Short: "Export references as BibTeX or APA",
	Long: `Export references as BibTeX (default) or APA citations.

With no ids, the whole library (or the given collection) is exported.
With --append, entries already present in the target .bib file (matched
by DOI, then citation key) are skipped.

Examples:
  refdesk export
  refdesk export 3f2a... --apa
  refdesk export --collection 9c81... --append library.bib`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	lib, _ := openLibrary()
	defer lib.Close()
	ctx := context.Background()

	refs, err := collectExportRefs(ctx, lib, args)
	if err != nil {
		if library.IsNotFound(err) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "collecting references: %v", err)
	}

	if exportAPA {
		var lines []string
		for _, ref := range refs {
			lines = append(lines, export.ToAPA(ref))
		}
		fmt.Println(strings.Join(lines, "\n"))
		return nil
	}

	if exportAppendFile != "" {
		idx, err := export.ReadBibIndex(exportAppendFile)
		if err != nil {
			exitWithError(ExitError, "reading %s: %v", exportAppendFile, err)
		}
		var fresh []reference.Reference
		for _, ref := range refs {
			if !idx.Has(ref) {
				fresh = append(fresh, ref)
			}
		}
		if len(fresh) == 0 {
			if humanOutput {
				fmt.Println("Nothing to append")
			} else {
				outputJSON(StatusResponse{Status: "up-to-date", Path: exportAppendFile})
			}
			return nil
		}
		if err := export.AppendToBibFile(exportAppendFile, export.ToBibTeXList(fresh)); err != nil {
			exitWithError(ExitError, "appending to %s: %v", exportAppendFile, err)
		}
		if humanOutput {
			fmt.Printf("Appended %d entr%s to %s\n", len(fresh), pluralYIes(len(fresh)), exportAppendFile)
		} else {
			outputJSON(StatusResponse{Status: "appended", Path: exportAppendFile})
		}
		return nil
	}

	fmt.Println(export.ToBibTeXList(refs))
	return nil
}

func collectExportRefs(ctx context.Context, lib *library.Library, ids []string) ([]reference.Reference, error) {
	if len(ids) > 0 {
		refs := make([]reference.Reference, 0, len(ids))
		for _, id := range ids {
			ref, err := lib.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			refs = append(refs, *ref)
		}
		return refs, nil
	}

	result, err := lib.Query(ctx, library.Filter{CollectionID: exportCollection})
	if err != nil {
		return nil, err
	}
	return result.References, nil
}

func pluralYIes(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
