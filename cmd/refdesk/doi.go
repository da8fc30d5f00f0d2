package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/larocca/refdesk/internal/crossref"
	"github.com/larocca/refdesk/internal/reference"
	"github.com/spf13/cobra"
)

var (
	doiEnrichID string
	doiRefresh  bool
)

func init() {
	doiCmd.Flags().StringVar(&doiEnrichID, "enrich", "", "Enrich an existing reference instead of creating one")
	doiCmd.Flags().BoolVar(&doiRefresh, "refresh", false, "Overwrite existing metadata with registry values (with --enrich)")
	rootCmd.AddCommand(doiCmd)
}

var doiCmd = &cobra.Command{
	Use:   "doi [doi]",
	Short: "Import or enrich a reference from a DOI",
	Long: `Import a new reference from a DOI, or enrich an existing one.

With --enrich and no DOI argument, the reference's stored DOI is used.
Enrichment fills empty fields only; --refresh overwrites every field the
registry supplies. Notes, tags, favorites and collections are never
touched.

Examples:
  refdesk doi 10.1093/sysbio/syy032
  refdesk doi --enrich 3f2a... --refresh`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDOI,
}

func runDOI(cmd *cobra.Command, args []string) error {
	doi := ""
	if len(args) > 0 {
		doi = args[0]
	}
	if doi == "" && doiEnrichID == "" {
		exitWithError(ExitError, "a DOI argument or --enrich is required")
	}

	lib, _ := openLibrary()
	defer lib.Close()
	enricher := newEnricher(lib)
	ctx := context.Background()

	var err error
	var ref *reference.Reference
	if doiEnrichID != "" {
		ref, err = enricher.EnrichFromDOI(ctx, doiEnrichID, doi, doiRefresh)
	} else {
		ref, err = enricher.ImportDOI(ctx, doi)
	}
	if err != nil {
		code := ExitDataError
		if errors.Is(err, crossref.ErrInvalidDOI) {
			code = ExitError
		}
		exitWithError(code, "DOI lookup failed: %v", err)
	}

	if humanOutput {
		fmt.Printf("%s %s\n", ref.ID, truncateString(ref.Title, 60))
	} else {
		outputJSON(ref)
	}
	return nil
}
