package main

import (
	"os"

	"github.com/larocca/refdesk/internal/config"
	"github.com/larocca/refdesk/internal/crossref"
	"github.com/larocca/refdesk/internal/gemini"
	"github.com/larocca/refdesk/internal/library"
)

// openLibrary locates and opens the enclosing library, exiting with a
// config error when none is found.
func openLibrary() (*library.Library, string) {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	root, err := config.FindLibrary(cwd)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	lib, err := library.Open(root)
	if err != nil {
		exitWithError(ExitError, "opening library: %v", err)
	}
	return lib, root
}

// newDOIClient builds the registry client, honoring a configured contact
// address.
func newDOIClient() *crossref.Client {
	var opts []crossref.ClientOption
	if mailto := config.GetCrossrefMailto(); mailto != "" {
		opts = append(opts, crossref.WithMailto(mailto))
	}
	return crossref.NewClient(opts...)
}

// newEnricher wires the library to the metadata sources.
func newEnricher(lib *library.Library) *library.Enricher {
	return library.NewEnricher(lib, newDOIClient(), gemini.NewClient(config.GetGeminiAPIKey()))
}
