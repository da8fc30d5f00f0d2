package library

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/larocca/refdesk/internal/merge"
	"github.com/larocca/refdesk/internal/pdf"
	"github.com/larocca/refdesk/internal/reference"
)

// DOISource looks up metadata for a DOI. Implemented by crossref.Client.
type DOISource interface {
	Lookup(ctx context.Context, doi string) (reference.Partial, error)
}

// ReviewSource produces a structured technical review of extracted text.
// Implemented by gemini.Client.
type ReviewSource interface {
	Analyze(ctx context.Context, text string) (reference.TechnicalReview, error)
}

// Enricher coordinates metadata sources, the reconciliation engine and the
// store. Adapter calls run outside any lock; the merge applies under the
// reference's lock against the latest persisted state, so concurrent
// enrichments of one reference land in completion order.
type Enricher struct {
	lib    *Library
	doi    DOISource
	review ReviewSource
}

// NewEnricher creates an Enricher. Sources may be nil when the
// corresponding operations are not needed.
func NewEnricher(lib *Library, doi DOISource, review ReviewSource) *Enricher {
	return &Enricher{lib: lib, doi: doi, review: review}
}

// ApplyPartial merges a partial record into a stored reference. A failed
// or cancelled context, or a reference deleted while the source was in
// flight, discards the merge and leaves the store untouched.
func (e *Enricher) ApplyPartial(ctx context.Context, id string, p reference.Partial, policy merge.Policy) (*reference.Reference, error) {
	return e.lib.Update(ctx, id, func(ref *reference.Reference) error {
		*ref = merge.Merge(ref, p, policy)
		return nil
	})
}

// EnrichFromDOI looks up the reference's DOI (or the given override) and
// merges the result. refresh selects the overwrite policy for explicit
// re-lookups.
func (e *Enricher) EnrichFromDOI(ctx context.Context, id, doi string, refresh bool) (*reference.Reference, error) {
	if e.doi == nil {
		return nil, errors.New("no DOI source configured")
	}

	if doi == "" {
		ref, err := e.lib.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		doi = ref.DOI
	}
	if doi == "" {
		return nil, fmt.Errorf("%w: reference has no DOI", ErrInvalid)
	}

	partial, err := e.doi.Lookup(ctx, doi)
	if err != nil {
		return nil, err
	}

	policy := merge.PolicyEnrich
	if refresh {
		policy = merge.PolicyRefresh
	}
	return e.ApplyPartial(ctx, id, partial, policy)
}

// ImportDOI creates a new reference from a registry lookup.
func (e *Enricher) ImportDOI(ctx context.Context, doi string) (*reference.Reference, error) {
	if e.doi == nil {
		return nil, errors.New("no DOI source configured")
	}

	partial, err := e.doi.Lookup(ctx, doi)
	if err != nil {
		return nil, err
	}

	seed := merge.Merge(nil, partial, merge.PolicyEnrich)
	ref, err := e.lib.Create(ctx, seed)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// ImportPDF creates a new reference from a PDF file: the payload is
// attached, front-matter metadata sniffed, and, when a DOI is found and a
// DOI source is configured, the registry consulted. A failed lookup
// leaves the sniffed record intact.
func (e *Enricher) ImportPDF(ctx context.Context, path string) (*reference.Reference, error) {
	sniffed, err := pdf.ExtractMetadata(path)
	if err != nil {
		return nil, err
	}

	seed := merge.Merge(nil, sniffed, merge.PolicyEnrich)
	created, err := e.lib.Create(ctx, seed)
	if err != nil {
		return nil, err
	}

	ref, err := e.lib.AttachPDF(ctx, created.ID, path)
	if err != nil {
		return nil, err
	}

	if sniffed.DOI != "" && e.doi != nil {
		if enriched, err := e.EnrichFromDOI(ctx, ref.ID, sniffed.DOI, false); err == nil {
			ref = enriched
		}
	}
	return ref, nil
}

// Analyze extracts text from the reference's attached PDF, requests a
// structured review, and merges it. The review's PersonalNotes field stays
// with the user under every policy.
func (e *Enricher) Analyze(ctx context.Context, id string) (*reference.Reference, error) {
	if e.review == nil {
		return nil, errors.New("no review source configured")
	}

	ref, err := e.lib.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ref.PDFID == "" {
		return nil, fmt.Errorf("reference %s: %w", id, ErrNoPDF)
	}

	text, err := e.extractBlobText(ctx, ref.PDFID)
	if err != nil {
		return nil, err
	}

	review, err := e.review.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}

	return e.ApplyPartial(ctx, id, reference.Partial{
		Review: &review,
		Source: "gemini",
	}, merge.PolicyRefresh)
}

// extractBlobText reads a stored PDF payload through the blob store, so a
// payload whose metadata row is gone surfaces as ErrNotFound rather than a
// bare file error.
func (e *Enricher) extractBlobText(ctx context.Context, blobID string) (string, error) {
	info, err := e.lib.StatBlob(ctx, blobID)
	if err != nil {
		return "", err
	}

	f, err := os.Open(e.lib.BlobPath(blobID))
	if err != nil {
		return "", fmt.Errorf("opening blob %s: %w", blobID, err)
	}
	defer f.Close()

	return pdf.ExtractTextReader(f, info.Size, pdf.MaxPages)
}
