package pdf

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractTextRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-pdf.pdf")
	if err := os.WriteFile(path, []byte("plain text pretending to be a PDF"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ExtractText(path, MaxPages)
	if !errors.Is(err, ErrExtraction) {
		t.Errorf("ExtractText on garbage = %v, want ErrExtraction", err)
	}
}

func TestExtractTextReaderRejectsNonPDF(t *testing.T) {
	data := []byte("an in-memory payload that is not a PDF")
	_, err := ExtractTextReader(bytes.NewReader(data), int64(len(data)), MaxPages)
	if !errors.Is(err, ErrExtraction) {
		t.Errorf("ExtractTextReader on garbage = %v, want ErrExtraction", err)
	}
}

func TestExtractTextMissingFile(t *testing.T) {
	_, err := ExtractText(filepath.Join(t.TempDir(), "missing.pdf"), MaxPages)
	if !errors.Is(err, ErrExtraction) {
		t.Errorf("ExtractText on missing file = %v, want ErrExtraction", err)
	}
}

func TestSniffMetadata(t *testing.T) {
	text := `Systematic Biology Journal, Volume 73
A Comprehensive Study of Phylogenetic Tree Inference Methods
Jane Doe and John Smith
Published 2024, doi: 10.1093/sysbio/syae001.
Abstract text follows here.`

	p := sniffMetadata(text)

	if p.DOI != "10.1093/sysbio/syae001" {
		t.Errorf("sniffed DOI = %q", p.DOI)
	}
	if p.Title != "A Comprehensive Study of Phylogenetic Tree Inference Methods" {
		t.Errorf("sniffed title = %q", p.Title)
	}
	if p.Year != 2024 {
		t.Errorf("sniffed year = %d", p.Year)
	}
	if p.Source != "pdf" {
		t.Errorf("source = %q", p.Source)
	}
}

func TestSniffMetadataEmptyFieldsAreNotAnError(t *testing.T) {
	p := sniffMetadata("short\nlines\nonly")
	if p.Title != "" || p.DOI != "" {
		t.Errorf("expected empty partial, got %+v", p)
	}
}

func TestIsHeaderLine(t *testing.T) {
	headers := []string{
		"Journal of Theoretical Biology",
		"Volume 12, Issue 3",
		"Copyright 2024 Elsevier",
		"Downloaded from academic.oup.com on January 2",
	}
	for _, h := range headers {
		if !isHeaderLine(h) {
			t.Errorf("isHeaderLine(%q) = false, want true", h)
		}
	}
	if isHeaderLine("A study of adaptive immune repertoires in vertebrates") {
		t.Error("title misclassified as header")
	}
}
