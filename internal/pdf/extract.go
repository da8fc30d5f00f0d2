// Package pdf implements the PDF metadata source: plain-text extraction
// from a bounded number of pages plus best-effort document metadata
// (title, year, DOI) sniffed from the text layer.
package pdf

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/larocca/refdesk/internal/crossref"
	"github.com/larocca/refdesk/internal/reference"
)

// MaxPages bounds how many pages of text are extracted. Fifteen pages is
// enough for front matter plus the body an analysis needs.
const MaxPages = 15

// ErrExtraction indicates the binary is not a parseable PDF or contains no
// extractable text at all.
var ErrExtraction = errors.New("could not read PDF")

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// ExtractText extracts plain text from the first maxPages pages of a PDF
// file. maxPages <= 0 means MaxPages. A PDF with a valid structure but no
// text layer is an extraction failure; the caller should fall back to
// manual entry.
func ExtractText(path string, maxPages int) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	defer f.Close()

	text := readPages(r, maxPages)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no extractable text", ErrExtraction)
	}
	return text, nil
}

// ExtractTextReader is like ExtractText but reads from an in-memory PDF.
func ExtractTextReader(r io.ReaderAt, size int64, maxPages int) (string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	text := readPages(reader, maxPages)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no extractable text", ErrExtraction)
	}
	return text, nil
}

// readPages concatenates the text of the first maxPages pages, skipping
// pages whose text layer cannot be decoded.
func readPages(r *pdf.Reader, maxPages int) string {
	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}
	if maxPages > MaxPages {
		maxPages = MaxPages
	}

	var builder strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String()
}

// ExtractMetadata extracts document-level metadata from a PDF. It is
// best-effort: a parseable PDF with text always yields a partial record,
// even if every descriptive field stays empty. Only an unreadable or
// textless binary returns ErrExtraction.
func ExtractMetadata(path string) (reference.Partial, error) {
	text, err := ExtractText(path, 3)
	if err != nil {
		return reference.Partial{}, err
	}
	return sniffMetadata(text), nil
}

// sniffMetadata pulls title, DOI and year candidates out of front-matter
// text.
func sniffMetadata(text string) reference.Partial {
	p := reference.Partial{Source: "pdf"}

	p.DOI = crossref.ExtractDOI(text)
	p.Title = sniffTitle(text)
	p.Year = sniffYear(text)

	return p
}

// sniffTitle returns the first substantial line that does not look like a
// running header. Heuristic only; wrong titles are cheap to fix by hand.
func sniffTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 20 && len(line) < 300 && !isHeaderLine(line) {
			return line
		}
	}
	return ""
}

// sniffYear returns the first plausible publication year in the text.
func sniffYear(text string) int {
	m := yearPattern.FindString(text)
	if m == "" {
		return 0
	}
	year, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return year
}

// isHeaderLine checks if a line is likely a journal header or footer.
func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	if strings.Contains(lower, "journal") {
		return true
	}
	if strings.Contains(lower, "volume") && strings.Contains(lower, "issue") {
		return true
	}
	if strings.Contains(lower, "copyright") {
		return true
	}
	if strings.Contains(lower, "downloaded from") {
		return true
	}
	if strings.Contains(lower, "article") && strings.Contains(lower, "published") {
		return true
	}
	return false
}
