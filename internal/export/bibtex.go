// Package export serializes references into citation formats.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/larocca/refdesk/internal/reference"
)

// entryTypes maps the reference type enumeration to BibTeX entry types.
var entryTypes = map[reference.Type]string{
	reference.TypeJournalArticle:  "article",
	reference.TypeConferencePaper: "inproceedings",
	reference.TypeBookChapter:     "incollection",
	reference.TypeBook:            "book",
	reference.TypeThesis:          "phdthesis",
	reference.TypeTechnicalReport: "techreport",
	reference.TypePreprint:        "misc",
}

// ToBibTeX converts a reference to a BibTeX entry. Only non-empty fields
// are emitted, in a fixed order, with no trailing comma before the closing
// brace.
func ToBibTeX(ref reference.Reference) string {
	entryType, ok := entryTypes[ref.Type]
	if !ok {
		entryType = "article"
	}

	key := ref.CitationKey
	if key == "" {
		key = reference.DeriveCitationKey(ref.Authors, ref.Year)
	}

	year := ""
	if ref.Year > 0 {
		year = strconv.Itoa(ref.Year)
	}

	fields := []struct {
		name  string
		value string
	}{
		{"title", ref.Title},
		{"author", joinNames(ref.Authors)},
		{"editor", joinNames(ref.Editors)},
		{"journal", ref.Journal},
		{"year", year},
		{"volume", ref.Volume},
		{"number", ref.Issue},
		{"pages", ref.Pages},
		{"doi", ref.DOI},
		{"publisher", ref.Publisher},
		{"isbn", ref.ISBN},
		{"issn", ref.ISSN},
		{"url", ref.URL},
		{"abstract", stripBraces(ref.Abstract)},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s", entryType, key)
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(&b, ",\n  %s={%s}", f.name, f.value)
	}
	b.WriteString("\n}")
	return b.String()
}

// ToBibTeXList converts multiple references, separated by blank lines.
func ToBibTeXList(refs []reference.Reference) string {
	entries := make([]string, 0, len(refs))
	for _, ref := range refs {
		entries = append(entries, ToBibTeX(ref))
	}
	return strings.Join(entries, "\n\n")
}

// ToAPA renders a reference as a single APA-style line. A missing journal
// leaves no dangling separator.
func ToAPA(ref reference.Reference) string {
	var b strings.Builder
	if len(ref.Authors) > 0 {
		b.WriteString(strings.Join(ref.Authors, ", "))
		if ref.Year > 0 {
			b.WriteString(" ")
		} else {
			b.WriteString(". ")
		}
	}
	if ref.Year > 0 {
		fmt.Fprintf(&b, "(%d). ", ref.Year)
	}
	b.WriteString(ref.Title)
	b.WriteString(".")
	if ref.Journal != "" {
		fmt.Fprintf(&b, " %s.", ref.Journal)
	}
	return strings.TrimSpace(b.String())
}

// joinNames joins "Family, Given" names BibTeX-style.
func joinNames(names []string) string {
	return strings.Join(names, " and ")
}

// stripBraces removes literal braces, which would unbalance the entry.
func stripBraces(s string) string {
	s = strings.ReplaceAll(s, "{", "")
	return strings.ReplaceAll(s, "}", "")
}
