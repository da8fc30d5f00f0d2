package crossref

import (
	"regexp"
	"strings"
)

// DOI grammar: 10.<4+ digits>/<non-whitespace>+
var doiPattern = regexp.MustCompile(`^10\.\d{4,}/\S+$`)

// Patterns for sniffing a DOI out of free text, most specific first.
var doiTextPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)doi:\s*(10\.\d{4,}/\S+)`),
	regexp.MustCompile(`(?i)https?://doi\.org/(10\.\d{4,}/\S+)`),
	regexp.MustCompile(`\b(10\.\d{4,}/\S+)`),
}

// NormalizeDOI strips any https://doi.org/ style prefix and surrounding
// whitespace from a DOI string.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	return strings.TrimSpace(doi)
}

// IsValidDOI reports whether the string is a well-formed DOI after
// normalization.
func IsValidDOI(doi string) bool {
	return doiPattern.MatchString(NormalizeDOI(doi))
}

// ExtractDOI finds the first DOI in free text (e.g. a PDF page). Trailing
// punctuation that commonly follows inline DOIs is trimmed. Returns ""
// when no DOI is found.
func ExtractDOI(text string) string {
	for _, p := range doiTextPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		doi := strings.TrimRight(m[1], ".,;:!?)")
		if IsValidDOI(doi) {
			return doi
		}
	}
	return ""
}

// DOIURL formats a DOI as its canonical resolver URL.
func DOIURL(doi string) string {
	doi = NormalizeDOI(doi)
	if doi == "" {
		return ""
	}
	return "https://doi.org/" + doi
}
