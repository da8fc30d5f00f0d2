package crossref

import (
	"regexp"
	"strings"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// entityReplacer decodes the five standard HTML entities. Applied after
// tag stripping so decoded angle brackets survive.
var entityReplacer = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", `"`,
	"&apos;", "'",
)

// CleanAbstract strips JATS/HTML markup from a registry abstract: all
// tag-like substrings are removed, the five standard entities decoded, and
// whitespace collapsed.
func CleanAbstract(text string) string {
	if text == "" {
		return ""
	}
	cleaned := tagPattern.ReplaceAllString(text, "")
	cleaned = entityReplacer.Replace(cleaned)
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
