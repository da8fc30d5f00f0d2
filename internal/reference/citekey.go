package reference

import (
	"fmt"
	"unicode"
)

// DeriveCitationKey builds a citation key of the form
// <FamilyNameOfFirstAuthor><Year> with non-letters stripped from the
// family name, e.g. "Doe2024". An unknown author yields "Unknown<Year>".
func DeriveCitationKey(authors []string, year int) string {
	family := "Unknown"
	if len(authors) > 0 {
		if f := sanitizeKeyPart(FamilyName(authors[0])); f != "" {
			family = f
		}
	}
	return fmt.Sprintf("%s%d", family, year)
}

// DisambiguateCitationKey appends letter suffixes (b, c, ...) until the key
// no longer collides. taken reports whether a candidate key is already in
// use. Two references by the same first author and year would otherwise
// receive identical keys.
func DisambiguateCitationKey(key string, taken func(string) bool) string {
	if !taken(key) {
		return key
	}
	for c := 'b'; c <= 'z'; c++ {
		candidate := key + string(c)
		if !taken(candidate) {
			return candidate
		}
	}
	// Fall back to numeric suffixes if the alphabet runs out.
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s%d", key, i)
		if !taken(candidate) {
			return candidate
		}
	}
}

// sanitizeKeyPart strips everything but letters.
func sanitizeKeyPart(s string) string {
	var out []rune
	for _, r := range s {
		if unicode.IsLetter(r) {
			out = append(out, r)
		}
	}
	return string(out)
}
