package reference

import "strings"

// FormatName joins a family and given name into the canonical
// "Family, Given" form. A missing family name yields the given name alone;
// a missing given name yields the family name alone.
func FormatName(family, given string) string {
	family = strings.TrimSpace(family)
	given = strings.TrimSpace(given)

	switch {
	case family == "":
		return given
	case given == "":
		return family
	default:
		return family + ", " + given
	}
}

// FamilyName extracts the family-name portion of a "Family, Given" string.
// Names without a comma are returned whole.
func FamilyName(name string) string {
	if i := strings.Index(name, ","); i >= 0 {
		return strings.TrimSpace(name[:i])
	}
	return strings.TrimSpace(name)
}

// GivenName extracts the given-name portion of a "Family, Given" string.
func GivenName(name string) string {
	if i := strings.Index(name, ","); i >= 0 {
		return strings.TrimSpace(name[i+1:])
	}
	return ""
}
