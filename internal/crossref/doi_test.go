package crossref

import "testing"

func TestIsValidDOI(t *testing.T) {
	tests := []struct {
		doi  string
		want bool
	}{
		{"10.1234/abc", true},
		{"10.12345/some.path(2024)", true},
		{"https://doi.org/10.1234/abc", true},
		{"http://doi.org/10.1234/abc", true},
		{"  10.1234/abc  ", true},
		{"not-a-doi", false},
		{"10.123/too-short-prefix", false},
		{"10.1234/", false},
		{"10.1234/with space", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidDOI(tt.doi); got != tt.want {
			t.Errorf("IsValidDOI(%q) = %v, want %v", tt.doi, got, tt.want)
		}
	}
}

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"10.1234/abc", "10.1234/abc"},
		{"https://doi.org/10.1234/abc", "10.1234/abc"},
		{"doi.org/10.1234/abc", "10.1234/abc"},
		{" 10.1234/abc\n", "10.1234/abc"},
	}
	for _, tt := range tests {
		if got := NormalizeDOI(tt.in); got != tt.want {
			t.Errorf("NormalizeDOI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"doi prefix", "See doi: 10.1038/nature12373 for details", "10.1038/nature12373"},
		{"url form", "Available at https://doi.org/10.1234/abc.def", "10.1234/abc.def"},
		{"plain", "Citation 10.5555/12345678 in text", "10.5555/12345678"},
		{"trailing punctuation trimmed", "published as 10.1234/xyz.", "10.1234/xyz"},
		{"no doi", "This text mentions no identifier at all", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDOI(tt.text); got != tt.want {
				t.Errorf("ExtractDOI(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDOIURL(t *testing.T) {
	if got := DOIURL("10.1234/abc"); got != "https://doi.org/10.1234/abc" {
		t.Errorf("DOIURL = %q", got)
	}
	if got := DOIURL("https://doi.org/10.1234/abc"); got != "https://doi.org/10.1234/abc" {
		t.Errorf("DOIURL double-prefixed: %q", got)
	}
	if got := DOIURL(""); got != "" {
		t.Errorf("DOIURL(\"\") = %q, want empty", got)
	}
}
