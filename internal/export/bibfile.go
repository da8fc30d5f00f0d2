package export

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/larocca/refdesk/internal/crossref"
	"github.com/larocca/refdesk/internal/reference"
)

// BibIndex indexes citation keys and DOIs found in an existing .bib file,
// so exports appended to the file can skip entries already present.
type BibIndex struct {
	keys map[string]bool
	dois map[string]bool
}

var (
	entryStartPattern = regexp.MustCompile(`@\w+\{([^,]+),?`)
	doiFieldPattern   = regexp.MustCompile(`(?i)^\s*doi\s*=\s*[\{"]([^\}"]+)[\}"]`)
)

// ReadBibIndex builds an index from a .bib file. A missing file yields an
// empty index, not an error.
func ReadBibIndex(path string) (*BibIndex, error) {
	idx := &BibIndex{
		keys: make(map[string]bool),
		dois: make(map[string]bool),
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if m := entryStartPattern.FindStringSubmatch(line); len(m) > 1 {
			idx.keys[strings.TrimSpace(m[1])] = true
		}
		if m := doiFieldPattern.FindStringSubmatch(line); len(m) > 1 {
			idx.dois[comparableDOI(m[1])] = true
		}
	}
	return idx, scanner.Err()
}

// Has reports whether the reference already appears in the indexed file.
// DOI is the primary match; the citation key serves references without one.
func (idx *BibIndex) Has(ref reference.Reference) bool {
	if ref.DOI != "" && idx.dois[comparableDOI(ref.DOI)] {
		return true
	}
	return ref.CitationKey != "" && idx.keys[ref.CitationKey]
}

// AppendToBibFile appends BibTeX text to a file, creating it if needed.
func AppendToBibFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString("\n" + content + "\n")
	return err
}

// comparableDOI normalizes a DOI for case-insensitive comparison.
func comparableDOI(doi string) string {
	return strings.ToLower(crossref.NormalizeDOI(doi))
}
