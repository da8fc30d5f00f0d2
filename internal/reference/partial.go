package reference

// Partial is an incomplete record produced by one metadata source. Zero
// values mean "not supplied". Partials deliberately cannot carry the
// user-owned fields (notes, favorite, collection membership, personal
// review notes), so no adapter can overwrite them.
type Partial struct {
	Title       string
	Authors     []string // "Family, Given" form
	Year        int
	Journal     string
	Volume      string
	Issue       string
	Pages       string
	Publisher   string
	ISBN        string
	ISSN        string
	DOI         string
	URL         string
	Abstract    string
	Type        Type
	Editors     []string
	CitationKey string
	Tags        []string
	Review      *TechnicalReview

	// Source names the adapter that produced this partial, for user-facing
	// failure and provenance messages.
	Source string
}

// IsEmpty reports whether the partial supplies no fields at all.
func (p Partial) IsEmpty() bool {
	return p.Title == "" &&
		len(p.Authors) == 0 &&
		p.Year == 0 &&
		p.Journal == "" &&
		p.Volume == "" &&
		p.Issue == "" &&
		p.Pages == "" &&
		p.Publisher == "" &&
		p.ISBN == "" &&
		p.ISSN == "" &&
		p.DOI == "" &&
		p.URL == "" &&
		p.Abstract == "" &&
		p.Type == "" &&
		len(p.Editors) == 0 &&
		p.CitationKey == "" &&
		len(p.Tags) == 0 &&
		p.Review == nil
}
