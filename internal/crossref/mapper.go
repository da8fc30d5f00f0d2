package crossref

import (
	"github.com/larocca/refdesk/internal/reference"
)

// typeMapping translates CrossRef's work-type vocabulary into the fixed
// publication-type enumeration. Unknown types default to Journal Article.
var typeMapping = map[string]reference.Type{
	"journal-article":     reference.TypeJournalArticle,
	"proceedings-article": reference.TypeConferencePaper,
	"book-chapter":        reference.TypeBookChapter,
	"book":                reference.TypeBook,
	"monograph":           reference.TypeBook,
	"posted-content":      reference.TypePreprint,
	"report":              reference.TypeTechnicalReport,
	"dissertation":        reference.TypeThesis,
}

// mapWork converts a CrossRef work record into a partial reference.
func mapWork(doi string, w *work) reference.Partial {
	p := reference.Partial{
		DOI:       doi,
		Authors:   mapContributors(w.Author),
		Editors:   mapContributors(w.Editor),
		Year:      w.Published.Year(),
		Abstract:  CleanAbstract(w.Abstract),
		Type:      mapType(w.Type),
		Volume:    w.Volume,
		Issue:     w.Issue,
		Pages:     w.Page,
		Publisher: w.Publisher,
		URL:       w.URL,
		Source:    "crossref",
	}

	if len(w.Title) > 0 {
		p.Title = w.Title[0]
	}
	if len(w.ContainerTitle) > 0 {
		p.Journal = w.ContainerTitle[0]
	}
	if len(w.ISBN) > 0 {
		p.ISBN = w.ISBN[0]
	}
	if len(w.ISSN) > 0 {
		p.ISSN = w.ISSN[0]
	}
	if p.URL == "" {
		p.URL = DOIURL(doi)
	}
	if p.Year > 0 {
		p.CitationKey = reference.DeriveCitationKey(p.Authors, p.Year)
	}

	return p
}

// mapType translates a CrossRef work type string.
func mapType(t string) reference.Type {
	if mapped, ok := typeMapping[t]; ok {
		return mapped
	}
	return reference.TypeJournalArticle
}

// mapContributors normalizes CrossRef contributors to "Family, Given",
// dropping entries with no name at all.
func mapContributors(cs []contributor) []string {
	var names []string
	for _, c := range cs {
		if name := reference.FormatName(c.Family, c.Given); name != "" {
			names = append(names, name)
		}
	}
	return names
}
