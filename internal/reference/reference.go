// Package reference defines the core domain types for bibliographic references.
package reference

import "time"

// Reference represents one bibliographic entry in the library.
type Reference struct {
	// Identity
	ID string `json:"id"` // Opaque stable identifier, assigned at creation

	// Descriptive metadata
	Title       string   `json:"title"`
	Authors     []string `json:"authors"` // "Family, Given" form, ordered
	Year        int      `json:"year"`
	Journal     string   `json:"journal,omitempty"`
	Volume      string   `json:"volume,omitempty"`
	Issue       string   `json:"issue,omitempty"`
	Pages       string   `json:"pages,omitempty"`
	Publisher   string   `json:"publisher,omitempty"`
	ISBN        string   `json:"isbn,omitempty"`
	ISSN        string   `json:"issn,omitempty"`
	DOI         string   `json:"doi,omitempty"`
	URL         string   `json:"url,omitempty"`
	Abstract    string   `json:"abstract,omitempty"`
	Type        Type     `json:"type"`
	Editors     []string `json:"editors,omitempty"` // "Family, Given" form, ordered
	CitationKey string   `json:"citation_key,omitempty"`

	// Organization
	Tags          []string `json:"tags,omitempty"`           // Set semantics, order not significant
	CollectionIDs []string `json:"collection_ids,omitempty"` // Set semantics
	Favorite      bool     `json:"favorite"`
	Notes         string   `json:"notes,omitempty"` // User-owned, never touched by adapters

	// Attachment
	PDFID  string `json:"pdf_id,omitempty"` // Blob store ID, "" means no attachment
	HasPDF bool   `json:"has_pdf"`          // Denormalized, kept consistent with PDFID

	// Review
	Review *TechnicalReview `json:"technical_review,omitempty"`

	// Bookkeeping
	AddedAt time.Time `json:"added_at"`
}

// TechnicalReview holds a structured analysis of a reference, filled by the
// user or by the LLM adapter when explicitly invoked.
type TechnicalReview struct {
	Summary          string `json:"summary,omitempty"`
	ResearchQuestion string `json:"research_question,omitempty"`
	Methodology      string `json:"methodology,omitempty"`
	KeyFindings      string `json:"key_findings,omitempty"`
	Strengths        string `json:"strengths,omitempty"`
	Weaknesses       string `json:"weaknesses,omitempty"`
	Contributions    string `json:"contributions,omitempty"`
	FutureWork       string `json:"future_work,omitempty"`
	PersonalNotes    string `json:"personal_notes,omitempty"` // User-owned, never touched by adapters
	Rating           int    `json:"rating"`                   // 0-5, 0 means unrated
}

// Type classifies a reference into a fixed publication-type vocabulary.
type Type string

// Publication types.
const (
	TypeJournalArticle  Type = "Journal Article"
	TypeConferencePaper Type = "Conference Paper"
	TypeBookChapter     Type = "Book Chapter"
	TypeBook            Type = "Book"
	TypeThesis          Type = "Thesis"
	TypeTechnicalReport Type = "Technical Report"
	TypePreprint        Type = "Preprint"
)

// Types lists all valid publication types.
var Types = []Type{
	TypeJournalArticle,
	TypeConferencePaper,
	TypeBookChapter,
	TypeBook,
	TypeThesis,
	TypeTechnicalReport,
	TypePreprint,
}

// Valid reports whether t is one of the fixed publication types.
func (t Type) Valid() bool {
	for _, v := range Types {
		if t == v {
			return true
		}
	}
	return false
}

// HasTag reports whether the reference carries the given tag.
func (r *Reference) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// InCollection reports whether the reference belongs to the given collection.
func (r *Reference) InCollection(id string) bool {
	for _, c := range r.CollectionIDs {
		if c == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the reference.
func (r *Reference) Clone() Reference {
	out := *r
	out.Authors = append([]string(nil), r.Authors...)
	out.Editors = append([]string(nil), r.Editors...)
	out.Tags = append([]string(nil), r.Tags...)
	out.CollectionIDs = append([]string(nil), r.CollectionIDs...)
	if r.Review != nil {
		review := *r.Review
		out.Review = &review
	}
	return out
}

// Collection is a named, colored grouping of references.
type Collection struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"` // Presentation hint, opaque to the core
}

// BlobInfo describes a stored binary attachment (a PDF).
type BlobInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"` // Original filename
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Checksum string `json:"checksum,omitempty"` // BLAKE2b-256, hex
}
