// Package merge implements the metadata reconciliation engine: it folds a
// partial record from one metadata source into the canonical reference
// under a deterministic, non-destructive policy. The package is pure; it
// never performs I/O.
package merge

import "github.com/larocca/refdesk/internal/reference"

// Policy selects how incoming fields interact with existing ones.
type Policy int

const (
	// PolicyEnrich keeps every non-empty existing field and only adopts
	// incoming values for fields that are still empty. This is the default
	// for background enrichment.
	PolicyEnrich Policy = iota

	// PolicyRefresh overwrites every field the incoming partial supplies a
	// non-empty value for. Used for explicit user actions such as a DOI
	// re-lookup. User-owned fields are still untouchable.
	PolicyRefresh
)

// Merge reconciles an incoming partial into an existing reference and
// returns the result. existing may be nil, meaning the partial seeds a new
// record. The merge is all-fields-or-nothing: the returned reference is a
// complete value and the input is never mutated.
//
// Regardless of policy, Notes, Favorite, CollectionIDs and
// Review.PersonalNotes belong to the user; Partial cannot carry them and
// Merge never changes them. Tags merge by union. CitationKey is only
// adopted when the existing key is empty.
func Merge(existing *reference.Reference, in reference.Partial, policy Policy) reference.Reference {
	if existing == nil {
		existing = &reference.Reference{}
	}
	out := existing.Clone()

	out.Title = pick(out.Title, in.Title, policy)
	out.Journal = pick(out.Journal, in.Journal, policy)
	out.Volume = pick(out.Volume, in.Volume, policy)
	out.Issue = pick(out.Issue, in.Issue, policy)
	out.Pages = pick(out.Pages, in.Pages, policy)
	out.Publisher = pick(out.Publisher, in.Publisher, policy)
	out.ISBN = pick(out.ISBN, in.ISBN, policy)
	out.ISSN = pick(out.ISSN, in.ISSN, policy)
	out.DOI = pick(out.DOI, in.DOI, policy)
	out.URL = pick(out.URL, in.URL, policy)
	out.Abstract = pick(out.Abstract, in.Abstract, policy)

	if in.Year != 0 && (out.Year == 0 || policy == PolicyRefresh) {
		out.Year = in.Year
	}
	if in.Type != "" && (out.Type == "" || policy == PolicyRefresh) {
		out.Type = in.Type
	}
	if len(in.Authors) > 0 && (len(out.Authors) == 0 || policy == PolicyRefresh) {
		out.Authors = append([]string(nil), in.Authors...)
	}
	if len(in.Editors) > 0 && (len(out.Editors) == 0 || policy == PolicyRefresh) {
		out.Editors = append([]string(nil), in.Editors...)
	}

	// Citation keys are sticky: once assigned they are never regenerated.
	if out.CitationKey == "" {
		out.CitationKey = in.CitationKey
	}

	out.Tags = unionTags(out.Tags, in.Tags)

	if in.Review != nil {
		out.Review = mergeReview(out.Review, in.Review, policy)
	}

	return out
}

// pick chooses between an existing and incoming string field.
func pick(existing, incoming string, policy Policy) string {
	if incoming == "" {
		return existing
	}
	if existing == "" || policy == PolicyRefresh {
		return incoming
	}
	return existing
}

// unionTags merges tag sets, preserving existing order and appending new
// tags in incoming order.
func unionTags(existing, incoming []string) []string {
	if len(incoming) == 0 {
		return existing
	}
	seen := make(map[string]bool, len(existing))
	out := append([]string(nil), existing...)
	for _, t := range existing {
		seen[t] = true
	}
	for _, t := range incoming {
		if t != "" && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// mergeReview folds an incoming review into the existing one field by
// field. PersonalNotes always keeps the existing value.
func mergeReview(existing, incoming *reference.TechnicalReview, policy Policy) *reference.TechnicalReview {
	if existing == nil {
		out := *incoming
		out.PersonalNotes = ""
		return &out
	}

	out := *existing
	out.Summary = pick(out.Summary, incoming.Summary, policy)
	out.ResearchQuestion = pick(out.ResearchQuestion, incoming.ResearchQuestion, policy)
	out.Methodology = pick(out.Methodology, incoming.Methodology, policy)
	out.KeyFindings = pick(out.KeyFindings, incoming.KeyFindings, policy)
	out.Strengths = pick(out.Strengths, incoming.Strengths, policy)
	out.Weaknesses = pick(out.Weaknesses, incoming.Weaknesses, policy)
	out.Contributions = pick(out.Contributions, incoming.Contributions, policy)
	out.FutureWork = pick(out.FutureWork, incoming.FutureWork, policy)
	if incoming.Rating != 0 && (out.Rating == 0 || policy == PolicyRefresh) {
		out.Rating = incoming.Rating
	}
	return &out
}
