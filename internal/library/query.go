package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/larocca/refdesk/internal/reference"
)

// Folder selects one of the fixed library views.
type Folder string

const (
	// FolderAll applies no filter.
	FolderAll Folder = "all"
	// FolderRecent sorts by creation order, most recent first.
	FolderRecent Folder = "recent"
	// FolderFavorites selects favorite references only.
	FolderFavorites Folder = "favorites"
)

// Filter narrows a reference query. Zero value means everything.
type Filter struct {
	Folder       Folder
	CollectionID string // References whose collection set contains this id
	Search       string // Case-insensitive substring across title, authors, journal, abstract, tags
}

// QueryResult carries matching references plus the match count for UI
// feedback.
type QueryResult struct {
	References []reference.Reference `json:"references"`
	Total      int                   `json:"total"`
}

// Query returns references matching the filter. Results are in creation
// order (most recent first) for FolderRecent and insertion order
// otherwise.
func (l *Library) Query(ctx context.Context, f Filter) (QueryResult, error) {
	query := `SELECT ` + selectRefFields + ` FROM refs WHERE 1=1`
	var args []interface{}

	switch f.Folder {
	case FolderFavorites:
		query += ` AND favorite = 1`
	case FolderAll, FolderRecent, "":
		// No row filter
	default:
		return QueryResult{}, fmt.Errorf("%w: unknown folder %q", ErrInvalid, f.Folder)
	}

	if f.CollectionID != "" {
		// Collection ids are stored as a JSON array of quoted strings, so
		// matching the quoted id is exact.
		query += ` AND collections_json LIKE ?`
		args = append(args, `%"`+f.CollectionID+`"%`)
	}

	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		query += ` AND (lower(title) LIKE ? ESCAPE '\' OR lower(authors_text) LIKE ? ESCAPE '\'
			OR lower(journal) LIKE ? ESCAPE '\' OR lower(abstract) LIKE ? ESCAPE '\' OR lower(tags_text) LIKE ? ESCAPE '\')`
		needle := "%" + escapeLike(s) + "%"
		for i := 0; i < 5; i++ {
			args = append(args, needle)
		}
	}

	if f.Folder == FolderRecent {
		query += ` ORDER BY added_at DESC, rowid DESC`
	} else {
		query += ` ORDER BY rowid`
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return QueryResult{}, fmt.Errorf("querying references: %w", err)
	}
	defer rows.Close()

	refs, err := scanRefs(rows)
	if err != nil {
		return QueryResult{}, err
	}

	return QueryResult{References: refs, Total: len(refs)}, nil
}

// Search performs a ranked full-text search over titles, abstracts,
// authors and tags. Unlike Filter.Search's substring matching, this uses
// the FTS index and is meant for the interactive search command.
func (l *Library) Search(ctx context.Context, query string, limit int) ([]reference.Reference, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT `+selectRefFields+`
		FROM refs
		WHERE id IN (SELECT id FROM refs_fts WHERE refs_fts MATCH ?)
		LIMIT ?`, prepareFTSQuery(query), limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanRefs(rows)
}

// escapeLike escapes LIKE wildcards so a search string matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// If the query contains FTS5 operators, quote the whole thing.
	if strings.ContainsAny(query, "\"*+-:(){}[]^~") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
