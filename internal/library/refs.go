package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/larocca/refdesk/internal/reference"
)

// selectRefFields is the standard column list for reference SELECTs.
const selectRefFields = `id, title, authors_json, year,
	journal, volume, issue, pages, publisher,
	isbn, issn, doi, url, abstract, ref_type,
	editors_json, citation_key, tags_json, collections_json,
	favorite, notes, pdf_id, review_json, added_at`

// Create persists a new reference. A fresh id is minted when none is set,
// AddedAt defaults to now, and an empty citation key is derived from the
// first author and year (with letter-suffix disambiguation against
// existing keys).
func (l *Library) Create(ctx context.Context, ref reference.Reference) (reference.Reference, error) {
	if ref.ID == "" {
		ref.ID = uuid.NewString()
	}
	if ref.AddedAt.IsZero() {
		ref.AddedAt = time.Now()
	}
	if ref.Type != "" && !ref.Type.Valid() {
		return reference.Reference{}, fmt.Errorf("%w: unknown type %q", ErrInvalid, ref.Type)
	}
	ref.HasPDF = ref.PDFID != ""

	if ref.CitationKey == "" && len(ref.Authors) > 0 && ref.Year > 0 {
		key := reference.DeriveCitationKey(ref.Authors, ref.Year)
		ref.CitationKey = reference.DisambiguateCitationKey(key, func(k string) bool {
			taken, err := l.citationKeyTaken(ctx, k)
			return err == nil && taken
		})
	}

	if err := l.insertRef(ctx, ref); err != nil {
		return reference.Reference{}, err
	}
	return ref, nil
}

// Get retrieves a reference by id. Returns ErrNotFound for unknown ids.
func (l *Library) Get(ctx context.Context, id string) (*reference.Reference, error) {
	row := l.db.QueryRowContext(ctx, `SELECT `+selectRefFields+` FROM refs WHERE id = ?`, id)
	ref, err := scanRef(row)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, fmt.Errorf("reference %s: %w", id, ErrNotFound)
	}
	return ref, nil
}

// Update applies mutate to the current persisted state of id under the
// reference's lock, then persists the result. Concurrent updates serialize
// in completion order, each reading the latest state rather than a stale
// snapshot. A cancelled context or a reference deleted in the meantime
// discards the mutation.
func (l *Library) Update(ctx context.Context, id string, mutate func(*reference.Reference) error) (*reference.Reference, error) {
	l.locks.lock(id)
	defer l.locks.unlock(id)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ref, err := l.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := mutate(ref); err != nil {
		return nil, err
	}
	if ref.Type != "" && !ref.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalid, ref.Type)
	}
	ref.ID = id // Identity is immutable
	ref.HasPDF = ref.PDFID != ""

	if err := l.saveRef(ctx, *ref); err != nil {
		return nil, err
	}
	return ref, nil
}

// Delete removes a reference and releases its blob, if any. A blob that is
// already gone does not block deletion of the record.
func (l *Library) Delete(ctx context.Context, id string) error {
	l.locks.lock(id)
	defer l.locks.unlock(id)
	return l.deleteLocked(ctx, id)
}

// deleteLocked deletes one reference; the caller holds the id's lock.
func (l *Library) deleteLocked(ctx context.Context, id string) error {
	ref, err := l.Get(ctx, id)
	if err != nil {
		return err
	}

	if ref.PDFID != "" {
		if err := l.DeleteBlob(ctx, ref.PDFID); err != nil && !IsNotFound(err) {
			return fmt.Errorf("releasing blob %s: %w", ref.PDFID, err)
		}
	}

	if _, err := l.db.ExecContext(ctx, `DELETE FROM refs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting reference: %w", err)
	}
	if _, err := l.db.ExecContext(ctx, `DELETE FROM refs_fts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting search row: %w", err)
	}
	return nil
}

// Count returns the total number of references.
func (l *Library) Count(ctx context.Context) (int, error) {
	var count int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM refs`).Scan(&count)
	return count, err
}

// citationKeyTaken reports whether any reference already uses the key.
func (l *Library) citationKeyTaken(ctx context.Context, key string) (bool, error) {
	var n int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM refs WHERE citation_key = ?`, key).Scan(&n)
	return n > 0, err
}

// insertRef inserts a new row plus its FTS mirror.
func (l *Library) insertRef(ctx context.Context, ref reference.Reference) error {
	cols, err := encodeRef(ref)
	if err != nil {
		return err
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO refs (
			id, title, authors_json, authors_text, year,
			journal, volume, issue, pages, publisher,
			isbn, issn, doi, url, abstract, ref_type,
			editors_json, citation_key, tags_json, tags_text, collections_json,
			favorite, notes, pdf_id, review_json, added_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ref.ID, ref.Title, cols.authorsJSON, cols.authorsText, ref.Year,
		ref.Journal, ref.Volume, ref.Issue, ref.Pages, ref.Publisher,
		ref.ISBN, ref.ISSN, ref.DOI, ref.URL, ref.Abstract, string(ref.Type),
		cols.editorsJSON, ref.CitationKey, cols.tagsJSON, cols.tagsText, cols.collectionsJSON,
		boolToInt(ref.Favorite), ref.Notes, ref.PDFID, cols.reviewJSON, ref.AddedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("inserting reference: %w", err)
	}

	return l.insertFTS(ctx, ref, cols)
}

// saveRef rewrites an existing row plus its FTS mirror.
func (l *Library) saveRef(ctx context.Context, ref reference.Reference) error {
	cols, err := encodeRef(ref)
	if err != nil {
		return err
	}

	res, err := l.db.ExecContext(ctx, `
		UPDATE refs SET
			title = ?, authors_json = ?, authors_text = ?, year = ?,
			journal = ?, volume = ?, issue = ?, pages = ?, publisher = ?,
			isbn = ?, issn = ?, doi = ?, url = ?, abstract = ?, ref_type = ?,
			editors_json = ?, citation_key = ?, tags_json = ?, tags_text = ?, collections_json = ?,
			favorite = ?, notes = ?, pdf_id = ?, review_json = ?, added_at = ?
		WHERE id = ?`,
		ref.Title, cols.authorsJSON, cols.authorsText, ref.Year,
		ref.Journal, ref.Volume, ref.Issue, ref.Pages, ref.Publisher,
		ref.ISBN, ref.ISSN, ref.DOI, ref.URL, ref.Abstract, string(ref.Type),
		cols.editorsJSON, ref.CitationKey, cols.tagsJSON, cols.tagsText, cols.collectionsJSON,
		boolToInt(ref.Favorite), ref.Notes, ref.PDFID, cols.reviewJSON, ref.AddedAt.Unix(),
		ref.ID,
	)
	if err != nil {
		return fmt.Errorf("updating reference: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("reference %s: %w", ref.ID, ErrNotFound)
	}

	if _, err := l.db.ExecContext(ctx, `DELETE FROM refs_fts WHERE id = ?`, ref.ID); err != nil {
		return fmt.Errorf("refreshing search row: %w", err)
	}
	return l.insertFTS(ctx, ref, cols)
}

// insertFTS inserts the FTS mirror row for a reference.
func (l *Library) insertFTS(ctx context.Context, ref reference.Reference, cols refColumns) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO refs_fts (id, title, abstract, authors_text, tags_text)
		VALUES (?, ?, ?, ?, ?)`,
		ref.ID, ref.Title, ref.Abstract, cols.authorsText, cols.tagsText,
	)
	if err != nil {
		return fmt.Errorf("indexing reference: %w", err)
	}
	return nil
}

// refColumns holds the derived/serialized columns of a reference row.
type refColumns struct {
	authorsJSON     string
	authorsText     string
	editorsJSON     string
	tagsJSON        string
	tagsText        string
	collectionsJSON string
	reviewJSON      sql.NullString
}

// encodeRef serializes slice and struct fields for storage.
func encodeRef(ref reference.Reference) (refColumns, error) {
	var cols refColumns

	authorsJSON, err := json.Marshal(emptyNotNil(ref.Authors))
	if err != nil {
		return cols, fmt.Errorf("marshaling authors: %w", err)
	}
	editorsJSON, err := json.Marshal(emptyNotNil(ref.Editors))
	if err != nil {
		return cols, fmt.Errorf("marshaling editors: %w", err)
	}
	tagsJSON, err := json.Marshal(emptyNotNil(ref.Tags))
	if err != nil {
		return cols, fmt.Errorf("marshaling tags: %w", err)
	}
	collectionsJSON, err := json.Marshal(emptyNotNil(ref.CollectionIDs))
	if err != nil {
		return cols, fmt.Errorf("marshaling collections: %w", err)
	}

	cols.authorsJSON = string(authorsJSON)
	cols.authorsText = strings.Join(ref.Authors, "; ")
	cols.editorsJSON = string(editorsJSON)
	cols.tagsJSON = string(tagsJSON)
	cols.tagsText = strings.Join(ref.Tags, " ")
	cols.collectionsJSON = string(collectionsJSON)

	if ref.Review != nil {
		reviewJSON, err := json.Marshal(ref.Review)
		if err != nil {
			return cols, fmt.Errorf("marshaling review: %w", err)
		}
		cols.reviewJSON = sql.NullString{String: string(reviewJSON), Valid: true}
	}

	return cols, nil
}

// emptyNotNil keeps JSON columns as [] rather than null.
func emptyNotNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// scanner covers sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRef scans one reference row. Returns (nil, nil) on sql.ErrNoRows so
// callers decide how missing records surface.
func scanRef(s scanner) (*reference.Reference, error) {
	var ref reference.Reference
	var authorsJSON, editorsJSON, tagsJSON, collectionsJSON, refType string
	var reviewJSON sql.NullString
	var favorite int
	var addedAt int64

	err := s.Scan(
		&ref.ID, &ref.Title, &authorsJSON, &ref.Year,
		&ref.Journal, &ref.Volume, &ref.Issue, &ref.Pages, &ref.Publisher,
		&ref.ISBN, &ref.ISSN, &ref.DOI, &ref.URL, &ref.Abstract, &refType,
		&editorsJSON, &ref.CitationKey, &tagsJSON, &collectionsJSON,
		&favorite, &ref.Notes, &ref.PDFID, &reviewJSON, &addedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	ref.Type = reference.Type(refType)
	ref.Favorite = favorite != 0
	ref.HasPDF = ref.PDFID != ""
	ref.AddedAt = time.Unix(addedAt, 0)

	for _, pair := range []struct {
		data string
		dst  *[]string
	}{
		{authorsJSON, &ref.Authors},
		{editorsJSON, &ref.Editors},
		{tagsJSON, &ref.Tags},
		{collectionsJSON, &ref.CollectionIDs},
	} {
		if err := json.Unmarshal([]byte(pair.data), pair.dst); err != nil {
			return nil, fmt.Errorf("parsing JSON column for %s: %w", ref.ID, err)
		}
		if len(*pair.dst) == 0 {
			*pair.dst = nil
		}
	}

	if reviewJSON.Valid && reviewJSON.String != "" {
		var review reference.TechnicalReview
		if err := json.Unmarshal([]byte(reviewJSON.String), &review); err != nil {
			return nil, fmt.Errorf("parsing review for %s: %w", ref.ID, err)
		}
		ref.Review = &review
	}

	return &ref, nil
}

// scanRefs scans all rows of a reference query.
func scanRefs(rows *sql.Rows) ([]reference.Reference, error) {
	var refs []reference.Reference
	for rows.Next() {
		ref, err := scanRef(rows)
		if err != nil {
			return nil, err
		}
		if ref != nil {
			refs = append(refs, *ref)
		}
	}
	return refs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
