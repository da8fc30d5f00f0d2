package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/larocca/refdesk/internal/reference"
)

// CollectionInfo is a collection plus its current reference count.
type CollectionInfo struct {
	reference.Collection
	Count int `json:"count"`
}

// CreateCollection creates a named, colored grouping.
func (l *Library) CreateCollection(ctx context.Context, name, color string) (reference.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return reference.Collection{}, fmt.Errorf("%w: collection name must not be empty", ErrInvalid)
	}

	col := reference.Collection{ID: uuid.NewString(), Name: name, Color: color}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO collections (id, name, color) VALUES (?, ?, ?)`,
		col.ID, col.Name, col.Color)
	if err != nil {
		return reference.Collection{}, fmt.Errorf("creating collection: %w", err)
	}
	return col, nil
}

// GetCollection retrieves a collection by id.
func (l *Library) GetCollection(ctx context.Context, id string) (*reference.Collection, error) {
	var col reference.Collection
	err := l.db.QueryRowContext(ctx,
		`SELECT id, name, color FROM collections WHERE id = ?`, id).
		Scan(&col.ID, &col.Name, &col.Color)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("collection %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting collection: %w", err)
	}
	return &col, nil
}

// RenameCollection changes a collection's name.
func (l *Library) RenameCollection(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: collection name must not be empty", ErrInvalid)
	}
	return l.updateCollectionField(ctx, id, "name", name)
}

// SetCollectionColor changes a collection's presentation color.
func (l *Library) SetCollectionColor(ctx context.Context, id, color string) error {
	return l.updateCollectionField(ctx, id, "color", color)
}

func (l *Library) updateCollectionField(ctx context.Context, id, field, value string) error {
	res, err := l.db.ExecContext(ctx,
		`UPDATE collections SET `+field+` = ? WHERE id = ?`, value, id)
	if err != nil {
		return fmt.Errorf("updating collection: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("collection %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteCollection removes a collection and scrubs its id from every
// reference's collection set. Both steps run in one transaction so no
// reader observes a deleted collection still referenced. Every member's
// lock is held during the scrub, so a concurrent Update cannot write back
// a snapshot that still carries the id.
func (l *Library) DeleteCollection(ctx context.Context, id string) error {
	memberIDs, err := l.collectionMemberIDs(ctx, id)
	if err != nil {
		return err
	}
	sort.Strings(memberIDs)
	for _, refID := range memberIDs {
		l.locks.lock(refID)
		defer l.locks.unlock(refID)
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("collection %s: %w", id, ErrNotFound)
	}

	// Scrub membership. Only rows that actually contain the id are
	// rewritten; everything else on those references stays untouched.
	rows, err := tx.QueryContext(ctx,
		`SELECT id, collections_json FROM refs WHERE collections_json LIKE ?`,
		`%"`+id+`"%`)
	if err != nil {
		return fmt.Errorf("finding member references: %w", err)
	}

	type member struct {
		refID string
		ids   []string
	}
	var members []member
	for rows.Next() {
		var m member
		var raw string
		if err := rows.Scan(&m.refID, &raw); err != nil {
			rows.Close()
			return err
		}
		if err := json.Unmarshal([]byte(raw), &m.ids); err != nil {
			rows.Close()
			return fmt.Errorf("parsing collections for %s: %w", m.refID, err)
		}
		members = append(members, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, m := range members {
		kept := m.ids[:0]
		for _, cid := range m.ids {
			if cid != id {
				kept = append(kept, cid)
			}
		}
		data, err := json.Marshal(emptyNotNil(kept))
		if err != nil {
			return fmt.Errorf("marshaling collections for %s: %w", m.refID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE refs SET collections_json = ? WHERE id = ?`, string(data), m.refID); err != nil {
			return fmt.Errorf("scrubbing reference %s: %w", m.refID, err)
		}
	}

	return tx.Commit()
}

// collectionMemberIDs lists the ids of references that carry the
// collection id.
func (l *Library) collectionMemberIDs(ctx context.Context, id string) ([]string, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id FROM refs WHERE collections_json LIKE ?`, `%"`+id+`"%`)
	if err != nil {
		return nil, fmt.Errorf("finding member references: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var refID string
		if err := rows.Scan(&refID); err != nil {
			return nil, err
		}
		ids = append(ids, refID)
	}
	return ids, rows.Err()
}

// Collections lists all collections with their reference counts.
func (l *Library) Collections(ctx context.Context) ([]CollectionInfo, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT id, name, color FROM collections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	defer rows.Close()

	var infos []CollectionInfo
	for rows.Next() {
		var info CollectionInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.Color); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range infos {
		var n int
		err := l.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM refs WHERE collections_json LIKE ?`,
			`%"`+infos[i].ID+`"%`).Scan(&n)
		if err != nil {
			return nil, fmt.Errorf("counting members: %w", err)
		}
		infos[i].Count = n
	}

	return infos, nil
}

// AddToCollection adds a reference to a collection, verifying both exist.
func (l *Library) AddToCollection(ctx context.Context, refID, collectionID string) error {
	if _, err := l.GetCollection(ctx, collectionID); err != nil {
		return err
	}
	_, err := l.Update(ctx, refID, func(ref *reference.Reference) error {
		if !ref.InCollection(collectionID) {
			ref.CollectionIDs = append(ref.CollectionIDs, collectionID)
		}
		return nil
	})
	return err
}

// RemoveFromCollection removes a reference from a collection.
func (l *Library) RemoveFromCollection(ctx context.Context, refID, collectionID string) error {
	_, err := l.Update(ctx, refID, func(ref *reference.Reference) error {
		kept := ref.CollectionIDs[:0]
		for _, cid := range ref.CollectionIDs {
			if cid != collectionID {
				kept = append(kept, cid)
			}
		}
		if len(kept) == 0 {
			kept = nil
		}
		ref.CollectionIDs = kept
		return nil
	})
	return err
}
