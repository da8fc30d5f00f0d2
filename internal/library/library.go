// Package library implements the persistence core: the reference store,
// collection store and blob store, backed by a single SQLite database plus
// file payloads, with per-reference write serialization.
package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	// LibraryDir is the dot-directory marking a library root.
	LibraryDir = ".refdesk"
	// DBFile is the SQLite database file name.
	DBFile = "library.db"
	// BlobsDir holds binary attachment payloads, one file per blob id.
	BlobsDir = "blobs"
)

// Library is the authoritative store of references, collections and blobs.
type Library struct {
	db      *sql.DB
	root    string
	blobDir string
	locks   *keyedLocks
}

// Open opens (or initializes) the library under root/.refdesk.
func Open(root string) (*Library, error) {
	dir := filepath.Join(root, LibraryDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}
	blobDir := filepath.Join(dir, BlobsDir)
	if err := os.MkdirAll(blobDir, 0755); err != nil {
		return nil, fmt.Errorf("creating blobs directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, DBFile))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writers on one connection pool.
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Library{
		db:      db,
		root:    root,
		blobDir: blobDir,
		locks:   newKeyedLocks(),
	}, nil
}

// Close closes the underlying database.
func (l *Library) Close() error {
	return l.db.Close()
}

// Root returns the library root directory.
func (l *Library) Root() string {
	return l.root
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		-- Canonical reference records
		CREATE TABLE IF NOT EXISTS refs (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			authors_json TEXT NOT NULL DEFAULT '[]',
			authors_text TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL DEFAULT 0,
			journal TEXT NOT NULL DEFAULT '',
			volume TEXT NOT NULL DEFAULT '',
			issue TEXT NOT NULL DEFAULT '',
			pages TEXT NOT NULL DEFAULT '',
			publisher TEXT NOT NULL DEFAULT '',
			isbn TEXT NOT NULL DEFAULT '',
			issn TEXT NOT NULL DEFAULT '',
			doi TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			abstract TEXT NOT NULL DEFAULT '',
			ref_type TEXT NOT NULL DEFAULT '',
			editors_json TEXT NOT NULL DEFAULT '[]',
			citation_key TEXT NOT NULL DEFAULT '',
			tags_json TEXT NOT NULL DEFAULT '[]',
			tags_text TEXT NOT NULL DEFAULT '',
			collections_json TEXT NOT NULL DEFAULT '[]',
			favorite INTEGER NOT NULL DEFAULT 0,
			notes TEXT NOT NULL DEFAULT '',
			pdf_id TEXT NOT NULL DEFAULT '',
			review_json TEXT,
			added_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_refs_doi ON refs(doi) WHERE doi != '';
		CREATE INDEX IF NOT EXISTS idx_refs_citation_key ON refs(citation_key) WHERE citation_key != '';

		-- Full-text search mirror for the ranked search command
		CREATE VIRTUAL TABLE IF NOT EXISTS refs_fts USING fts5(
			id,
			title,
			abstract,
			authors_text,
			tags_text
		);

		-- User-defined groupings
		CREATE TABLE IF NOT EXISTS collections (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			color TEXT NOT NULL DEFAULT ''
		);

		-- Attachment metadata; payloads live under blobs/<id>.pdf
		CREATE TABLE IF NOT EXISTS blobs (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			mime_type TEXT NOT NULL DEFAULT '',
			size INTEGER NOT NULL DEFAULT 0,
			checksum TEXT NOT NULL DEFAULT ''
		);
	`

	_, err := db.Exec(schema)
	return err
}
