package library

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/larocca/refdesk/internal/reference"
)

// PutBlob stores a binary payload and its metadata, returning the minted
// blob id. The payload is written to its final path before the metadata
// row becomes visible, so a metadata row always has a payload behind it.
func (l *Library) PutBlob(ctx context.Context, r io.Reader, name, mimeType string) (reference.BlobInfo, error) {
	if mimeType == "" {
		mimeType = "application/pdf"
	}
	info := reference.BlobInfo{
		ID:       uuid.NewString(),
		Name:     name,
		MimeType: mimeType,
	}

	path := l.BlobPath(info.ID)
	f, err := os.Create(path)
	if err != nil {
		return reference.BlobInfo{}, fmt.Errorf("creating blob file: %w", err)
	}

	hasher, err := blake2b.New256(nil)
	if err != nil {
		f.Close()
		os.Remove(path)
		return reference.BlobInfo{}, err
	}

	size, err := io.Copy(io.MultiWriter(f, hasher), r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return reference.BlobInfo{}, fmt.Errorf("writing blob payload: %w", err)
	}

	info.Size = size
	info.Checksum = hex.EncodeToString(hasher.Sum(nil))

	_, err = l.db.ExecContext(ctx,
		`INSERT INTO blobs (id, name, mime_type, size, checksum) VALUES (?, ?, ?, ?, ?)`,
		info.ID, info.Name, info.MimeType, info.Size, info.Checksum)
	if err != nil {
		os.Remove(path)
		return reference.BlobInfo{}, fmt.Errorf("recording blob metadata: %w", err)
	}

	return info, nil
}

// StatBlob returns the metadata of a stored blob.
func (l *Library) StatBlob(ctx context.Context, id string) (reference.BlobInfo, error) {
	var info reference.BlobInfo
	err := l.db.QueryRowContext(ctx,
		`SELECT id, name, mime_type, size, checksum FROM blobs WHERE id = ?`, id).
		Scan(&info.ID, &info.Name, &info.MimeType, &info.Size, &info.Checksum)
	if err == sql.ErrNoRows {
		return reference.BlobInfo{}, fmt.Errorf("blob %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return reference.BlobInfo{}, fmt.Errorf("getting blob metadata: %w", err)
	}
	return info, nil
}

// OpenBlob opens a stored payload for reading.
func (l *Library) OpenBlob(ctx context.Context, id string) (io.ReadCloser, reference.BlobInfo, error) {
	info, err := l.StatBlob(ctx, id)
	if err != nil {
		return nil, reference.BlobInfo{}, err
	}
	f, err := os.Open(l.BlobPath(id))
	if err != nil {
		return nil, reference.BlobInfo{}, fmt.Errorf("opening blob payload: %w", err)
	}
	return f, info, nil
}

// DeleteBlob removes a blob's metadata and payload. The metadata row goes
// first so a crash never leaves a row pointing at nothing.
func (l *Library) DeleteBlob(ctx context.Context, id string) error {
	res, err := l.db.ExecContext(ctx, `DELETE FROM blobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting blob metadata: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("blob %s: %w", id, ErrNotFound)
	}

	if err := os.Remove(l.BlobPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting blob payload: %w", err)
	}
	return nil
}

// BlobPath returns the payload path for a blob id.
func (l *Library) BlobPath(id string) string {
	return filepath.Join(l.blobDir, id+".pdf")
}

// AttachPDF stores the file at path as the reference's attachment. An
// existing attachment is replaced: the reference is repointed first, then
// the old payload released.
func (l *Library) AttachPDF(ctx context.Context, refID, path string) (*reference.Reference, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	info, err := l.PutBlob(ctx, f, filepath.Base(path), "application/pdf")
	if err != nil {
		return nil, err
	}

	var previous string
	ref, err := l.Update(ctx, refID, func(ref *reference.Reference) error {
		previous = ref.PDFID
		ref.PDFID = info.ID
		return nil
	})
	if err != nil {
		// The reference is gone or the update failed; don't orphan the
		// payload we just wrote.
		_ = l.DeleteBlob(ctx, info.ID)
		return nil, err
	}

	if previous != "" {
		if err := l.DeleteBlob(ctx, previous); err != nil && !IsNotFound(err) {
			return ref, fmt.Errorf("releasing replaced blob: %w", err)
		}
	}
	return ref, nil
}

// DetachPDF removes the reference's attachment. The reference is cleared
// before the blob is released, keeping the pdf link invariant.
func (l *Library) DetachPDF(ctx context.Context, refID string) (*reference.Reference, error) {
	var previous string
	ref, err := l.Update(ctx, refID, func(ref *reference.Reference) error {
		if ref.PDFID == "" {
			return ErrNoPDF
		}
		previous = ref.PDFID
		ref.PDFID = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := l.DeleteBlob(ctx, previous); err != nil && !IsNotFound(err) {
		return ref, fmt.Errorf("releasing blob: %w", err)
	}
	return ref, nil
}
