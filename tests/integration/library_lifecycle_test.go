// Integration tests for the reference library: creation, querying,
// collections, attachments and export, all against a real on-disk library.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larocca/refdesk/internal/export"
	"github.com/larocca/refdesk/internal/library"
	"github.com/larocca/refdesk/internal/reference"
)

func newLibrary(t *testing.T) *library.Library {
	t.Helper()
	lib, err := library.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { lib.Close() })
	return lib
}

func TestLifecycle_CreateQueryExport(t *testing.T) {
	lib := newLibrary(t)
	ctx := context.Background()

	created, err := lib.Create(ctx, reference.Reference{
		Title:   "Likelihood Methods for Trees",
		Authors: []string{"Doe, Jane"},
		Year:    2024,
		Journal: "Systematic Biology",
		Type:    reference.TypeJournalArticle,
		Tags:    []string{"phylogenetics"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Doe2024", created.CitationKey)

	result, err := lib.Query(ctx, library.Filter{Search: "likelihood"})
	require.NoError(t, err)
	require.Len(t, result.References, 1)
	assert.Equal(t, created.ID, result.References[0].ID)

	bib := export.ToBibTeX(result.References[0])
	assert.True(t, strings.HasPrefix(bib, "@article{Doe2024,"), bib)
	assert.Contains(t, bib, "journal={Systematic Biology}")
	assert.NotContains(t, bib, ",\n}")
}

func TestLifecycle_CollectionsAndFavorites(t *testing.T) {
	lib := newLibrary(t)
	ctx := context.Background()

	coll, err := lib.CreateCollection(ctx, "to read", "#00ff00")
	require.NoError(t, err)

	var ids []string
	for _, title := range []string{"First", "Second", "Third"} {
		ref, err := lib.Create(ctx, reference.Reference{Title: title})
		require.NoError(t, err)
		ids = append(ids, ref.ID)
	}

	for _, id := range ids[:2] {
		require.NoError(t, lib.AddToCollection(ctx, id, coll.ID))
	}

	favResult := lib.BulkSetFavorite(ctx, ids[:1], true)
	assert.True(t, favResult.OK())

	byCollection, err := lib.Query(ctx, library.Filter{CollectionID: coll.ID})
	require.NoError(t, err)
	assert.Len(t, byCollection.References, 2)

	favorites, err := lib.Query(ctx, library.Filter{Folder: library.FolderFavorites})
	require.NoError(t, err)
	require.Len(t, favorites.References, 1)
	assert.Equal(t, ids[0], favorites.References[0].ID)

	// Cascade: deleting the collection scrubs memberships, nothing else.
	require.NoError(t, lib.DeleteCollection(ctx, coll.ID))
	for _, id := range ids[:2] {
		ref, err := lib.Get(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, ref.CollectionIDs)
	}
	favorites, err = lib.Query(ctx, library.Filter{Folder: library.FolderFavorites})
	require.NoError(t, err)
	assert.Len(t, favorites.References, 1, "favorite flag must survive the cascade")
}

func TestLifecycle_AttachmentFollowsReference(t *testing.T) {
	lib := newLibrary(t)
	ctx := context.Background()

	ref, err := lib.Create(ctx, reference.Reference{Title: "Has attachment"})
	require.NoError(t, err)

	pdfPath := filepath.Join(t.TempDir(), "paper.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.4 payload"), 0o644))

	attached, err := lib.AttachPDF(ctx, ref.ID, pdfPath)
	require.NoError(t, err)
	assert.True(t, attached.HasPDF)
	assert.FileExists(t, lib.BlobPath(attached.PDFID))

	require.NoError(t, lib.Delete(ctx, ref.ID))
	assert.NoFileExists(t, lib.BlobPath(attached.PDFID))

	_, err = lib.StatBlob(ctx, attached.PDFID)
	assert.True(t, library.IsNotFound(err))
}

func TestLifecycle_BulkDeleteReportsMissing(t *testing.T) {
	lib := newLibrary(t)
	ctx := context.Background()

	a, err := lib.Create(ctx, reference.Reference{Title: "A"})
	require.NoError(t, err)
	b, err := lib.Create(ctx, reference.Reference{Title: "B"})
	require.NoError(t, err)

	result := lib.BulkDelete(ctx, []string{a.ID, "no-such-id", b.ID})
	assert.Equal(t, []string{a.ID, b.ID}, result.Succeeded)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "no-such-id", result.Failed[0].ID)

	n, err := lib.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestLifecycle_ReopenPersists(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	lib, err := library.Open(root)
	require.NoError(t, err)
	created, err := lib.Create(ctx, reference.Reference{
		Title: "Durable", Notes: "survives restart",
	})
	require.NoError(t, err)
	require.NoError(t, lib.Close())

	reopened, err := library.Open(root)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Durable", got.Title)
	assert.Equal(t, "survives restart", got.Notes)
}
