package library

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/larocca/refdesk/internal/reference"
)

func newTestLibrary(t *testing.T) *Library {
	t.Helper()
	lib, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("opening library: %v", err)
	}
	t.Cleanup(func() { lib.Close() })
	return lib
}

func mustCreate(t *testing.T, lib *Library, ref reference.Reference) reference.Reference {
	t.Helper()
	created, err := lib.Create(context.Background(), ref)
	if err != nil {
		t.Fatalf("creating reference: %v", err)
	}
	return created
}

func TestCreateAndGet(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()

	created := mustCreate(t, lib, reference.Reference{
		Title:   "Adaptive Immune Repertoires",
		Authors: []string{"Doe, Jane", "Smith, John"},
		Year:    2024,
		Journal: "Nature",
		Type:    reference.TypeJournalArticle,
		Tags:    []string{"immunology"},
		Notes:   "read later",
	})

	if created.ID == "" {
		t.Fatal("Create did not mint an id")
	}
	if created.CitationKey != "Doe2024" {
		t.Errorf("citation key = %q, want Doe2024", created.CitationKey)
	}
	if created.AddedAt.IsZero() {
		t.Error("AddedAt not set")
	}

	got, err := lib.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != created.Title || got.Journal != "Nature" || got.Notes != "read later" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if len(got.Authors) != 2 || got.Authors[0] != "Doe, Jane" {
		t.Errorf("authors round trip: %v", got.Authors)
	}
}

func TestCreateDisambiguatesCitationKeys(t *testing.T) {
	lib := newTestLibrary(t)

	first := mustCreate(t, lib, reference.Reference{
		Title: "Paper One", Authors: []string{"Doe, Jane"}, Year: 2024,
	})
	second := mustCreate(t, lib, reference.Reference{
		Title: "Paper Two", Authors: []string{"Doe, Alex"}, Year: 2024,
	})

	if first.CitationKey != "Doe2024" {
		t.Errorf("first key = %q", first.CitationKey)
	}
	if second.CitationKey != "Doe2024b" {
		t.Errorf("second key = %q, want Doe2024b", second.CitationKey)
	}
}

func TestCreateRejectsUnknownType(t *testing.T) {
	lib := newTestLibrary(t)
	_, err := lib.Create(context.Background(), reference.Reference{
		Title: "Bad", Type: reference.Type("Blog Post"),
	})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("error = %v, want ErrInvalid", err)
	}
}

func TestGetNotFound(t *testing.T) {
	lib := newTestLibrary(t)
	_, err := lib.Get(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestUpdatePersistsMutation(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()

	created := mustCreate(t, lib, reference.Reference{Title: "Before"})

	updated, err := lib.Update(ctx, created.ID, func(ref *reference.Reference) error {
		ref.Title = "After"
		ref.Favorite = true
		ref.Review = &reference.TechnicalReview{Summary: "fine", Rating: 3}
		return nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "After" || !updated.Favorite {
		t.Errorf("update result: %+v", updated)
	}

	got, err := lib.Get(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "After" || !got.Favorite {
		t.Errorf("persisted state: %+v", got)
	}
	if got.Review == nil || got.Review.Rating != 3 {
		t.Errorf("review not persisted: %+v", got.Review)
	}
}

func TestUpdateNotFound(t *testing.T) {
	lib := newTestLibrary(t)
	_, err := lib.Update(context.Background(), "missing", func(ref *reference.Reference) error {
		return nil
	})
	if !IsNotFound(err) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestUpdateCancelledContextDiscardsMutation(t *testing.T) {
	lib := newTestLibrary(t)
	created := mustCreate(t, lib, reference.Reference{Title: "Original"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := lib.Update(ctx, created.ID, func(ref *reference.Reference) error {
		ref.Title = "Should not land"
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}

	got, err := lib.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Original" {
		t.Errorf("cancelled update was applied: %q", got.Title)
	}
}

func TestDeleteRemovesReference(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()

	created := mustCreate(t, lib, reference.Reference{Title: "Doomed"})
	if err := lib.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := lib.Get(ctx, created.ID); !IsNotFound(err) {
		t.Errorf("reference still present after delete: %v", err)
	}
	if err := lib.Delete(ctx, created.ID); !IsNotFound(err) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestAddedAtOrderSurvivesRoundTrip(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()

	old := mustCreate(t, lib, reference.Reference{
		Title:   "Old",
		AddedAt: time.Now().Add(-time.Hour),
	})
	fresh := mustCreate(t, lib, reference.Reference{Title: "Fresh"})

	result, err := lib.Query(ctx, Filter{Folder: FolderRecent})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.References) != 2 {
		t.Fatalf("got %d references", len(result.References))
	}
	if result.References[0].ID != fresh.ID || result.References[1].ID != old.ID {
		t.Errorf("recent order wrong: %s, %s", result.References[0].Title, result.References[1].Title)
	}
}
