package library

import (
	"context"
	"testing"

	"github.com/larocca/refdesk/internal/reference"
)

func TestBulkDeleteContinuesPastMissing(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()

	a := mustCreate(t, lib, reference.Reference{Title: "A"})
	b := mustCreate(t, lib, reference.Reference{Title: "B"})

	result := lib.BulkDelete(ctx, []string{a.ID, "missing", b.ID})
	if len(result.Succeeded) != 2 {
		t.Fatalf("succeeded = %v, want 2 ids", result.Succeeded)
	}
	if result.Succeeded[0] != a.ID || result.Succeeded[1] != b.ID {
		t.Errorf("succeeded ids = %v, want [%s %s]", result.Succeeded, a.ID, b.ID)
	}
	if len(result.Failed) != 1 || result.Failed[0].ID != "missing" {
		t.Errorf("failed = %+v", result.Failed)
	}
	if result.OK() {
		t.Error("OK() true despite a failure")
	}

	for _, id := range []string{a.ID, b.ID} {
		if _, err := lib.Get(ctx, id); !IsNotFound(err) {
			t.Errorf("reference %s survived bulk delete", id)
		}
	}
}

func TestBulkSetFavorite(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()

	a := mustCreate(t, lib, reference.Reference{Title: "A"})
	b := mustCreate(t, lib, reference.Reference{Title: "B", Favorite: true})

	result := lib.BulkSetFavorite(ctx, []string{a.ID, b.ID, "missing"}, true)
	if len(result.Succeeded) != 2 || len(result.Failed) != 1 {
		t.Errorf("result = %+v", result)
	}

	for _, id := range []string{a.ID, b.ID} {
		ref, err := lib.Get(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if !ref.Favorite {
			t.Errorf("reference %s not favorited", id)
		}
	}

	result = lib.BulkSetFavorite(ctx, []string{a.ID}, false)
	if !result.OK() {
		t.Fatalf("unfavorite failed: %+v", result.Failed)
	}
	ref, err := lib.Get(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if ref.Favorite {
		t.Error("unfavorite did not persist")
	}
}
