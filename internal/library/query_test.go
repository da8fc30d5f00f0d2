package library

import (
	"context"
	"testing"

	"github.com/larocca/refdesk/internal/reference"
)

func seedQueryFixtures(t *testing.T, lib *Library) (fav, plain, tagged reference.Reference) {
	t.Helper()
	fav = mustCreate(t, lib, reference.Reference{
		Title:    "Deep Learning for Proteins",
		Authors:  []string{"Doe, Jane"},
		Journal:  "Cell",
		Favorite: true,
	})
	plain = mustCreate(t, lib, reference.Reference{
		Title:    "Bayesian Phylogenetics",
		Authors:  []string{"Smith, John"},
		Journal:  "Systematic Biology",
		Abstract: "Markov chain methods for trees.",
	})
	tagged = mustCreate(t, lib, reference.Reference{
		Title: "Sequence Alignment Revisited",
		Tags:  []string{"alignment", "review"},
	})
	return fav, plain, tagged
}

func ids(refs []reference.Reference) map[string]bool {
	out := make(map[string]bool, len(refs))
	for _, r := range refs {
		out[r.ID] = true
	}
	return out
}

func TestQueryAllFolder(t *testing.T) {
	lib := newTestLibrary(t)
	seedQueryFixtures(t, lib)

	result, err := lib.Query(context.Background(), Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Total != 3 || len(result.References) != 3 {
		t.Errorf("total = %d, len = %d, want 3", result.Total, len(result.References))
	}
}

func TestQueryFavoritesFolder(t *testing.T) {
	lib := newTestLibrary(t)
	fav, _, _ := seedQueryFixtures(t, lib)

	result, err := lib.Query(context.Background(), Filter{Folder: FolderFavorites})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.References) != 1 || result.References[0].ID != fav.ID {
		t.Errorf("favorites = %v", ids(result.References))
	}
}

func TestQueryCollectionFilter(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()
	fav, plain, _ := seedQueryFixtures(t, lib)

	coll, err := lib.CreateCollection(ctx, "methods", "")
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{fav.ID, plain.ID} {
		if err := lib.AddToCollection(ctx, id, coll.ID); err != nil {
			t.Fatal(err)
		}
	}

	result, err := lib.Query(ctx, Filter{CollectionID: coll.ID})
	if err != nil {
		t.Fatal(err)
	}
	got := ids(result.References)
	if len(got) != 2 || !got[fav.ID] || !got[plain.ID] {
		t.Errorf("collection members = %v", got)
	}
}

func TestQuerySearchIsCaseInsensitiveSubstring(t *testing.T) {
	lib := newTestLibrary(t)
	fav, plain, _ := seedQueryFixtures(t, lib)

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"title fragment", "phylogen", []string{plain.ID}},
		{"uppercase query", "PROTEINS", []string{fav.ID}},
		{"author family name", "smith", []string{plain.ID}},
		{"abstract text", "markov chain", []string{plain.ID}},
		{"no match", "zymurgy", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := lib.Query(context.Background(), Filter{Search: tt.search})
			if err != nil {
				t.Fatal(err)
			}
			got := ids(result.References)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d results, want %d", len(got), len(tt.want))
			}
			for _, id := range tt.want {
				if !got[id] {
					t.Errorf("missing %s in results", id)
				}
			}
		})
	}
}

func TestQuerySearchTreatsWildcardsLiterally(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()

	underscore := mustCreate(t, lib, reference.Reference{Title: "Imaging at 50_x magnification"})
	mustCreate(t, lib, reference.Reference{Title: "Imaging at 50Mx magnification"})
	percent := mustCreate(t, lib, reference.Reference{Title: "Coverage above 95% threshold"})
	mustCreate(t, lib, reference.Reference{Title: "Coverage above 950 reads"})

	tests := []struct {
		name   string
		search string
		want   string
	}{
		{"underscore is literal", "50_x", underscore.ID},
		{"percent is literal", "95%", percent.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := lib.Query(ctx, Filter{Search: tt.search})
			if err != nil {
				t.Fatal(err)
			}
			if len(result.References) != 1 || result.References[0].ID != tt.want {
				t.Errorf("results = %v, want exactly %s", ids(result.References), tt.want)
			}
		})
	}
}

func TestQuerySearchMatchesTags(t *testing.T) {
	lib := newTestLibrary(t)
	_, _, tagged := seedQueryFixtures(t, lib)

	result, err := lib.Query(context.Background(), Filter{Search: "alignment"})
	if err != nil {
		t.Fatal(err)
	}
	got := ids(result.References)
	if !got[tagged.ID] {
		t.Errorf("tag search missed tagged reference: %v", got)
	}
}

func TestSearchRanked(t *testing.T) {
	lib := newTestLibrary(t)
	_, plain, _ := seedQueryFixtures(t, lib)

	refs, err := lib.Search(context.Background(), "phylogenetics", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 1 || refs[0].ID != plain.ID {
		t.Errorf("ranked search results = %v", ids(refs))
	}
}
