package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/foodgram/foodgram-backend/internal/repos/testutil"
)

func TestIngredientRepoSearchByNamePrefix(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewIngredientRepo(db, testutil.Logger(t))
	ctx := context.Background()

	testutil.SeedIngredient(t, ctx, tx, "Картофель", "г")
	testutil.SeedIngredient(t, ctx, tx, "картофельный крахмал", "г")
	testutil.SeedIngredient(t, ctx, tx, "Шпинат", "г")

	found, err := repo.SearchByNamePrefix(ctx, tx, "карт")
	if err != nil {
		t.Fatalf("SearchByNamePrefix: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("SearchByNamePrefix: expected 2 matches, got %d", len(found))
	}
	for _, ing := range found {
		if ing.Name == "Шпинат" {
			t.Fatalf("SearchByNamePrefix: substring-only match leaked in: %+v", ing)
		}
	}

	none, err := repo.SearchByNamePrefix(ctx, tx, "шпинатный")
	if err != nil {
		t.Fatalf("SearchByNamePrefix (no match): %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("SearchByNamePrefix (no match): expected empty result, got %d", len(none))
	}
}

func TestIngredientRepoSearchEscapesWildcards(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewIngredientRepo(db, testutil.Logger(t))
	ctx := context.Background()

	testutil.SeedIngredient(t, ctx, tx, "соль", "г")

	found, err := repo.SearchByNamePrefix(ctx, tx, "%")
	if err != nil {
		t.Fatalf("SearchByNamePrefix: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("SearchByNamePrefix: %% should match literally, got %d rows", len(found))
	}
}

func TestIngredientRepoGetByIDs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewIngredientRepo(db, testutil.Logger(t))
	ctx := context.Background()

	seeded := testutil.SeedIngredient(t, ctx, tx, "мука", "г")

	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{seeded.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 1 || got[0].Name != "мука" {
		t.Fatalf("GetByIDs: unexpected result: %+v", got)
	}
}
