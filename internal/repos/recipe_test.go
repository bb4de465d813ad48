package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/foodgram/foodgram-backend/internal/repos/testutil"
	"github.com/foodgram/foodgram-backend/internal/types"
)

func TestRecipeRepoListFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewRecipeRepo(db, testutil.Logger(t))
	ctx := context.Background()

	alice := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("alice"))
	bob := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("bob"))

	breakfast := testutil.SeedTag(t, ctx, tx, "завтрак-"+uuid.New().String()[:8], "breakfast-"+uuid.New().String()[:8])
	dinner := testutil.SeedTag(t, ctx, tx, "ужин-"+uuid.New().String()[:8], "dinner-"+uuid.New().String()[:8])

	both := testutil.SeedRecipe(t, ctx, tx, alice.ID, "каша")
	testutil.SeedRecipeTag(t, ctx, tx, both.ID, breakfast.ID)
	testutil.SeedRecipeTag(t, ctx, tx, both.ID, dinner.ID)

	onlyBreakfast := testutil.SeedRecipe(t, ctx, tx, bob.ID, "омлет")
	testutil.SeedRecipeTag(t, ctx, tx, onlyBreakfast.ID, breakfast.ID)

	// Author filter.
	got, total, err := repo.List(ctx, tx, RecipeListFilter{AuthorID: &alice.ID})
	if err != nil {
		t.Fatalf("List (author): %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].ID != both.ID {
		t.Fatalf("List (author): unexpected result: total=%d got=%+v", total, got)
	}

	// Single tag slug matches both recipes.
	got, total, err = repo.List(ctx, tx, RecipeListFilter{TagSlugs: []string{breakfast.Slug}})
	if err != nil {
		t.Fatalf("List (one slug): %v", err)
	}
	if total != 2 {
		t.Fatalf("List (one slug): expected 2, got %d", total)
	}

	// Repeated slugs are AND-combined: only the recipe carrying both.
	got, total, err = repo.List(ctx, tx, RecipeListFilter{TagSlugs: []string{breakfast.Slug, dinner.Slug}})
	if err != nil {
		t.Fatalf("List (two slugs): %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].ID != both.ID {
		t.Fatalf("List (two slugs): expected only the doubly-tagged recipe, total=%d", total)
	}
}

func TestRecipeRepoListMembershipFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewRecipeRepo(db, testutil.Logger(t))
	favRepo := NewFavoriteRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("member"))
	liked := testutil.SeedRecipe(t, ctx, tx, user.ID, "плов")
	inCart := testutil.SeedRecipe(t, ctx, tx, user.ID, "суп")

	if _, err := favRepo.Create(ctx, tx, &types.Favorite{ID: uuid.New(), UserID: user.ID, RecipeID: liked.ID}); err != nil {
		t.Fatalf("Create favorite: %v", err)
	}
	testutil.SeedCartEntry(t, ctx, tx, user.ID, inCart.ID)

	got, total, err := repo.List(ctx, tx, RecipeListFilter{FavoritedBy: &user.ID})
	if err != nil {
		t.Fatalf("List (favorited): %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].ID != liked.ID {
		t.Fatalf("List (favorited): unexpected result: total=%d", total)
	}

	got, total, err = repo.List(ctx, tx, RecipeListFilter{InCartOf: &user.ID})
	if err != nil {
		t.Fatalf("List (in cart): %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].ID != inCart.ID {
		t.Fatalf("List (in cart): unexpected result: total=%d", total)
	}
}

func TestRecipeRepoDeleteCascades(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewRecipeRepo(db, testutil.Logger(t))
	favRepo := NewFavoriteRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("cascade"))
	recipe := testutil.SeedRecipe(t, ctx, tx, user.ID, "окрошка")
	flour := testutil.SeedIngredient(t, ctx, tx, "мука-"+uuid.New().String()[:8], "г")
	testutil.SeedRecipeIngredient(t, ctx, tx, recipe.ID, flour.ID, 100)
	testutil.SeedCartEntry(t, ctx, tx, user.ID, recipe.ID)
	if _, err := favRepo.Create(ctx, tx, &types.Favorite{ID: uuid.New(), UserID: user.ID, RecipeID: recipe.ID}); err != nil {
		t.Fatalf("Create favorite: %v", err)
	}

	if err := repo.Delete(ctx, tx, recipe.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	for _, table := range []string{"recipe_ingredient", "favorite", "shopping_cart"} {
		var count int64
		if err := tx.Table(table).Where("recipe_id = ?", recipe.ID).Count(&count).Error; err != nil {
			t.Fatalf("Count %s: %v", table, err)
		}
		if count != 0 {
			t.Fatalf("expected %s rows to go with the recipe, found %d", table, count)
		}
	}
}

func TestRecipeRepoUpdateFields(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewRecipeRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("update"))
	recipe := testutil.SeedRecipe(t, ctx, tx, user.ID, "старое имя")

	if err := repo.UpdateFields(ctx, tx, recipe.ID, map[string]any{"name": "новое имя", "cooking_time": 25}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{recipe.ID})
	if err != nil || len(got) != 1 {
		t.Fatalf("GetByIDs: %v (%d rows)", err, len(got))
	}
	if got[0].Name != "новое имя" || got[0].CookingTime != 25 {
		t.Fatalf("UpdateFields: not applied: %+v", got[0])
	}
	if got[0].Text != recipe.Text {
		t.Fatalf("UpdateFields: untouched field changed: %+v", got[0])
	}
}
