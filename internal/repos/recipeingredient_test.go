package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/foodgram/foodgram-backend/internal/repos/testutil"
)

func TestSumByIngredientForUser(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewRecipeIngredientRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("aggr"))
	flour := testutil.SeedIngredient(t, ctx, tx, "мука", "г")
	sugar := testutil.SeedIngredient(t, ctx, tx, "сахар", "г")

	pancakes := testutil.SeedRecipe(t, ctx, tx, user.ID, "блины")
	cake := testutil.SeedRecipe(t, ctx, tx, user.ID, "пирог")

	testutil.SeedRecipeIngredient(t, ctx, tx, pancakes.ID, flour.ID, 100)
	testutil.SeedRecipeIngredient(t, ctx, tx, cake.ID, flour.ID, 100)
	testutil.SeedRecipeIngredient(t, ctx, tx, cake.ID, sugar.ID, 50)

	testutil.SeedCartEntry(t, ctx, tx, user.ID, pancakes.ID)
	testutil.SeedCartEntry(t, ctx, tx, user.ID, cake.ID)

	totals, err := repo.SumByIngredientForUser(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("SumByIngredientForUser: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("SumByIngredientForUser: expected 2 lines, got %d", len(totals))
	}
	// Ordered by ingredient name ascending.
	if totals[0].Name != "мука" || totals[0].Total != 200 {
		t.Fatalf("SumByIngredientForUser: expected мука=200 first, got %+v", totals[0])
	}
	if totals[1].Name != "сахар" || totals[1].Total != 50 {
		t.Fatalf("SumByIngredientForUser: expected сахар=50 second, got %+v", totals[1])
	}
}

func TestSumByIngredientForUserEmptyCart(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewRecipeIngredientRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("emptycart"))

	totals, err := repo.SumByIngredientForUser(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("SumByIngredientForUser: %v", err)
	}
	if len(totals) != 0 {
		t.Fatalf("SumByIngredientForUser: expected empty result, got %d", len(totals))
	}
}

func TestSumByIngredientIgnoresOtherUsersCarts(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewRecipeIngredientRepo(db, testutil.Logger(t))
	ctx := context.Background()

	owner := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("owner"))
	other := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("other"))
	salt := testutil.SeedIngredient(t, ctx, tx, "соль", "г")

	soup := testutil.SeedRecipe(t, ctx, tx, owner.ID, "суп")
	testutil.SeedRecipeIngredient(t, ctx, tx, soup.ID, salt.ID, 5)
	testutil.SeedCartEntry(t, ctx, tx, other.ID, soup.ID)

	totals, err := repo.SumByIngredientForUser(ctx, tx, owner.ID)
	if err != nil {
		t.Fatalf("SumByIngredientForUser: %v", err)
	}
	if len(totals) != 0 {
		t.Fatalf("SumByIngredientForUser: other user's cart leaked in: %+v", totals)
	}
}

func TestGetLineItemsByRecipeIDs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewRecipeIngredientRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("lines"))
	flour := testutil.SeedIngredient(t, ctx, tx, "мука", "г")
	recipe := testutil.SeedRecipe(t, ctx, tx, user.ID, "хлеб")
	testutil.SeedRecipeIngredient(t, ctx, tx, recipe.ID, flour.ID, 300)

	lines, err := repo.GetLineItemsByRecipeIDs(ctx, tx, []uuid.UUID{recipe.ID})
	if err != nil {
		t.Fatalf("GetLineItemsByRecipeIDs: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("GetLineItemsByRecipeIDs: expected 1 line, got %d", len(lines))
	}
	line := lines[0]
	if line.RecipeID != recipe.ID || line.IngredientID != flour.ID {
		t.Fatalf("GetLineItemsByRecipeIDs: wrong references: %+v", line)
	}
	if line.Name != "мука" || line.MeasurementUnit != "г" || line.Amount != 300 {
		t.Fatalf("GetLineItemsByRecipeIDs: wrong join payload: %+v", line)
	}
}
