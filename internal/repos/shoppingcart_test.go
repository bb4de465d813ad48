package repos

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/foodgram-backend/internal/repos/testutil"
	"github.com/foodgram/foodgram-backend/internal/types"
)

func TestShoppingCartRepoDuplicatePair(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewShoppingCartRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("cart"))
	recipe := testutil.SeedRecipe(t, ctx, tx, user.ID, "борщ")

	if _, err := repo.Create(ctx, tx, &types.ShoppingCart{ID: uuid.New(), UserID: user.ID, RecipeID: recipe.ID}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := tx.Transaction(func(inner *gorm.DB) error {
		_, err := repo.Create(ctx, inner, &types.ShoppingCart{ID: uuid.New(), UserID: user.ID, RecipeID: recipe.ID})
		return err
	})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicated key error, got %v", err)
	}
}

func TestShoppingCartRepoDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewShoppingCartRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("cart"))
	recipe := testutil.SeedRecipe(t, ctx, tx, user.ID, "борщ")
	testutil.SeedCartEntry(t, ctx, tx, user.ID, recipe.ID)

	removed, err := repo.Delete(ctx, tx, user.ID, recipe.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !removed {
		t.Fatal("expected first delete to remove a row")
	}

	removed, err = repo.Delete(ctx, tx, user.ID, recipe.ID)
	if err != nil {
		t.Fatalf("Delete (absent): %v", err)
	}
	if removed {
		t.Fatal("expected second delete to report no row")
	}
}

func TestShoppingCartRepoGetRecipeIDSet(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewShoppingCartRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("cart"))
	inCart := testutil.SeedRecipe(t, ctx, tx, user.ID, "в корзине")
	outside := testutil.SeedRecipe(t, ctx, tx, user.ID, "не в корзине")
	testutil.SeedCartEntry(t, ctx, tx, user.ID, inCart.ID)

	set, err := repo.GetRecipeIDSet(ctx, tx, user.ID, []uuid.UUID{inCart.ID, outside.ID})
	if err != nil {
		t.Fatalf("GetRecipeIDSet: %v", err)
	}
	if _, ok := set[inCart.ID]; !ok {
		t.Fatal("GetRecipeIDSet: missing recipe that is in the cart")
	}
	if _, ok := set[outside.ID]; ok {
		t.Fatal("GetRecipeIDSet: contains recipe that is not in the cart")
	}
}
