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

func TestFavoriteRepoDuplicatePair(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewFavoriteRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("fav"))
	recipe := testutil.SeedRecipe(t, ctx, tx, user.ID, "борщ")

	if _, err := repo.Create(ctx, tx, &types.Favorite{ID: uuid.New(), UserID: user.ID, RecipeID: recipe.ID}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Savepoint so the failed insert does not poison the test transaction.
	err := tx.Transaction(func(inner *gorm.DB) error {
		_, err := repo.Create(ctx, inner, &types.Favorite{ID: uuid.New(), UserID: user.ID, RecipeID: recipe.ID})
		return err
	})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("Create (duplicate): expected gorm.ErrDuplicatedKey, got %v", err)
	}

	var count int64
	if err := tx.WithContext(ctx).Model(&types.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", user.ID, recipe.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("count favorites: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 favorite row, got %d", count)
	}
}

func TestFavoriteRepoDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewFavoriteRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("favdel"))
	recipe := testutil.SeedRecipe(t, ctx, tx, user.ID, "каша")

	if _, err := repo.Create(ctx, tx, &types.Favorite{ID: uuid.New(), UserID: user.ID, RecipeID: recipe.ID}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	deleted, err := repo.Delete(ctx, tx, user.ID, recipe.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatalf("Delete: expected a row to be removed")
	}

	deleted, err = repo.Delete(ctx, tx, user.ID, recipe.ID)
	if err != nil {
		t.Fatalf("Delete (absent): %v", err)
	}
	if deleted {
		t.Fatalf("Delete (absent): expected no row to be removed")
	}
}

func TestFavoriteRepoGetRecipeIDSet(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewFavoriteRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, testutil.UniqueEmail("favset"))
	liked := testutil.SeedRecipe(t, ctx, tx, user.ID, "плов")
	skipped := testutil.SeedRecipe(t, ctx, tx, user.ID, "омлет")

	if _, err := repo.Create(ctx, tx, &types.Favorite{ID: uuid.New(), UserID: user.ID, RecipeID: liked.ID}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	set, err := repo.GetRecipeIDSet(ctx, tx, user.ID, []uuid.UUID{liked.ID, skipped.ID})
	if err != nil {
		t.Fatalf("GetRecipeIDSet: %v", err)
	}
	if _, ok := set[liked.ID]; !ok {
		t.Fatalf("GetRecipeIDSet: favorited recipe missing from set")
	}
	if _, ok := set[skipped.ID]; ok {
		t.Fatalf("GetRecipeIDSet: non-favorited recipe present in set")
	}
}
