package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/foodgram-backend/internal/apierr"
	"github.com/foodgram/foodgram-backend/internal/dto"
	"github.com/foodgram/foodgram-backend/internal/repos"
	"github.com/foodgram/foodgram-backend/internal/repos/testutil"
	"github.com/foodgram/foodgram-backend/internal/requestdata"
	"github.com/foodgram/foodgram-backend/internal/types"
)

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected an api error, got %v", err)
	}
	if apiErr.Code != code {
		t.Fatalf("expected %s, got %q", code, apiErr.Code)
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertErrorCode(t, err, "validation_error")
}

// Service tests run the services' own committed transactions, so fixtures
// are seeded straight on the shared handle and removed afterwards; deleting
// the users cascades to everything they own.
func asUser(userID uuid.UUID) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})
}

func cleanupSeeded(t *testing.T, db *gorm.DB, userIDs, tagIDs, ingredientIDs []uuid.UUID) {
	t.Cleanup(func() {
		if len(userIDs) > 0 {
			db.Where("id IN ?", userIDs).Delete(&types.User{})
		}
		if len(tagIDs) > 0 {
			db.Where("id IN ?", tagIDs).Delete(&types.Tag{})
		}
		if len(ingredientIDs) > 0 {
			db.Where("id IN ?", ingredientIDs).Delete(&types.Ingredient{})
		}
	})
}

func newRecipeServiceOnDB(t *testing.T, db *gorm.DB) RecipeService {
	t.Helper()
	log := testutil.Logger(t)
	return NewRecipeService(
		db,
		log,
		repos.NewUserRepo(db, log),
		repos.NewTagRepo(db, log),
		repos.NewIngredientRepo(db, log),
		repos.NewRecipeRepo(db, log),
		repos.NewRecipeIngredientRepo(db, log),
		repos.NewRecipeTagRepo(db, log),
		repos.NewFavoriteRepo(db, log),
		repos.NewShoppingCartRepo(db, log),
		repos.NewSubscriptionRepo(db, log),
	)
}

func TestRecipeServiceModifyRequiresOwnership(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()

	owner := testutil.SeedUser(t, ctx, db, testutil.UniqueEmail("owner"))
	intruder := testutil.SeedUser(t, ctx, db, testutil.UniqueEmail("intruder"))
	cleanupSeeded(t, db, []uuid.UUID{owner.ID, intruder.ID}, nil, nil)
	recipe := testutil.SeedRecipe(t, ctx, db, owner.ID, "фирменный суп")

	svc := newRecipeServiceOnDB(t, db)

	name := "чужое имя"
	_, err := svc.Update(asUser(intruder.ID), recipe.ID, dto.RecipeUpdateRequest{Name: &name})
	assertErrorCode(t, err, "forbidden")

	err = svc.Delete(asUser(intruder.ID), recipe.ID)
	assertErrorCode(t, err, "forbidden")

	var survivors []*types.Recipe
	if err := db.Where("id = ?", recipe.ID).Find(&survivors).Error; err != nil {
		t.Fatalf("reload recipe: %v", err)
	}
	if len(survivors) != 1 || survivors[0].Name != recipe.Name {
		t.Fatalf("expected recipe untouched after rejected modifications, got %+v", survivors)
	}
}

func TestRecipeServiceUpdateReplacesLineItems(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()

	owner := testutil.SeedUser(t, ctx, db, testutil.UniqueEmail("replace"))
	flour := testutil.SeedIngredient(t, ctx, db, "мука-"+uuid.New().String()[:8], "г")
	sugar := testutil.SeedIngredient(t, ctx, db, "сахар-"+uuid.New().String()[:8], "г")
	cleanupSeeded(t, db, []uuid.UUID{owner.ID}, nil, []uuid.UUID{flour.ID, sugar.ID})
	recipe := testutil.SeedRecipe(t, ctx, db, owner.ID, "бисквит")
	testutil.SeedRecipeIngredient(t, ctx, db, recipe.ID, flour.ID, 100)

	svc := newRecipeServiceOnDB(t, db)

	resp, err := svc.Update(asUser(owner.ID), recipe.ID, dto.RecipeUpdateRequest{
		Ingredients: []dto.IngredientAmount{{ID: sugar.ID, Amount: 5}},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(resp.Ingredients) != 1 || resp.Ingredients[0].ID != sugar.ID || resp.Ingredients[0].Amount != 5 {
		t.Fatalf("expected only the new line item in the response, got %+v", resp.Ingredients)
	}

	var count int64
	if err := db.Table("recipe_ingredient").
		Where("recipe_id = ? AND ingredient_id = ?", recipe.ID, flour.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("Count old line items: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected the old line item set to be fully replaced, %d rows remain", count)
	}
	if err := db.Table("recipe_ingredient").
		Where("recipe_id = ?", recipe.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("Count line items: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one line item after replacement, got %d", count)
	}
}

func TestValidateIngredients(t *testing.T) {
	assertValidationError(t, validateIngredients(nil))
	assertValidationError(t, validateIngredients([]dto.IngredientAmount{}))

	flour := uuid.New()
	assertValidationError(t, validateIngredients([]dto.IngredientAmount{
		{ID: flour, Amount: 0},
	}))
	assertValidationError(t, validateIngredients([]dto.IngredientAmount{
		{ID: flour, Amount: 100},
		{ID: flour, Amount: 50},
	}))

	if err := validateIngredients([]dto.IngredientAmount{
		{ID: flour, Amount: 100},
		{ID: uuid.New(), Amount: 1},
	}); err != nil {
		t.Fatalf("expected valid ingredients to pass, got %v", err)
	}
}

func TestValidateTagIDs(t *testing.T) {
	assertValidationError(t, validateTagIDs(nil))
	assertValidationError(t, validateTagIDs([]uuid.UUID{}))

	breakfast := uuid.New()
	assertValidationError(t, validateTagIDs([]uuid.UUID{breakfast, breakfast}))

	if err := validateTagIDs([]uuid.UUID{breakfast, uuid.New()}); err != nil {
		t.Fatalf("expected valid tags to pass, got %v", err)
	}
}
