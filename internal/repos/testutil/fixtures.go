package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/foodgram-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Username:  email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedTag(tb testing.TB, ctx context.Context, tx *gorm.DB, name, slug string) *types.Tag {
	tb.Helper()
	t := &types.Tag{
		ID:    uuid.New(),
		Name:  name,
		Color: "#49B64E",
		Slug:  slug,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed tag: %v", err)
	}
	return t
}

func SeedIngredient(tb testing.TB, ctx context.Context, tx *gorm.DB, name, unit string) *types.Ingredient {
	tb.Helper()
	i := &types.Ingredient{
		ID:              uuid.New(),
		Name:            name,
		MeasurementUnit: unit,
	}
	if err := tx.WithContext(ctx).Create(i).Error; err != nil {
		tb.Fatalf("seed ingredient: %v", err)
	}
	return i
}

func SeedRecipe(tb testing.TB, ctx context.Context, tx *gorm.DB, authorID uuid.UUID, name string) *types.Recipe {
	tb.Helper()
	r := &types.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Name:        name,
		Text:        "text",
		CookingTime: 10,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed recipe: %v", err)
	}
	return r
}

func SeedRecipeIngredient(tb testing.TB, ctx context.Context, tx *gorm.DB, recipeID, ingredientID uuid.UUID, amount int) *types.RecipeIngredient {
	tb.Helper()
	ri := &types.RecipeIngredient{
		ID:           uuid.New(),
		RecipeID:     recipeID,
		IngredientID: ingredientID,
		Amount:       amount,
	}
	if err := tx.WithContext(ctx).Create(ri).Error; err != nil {
		tb.Fatalf("seed recipe ingredient: %v", err)
	}
	return ri
}

func SeedRecipeTag(tb testing.TB, ctx context.Context, tx *gorm.DB, recipeID, tagID uuid.UUID) *types.RecipeTag {
	tb.Helper()
	rt := &types.RecipeTag{
		ID:       uuid.New(),
		RecipeID: recipeID,
		TagID:    tagID,
	}
	if err := tx.WithContext(ctx).Create(rt).Error; err != nil {
		tb.Fatalf("seed recipe tag: %v", err)
	}
	return rt
}

func SeedCartEntry(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, recipeID uuid.UUID) *types.ShoppingCart {
	tb.Helper()
	sc := &types.ShoppingCart{
		ID:       uuid.New(),
		UserID:   userID,
		RecipeID: recipeID,
	}
	if err := tx.WithContext(ctx).Create(sc).Error; err != nil {
		tb.Fatalf("seed cart entry: %v", err)
	}
	return sc
}

func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.com", prefix, uuid.New().String()[:8])
}
