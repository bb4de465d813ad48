package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/foodgram-backend/internal/logger"
	"github.com/foodgram/foodgram-backend/internal/types"
)

// RecipeLineItem is a line item joined with its ingredient reference row,
// the shape the recipe read representation needs.
type RecipeLineItem struct {
	RecipeID        uuid.UUID `json:"recipe_id"`
	IngredientID    uuid.UUID `json:"ingredient_id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// IngredientTotal is one line of the aggregated shopping list.
type IngredientTotal struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Total           int    `json:"total"`
}

type RecipeIngredientRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, items []*types.RecipeIngredient) ([]*types.RecipeIngredient, error)
	GetLineItemsByRecipeIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*RecipeLineItem, error)
	DeleteByRecipeID(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) error
	SumByIngredientForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*IngredientTotal, error)
}

type recipeIngredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeIngredientRepo(db *gorm.DB, baseLog *logger.Logger) RecipeIngredientRepo {
	repoLog := baseLog.With("repo", "RecipeIngredientRepo")
	return &recipeIngredientRepo{db: db, log: repoLog}
}

func (rr *recipeIngredientRepo) CreateBatch(ctx context.Context, tx *gorm.DB, items []*types.RecipeIngredient) ([]*types.RecipeIngredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(items) == 0 {
		return []*types.RecipeIngredient{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (rr *recipeIngredientRepo) GetLineItemsByRecipeIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*RecipeLineItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*RecipeLineItem
	if len(recipeIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Table("recipe_ingredient").
		Select("recipe_ingredient.recipe_id AS recipe_id, recipe_ingredient.ingredient_id AS ingredient_id, ingredient.name AS name, ingredient.measurement_unit AS measurement_unit, recipe_ingredient.amount AS amount").
		Joins("JOIN ingredient ON ingredient.id = recipe_ingredient.ingredient_id").
		Where("recipe_ingredient.recipe_id IN ?", recipeIDs).
		Order("ingredient.name ASC").
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *recipeIngredientRepo) DeleteByRecipeID(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	return transaction.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Delete(&types.RecipeIngredient{}).Error
}

// SumByIngredientForUser flattens the line items of every recipe in the
// user's cart, groups by ingredient and sums amounts. Ordered by ingredient
// name ascending so the report is deterministic.
func (rr *recipeIngredientRepo) SumByIngredientForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*IngredientTotal, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*IngredientTotal
	if err := transaction.WithContext(ctx).
		Table("recipe_ingredient").
		Select("ingredient.name AS name, ingredient.measurement_unit AS measurement_unit, SUM(recipe_ingredient.amount) AS total").
		Joins("JOIN ingredient ON ingredient.id = recipe_ingredient.ingredient_id").
		Joins("JOIN shopping_cart ON shopping_cart.recipe_id = recipe_ingredient.recipe_id").
		Where("shopping_cart.user_id = ?", userID).
		Group("ingredient.name, ingredient.measurement_unit").
		Order("ingredient.name ASC").
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
