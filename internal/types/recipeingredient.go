package types

import (
  "github.com/google/uuid"
)

// RecipeIngredient is one line item of a recipe. A recipe cannot list the
// same ingredient twice; the unique index is the source of truth.
type RecipeIngredient struct {
  ID             uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  RecipeID       uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient;column:recipe_id" json:"recipe_id"`
  IngredientID   uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient;column:ingredient_id" json:"ingredient_id"`
  Amount         int         `gorm:"not null;column:amount" json:"amount"`
}

func (RecipeIngredient) TableName() string {
  return "recipe_ingredient"
}
