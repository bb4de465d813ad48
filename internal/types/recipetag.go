package types

import (
  "github.com/google/uuid"
)

type RecipeTag struct {
  ID         uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  RecipeID   uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_tag;column:recipe_id" json:"recipe_id"`
  TagID      uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_tag;column:tag_id" json:"tag_id"`
}

func (RecipeTag) TableName() string {
  return "recipe_tag"
}
