package types

import (
  "time"
  "github.com/google/uuid"
)

type Favorite struct {
  ID          uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID      uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_pair;column:user_id" json:"user_id"`
  RecipeID    uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_pair;column:recipe_id" json:"recipe_id"`
  CreatedAt   time.Time   `gorm:"not null;default:now()" json:"created_at"`
}

func (Favorite) TableName() string {
  return "favorite"
}
