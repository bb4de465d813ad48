package types

import (
  "time"
  "github.com/google/uuid"
)

type Recipe struct {
  ID            uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  AuthorID      uuid.UUID   `gorm:"type:uuid;not null;index;column:author_id" json:"author_id"`
  Name          string      `gorm:"not null;column:name" json:"name"`
  ImageURL      string      `gorm:"column:image_url" json:"image_url"`
  Text          string      `gorm:"not null;column:text" json:"text"`
  CookingTime   int         `gorm:"not null;column:cooking_time" json:"cooking_time"`
  CreatedAt     time.Time   `gorm:"not null;default:now();index;column:created_at" json:"created_at"`
  UpdatedAt     time.Time   `gorm:"not null;default:now();column:updated_at" json:"updated_at"`
}

func (Recipe) TableName() string {
  return "recipe"
}
