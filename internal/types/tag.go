package types

import (
  "github.com/google/uuid"
)

type Tag struct {
  ID      uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  Name    string      `gorm:"uniqueIndex;not null;column:name" json:"name"`
  Color   string      `gorm:"not null;default:'#FF0000';column:color" json:"color"`
  Slug    string      `gorm:"uniqueIndex;not null;column:slug" json:"slug"`
}

func (Tag) TableName() string {
  return "tag"
}
