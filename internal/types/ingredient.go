package types

import (
  "github.com/google/uuid"
)

type Ingredient struct {
  ID                uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  Name              string      `gorm:"not null;index;column:name" json:"name"`
  MeasurementUnit   string      `gorm:"not null;column:measurement_unit" json:"measurement_unit"`
}

func (Ingredient) TableName() string {
  return "ingredient"
}
