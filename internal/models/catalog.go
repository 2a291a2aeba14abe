package models

import (
	"github.com/google/uuid"
)

// Tag is admin-curated reference data attached to recipes.
type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Color string    `gorm:"size:7;not null;default:'#000000'" json:"color"`
	Slug  string    `gorm:"size:200;uniqueIndex;not null" json:"slug"`
}

// Ingredient identity is the (name, measurement_unit) pair: the same product
// may legitimately exist per-gram and per-piece as two catalog entries.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"size:200;not null;index;uniqueIndex:idx_ingredient_identity" json:"name"`
	MeasurementUnit string    `gorm:"size:200;not null;uniqueIndex:idx_ingredient_identity" json:"measurement_unit"`
}
