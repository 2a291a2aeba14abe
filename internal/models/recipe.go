package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MaxNameLength  = 200
	MinCookingTime = 1
	MaxCookingTime = 300
	MinAmount      = 1
)

type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID" json:"-"`
	ImageURL    string    `gorm:"size:255;not null" json:"image"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CookingTime int       `gorm:"not null" json:"cooking_time"`

	Tags        []Tag              `gorm:"many2many:recipe_tags" json:"tags"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"-"`
}

// RecipeIngredient is owned by its recipe; an ingredient appears at most once
// per recipe and the whole set is replaced wholesale on update.
type RecipeIngredient struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID     uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID" json:"-"`
	Amount       int        `gorm:"not null;check:amount >= 1" json:"amount"`
}

func (RecipeIngredient) TableName() string { return "recipe_ingredients" }

type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_favorite_pair" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_pair" json:"recipe_id"`
}

func (Favorite) TableName() string { return "favorites" }

type ShoppingCart struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_cart_pair" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_pair" json:"recipe_id"`
}

func (ShoppingCart) TableName() string { return "shopping_carts" }
