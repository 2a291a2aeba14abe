package api

import (
	"github.com/google/uuid"

	"github.com/Denis-Shtanskiy/foodgram/internal/models"
)

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=150"`
}

// LoginRequest is the credentials payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// IngredientAmountRequest references a catalog ingredient with a quantity.
type IngredientAmountRequest struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount"`
}

// RecipeRequest is the recipe create/update payload. Image carries either a
// base64 data URI or an already-stored URL.
type RecipeRequest struct {
	Name        string                    `json:"name"`
	Text        string                    `json:"text"`
	Image       string                    `json:"image"`
	CookingTime int                       `json:"cooking_time"`
	Tags        []uuid.UUID               `json:"tags"`
	Ingredients []IngredientAmountRequest `json:"ingredients"`
}

// TagRequest is the admin payload for adding a tag to the catalog.
type TagRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Color string `json:"color" binding:"omitempty,hexcolor"`
	Slug  string `json:"slug" binding:"required,max=200,slug"`
}

// IngredientRequest is the admin payload for adding a catalog ingredient.
type IngredientRequest struct {
	Name            string `json:"name" binding:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" binding:"required,max=200"`
}

// UserView is the public projection of a user.
type UserView struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// IngredientLineView is one ingredient row inside a recipe view.
type IngredientLineView struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// RecipeView is the read-model projection of a recipe aggregate. It is
// assembled by NewRecipeView and deliberately independent of the
// validation path.
type RecipeView struct {
	ID               uuid.UUID            `json:"id"`
	Tags             []models.Tag         `json:"tags"`
	Author           UserView             `json:"author"`
	Ingredients      []IngredientLineView `json:"ingredients"`
	IsFavorited      bool                 `json:"is_favorited"`
	IsInShoppingCart bool                 `json:"is_in_shopping_cart"`
	Name             string               `json:"name"`
	Image            string               `json:"image"`
	Text             string               `json:"text"`
	CookingTime      int                  `json:"cooking_time"`
}

// NewUserView projects a user together with the viewer's subscription
// state.
func NewUserView(user *models.User, isSubscribed bool) UserView {
	return UserView{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}

// NewRecipeView projects a loaded recipe aggregate into its transport
// shape.
func NewRecipeView(recipe *models.Recipe, author UserView, favorited, inCart bool) RecipeView {
	lines := make([]IngredientLineView, len(recipe.Ingredients))
	for i, line := range recipe.Ingredients {
		lines[i] = IngredientLineView{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		}
	}
	tags := recipe.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	return RecipeView{
		ID:               recipe.ID,
		Tags:             tags,
		Author:           author,
		Ingredients:      lines,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             recipe.Name,
		Image:            recipe.ImageURL,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
}

// FollowedUserView extends UserView with the author's recipes, returned by
// the subscribe and subscriptions endpoints.
type FollowedUserView struct {
	UserView
	Recipes      []RecipeSummaryView `json:"recipes"`
	RecipesCount int64               `json:"recipes_count"`
}

// RecipeSummaryView mirrors service.RecipeSummary for list payloads.
type RecipeSummaryView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}
