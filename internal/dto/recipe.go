package dto

import (
	"time"

	"github.com/google/uuid"
)

type IngredientAmount struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount" binding:"required,min=1"`
}

// RecipeWriteRequest carries a full recipe payload for creation. On partial
// update a nil Ingredients or Tags slice means "leave the current set alone",
// while a present-but-empty slice is rejected.
type RecipeWriteRequest struct {
	Name        string             `json:"name"`
	Image       string             `json:"image"`
	Text        string             `json:"text"`
	CookingTime int                `json:"cooking_time"`
	Ingredients []IngredientAmount `json:"ingredients"`
	Tags        []uuid.UUID        `json:"tags"`
}

// RecipeUpdateRequest distinguishes "field absent" from "field set to its
// zero value" with pointers, matching partial-update semantics.
type RecipeUpdateRequest struct {
	Name        *string            `json:"name"`
	Image       *string            `json:"image"`
	Text        *string            `json:"text"`
	CookingTime *int               `json:"cooking_time"`
	Ingredients []IngredientAmount `json:"ingredients"`
	Tags        []uuid.UUID        `json:"tags"`
}

type RecipeIngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

type RecipeResponse struct {
	ID               uuid.UUID                  `json:"id"`
	Author           UserResponse               `json:"author"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	Tags             []TagResponse              `json:"tags"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	CreatedAt        time.Time                  `json:"created_at"`
}

// ShortRecipeResponse is the compact shape returned by the favorite and
// shopping cart endpoints and embedded in subscription listings.
type ShortRecipeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

type AuthorWithRecipesResponse struct {
	UserResponse
	Recipes      []ShortRecipeResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}
