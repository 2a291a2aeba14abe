package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Denis-Shtanskiy/foodgram/internal/apperr"
	"github.com/Denis-Shtanskiy/foodgram/internal/models"
)

// CollectionKind selects which per-user recipe collection an operation
// targets.
type CollectionKind string

const (
	CollectionFavorite CollectionKind = "favorite"
	CollectionCart     CollectionKind = "cart"
)

// RecipeSummary is the lightweight projection returned when a recipe joins
// a collection.
type RecipeSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// CollectionService manages favorite and shopping-cart membership.
type CollectionService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCollectionService(db *gorm.DB, log *zap.Logger) *CollectionService {
	return &CollectionService{db: db, log: log}
}

// Add puts a recipe into the user's collection and returns its summary.
// Adding twice is a conflict, enforced by the (user_id, recipe_id) unique
// index rather than the existence check alone.
func (s *CollectionService) Add(ctx context.Context, kind CollectionKind, userID, recipeID uuid.UUID) (*RecipeSummary, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("recipe does not exist")
		}
		return nil, err
	}

	row, err := collectionRow(kind, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict(fmt.Sprintf("recipe already in %s", kind))
		}
		return nil, err
	}

	return &RecipeSummary{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}, nil
}

// Remove takes a recipe out of the user's collection.
func (s *CollectionService) Remove(ctx context.Context, kind CollectionKind, userID, recipeID uuid.UUID) error {
	row, err := collectionRow(kind, userID, recipeID)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.Validation("recipe", fmt.Sprintf("recipe is not in %s", kind))
	}
	return nil
}

// Contains reports collection membership.
func (s *CollectionService) Contains(ctx context.Context, kind CollectionKind, userID, recipeID uuid.UUID) (bool, error) {
	row, err := collectionRow(kind, userID, recipeID)
	if err != nil {
		return false, err
	}
	var count int64
	err = s.db.WithContext(ctx).Model(row).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

func collectionRow(kind CollectionKind, userID, recipeID uuid.UUID) (interface{}, error) {
	switch kind {
	case CollectionFavorite:
		return &models.Favorite{UserID: userID, RecipeID: recipeID}, nil
	case CollectionCart:
		return &models.ShoppingCart{UserID: userID, RecipeID: recipeID}, nil
	default:
		return nil, apperr.Validation("kind", "unknown collection kind")
	}
}
