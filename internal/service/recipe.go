package service

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Denis-Shtanskiy/foodgram/internal/apperr"
	"github.com/Denis-Shtanskiy/foodgram/internal/models"
)

// CanEditFunc decides whether an actor may mutate a recipe. The default
// policy is author-only; tests and admin tooling inject their own.
type CanEditFunc func(actor uuid.UUID, recipe *models.Recipe) bool

// AuthorOnly is the standard ownership policy.
func AuthorOnly(actor uuid.UUID, recipe *models.Recipe) bool {
	return actor == recipe.AuthorID
}

// RecipeService owns recipe aggregate validation and persistence.
type RecipeService struct {
	db      *gorm.DB
	log     *zap.Logger
	canEdit CanEditFunc
}

func NewRecipeService(db *gorm.DB, log *zap.Logger, canEdit CanEditFunc) *RecipeService {
	if canEdit == nil {
		canEdit = AuthorOnly
	}
	return &RecipeService{db: db, log: log, canEdit: canEdit}
}

// IngredientAmount pairs a catalog ingredient with its quantity in a recipe.
type IngredientAmount struct {
	IngredientID uuid.UUID
	Amount       int
}

// RecipeInput is the candidate recipe payload, already decoded from
// transport encoding.
type RecipeInput struct {
	Name        string
	Text        string
	ImageURL    string
	CookingTime int
	TagIDs      []uuid.UUID
	Ingredients []IngredientAmount
}

// ValidateRecipeInput applies every aggregate invariant before anything is
// written. Each failure is scoped to the offending field.
func ValidateRecipeInput(in RecipeInput) error {
	if in.Name == "" {
		return apperr.Validation("name", "name is required")
	}
	if utf8.RuneCountInString(in.Name) > models.MaxNameLength {
		return apperr.Validation("name", "name is too long")
	}

	if len(in.Ingredients) == 0 {
		return apperr.Validation("ingredients", "recipe needs at least one ingredient")
	}
	seen := make(map[uuid.UUID]struct{}, len(in.Ingredients))
	for _, item := range in.Ingredients {
		if _, dup := seen[item.IngredientID]; dup {
			return apperr.Validation("ingredients", "duplicate ingredient "+item.IngredientID.String())
		}
		seen[item.IngredientID] = struct{}{}
		if item.Amount < models.MinAmount {
			return apperr.Validation("ingredients", "amount must be at least 1")
		}
	}

	if len(in.TagIDs) == 0 {
		return apperr.Validation("tags", "recipe needs at least one tag")
	}
	seenTags := make(map[uuid.UUID]struct{}, len(in.TagIDs))
	for _, id := range in.TagIDs {
		if _, dup := seenTags[id]; dup {
			return apperr.Validation("tags", "duplicate tag "+id.String())
		}
		seenTags[id] = struct{}{}
	}

	if in.CookingTime < models.MinCookingTime || in.CookingTime > models.MaxCookingTime {
		return apperr.Validation("cooking_time", "cooking time must be between 1 and 300 minutes")
	}

	if in.ImageURL == "" {
		return apperr.Validation("image", "image is required")
	}

	return nil
}

// CreateRecipe validates the payload and writes the recipe, its tag
// associations and ingredient lines in one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, in RecipeInput) (*models.Recipe, error) {
	if err := ValidateRecipeInput(in); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		Name:        in.Name,
		AuthorID:    authorID,
		ImageURL:    in.ImageURL,
		Text:        in.Text,
		CookingTime: in.CookingTime,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, in.TagIDs)
		if err != nil {
			return err
		}
		if err := checkIngredientsExist(tx, in.Ingredients); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Append(tags); err != nil {
			return err
		}
		return createIngredientLines(tx, recipe.ID, in.Ingredients)
	})
	if err != nil {
		return nil, translateStoreErr(err)
	}

	s.log.Info("recipe created",
		zap.String("recipe_id", recipe.ID.String()),
		zap.String("author_id", authorID.String()),
	)
	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe validates the payload and replaces the recipe's scalar
// fields, tag set and ingredient-line set wholesale. The author is never
// touched.
func (s *RecipeService) UpdateRecipe(ctx context.Context, actorID, recipeID uuid.UUID, in RecipeInput) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !s.canEdit(actorID, recipe) {
		return nil, apperr.Forbidden("only the author may edit a recipe")
	}

	if err := ValidateRecipeInput(in); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, in.TagIDs)
		if err != nil {
			return err
		}
		if err := checkIngredientsExist(tx, in.Ingredients); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":         in.Name,
			"image_url":    in.ImageURL,
			"text":         in.Text,
			"cooking_time": in.CookingTime,
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return createIngredientLines(tx, recipeID, in.Ingredients)
	})
	if err != nil {
		return nil, translateStoreErr(err)
	}

	return s.GetRecipe(ctx, recipeID)
}

// GetRecipe loads a recipe with its tags and ingredient lines.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("recipe does not exist")
		}
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes returns recipes newest first, optionally filtered by author
// or tag slug.
func (s *RecipeService) ListRecipes(ctx context.Context, authorID *uuid.UUID, tagSlug string) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		Order("created_at DESC")

	if authorID != nil {
		query = query.Where("author_id = ?", *authorID)
	}
	if tagSlug != "" {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug = ?", tagSlug)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// DeleteRecipe removes a recipe and its owned rows. Author-only.
func (s *RecipeService) DeleteRecipe(ctx context.Context, actorID, recipeID uuid.UUID) error {
	recipe, err := s.GetRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if !s.canEdit(actorID, recipe) {
		return apperr.Forbidden("only the author may delete a recipe")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", recipeID).Error
	})
}

func resolveTags(tx *gorm.DB, ids []uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, apperr.NotFound("tag does not exist")
	}
	return tags, nil
}

func checkIngredientsExist(tx *gorm.DB, items []IngredientAmount) error {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.IngredientID
	}
	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return apperr.NotFound("ingredient does not exist")
	}
	return nil
}

func createIngredientLines(tx *gorm.DB, recipeID uuid.UUID, items []IngredientAmount) error {
	lines := make([]models.RecipeIngredient, len(items))
	for i, item := range items {
		lines[i] = models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.IngredientID,
			Amount:       item.Amount,
		}
	}
	return tx.Create(&lines).Error
}

// translateStoreErr re-expresses constraint violations that slipped past
// validation as conflicts; taxonomy errors pass through unchanged.
func translateStoreErr(err error) error {
	if apperr.KindOf(err) != 0 {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("duplicate row violates a uniqueness constraint")
	}
	return err
}
