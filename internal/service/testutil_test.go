package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/Denis-Shtanskiy/foodgram/internal/database"
	"github.com/Denis-Shtanskiy/foodgram/internal/models"
)

// setupTestDB opens a fresh in-memory database with the full schema. The
// shared-cache DSN keeps every pooled connection on the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestTag(t *testing.T, db *gorm.DB, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Color: "#49B64E", Slug: name}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func createTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

func createTestRecipe(t *testing.T, db *gorm.DB, authorID uuid.UUID, name string) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		Name:        name,
		AuthorID:    authorID,
		ImageURL:    "https://images.test/" + name + ".png",
		Text:        "step one, step two",
		CookingTime: 15,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(recipe).Error)
	return recipe
}

func addIngredientLine(t *testing.T, db *gorm.DB, recipeID, ingredientID uuid.UUID, amount int) {
	t.Helper()
	line := &models.RecipeIngredient{
		RecipeID:     recipeID,
		IngredientID: ingredientID,
		Amount:       amount,
	}
	require.NoError(t, db.Create(line).Error)
}
