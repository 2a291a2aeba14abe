package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Denis-Shtanskiy/foodgram/internal/apperr"
	"github.com/Denis-Shtanskiy/foodgram/internal/models"
	"github.com/Denis-Shtanskiy/foodgram/internal/service"
	"github.com/Denis-Shtanskiy/foodgram/internal/testdb"
)

// These tests run the real driver against a postgres container and are
// skipped unless INTEGRATION=1 is set.

func TestPostgresTranslatesDuplicateKeys(t *testing.T) {
	db := testdb.Setup(t)

	alice := models.User{
		Email: "alice@example.com", Username: "alice",
		FirstName: "Alice", LastName: "Smith", PasswordHash: "x",
	}
	bob := models.User{
		Email: "bob@example.com", Username: "bob",
		FirstName: "Bob", LastName: "Jones", PasswordHash: "x",
	}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	follow := models.Follow{FollowerID: alice.ID, AuthorID: bob.ID}
	require.NoError(t, db.Create(&follow).Error)

	dup := models.Follow{FollowerID: alice.ID, AuthorID: bob.ID}
	err := db.Create(&dup).Error
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestPostgresRecipeRoundTrip(t *testing.T) {
	db := testdb.Setup(t)
	ctx := context.Background()

	author := models.User{
		Email: "chef@example.com", Username: "chef",
		FirstName: "Cara", LastName: "Stone", PasswordHash: "x",
	}
	require.NoError(t, db.Create(&author).Error)
	tag := models.Tag{Name: "dinner", Color: "#49B64E", Slug: "dinner"}
	require.NoError(t, db.Create(&tag).Error)
	flour := models.Ingredient{Name: "Flour", MeasurementUnit: "g"}
	require.NoError(t, db.Create(&flour).Error)

	recipes := service.NewRecipeService(db, zap.NewNop(), nil)
	created, err := recipes.CreateRecipe(ctx, author.ID, service.RecipeInput{
		Name:        "Bread",
		Text:        "Bake it.",
		ImageURL:    "https://images.test/bread.png",
		CookingTime: 60,
		TagIDs:      []uuid.UUID{tag.ID},
		Ingredients: []service.IngredientAmount{{IngredientID: flour.ID, Amount: 500}},
	})
	require.NoError(t, err)

	loaded, err := recipes.GetRecipe(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bread", loaded.Name)
	require.Len(t, loaded.Tags, 1)
	require.Len(t, loaded.Ingredients, 1)

	require.NoError(t, recipes.DeleteRecipe(ctx, author.ID, created.ID))
	_, err = recipes.GetRecipe(ctx, created.ID)
	assert.True(t, apperr.IsNotFound(err))
}
