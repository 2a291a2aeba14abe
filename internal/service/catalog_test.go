package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Denis-Shtanskiy/foodgram/internal/apperr"
	"github.com/Denis-Shtanskiy/foodgram/internal/models"
)

func TestSearchIngredients(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db, nil, zap.NewNop())
	ctx := context.Background()

	createTestIngredient(t, db, "Apple", "g")
	createTestIngredient(t, db, "Grape", "g")
	createTestIngredient(t, db, "Papaya", "pcs")

	names := func(ingredients []models.Ingredient) []string {
		out := make([]string, len(ingredients))
		for i, ing := range ingredients {
			out[i] = ing.Name
		}
		return out
	}

	t.Run("prefix matches rank before contains matches", func(t *testing.T) {
		found, err := svc.SearchIngredients(ctx, "ap")
		require.NoError(t, err)
		assert.Equal(t, []string{"Apple", "Grape", "Papaya"}, names(found))
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		found, err := svc.SearchIngredients(ctx, "AP")
		require.NoError(t, err)
		assert.Equal(t, []string{"Apple", "Grape", "Papaya"}, names(found))
	})

	t.Run("empty query returns the whole catalog by name", func(t *testing.T) {
		found, err := svc.SearchIngredients(ctx, "  ")
		require.NoError(t, err)
		assert.Equal(t, []string{"Apple", "Grape", "Papaya"}, names(found))
	})

	t.Run("no match returns empty", func(t *testing.T) {
		found, err := svc.SearchIngredients(ctx, "zucchini")
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestSearchIngredientsCache(t *testing.T) {
	db := setupTestDB(t)
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewCatalogService(db, cache, zap.NewNop())
	ctx := context.Background()

	apple := createTestIngredient(t, db, "Apple", "g")

	found, err := svc.SearchIngredients(ctx, "apple")
	require.NoError(t, err)
	require.Len(t, found, 1)

	// A direct delete bypasses invalidation, so the cached result survives.
	require.NoError(t, db.Delete(&models.Ingredient{}, "id = ?", apple.ID).Error)
	found, err = svc.SearchIngredients(ctx, "apple")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	// Catalog writes invalidate, so the next search sees the store again.
	require.NoError(t, svc.CreateIngredient(ctx, &models.Ingredient{Name: "Apricot", MeasurementUnit: "g"}))
	found, err = svc.SearchIngredients(ctx, "apple")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestCreateTag(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db, nil, zap.NewNop())
	ctx := context.Background()

	tag := &models.Tag{Name: "dinner", Color: "#49B64E", Slug: "dinner"}
	require.NoError(t, svc.CreateTag(ctx, tag))
	assert.NotEqual(t, uuid.Nil, tag.ID)

	dup := &models.Tag{Name: "dinner", Color: "#000000", Slug: "dinner-2"}
	assert.True(t, apperr.IsConflict(svc.CreateTag(ctx, dup)))
}

func TestCreateIngredient(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db, nil, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.CreateIngredient(ctx, &models.Ingredient{Name: "Ginger", MeasurementUnit: "g"}))

	// Same name with another unit is a distinct catalog identity.
	require.NoError(t, svc.CreateIngredient(ctx, &models.Ingredient{Name: "Ginger", MeasurementUnit: "pcs"}))

	err := svc.CreateIngredient(ctx, &models.Ingredient{Name: "Ginger", MeasurementUnit: "g"})
	assert.True(t, apperr.IsConflict(err))
}

func TestListTags(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db, nil, zap.NewNop())
	ctx := context.Background()

	createTestTag(t, db, "dinner")
	createTestTag(t, db, "breakfast")

	tags, err := svc.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "breakfast", tags[0].Name)
	assert.Equal(t, "dinner", tags[1].Name)
}

func TestGetTagAndIngredientNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db, nil, zap.NewNop())
	ctx := context.Background()

	_, err := svc.GetTag(ctx, uuid.New())
	assert.True(t, apperr.IsNotFound(err))

	_, err = svc.GetIngredient(ctx, uuid.New())
	assert.True(t, apperr.IsNotFound(err))
}
