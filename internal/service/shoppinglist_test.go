package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Denis-Shtanskiy/foodgram/internal/document"
	"github.com/Denis-Shtanskiy/foodgram/internal/models"
)

func TestBuildShoppingList(t *testing.T) {
	db := setupTestDB(t)
	svc := NewShoppingListService(db, zap.NewNop())
	ctx := context.Background()

	user := createTestUser(t, db, "alice")
	other := createTestUser(t, db, "bob")
	author := createTestUser(t, db, "chef")

	flour := createTestIngredient(t, db, "Flour", "g")
	sugar := createTestIngredient(t, db, "Sugar", "g")
	egg := createTestIngredient(t, db, "Egg", "pcs")
	salt := createTestIngredient(t, db, "Salt", "g")

	pancakes := createTestRecipe(t, db, author.ID, "pancakes")
	addIngredientLine(t, db, pancakes.ID, flour.ID, 200)
	addIngredientLine(t, db, pancakes.ID, sugar.ID, 50)

	omelette := createTestRecipe(t, db, author.ID, "omelette")
	addIngredientLine(t, db, omelette.ID, flour.ID, 100)
	addIngredientLine(t, db, omelette.ID, egg.ID, 2)

	porridge := createTestRecipe(t, db, author.ID, "porridge")
	addIngredientLine(t, db, porridge.ID, salt.ID, 5)

	carts := []models.ShoppingCart{
		{UserID: user.ID, RecipeID: pancakes.ID},
		{UserID: user.ID, RecipeID: omelette.ID},
		{UserID: other.ID, RecipeID: porridge.ID},
	}
	require.NoError(t, db.Create(&carts).Error)

	items, err := svc.BuildShoppingList(ctx, user.ID)
	require.NoError(t, err)

	// Amounts merged per ingredient, sorted by name; the other user's cart
	// does not leak in.
	want := []LineItem{
		{IngredientName: "Egg", MeasurementUnit: "pcs", TotalAmount: 2},
		{IngredientName: "Flour", MeasurementUnit: "g", TotalAmount: 300},
		{IngredientName: "Sugar", MeasurementUnit: "g", TotalAmount: 50},
	}
	assert.Equal(t, want, items)
}

func TestBuildShoppingListEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	svc := NewShoppingListService(db, zap.NewNop())

	user := createTestUser(t, db, "alice")
	items, err := svc.BuildShoppingList(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestBuildShoppingListSameNameDifferentUnit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewShoppingListService(db, zap.NewNop())
	ctx := context.Background()

	user := createTestUser(t, db, "alice")
	author := createTestUser(t, db, "chef")

	gingerGrams := createTestIngredient(t, db, "Ginger", "g")
	gingerPieces := createTestIngredient(t, db, "Ginger", "pcs")

	stew := createTestRecipe(t, db, author.ID, "stew")
	addIngredientLine(t, db, stew.ID, gingerGrams.ID, 30)
	tea := createTestRecipe(t, db, author.ID, "tea")
	addIngredientLine(t, db, tea.ID, gingerPieces.ID, 1)

	carts := []models.ShoppingCart{
		{UserID: user.ID, RecipeID: stew.ID},
		{UserID: user.ID, RecipeID: tea.ID},
	}
	require.NoError(t, db.Create(&carts).Error)

	items, err := svc.BuildShoppingList(ctx, user.ID)
	require.NoError(t, err)

	// Distinct catalog identities stay separate rows even with equal names.
	require.Len(t, items, 2)
	assert.Equal(t, "Ginger", items[0].IngredientName)
	assert.Equal(t, "Ginger", items[1].IngredientName)
	assert.NotEqual(t, items[0].MeasurementUnit, items[1].MeasurementUnit)
}

func TestWriteShoppingListPagination(t *testing.T) {
	db := setupTestDB(t)
	svc := NewShoppingListService(db, zap.NewNop())
	ctx := context.Background()

	user := createTestUser(t, db, "alice")
	author := createTestUser(t, db, "chef")
	recipe := createTestRecipe(t, db, author.ID, "salad")

	for _, name := range []string{"Apple", "Beet", "Carrot", "Date", "Endive"} {
		ingredient := createTestIngredient(t, db, name, "g")
		addIngredientLine(t, db, recipe.ID, ingredient.ID, 10)
	}
	cart := models.ShoppingCart{UserID: user.ID, RecipeID: recipe.ID}
	require.NoError(t, db.Create(&cart).Error)

	var buf bytes.Buffer
	w := document.NewTextWriter(&buf, 3)
	require.NoError(t, svc.WriteShoppingList(ctx, user.ID, "Groceries to buy:", w))

	out := buf.String()
	lines := strings.Split(strings.ReplaceAll(strings.TrimRight(out, "\n"), "\f", ""), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Groceries to buy:", lines[0])
	assert.Equal(t, "1. Apple: 10, g", lines[1])
	assert.Equal(t, "5. Endive: 10, g", lines[5])

	// Title plus two items fill page one; the rest flow onto page two.
	assert.Equal(t, 1, strings.Count(out, "\f"))
	assert.Equal(t, 2, w.Pages())
}
