package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Denis-Shtanskiy/foodgram/internal/document"
)

// LineItem is one consolidated row of the shopping list.
type LineItem struct {
	IngredientName  string `json:"ingredient_name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int    `json:"total_amount"`
}

// ShoppingListService merges the ingredient lines of every recipe in a
// user's cart into one deduplicated list.
type ShoppingListService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewShoppingListService(db *gorm.DB, log *zap.Logger) *ShoppingListService {
	return &ShoppingListService{db: db, log: log}
}

// BuildShoppingList sums amounts per ingredient identity across the user's
// cart. Ordered by ingredient name, ties broken by ingredient id, so the
// output is a stable total order.
func (s *ShoppingListService) BuildShoppingList(ctx context.Context, userID uuid.UUID) ([]LineItem, error) {
	var items []LineItem
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS ingredient_name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total_amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.id, ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC, ingredients.id ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// WriteShoppingList renders the consolidated list into w one line at a
// time, starting a new page whenever the writer reports it is full.
func (s *ShoppingListService) WriteShoppingList(ctx context.Context, userID uuid.UUID, title string, w document.Writer) error {
	items, err := s.BuildShoppingList(ctx, userID)
	if err != nil {
		return err
	}

	if err := w.WriteLine(title); err != nil {
		return err
	}
	for i, item := range items {
		if w.PageFull() {
			if err := w.NextPage(); err != nil {
				return err
			}
		}
		line := fmt.Sprintf("%d. %s: %d, %s", i+1, item.IngredientName, item.TotalAmount, item.MeasurementUnit)
		if err := w.WriteLine(line); err != nil {
			return err
		}
	}

	s.log.Info("shopping list written",
		zap.String("user_id", userID.String()),
		zap.Int("line_items", len(items)),
	)
	return nil
}
