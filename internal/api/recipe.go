package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Denis-Shtanskiy/foodgram/internal/document"
	"github.com/Denis-Shtanskiy/foodgram/internal/models"
	"github.com/Denis-Shtanskiy/foodgram/internal/service"
)

// RecipeHandler serves the recipe aggregate, the favorite/cart collections
// and the shopping-list download.
type RecipeHandler struct {
	recipes      *service.RecipeService
	collections  *service.CollectionService
	shopping     *service.ShoppingListService
	social       *service.SocialService
	auth         *service.AuthService
	images       *service.ImageService
	linesPerPage int
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	collections *service.CollectionService,
	shopping *service.ShoppingListService,
	social *service.SocialService,
	auth *service.AuthService,
	images *service.ImageService,
	linesPerPage int,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:      recipes,
		collections:  collections,
		shopping:     shopping,
		social:       social,
		auth:         auth,
		images:       images,
		linesPerPage: linesPerPage,
	}
}

// FavoriteAdd and friends expose the collection toggles for route wiring.
func (h *RecipeHandler) FavoriteAdd() gin.HandlerFunc {
	return h.collectionAdd(service.CollectionFavorite)
}
func (h *RecipeHandler) FavoriteRemove() gin.HandlerFunc {
	return h.collectionRemove(service.CollectionFavorite)
}
func (h *RecipeHandler) CartAdd() gin.HandlerFunc { return h.collectionAdd(service.CollectionCart) }
func (h *RecipeHandler) CartRemove() gin.HandlerFunc {
	return h.collectionRemove(service.CollectionCart)
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var authorID *uuid.UUID
	if raw := c.Query("author"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		authorID = &id
	}

	recipes, err := h.recipes.ListRecipes(c.Request.Context(), authorID, c.Query("tag"))
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]RecipeView, 0, len(recipes))
	for i := range recipes {
		view, err := h.recipeView(c, &recipes[i])
		if err != nil {
			respondError(c, err)
			return
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, gin.H{"recipes": views})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.recipeView(c, recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := h.recipeInput(c, req)
	if err != nil {
		respondError(c, err)
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.recipeView(c, recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := h.recipeInput(c, req)
	if err != nil {
		respondError(c, err)
		return
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), currentUserID(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.recipeView(c, recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.recipes.DeleteRecipe(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) collectionAdd(kind service.CollectionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
			return
		}

		summary, err := h.collections.Add(c.Request.Context(), kind, currentUserID(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, summary)
	}
}

func (h *RecipeHandler) collectionRemove(kind service.CollectionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
			return
		}

		if err := h.collections.Remove(c.Request.Context(), kind, currentUserID(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DownloadShoppingCart streams the consolidated shopping list as a
// plain-text document, paginated by the writer's capacity.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID := currentUserID(c)
	user, err := h.auth.GetUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("%s_shopping_list.txt", user.Username)
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	writer := document.NewTextWriter(c.Writer, h.linesPerPage)
	title := "Groceries to buy:"
	if err := h.shopping.WriteShoppingList(c.Request.Context(), userID, title, writer); err != nil {
		respondError(c, err)
		return
	}
}

// recipeInput converts the transport payload, storing a base64 image to S3
// first when one was submitted.
func (h *RecipeHandler) recipeInput(c *gin.Context, req RecipeRequest) (service.RecipeInput, error) {
	imageURL := req.Image
	if strings.HasPrefix(req.Image, "data:") && h.images != nil {
		uploaded, err := h.images.UploadRecipeImage(c.Request.Context(), req.Image)
		if err != nil {
			return service.RecipeInput{}, err
		}
		imageURL = uploaded
	}

	ingredients := make([]service.IngredientAmount, len(req.Ingredients))
	for i, item := range req.Ingredients {
		ingredients[i] = service.IngredientAmount{IngredientID: item.ID, Amount: item.Amount}
	}

	return service.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		ImageURL:    imageURL,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
		Ingredients: ingredients,
	}, nil
}

// recipeView assembles the read projection with the viewer's favorite,
// cart and subscription flags.
func (h *RecipeHandler) recipeView(c *gin.Context, recipe *models.Recipe) (RecipeView, error) {
	ctx := c.Request.Context()
	viewerID := currentUserID(c)

	author, err := h.auth.GetUser(recipe.AuthorID)
	if err != nil {
		return RecipeView{}, err
	}

	subscribed := false
	favorited := false
	inCart := false
	if viewerID != uuid.Nil {
		if subscribed, err = h.social.IsFollowing(ctx, viewerID, recipe.AuthorID); err != nil {
			return RecipeView{}, err
		}
		if favorited, err = h.collections.Contains(ctx, service.CollectionFavorite, viewerID, recipe.ID); err != nil {
			return RecipeView{}, err
		}
		if inCart, err = h.collections.Contains(ctx, service.CollectionCart, viewerID, recipe.ID); err != nil {
			return RecipeView{}, err
		}
	}

	return NewRecipeView(recipe, NewUserView(author, subscribed), favorited, inCart), nil
}
