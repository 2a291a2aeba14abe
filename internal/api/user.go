package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Denis-Shtanskiy/foodgram/internal/models"
	"github.com/Denis-Shtanskiy/foodgram/internal/service"
)

// UserHandler serves the social graph: subscriptions to recipe authors.
type UserHandler struct {
	auth    *service.AuthService
	social  *service.SocialService
	recipes *service.RecipeService
}

func NewUserHandler(auth *service.AuthService, social *service.SocialService, recipes *service.RecipeService) *UserHandler {
	return &UserHandler{auth: auth, social: social, recipes: recipes}
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	followerID := currentUserID(c)

	if _, err := h.social.Follow(c.Request.Context(), followerID, authorID); err != nil {
		respondError(c, err)
		return
	}

	view, err := h.followedUserView(c, authorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.social.Unfollow(c.Request.Context(), currentUserID(c), authorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	followerID := currentUserID(c)

	authors, err := h.social.Subscriptions(c.Request.Context(), followerID)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]FollowedUserView, 0, len(authors))
	for i := range authors {
		view, err := h.followedUserView(c, authors[i].ID)
		if err != nil {
			respondError(c, err)
			return
		}
		views = append(views, *view)
	}
	c.JSON(http.StatusOK, gin.H{"results": views})
}

func (h *UserHandler) followedUserView(c *gin.Context, authorID uuid.UUID) (*FollowedUserView, error) {
	ctx := c.Request.Context()

	author, err := h.auth.GetUser(authorID)
	if err != nil {
		return nil, err
	}
	recipes, err := h.recipes.ListRecipes(ctx, &authorID, "")
	if err != nil {
		return nil, err
	}
	count, err := h.social.RecipeCount(ctx, authorID)
	if err != nil {
		return nil, err
	}

	summaries := make([]RecipeSummaryView, len(recipes))
	for i, r := range recipes {
		summaries[i] = recipeSummaryView(&r)
	}
	return &FollowedUserView{
		UserView:     NewUserView(author, true),
		Recipes:      summaries,
		RecipesCount: count,
	}, nil
}

func recipeSummaryView(r *models.Recipe) RecipeSummaryView {
	return RecipeSummaryView{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.ImageURL,
		CookingTime: r.CookingTime,
	}
}
