package router

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Denis-Shtanskiy/foodgram/internal/api"
	"github.com/Denis-Shtanskiy/foodgram/internal/middleware"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// SetupRouter configures the application routes.
func SetupRouter(
	authHandler *api.AuthHandler,
	userHandler *api.UserHandler,
	catalogHandler *api.CatalogHandler,
	recipeHandler *api.RecipeHandler,
	validator middleware.TokenValidator,
) *gin.Engine {
	registerValidations()

	router := gin.Default()
	router.Use(middleware.CORS())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Catalog and recipe reads are public.
	v1.GET("/tags", catalogHandler.ListTags)
	v1.GET("/tags/:id", catalogHandler.GetTag)
	v1.GET("/ingredients", catalogHandler.SearchIngredients)
	v1.GET("/ingredients/:id", catalogHandler.GetIngredient)

	// Recipe reads resolve the viewer when a token is sent so the
	// favorite/cart/subscription flags come back, but never require one.
	reads := v1.Group("/recipes")
	reads.Use(middleware.OptionalAuth(validator))
	{
		reads.GET("", recipeHandler.ListRecipes)
		reads.GET("/:id", recipeHandler.GetRecipe)
	}

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(validator))
	{
		users := protected.Group("/users")
		{
			users.GET("/me", authHandler.Me)
			users.GET("/subscriptions", userHandler.Subscriptions)
			users.POST("/:id/subscribe", userHandler.Subscribe)
			users.DELETE("/:id/subscribe", userHandler.Unsubscribe)
		}

		recipes := protected.Group("/recipes")
		{
			recipes.GET("/download_shopping_cart", recipeHandler.DownloadShoppingCart)
			recipes.POST("", recipeHandler.CreateRecipe)
			recipes.PATCH("/:id", recipeHandler.UpdateRecipe)
			recipes.DELETE("/:id", recipeHandler.DeleteRecipe)
			recipes.POST("/:id/favorite", recipeHandler.FavoriteAdd())
			recipes.DELETE("/:id/favorite", recipeHandler.FavoriteRemove())
			recipes.POST("/:id/shopping_cart", recipeHandler.CartAdd())
			recipes.DELETE("/:id/shopping_cart", recipeHandler.CartRemove())
		}

		// Catalog writes; curation is restricted upstream.
		protected.POST("/tags", catalogHandler.CreateTag)
		protected.POST("/ingredients", catalogHandler.CreateIngredient)
	}

	return router
}

func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
	}
}
