package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Denis-Shtanskiy/foodgram/config"
	"github.com/Denis-Shtanskiy/foodgram/internal/api"
	"github.com/Denis-Shtanskiy/foodgram/internal/database"
	"github.com/Denis-Shtanskiy/foodgram/internal/router"
	"github.com/Denis-Shtanskiy/foodgram/internal/server"
	"github.com/Denis-Shtanskiy/foodgram/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("loading config", zap.Error(err))
	}

	db, err := database.New(cfg)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}

	cache, err := database.NewRedisClient(cfg)
	if err != nil {
		// The catalog works without the cache; log and continue.
		logger.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		cache = nil
	}

	ctx := context.Background()
	var imageService *service.ImageService
	if s3cfg, err := config.NewS3Config(ctx, cfg); err != nil {
		logger.Warn("s3 unavailable, image upload disabled", zap.Error(err))
	} else {
		imageService = service.NewImageService(s3cfg, logger)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db, logger, service.AuthorOnly)
	socialService := service.NewSocialService(db, logger)
	collectionService := service.NewCollectionService(db, logger)
	shoppingService := service.NewShoppingListService(db, logger)
	catalogService := service.NewCatalogService(db, cache, logger)

	engine := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewUserHandler(authService, socialService, recipeService),
		api.NewCatalogHandler(catalogService),
		api.NewRecipeHandler(
			recipeService, collectionService, shoppingService,
			socialService, authService, imageService, cfg.DocLinesPerPage,
		),
		authService,
	)

	srv := server.New(cfg, engine, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
