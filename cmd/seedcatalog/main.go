// seedcatalog imports tags and ingredients into the catalog from a JSON
// file of the form {"tags": [...], "ingredients": [...]}.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/Denis-Shtanskiy/foodgram/config"
	"github.com/Denis-Shtanskiy/foodgram/internal/apperr"
	"github.com/Denis-Shtanskiy/foodgram/internal/database"
	"github.com/Denis-Shtanskiy/foodgram/internal/models"
	"github.com/Denis-Shtanskiy/foodgram/internal/service"
)

type seedFile struct {
	Tags        []models.Tag        `json:"tags"`
	Ingredients []models.Ingredient `json:"ingredients"`
}

func main() {
	path := flag.String("file", "data/catalog.json", "path to the catalog seed file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}

	raw, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("reading seed file: %v", err)
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		log.Fatalf("parsing seed file: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	catalog := service.NewCatalogService(db, nil, logger)

	ctx := context.Background()
	imported, skipped := 0, 0
	for i := range seed.Tags {
		err := catalog.CreateTag(ctx, &seed.Tags[i])
		switch {
		case err == nil:
			imported++
		case apperr.IsConflict(err):
			skipped++
		default:
			log.Fatalf("importing tag %q: %v", seed.Tags[i].Name, err)
		}
	}
	for i := range seed.Ingredients {
		err := catalog.CreateIngredient(ctx, &seed.Ingredients[i])
		switch {
		case err == nil:
			imported++
		case apperr.IsConflict(err):
			skipped++
		default:
			log.Fatalf("importing ingredient %q: %v", seed.Ingredients[i].Name, err)
		}
	}

	log.Printf("catalog seeded: %d imported, %d already present", imported, skipped)
}
