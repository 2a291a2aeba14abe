package main

import (
	"log"

	"github.com/Denis-Shtanskiy/foodgram/config"
	"github.com/Denis-Shtanskiy/foodgram/internal/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("running migrations: %v", err)
	}
	log.Println("migrations applied")
}
