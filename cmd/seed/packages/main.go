package main

import (
	"context"
	"log"
	"time"

	"github.com/fadhilmahendra/otoboost/internal/config"
	"github.com/fadhilmahendra/otoboost/internal/domain"
	"github.com/fadhilmahendra/otoboost/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatalf("Failed to connect to Mongo: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB.Database)
	repo := repository.NewMongoPackageRepository(db)

	if err := repo.SeedDefaults(ctx, domain.DefaultPackageSet{}); err != nil {
		log.Fatalf("Failed to seed packages: %v", err)
	}

	log.Println("✓ Boost packages seeded")
}
