package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fadhilmahendra/otoboost/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoPackageRepository implements domain.PackageRepository
type MongoPackageRepository struct {
	collection *mongo.Collection
}

// NewMongoPackageRepository creates a new package repository
// Note: No index creation to ensure zero-impact deployment on existing collections
func NewMongoPackageRepository(db *mongo.Database) *MongoPackageRepository {
	return &MongoPackageRepository{
		collection: db.Collection("boost_packages"),
	}
}

func (r *MongoPackageRepository) Create(ctx context.Context, pkg *domain.BoostPackage) error {
	now := time.Now().UTC()
	pkg.CreatedAt = now
	pkg.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, pkg); err != nil {
		return fmt.Errorf("failed to create package: %w", err)
	}
	return nil
}

func (r *MongoPackageRepository) GetByCode(ctx context.Context, code string) (*domain.BoostPackage, error) {
	var pkg domain.BoostPackage
	if err := r.collection.FindOne(ctx, bson.M{"_id": code}).Decode(&pkg); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get package: %w", err)
	}
	return &pkg, nil
}

func (r *MongoPackageRepository) GetByKind(ctx context.Context, kind domain.EntityKind) ([]*domain.BoostPackage, error) {
	return r.findPackages(ctx, bson.M{"entity_kind": kind})
}

func (r *MongoPackageRepository) GetActiveByKind(ctx context.Context, kind domain.EntityKind) ([]*domain.BoostPackage, error) {
	return r.findPackages(ctx, bson.M{"entity_kind": kind, "is_active": true})
}

func (r *MongoPackageRepository) findPackages(ctx context.Context, filter bson.M) ([]*domain.BoostPackage, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	defer cursor.Close(ctx)

	var packages []*domain.BoostPackage
	if err := cursor.All(ctx, &packages); err != nil {
		return nil, fmt.Errorf("failed to decode packages: %w", err)
	}
	return packages, nil
}

func (r *MongoPackageRepository) Update(ctx context.Context, pkg *domain.BoostPackage) error {
	pkg.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"name":           pkg.Name,
			"entity_kind":    pkg.EntityKind,
			"duration_days":  pkg.DurationDays,
			"price":          pkg.Price,
			"currency":       pkg.Currency,
			"original_price": pkg.OriginalPrice,
			"features":       pkg.Features,
			"is_active":      pkg.IsActive,
			"popular":        pkg.Popular,
			"updated_at":     pkg.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": pkg.Code}, update)
	if err != nil {
		return fmt.Errorf("failed to update package: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a package from the catalog. Entities referencing the code
// keep their boost state untouched: the coupling is the code string only.
func (r *MongoPackageRepository) Delete(ctx context.Context, code string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": code})
	if err != nil {
		return fmt.Errorf("failed to delete package: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SeedDefaults inserts the built-in package set for every kind if absent.
// Idempotency: checks by _id so re-runs are no-ops.
func (r *MongoPackageRepository) SeedDefaults(ctx context.Context, defaults domain.PackageProvider) error {
	kinds := []domain.EntityKind{domain.KindListing, domain.KindGarage, domain.KindOffer}

	for _, kind := range kinds {
		for _, pkg := range defaults.PackagesForKind(kind) {
			if _, err := r.GetByCode(ctx, pkg.Code); err == nil {
				log.Printf("[Seed] Package %s already exists, skipping", pkg.Code)
				continue
			} else if err != domain.ErrNotFound {
				return fmt.Errorf("failed to check package existence: %w", err)
			}

			if err := r.Create(ctx, pkg); err != nil {
				return fmt.Errorf("failed to seed package %s: %w", pkg.Code, err)
			}
			log.Printf("[Seed] Created package: %s (%s) - Price: %d, Duration: %d days",
				pkg.Code, pkg.Name, pkg.Price, pkg.DurationDays)
		}
	}
	return nil
}
