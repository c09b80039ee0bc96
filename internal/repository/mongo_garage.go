package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fadhilmahendra/otoboost/internal/domain"
	"github.com/oklog/ulid/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoGarageRepository implements domain.GarageRepository
type MongoGarageRepository struct {
	collection *mongo.Collection
}

// NewMongoGarageRepository creates a new garage repository
func NewMongoGarageRepository(db *mongo.Database) *MongoGarageRepository {
	return &MongoGarageRepository{
		collection: db.Collection("garages"),
	}
}

// Kind identifies this adapter's entity kind
func (r *MongoGarageRepository) Kind() domain.EntityKind {
	return domain.KindGarage
}

func (r *MongoGarageRepository) Create(ctx context.Context, garage *domain.Garage) error {
	now := time.Now().UTC()
	if garage.ID == "" {
		garage.ID = ulid.Make().String()
	}
	garage.CreatedAt = now
	garage.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, garage); err != nil {
		return fmt.Errorf("failed to create garage: %w", err)
	}
	return nil
}

func (r *MongoGarageRepository) GetByID(ctx context.Context, id string) (*domain.Garage, error) {
	var garage domain.Garage
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&garage); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get garage: %w", err)
	}
	return &garage, nil
}

func (r *MongoGarageRepository) GetByOwnerID(ctx context.Context, ownerID string) ([]*domain.Garage, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list garages by owner: %w", err)
	}
	defer cursor.Close(ctx)

	var garages []*domain.Garage
	if err := cursor.All(ctx, &garages); err != nil {
		return nil, fmt.Errorf("failed to decode garages: %w", err)
	}
	return garages, nil
}

// ListPromotable returns all garages in the uniform promotable shape
func (r *MongoGarageRepository) ListPromotable(ctx context.Context) ([]*domain.PromotableEntity, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list garages: %w", err)
	}
	defer cursor.Close(ctx)

	var entities []*domain.PromotableEntity
	for cursor.Next(ctx) {
		var garage domain.Garage
		if err := cursor.Decode(&garage); err != nil {
			return nil, fmt.Errorf("failed to decode garage: %w", err)
		}
		entities = append(entities, garageToPromotable(&garage))
	}
	return entities, cursor.Err()
}

func (r *MongoGarageRepository) GetPromotable(ctx context.Context, id string) (*domain.PromotableEntity, error) {
	garage, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return garageToPromotable(garage), nil
}

func (r *MongoGarageRepository) PatchBoost(ctx context.Context, id string, patch domain.BoostPatch) error {
	update := boostPatchUpdate(patch, time.Now().UTC())

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to patch garage boost: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func garageToPromotable(g *domain.Garage) *domain.PromotableEntity {
	return &domain.PromotableEntity{
		ID:           g.ID,
		Kind:         domain.KindGarage,
		OwnerID:      g.OwnerID,
		Title:        g.Name,
		ThumbnailURL: g.LogoURL,
		Boost:        g.Boost,
		CreatedAt:    g.CreatedAt,
	}
}
