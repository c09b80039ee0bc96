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

// MongoListingRepository implements domain.ListingRepository
type MongoListingRepository struct {
	collection *mongo.Collection
}

// NewMongoListingRepository creates a new listing repository
// Note: No index creation to ensure zero-impact deployment on existing collections
func NewMongoListingRepository(db *mongo.Database) *MongoListingRepository {
	return &MongoListingRepository{
		collection: db.Collection("listings"),
	}
}

// Kind identifies this adapter's entity kind
func (r *MongoListingRepository) Kind() domain.EntityKind {
	return domain.KindListing
}

func (r *MongoListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	now := time.Now().UTC()
	if listing.ID == "" {
		listing.ID = ulid.Make().String()
	}
	listing.CreatedAt = now
	listing.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, listing); err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

func (r *MongoListingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	var listing domain.Listing
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&listing); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &listing, nil
}

func (r *MongoListingRepository) GetByOwnerID(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list listings by owner: %w", err)
	}
	defer cursor.Close(ctx)

	var listings []*domain.Listing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	return listings, nil
}

// ListPromotable returns all listings in the uniform promotable shape
func (r *MongoListingRepository) ListPromotable(ctx context.Context) ([]*domain.PromotableEntity, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer cursor.Close(ctx)

	var entities []*domain.PromotableEntity
	for cursor.Next(ctx) {
		var listing domain.Listing
		if err := cursor.Decode(&listing); err != nil {
			return nil, fmt.Errorf("failed to decode listing: %w", err)
		}
		entities = append(entities, listingToPromotable(&listing))
	}
	return entities, cursor.Err()
}

func (r *MongoListingRepository) GetPromotable(ctx context.Context, id string) (*domain.PromotableEntity, error) {
	listing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return listingToPromotable(listing), nil
}

func (r *MongoListingRepository) PatchBoost(ctx context.Context, id string, patch domain.BoostPatch) error {
	update := boostPatchUpdate(patch, time.Now().UTC())

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to patch listing boost: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func listingToPromotable(l *domain.Listing) *domain.PromotableEntity {
	thumb := l.ThumbnailURL
	if thumb == "" && len(l.Images) > 0 {
		thumb = l.Images[0]
	}
	return &domain.PromotableEntity{
		ID:           l.ID,
		Kind:         domain.KindListing,
		OwnerID:      l.OwnerID,
		Title:        l.Title,
		ThumbnailURL: thumb,
		Boost:        l.Boost,
		CreatedAt:    l.CreatedAt,
	}
}
