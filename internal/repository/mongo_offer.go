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

// MongoOfferRepository implements domain.OfferRepository
type MongoOfferRepository struct {
	collection *mongo.Collection
}

// NewMongoOfferRepository creates a new offer repository
func NewMongoOfferRepository(db *mongo.Database) *MongoOfferRepository {
	return &MongoOfferRepository{
		collection: db.Collection("offers"),
	}
}

// Kind identifies this adapter's entity kind
func (r *MongoOfferRepository) Kind() domain.EntityKind {
	return domain.KindOffer
}

func (r *MongoOfferRepository) Create(ctx context.Context, offer *domain.Offer) error {
	now := time.Now().UTC()
	if offer.ID == "" {
		offer.ID = ulid.Make().String()
	}
	offer.CreatedAt = now
	offer.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, offer); err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}
	return nil
}

func (r *MongoOfferRepository) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	var offer domain.Offer
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&offer); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	return &offer, nil
}

func (r *MongoOfferRepository) GetByOwnerID(ctx context.Context, ownerID string) ([]*domain.Offer, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list offers by owner: %w", err)
	}
	defer cursor.Close(ctx)

	var offers []*domain.Offer
	if err := cursor.All(ctx, &offers); err != nil {
		return nil, fmt.Errorf("failed to decode offers: %w", err)
	}
	return offers, nil
}

// ListPromotable returns all offers in the uniform promotable shape
func (r *MongoOfferRepository) ListPromotable(ctx context.Context) ([]*domain.PromotableEntity, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	defer cursor.Close(ctx)

	var entities []*domain.PromotableEntity
	for cursor.Next(ctx) {
		var offer domain.Offer
		if err := cursor.Decode(&offer); err != nil {
			return nil, fmt.Errorf("failed to decode offer: %w", err)
		}
		entities = append(entities, offerToPromotable(&offer))
	}
	return entities, cursor.Err()
}

func (r *MongoOfferRepository) GetPromotable(ctx context.Context, id string) (*domain.PromotableEntity, error) {
	offer, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return offerToPromotable(offer), nil
}

func (r *MongoOfferRepository) PatchBoost(ctx context.Context, id string, patch domain.BoostPatch) error {
	update := boostPatchUpdate(patch, time.Now().UTC())

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to patch offer boost: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func offerToPromotable(o *domain.Offer) *domain.PromotableEntity {
	return &domain.PromotableEntity{
		ID:           o.ID,
		Kind:         domain.KindOffer,
		OwnerID:      o.OwnerID,
		Title:        o.Title,
		ThumbnailURL: o.BannerURL,
		Boost:        o.Boost,
		CreatedAt:    o.CreatedAt,
	}
}
