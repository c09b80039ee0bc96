package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fadhilmahendra/otoboost/internal/domain"
	"github.com/oklog/ulid/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoInvoiceRepository implements domain.InvoiceRepository
type MongoInvoiceRepository struct {
	collection *mongo.Collection
}

// NewMongoInvoiceRepository creates a new invoice repository
// Note: No index creation to ensure zero-impact deployment on existing collections
func NewMongoInvoiceRepository(db *mongo.Database) *MongoInvoiceRepository {
	return &MongoInvoiceRepository{
		collection: db.Collection("boost_invoices"),
	}
}

func (r *MongoInvoiceRepository) Create(ctx context.Context, invoice *domain.BoostInvoice) error {
	now := time.Now().UTC()
	if invoice.ID == "" {
		invoice.ID = ulid.Make().String()
	}
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, invoice); err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

func (r *MongoInvoiceRepository) GetByID(ctx context.Context, id string) (*domain.BoostInvoice, error) {
	var invoice domain.BoostInvoice
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&invoice); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return &invoice, nil
}

func (r *MongoInvoiceRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.BoostInvoice, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices by user: %w", err)
	}
	defer cursor.Close(ctx)

	var invoices []*domain.BoostInvoice
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, fmt.Errorf("failed to decode invoices: %w", err)
	}
	return invoices, nil
}

// GetPendingByEntity finds an open payment session for the same entity and
// package, so checkout can hand back the existing VA instead of minting a new
// one per click.
func (r *MongoInvoiceRepository) GetPendingByEntity(ctx context.Context, kind domain.EntityKind, entityID, packageCode string) (*domain.BoostInvoice, error) {
	filter := bson.M{
		"entity_kind":  kind,
		"entity_id":    entityID,
		"package_code": packageCode,
		"status":       domain.InvoiceStatusPending,
		"expiry_date":  bson.M{"$gt": time.Now().UTC()},
	}

	var invoice domain.BoostInvoice
	if err := r.collection.FindOne(ctx, filter).Decode(&invoice); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find pending invoice: %w", err)
	}
	return &invoice, nil
}

func (r *MongoInvoiceRepository) GetByPaymentSessionID(ctx context.Context, sessionID string) (*domain.BoostInvoice, error) {
	var invoice domain.BoostInvoice
	if err := r.collection.FindOne(ctx, bson.M{"payment_session_id": sessionID}).Decode(&invoice); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invoice by session: %w", err)
	}
	return &invoice, nil
}

func (r *MongoInvoiceRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update invoice status: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
