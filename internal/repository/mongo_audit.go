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

// MongoAuditRepository implements domain.AuditRepository as an append-only log
type MongoAuditRepository struct {
	collection *mongo.Collection
}

// NewMongoAuditRepository creates a new audit repository
func NewMongoAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{
		collection: db.Collection("boost_audit_log"),
	}
}

// Append writes one audit entry. Entries are write-once: there is no update
// or delete path on this collection.
func (r *MongoAuditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = ulid.Make().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

func (r *MongoAuditRepository) GetByEntity(ctx context.Context, kind domain.EntityKind, entityID string) ([]*domain.AuditEntry, error) {
	filter := bson.M{"entity_kind": kind, "entity_id": entityID}
	opts := options.Find().SetSort(bson.M{"timestamp": -1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*domain.AuditEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode audit entries: %w", err)
	}
	return entries, nil
}

func (r *MongoAuditRepository) GetRecent(ctx context.Context, limit int64) ([]*domain.AuditEntry, error) {
	opts := options.Find().SetSort(bson.M{"timestamp": -1}).SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent audit entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*domain.AuditEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode audit entries: %w", err)
	}
	return entries, nil
}
