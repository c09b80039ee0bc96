package domain

import (
	"context"
	"time"
)

// Listing represents a vehicle classified listing in the marketplace
type Listing struct {
	ID           string      `bson:"_id,omitempty" json:"id"`
	OwnerID      string      `bson:"owner_id" json:"owner_id"`
	Title        string      `bson:"title" json:"title"`
	Description  string      `bson:"description,omitempty" json:"description,omitempty"`
	Make         string      `bson:"make,omitempty" json:"make,omitempty"`
	Model        string      `bson:"model,omitempty" json:"model,omitempty"`
	Year         int         `bson:"year,omitempty" json:"year,omitempty"`
	Mileage      int64       `bson:"mileage,omitempty" json:"mileage,omitempty"`
	Price        int64       `bson:"price" json:"price"` // Price in smallest currency unit (IDR)
	Images       []string    `bson:"images,omitempty" json:"images,omitempty"`
	ThumbnailURL string      `bson:"thumbnail_url,omitempty" json:"thumbnail_url,omitempty"`
	Boost        BoostFields `bson:"boost,inline" json:"boost"`
	CreatedAt    time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `bson:"updated_at" json:"updated_at"`
}

// ListingRepository defines operations for managing listings. It embeds the
// promotable adapter contract so the boost engine is written once across kinds.
type ListingRepository interface {
	PromotableRepository
	Create(ctx context.Context, listing *Listing) error
	GetByID(ctx context.Context, id string) (*Listing, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]*Listing, error)
}
