package domain

import (
	"context"
	"time"
)

// Offer represents a promotional offer published by a garage
type Offer struct {
	ID          string      `bson:"_id,omitempty" json:"id"`
	OwnerID     string      `bson:"owner_id" json:"owner_id"`
	GarageID    string      `bson:"garage_id,omitempty" json:"garage_id,omitempty"`
	Title       string      `bson:"title" json:"title"`
	Description string      `bson:"description,omitempty" json:"description,omitempty"`
	DiscountPct int         `bson:"discount_pct,omitempty" json:"discount_pct,omitempty"`
	BannerURL   string      `bson:"banner_url,omitempty" json:"banner_url,omitempty"`
	ValidUntil  *time.Time  `bson:"valid_until,omitempty" json:"valid_until,omitempty"`
	Boost       BoostFields `bson:"boost,inline" json:"boost"`
	CreatedAt   time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `bson:"updated_at" json:"updated_at"`
}

// OfferRepository defines operations for managing offers
type OfferRepository interface {
	PromotableRepository
	Create(ctx context.Context, offer *Offer) error
	GetByID(ctx context.Context, id string) (*Offer, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]*Offer, error)
}
