package domain

import (
	"context"
	"time"
)

// Garage represents a workshop profile in the garage directory
type Garage struct {
	ID        string      `bson:"_id,omitempty" json:"id"`
	OwnerID   string      `bson:"owner_id" json:"owner_id"`
	Name      string      `bson:"name" json:"name"`
	Address   string      `bson:"address,omitempty" json:"address,omitempty"`
	City      string      `bson:"city,omitempty" json:"city,omitempty"`
	Phone     string      `bson:"phone,omitempty" json:"phone,omitempty"`
	Services  []string    `bson:"services,omitempty" json:"services,omitempty"`
	LogoURL   string      `bson:"logo_url,omitempty" json:"logo_url,omitempty"`
	Boost     BoostFields `bson:"boost,inline" json:"boost"`
	CreatedAt time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time   `bson:"updated_at" json:"updated_at"`
}

// GarageRepository defines operations for managing garages
type GarageRepository interface {
	PromotableRepository
	Create(ctx context.Context, garage *Garage) error
	GetByID(ctx context.Context, id string) (*Garage, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]*Garage, error)
}
