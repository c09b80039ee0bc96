package domain

import (
	"context"
	"fmt"
	"time"
)

// EntityKind identifies one of the three promotable domains.
type EntityKind string

const (
	KindListing EntityKind = "listing"
	KindGarage  EntityKind = "garage"
	KindOffer   EntityKind = "offer"
)

// ParseEntityKind validates a kind string coming from the API boundary.
func ParseEntityKind(s string) (EntityKind, error) {
	switch EntityKind(s) {
	case KindListing, KindGarage, KindOffer:
		return EntityKind(s), nil
	default:
		return "", fmt.Errorf("%w: unknown entity kind %q", ErrValidation, s)
	}
}

// PromotableEntity is the uniform read shape the boost engine sees for any
// entity kind. Title and ThumbnailURL are read-only display passthrough; the
// engine never interprets them.
type PromotableEntity struct {
	ID           string      `json:"id"`
	Kind         EntityKind  `json:"kind"`
	OwnerID      string      `json:"owner_id"`
	Title        string      `json:"title"`
	ThumbnailURL string      `json:"thumbnail_url,omitempty"`
	Boost        BoostFields `json:"boost"`
	CreatedAt    time.Time   `json:"created_at"`
}

// BoostPatch is a partial write touching only the four boost fields. Nil
// pointers leave a field untouched; ClearExpiresAt unsets the expiry since a
// nil ExpiresAt alone cannot distinguish "leave" from "clear".
//
// Writes are last-write-wins at the field level. No optimistic-concurrency
// check yet; a boost_version counter would be the follow-up if concurrent
// moderation becomes a problem in practice.
type BoostPatch struct {
	IsBoosted        *bool
	PackageCode      *string
	ExpiresAt        *time.Time
	ClearExpiresAt   bool
	PaymentReference *string
}

// PromotableRepository is the per-kind adapter contract: bulk reads of the
// uniform shape plus boost-field patch writes. It is the sole writer of boost
// fields outside the payment webhook path.
type PromotableRepository interface {
	Kind() EntityKind
	// ListPromotable returns every entity of the kind in the uniform shape.
	ListPromotable(ctx context.Context) ([]*PromotableEntity, error)
	// GetPromotable returns one entity or ErrNotFound.
	GetPromotable(ctx context.Context, id string) (*PromotableEntity, error)
	// PatchBoost applies a boost-field patch. Unknown id is ErrNotFound, never
	// silently ignored.
	PatchBoost(ctx context.Context, id string, patch BoostPatch) error
}
