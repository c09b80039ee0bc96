package domain

import (
	"context"
	"time"
)

// BoostPackage represents a purchasable boost offering for one entity kind.
// Code is the loose coupling point: entities reference packages by code string,
// so deleting or deactivating a package never touches entities that already
// bought it — their boosts stay valid until the stored expiry.
type BoostPackage struct {
	Code          string     `bson:"_id,omitempty" json:"code"` // e.g. "listing_7day"
	Name          string     `bson:"name" json:"name"`
	EntityKind    EntityKind `bson:"entity_kind" json:"entity_kind"`
	DurationDays  int        `bson:"duration_days" json:"duration_days"`
	Price         int64      `bson:"price" json:"price"` // Price in smallest currency unit (IDR)
	Currency      string     `bson:"currency" json:"currency"`
	OriginalPrice *int64     `bson:"original_price,omitempty" json:"original_price,omitempty"` // Pre-discount display price
	Features      []string   `bson:"features,omitempty" json:"features,omitempty"`
	IsActive      bool       `bson:"is_active" json:"is_active"`
	Popular       bool       `bson:"popular,omitempty" json:"popular,omitempty"` // Display hint only
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at" json:"updated_at"`
}

// PackageRepository defines operations for managing boost packages
type PackageRepository interface {
	Create(ctx context.Context, pkg *BoostPackage) error
	GetByCode(ctx context.Context, code string) (*BoostPackage, error)
	GetByKind(ctx context.Context, kind EntityKind) ([]*BoostPackage, error)
	GetActiveByKind(ctx context.Context, kind EntityKind) ([]*BoostPackage, error)
	Update(ctx context.Context, pkg *BoostPackage) error
	Delete(ctx context.Context, code string) error
}

// PackageProvider supplies packages without being a full repository. The
// catalog service composes a PackageRepository store with a fallback provider
// so moderation keeps working when the catalog collection is empty or a
// referenced package row is gone.
type PackageProvider interface {
	PackagesForKind(kind EntityKind) []*BoostPackage
}

// DefaultPackageSet is the built-in fallback catalog, keyed by entity kind.
type DefaultPackageSet struct{}

// PackagesForKind returns the default purchasable packages for a kind.
func (DefaultPackageSet) PackagesForKind(kind EntityKind) []*BoostPackage {
	switch kind {
	case KindListing:
		return []*BoostPackage{
			{Code: "listing_7day", Name: "7 Hari Teratas", EntityKind: KindListing, DurationDays: 7, Price: 50_000, Currency: "IDR", Features: []string{"Posisi teratas hasil pencarian", "Badge Terpromosi"}, IsActive: true},
			{Code: "listing_14day", Name: "14 Hari Teratas", EntityKind: KindListing, DurationDays: 14, Price: 90_000, Currency: "IDR", OriginalPrice: int64Ptr(100_000), Features: []string{"Posisi teratas hasil pencarian", "Badge Terpromosi", "Tampil di beranda"}, IsActive: true, Popular: true},
			{Code: "listing_30day", Name: "30 Hari Teratas", EntityKind: KindListing, DurationDays: 30, Price: 150_000, Currency: "IDR", OriginalPrice: int64Ptr(200_000), Features: []string{"Posisi teratas hasil pencarian", "Badge Terpromosi", "Tampil di beranda", "Highlight warna"}, IsActive: true},
		}
	case KindGarage:
		return []*BoostPackage{
			{Code: "garage_30day", Name: "Bengkel Unggulan 30 Hari", EntityKind: KindGarage, DurationDays: 30, Price: 200_000, Currency: "IDR", Features: []string{"Urutan teratas direktori", "Badge Bengkel Unggulan"}, IsActive: true, Popular: true},
			{Code: "garage_90day", Name: "Bengkel Unggulan 90 Hari", EntityKind: KindGarage, DurationDays: 90, Price: 500_000, Currency: "IDR", OriginalPrice: int64Ptr(600_000), Features: []string{"Urutan teratas direktori", "Badge Bengkel Unggulan", "Profil diperluas"}, IsActive: true},
		}
	case KindOffer:
		return []*BoostPackage{
			{Code: "offer_7day", Name: "Promo Sorotan 7 Hari", EntityKind: KindOffer, DurationDays: 7, Price: 35_000, Currency: "IDR", Features: []string{"Tampil di carousel promo"}, IsActive: true},
			{Code: "offer_14day", Name: "Promo Sorotan 14 Hari", EntityKind: KindOffer, DurationDays: 14, Price: 60_000, Currency: "IDR", Features: []string{"Tampil di carousel promo", "Badge Promo Pilihan"}, IsActive: true, Popular: true},
		}
	default:
		return nil
	}
}

// FallbackPackage returns the kind's default pricing stand-in used when an
// entity references a package code the catalog no longer knows.
func (d DefaultPackageSet) FallbackPackage(kind EntityKind, code string) *BoostPackage {
	pkgs := d.PackagesForKind(kind)
	for _, p := range pkgs {
		if p.Code == code {
			return p
		}
	}
	if len(pkgs) > 0 {
		return pkgs[0]
	}
	return &BoostPackage{Code: code, Name: "Paket Boost", EntityKind: kind, DurationDays: 7, Price: 50_000, Currency: "IDR"}
}

func int64Ptr(v int64) *int64 {
	return &v
}
