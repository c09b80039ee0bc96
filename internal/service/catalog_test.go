package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fadhilmahendra/otoboost/internal/domain"
)

func TestListForPurchaseFallsBackWhenEmpty(t *testing.T) {
	svc := NewCatalogService(newMemPackageStore())

	packages, err := svc.ListForPurchase(context.Background(), domain.KindListing)
	if err != nil {
		t.Fatalf("ListForPurchase() error = %v", err)
	}
	if len(packages) == 0 {
		t.Fatal("empty catalog should serve the default package set")
	}
	for _, pkg := range packages {
		if pkg.EntityKind != domain.KindListing {
			t.Errorf("default package %s has kind %s, want listing", pkg.Code, pkg.EntityKind)
		}
	}
}

func TestListForPurchasePrefersStoredPackages(t *testing.T) {
	store := newMemPackageStore(&domain.BoostPackage{
		Code: "listing_custom", Name: "Custom", EntityKind: domain.KindListing,
		DurationDays: 3, Price: 25_000, Currency: "IDR", IsActive: true,
	})
	svc := NewCatalogService(store)

	packages, err := svc.ListForPurchase(context.Background(), domain.KindListing)
	if err != nil {
		t.Fatalf("ListForPurchase() error = %v", err)
	}
	if len(packages) != 1 || packages[0].Code != "listing_custom" {
		t.Errorf("got %+v, want the single stored package", packages)
	}
}

func TestGetForPricingSurvivesDeletedPackage(t *testing.T) {
	store := newMemPackageStore(&domain.BoostPackage{
		Code: "listing_7day", Name: "7 Hari Teratas", EntityKind: domain.KindListing,
		DurationDays: 7, Price: 50_000, Currency: "IDR", IsActive: true,
	})
	svc := NewCatalogService(store)

	if err := svc.Delete(context.Background(), "listing_7day"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	pkg := svc.GetForPricing(context.Background(), domain.KindListing, "listing_7day")
	if pkg == nil {
		t.Fatal("pricing lookup must never return nil")
	}
	if pkg.Price <= 0 || pkg.DurationDays <= 0 {
		t.Errorf("stand-in package lacks usable pricing: %+v", pkg)
	}
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	svc := NewCatalogService(newMemPackageStore())
	pkg := &domain.BoostPackage{
		Code: "offer_7day", Name: "Promo", EntityKind: domain.KindOffer,
		DurationDays: 7, Price: 35_000, Currency: "IDR", IsActive: true,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}

	if err := svc.Create(context.Background(), pkg); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := svc.Create(context.Background(), pkg); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate Create() error = %v, want ErrConflict", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewCatalogService(newMemPackageStore())

	tests := []struct {
		name string
		pkg  *domain.BoostPackage
	}{
		{"missing code", &domain.BoostPackage{Name: "X", EntityKind: domain.KindListing, DurationDays: 7, Price: 1, Currency: "IDR"}},
		{"missing name", &domain.BoostPackage{Code: "x", EntityKind: domain.KindListing, DurationDays: 7, Price: 1, Currency: "IDR"}},
		{"bad kind", &domain.BoostPackage{Code: "x", Name: "X", EntityKind: "banner", DurationDays: 7, Price: 1, Currency: "IDR"}},
		{"zero duration", &domain.BoostPackage{Code: "x", Name: "X", EntityKind: domain.KindListing, Price: 1, Currency: "IDR"}},
		{"negative price", &domain.BoostPackage{Code: "x", Name: "X", EntityKind: domain.KindListing, DurationDays: 7, Price: -1, Currency: "IDR"}},
		{"missing currency", &domain.BoostPackage{Code: "x", Name: "X", EntityKind: domain.KindListing, DurationDays: 7, Price: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Create(context.Background(), tt.pkg); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("Create() error = %v, want ErrValidation", err)
			}
		})
	}
}
