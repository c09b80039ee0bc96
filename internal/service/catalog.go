package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/fadhilmahendra/otoboost/internal/domain"
)

// CatalogService exposes the boost package catalog. It composes the persisted
// store with an explicit fallback provider: an empty or unreachable catalog
// degrades to the built-in package set instead of taking the purchase screen
// and the moderation pricing lookups down with it.
type CatalogService struct {
	store    domain.PackageRepository
	fallback domain.DefaultPackageSet
}

// NewCatalogService creates a catalog service over the given store
func NewCatalogService(store domain.PackageRepository) *CatalogService {
	return &CatalogService{store: store}
}

// ListForPurchase returns the active packages offered for new purchases of a
// kind, falling back to the default set when the store has none.
func (s *CatalogService) ListForPurchase(ctx context.Context, kind domain.EntityKind) ([]*domain.BoostPackage, error) {
	packages, err := s.store.GetActiveByKind(ctx, kind)
	if err != nil {
		log.Printf("[Catalog] Store unavailable, serving defaults for %s: %v", kind, err)
		return s.fallback.PackagesForKind(kind), nil
	}
	if len(packages) == 0 {
		return s.fallback.PackagesForKind(kind), nil
	}
	return packages, nil
}

// ListAll returns every package of a kind including inactive ones (admin view)
func (s *CatalogService) ListAll(ctx context.Context, kind domain.EntityKind) ([]*domain.BoostPackage, error) {
	return s.store.GetByKind(ctx, kind)
}

// Get returns one package by code, or domain.ErrNotFound. Inactive packages
// resolve normally: they stay valid for entities that already bought them.
func (s *CatalogService) Get(ctx context.Context, code string) (*domain.BoostPackage, error) {
	return s.store.GetByCode(ctx, code)
}

// GetForPricing resolves a package for pricing display and refund amounts.
// A code the catalog no longer knows yields the kind-default stand-in rather
// than an error, so moderation keeps working against deleted packages.
func (s *CatalogService) GetForPricing(ctx context.Context, kind domain.EntityKind, code string) *domain.BoostPackage {
	pkg, err := s.store.GetByCode(ctx, code)
	if err == nil {
		return pkg
	}
	if !errors.Is(err, domain.ErrNotFound) {
		log.Printf("[Catalog] Pricing lookup failed for %s: %v", code, err)
	}
	return s.fallback.FallbackPackage(kind, code)
}

// Create validates and persists a new package
func (s *CatalogService) Create(ctx context.Context, pkg *domain.BoostPackage) error {
	if err := validatePackage(pkg); err != nil {
		return err
	}
	if _, err := s.store.GetByCode(ctx, pkg.Code); err == nil {
		return fmt.Errorf("%w: package code %q already exists", domain.ErrConflict, pkg.Code)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return s.store.Create(ctx, pkg)
}

// Update validates and persists package changes
func (s *CatalogService) Update(ctx context.Context, pkg *domain.BoostPackage) error {
	if err := validatePackage(pkg); err != nil {
		return err
	}
	return s.store.Update(ctx, pkg)
}

// Delete removes a package from the catalog. Entities referencing its code
// keep their boost state; the package merely disappears from future purchase
// offers. Deactivating (IsActive=false) is usually the better admin move.
func (s *CatalogService) Delete(ctx context.Context, code string) error {
	return s.store.Delete(ctx, code)
}

func validatePackage(pkg *domain.BoostPackage) error {
	if pkg.Code == "" {
		return fmt.Errorf("%w: package code is required", domain.ErrValidation)
	}
	if pkg.Name == "" {
		return fmt.Errorf("%w: package name is required", domain.ErrValidation)
	}
	if _, err := domain.ParseEntityKind(string(pkg.EntityKind)); err != nil {
		return err
	}
	if pkg.DurationDays <= 0 {
		return fmt.Errorf("%w: duration_days must be positive", domain.ErrValidation)
	}
	if pkg.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	if pkg.Currency == "" {
		return fmt.Errorf("%w: currency is required", domain.ErrValidation)
	}
	return nil
}
