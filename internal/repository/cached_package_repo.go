package repository

import (
	"context"
	"log"
	"time"

	"github.com/fadhilmahendra/otoboost/internal/domain"
)

// Catalog rows change rarely (admin edits only), so a short TTL keeps the
// purchase screen off Mongo without making admin edits feel laggy.
const packageCacheTTL = 5 * time.Minute

// CachedPackageRepository decorates a PackageRepository with a Redis
// cache-aside layer. Cache failures degrade to the underlying store, never to
// an error: the catalog must stay readable when Redis is down.
type CachedPackageRepository struct {
	inner domain.PackageRepository
	cache *RedisCacheRepository
}

// NewCachedPackageRepository wraps a package repository with caching
func NewCachedPackageRepository(inner domain.PackageRepository, cache *RedisCacheRepository) *CachedPackageRepository {
	return &CachedPackageRepository{
		inner: inner,
		cache: cache,
	}
}

func (r *CachedPackageRepository) Create(ctx context.Context, pkg *domain.BoostPackage) error {
	if err := r.inner.Create(ctx, pkg); err != nil {
		return err
	}
	r.invalidate(ctx, pkg.EntityKind, pkg.Code)
	return nil
}

func (r *CachedPackageRepository) GetByCode(ctx context.Context, code string) (*domain.BoostPackage, error) {
	if cached, err := r.cache.GetPackage(ctx, code); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("[Catalog] Cache read failed for %s: %v", code, err)
	}

	pkg, err := r.inner.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := r.cache.SetPackage(ctx, pkg, packageCacheTTL); err != nil {
		log.Printf("[Catalog] Cache write failed for %s: %v", code, err)
	}
	return pkg, nil
}

func (r *CachedPackageRepository) GetByKind(ctx context.Context, kind domain.EntityKind) ([]*domain.BoostPackage, error) {
	// Admin listings bypass the cache: they include inactive rows and must
	// reflect edits immediately.
	return r.inner.GetByKind(ctx, kind)
}

func (r *CachedPackageRepository) GetActiveByKind(ctx context.Context, kind domain.EntityKind) ([]*domain.BoostPackage, error) {
	if cached, err := r.cache.GetPackagesForKind(ctx, kind); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("[Catalog] Cache read failed for kind %s: %v", kind, err)
	}

	packages, err := r.inner.GetActiveByKind(ctx, kind)
	if err != nil {
		return nil, err
	}

	if err := r.cache.SetPackagesForKind(ctx, kind, packages, packageCacheTTL); err != nil {
		log.Printf("[Catalog] Cache write failed for kind %s: %v", kind, err)
	}
	return packages, nil
}

func (r *CachedPackageRepository) Update(ctx context.Context, pkg *domain.BoostPackage) error {
	if err := r.inner.Update(ctx, pkg); err != nil {
		return err
	}
	r.invalidate(ctx, pkg.EntityKind, pkg.Code)
	return nil
}

func (r *CachedPackageRepository) Delete(ctx context.Context, code string) error {
	// Resolve the kind before deleting so the right list key is dropped.
	kind := domain.EntityKind("")
	if pkg, err := r.inner.GetByCode(ctx, code); err == nil {
		kind = pkg.EntityKind
	}

	if err := r.inner.Delete(ctx, code); err != nil {
		return err
	}

	if kind != "" {
		r.invalidate(ctx, kind, code)
	}
	return nil
}

func (r *CachedPackageRepository) invalidate(ctx context.Context, kind domain.EntityKind, code string) {
	if err := r.cache.InvalidateKind(ctx, kind, code); err != nil {
		log.Printf("[Catalog] Cache invalidation failed for %s: %v", code, err)
	}
}
