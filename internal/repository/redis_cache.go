package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fadhilmahendra/otoboost/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	packagesByKindKeyPrefix = "catalog:packages:" // + entity kind
	packageByCodeKeyPrefix  = "catalog:package:"  // + code
)

// RedisCacheRepository caches catalog reads in Redis
type RedisCacheRepository struct {
	client *redis.Client
}

// NewRedisCacheRepository creates a new Redis cache repository
func NewRedisCacheRepository(client *redis.Client) *RedisCacheRepository {
	return &RedisCacheRepository{
		client: client,
	}
}

// SetPackagesForKind caches the active package list for an entity kind with TTL
func (r *RedisCacheRepository) SetPackagesForKind(ctx context.Context, kind domain.EntityKind, packages []*domain.BoostPackage, ttl time.Duration) error {
	key := packagesByKindKeyPrefix + string(kind)

	data, err := json.Marshal(packages)
	if err != nil {
		return fmt.Errorf("failed to marshal packages: %w", err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache packages: %w", err)
	}
	return nil
}

// GetPackagesForKind retrieves the cached package list for a kind.
// A cache miss returns (nil, nil).
func (r *RedisCacheRepository) GetPackagesForKind(ctx context.Context, kind domain.EntityKind) ([]*domain.BoostPackage, error) {
	ctx, span := otel.Tracer("otoboost-cache").Start(ctx, "cache.GetPackagesForKind")
	defer span.End()
	span.SetAttributes(attribute.String("boost.entity_kind", string(kind)))

	key := packagesByKindKeyPrefix + string(kind)

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			span.SetAttributes(attribute.Bool("cache.hit", false))
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get cached packages: %w", err)
	}
	span.SetAttributes(attribute.Bool("cache.hit", true))

	var packages []*domain.BoostPackage
	if err := json.Unmarshal(data, &packages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached packages: %w", err)
	}
	return packages, nil
}

// SetPackage caches a single package by code with TTL
func (r *RedisCacheRepository) SetPackage(ctx context.Context, pkg *domain.BoostPackage, ttl time.Duration) error {
	key := packageByCodeKeyPrefix + pkg.Code

	data, err := json.Marshal(pkg)
	if err != nil {
		return fmt.Errorf("failed to marshal package: %w", err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache package: %w", err)
	}
	return nil
}

// GetPackage retrieves a cached package by code. A cache miss returns (nil, nil).
func (r *RedisCacheRepository) GetPackage(ctx context.Context, code string) (*domain.BoostPackage, error) {
	key := packageByCodeKeyPrefix + code

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached package: %w", err)
	}

	var pkg domain.BoostPackage
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached package: %w", err)
	}
	return &pkg, nil
}

// InvalidateKind drops the cached list for a kind and, if codes are given,
// the per-code entries too. Called after every catalog write.
func (r *RedisCacheRepository) InvalidateKind(ctx context.Context, kind domain.EntityKind, codes ...string) error {
	keys := []string{packagesByKindKeyPrefix + string(kind)}
	for _, code := range codes {
		keys = append(keys, packageByCodeKeyPrefix+code)
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	return nil
}
