package service

import (
	"context"
	"log"
	"time"

	"github.com/fadhilmahendra/otoboost/internal/domain"
	"golang.org/x/sync/errgroup"
)

// BoostRequestService builds the denormalized moderation read-model: every
// promotable entity of a kind, its derived status, owner display identity and
// package pricing in one projection. Nothing here mutates state.
type BoostRequestService struct {
	adapter  *EntityAdapter
	identity domain.IdentityProvider
	catalog  *CatalogService
}

// NewBoostRequestService creates a boost request service
func NewBoostRequestService(adapter *EntityAdapter, identity domain.IdentityProvider, catalog *CatalogService) *BoostRequestService {
	return &BoostRequestService{
		adapter:  adapter,
		identity: identity,
		catalog:  catalog,
	}
}

// List returns the boost requests of a kind filtered by derived status.
// Owner identities are resolved in a single batched lookup over the distinct
// owner ids of the page — never one query per row. Missing owners or packages
// get display placeholders; moderation stays usable with inconsistent data.
func (s *BoostRequestService) List(ctx context.Context, kind domain.EntityKind, filter domain.StatusFilter) ([]*domain.BoostRequest, error) {
	entities, err := s.adapter.List(ctx, kind)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	filtered := make([]*domain.PromotableEntity, 0, len(entities))
	statuses := make(map[string]domain.BoostStatus, len(entities))
	for _, entity := range entities {
		status := domain.DeriveBoostStatus(entity.Boost, now)
		if filter != domain.FilterAll && domain.StatusFilter(status) != filter {
			continue
		}
		statuses[entity.ID] = status
		filtered = append(filtered, entity)
	}

	ownerSet := make(map[string]struct{})
	codeSet := make(map[string]struct{})
	for _, entity := range filtered {
		ownerSet[entity.OwnerID] = struct{}{}
		if entity.Boost.PackageCode != "" {
			codeSet[entity.Boost.PackageCode] = struct{}{}
		}
	}

	owners := make(map[string]domain.DisplayInfo)
	packages := make(map[string]*domain.BoostPackage)

	// The identity and pricing joins are independent; run them concurrently.
	// Both degrade to placeholders on failure instead of failing the listing.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids := make([]string, 0, len(ownerSet))
		for id := range ownerSet {
			ids = append(ids, id)
		}
		resolved, err := s.identity.GetDisplayInfo(gctx, ids)
		if err != nil {
			log.Printf("[BoostRequests] Identity lookup failed, using placeholders: %v", err)
			return nil
		}
		owners = resolved
		return nil
	})
	g.Go(func() error {
		for code := range codeSet {
			packages[code] = s.catalog.GetForPricing(gctx, kind, code)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	requests := make([]*domain.BoostRequest, 0, len(filtered))
	for _, entity := range filtered {
		requests = append(requests, s.buildRequest(entity, statuses[entity.ID], owners, packages, now))
	}
	return requests, nil
}

func (s *BoostRequestService) buildRequest(
	entity *domain.PromotableEntity,
	status domain.BoostStatus,
	owners map[string]domain.DisplayInfo,
	packages map[string]*domain.BoostPackage,
	now time.Time,
) *domain.BoostRequest {
	req := &domain.BoostRequest{
		EntityKind:   entity.Kind,
		EntityID:     entity.ID,
		Title:        entity.Title,
		ThumbnailURL: entity.ThumbnailURL,
		OwnerID:      entity.OwnerID,
		OwnerName:    domain.UnknownOwnerName,
		Status:       status,
		PackageCode:  entity.Boost.PackageCode,
		PaymentRef:   entity.Boost.PaymentReference,
	}

	if info, ok := owners[entity.OwnerID]; ok {
		req.OwnerName = info.Name
		req.OwnerEmail = info.Email
	}

	if entity.Boost.PackageCode != "" {
		if pkg, ok := packages[entity.Boost.PackageCode]; ok && pkg != nil {
			req.PackageName = pkg.Name
			req.DurationDays = pkg.DurationDays
			req.Price = pkg.Price
			req.Currency = pkg.Currency
		}
	}

	if entity.Boost.ExpiresAt != nil {
		formatted := entity.Boost.ExpiresAt.UTC().Format(time.RFC3339)
		req.ExpiresAt = &formatted
		req.TimeRemaining = domain.FormatTimeRemaining(*entity.Boost.ExpiresAt, now)
	}
	return req
}
