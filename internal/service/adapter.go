package service

import (
	"context"
	"fmt"

	"github.com/fadhilmahendra/otoboost/internal/domain"
)

// EntityAdapter maps entity kinds to their promotable repositories. It is the
// single choke point for boost-field reads and writes across the three kinds;
// the moderation service and the request projection never touch a kind-specific
// repository directly.
type EntityAdapter struct {
	repos map[domain.EntityKind]domain.PromotableRepository
}

// NewEntityAdapter registers the promotable repositories. Registering the same
// kind twice is a wiring bug and panics at startup, not at request time.
func NewEntityAdapter(repos ...domain.PromotableRepository) *EntityAdapter {
	m := make(map[domain.EntityKind]domain.PromotableRepository, len(repos))
	for _, repo := range repos {
		if _, dup := m[repo.Kind()]; dup {
			panic(fmt.Sprintf("duplicate promotable repository for kind %q", repo.Kind()))
		}
		m[repo.Kind()] = repo
	}
	return &EntityAdapter{repos: m}
}

// Kinds returns the registered entity kinds.
func (a *EntityAdapter) Kinds() []domain.EntityKind {
	kinds := make([]domain.EntityKind, 0, len(a.repos))
	for k := range a.repos {
		kinds = append(kinds, k)
	}
	return kinds
}

func (a *EntityAdapter) repo(kind domain.EntityKind) (domain.PromotableRepository, error) {
	repo, ok := a.repos[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown entity kind %q", domain.ErrValidation, kind)
	}
	return repo, nil
}

// List returns every entity of the kind in the uniform promotable shape
func (a *EntityAdapter) List(ctx context.Context, kind domain.EntityKind) ([]*domain.PromotableEntity, error) {
	repo, err := a.repo(kind)
	if err != nil {
		return nil, err
	}
	return repo.ListPromotable(ctx)
}

// Get returns one entity of the kind, or domain.ErrNotFound
func (a *EntityAdapter) Get(ctx context.Context, kind domain.EntityKind, id string) (*domain.PromotableEntity, error) {
	repo, err := a.repo(kind)
	if err != nil {
		return nil, err
	}
	return repo.GetPromotable(ctx, id)
}

// Patch applies a boost-field patch to one entity. This adapter is the sole
// writer of boost fields; nothing else updates them.
func (a *EntityAdapter) Patch(ctx context.Context, kind domain.EntityKind, id string, patch domain.BoostPatch) error {
	repo, err := a.repo(kind)
	if err != nil {
		return err
	}
	return repo.PatchBoost(ctx, id, patch)
}
