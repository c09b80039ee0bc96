package service

import (
	"context"
	"testing"
	"time"

	"github.com/fadhilmahendra/otoboost/internal/domain"
)

// memIdentity counts lookup calls to prove the projection batches them.
type memIdentity struct {
	users     map[string]domain.DisplayInfo
	calls     int
	lastBatch []string
}

func (m *memIdentity) GetDisplayInfo(ctx context.Context, ownerIDs []string) (map[string]domain.DisplayInfo, error) {
	m.calls++
	m.lastBatch = ownerIDs
	out := make(map[string]domain.DisplayInfo)
	for _, id := range ownerIDs {
		if info, ok := m.users[id]; ok {
			out[id] = info
		}
	}
	return out, nil
}

func newRequestsFixture(identity *memIdentity, entities ...*domain.PromotableEntity) *BoostRequestService {
	listings := newMemPromoRepo(domain.KindListing, entities...)
	store := newMemPackageStore(&domain.BoostPackage{
		Code:         "listing_7day",
		Name:         "7 Hari Teratas",
		EntityKind:   domain.KindListing,
		DurationDays: 7,
		Price:        50_000,
		Currency:     "IDR",
		IsActive:     true,
	})
	return NewBoostRequestService(NewEntityAdapter(listings), identity, NewCatalogService(store))
}

func TestListBatchesOwnerLookup(t *testing.T) {
	identity := &memIdentity{users: map[string]domain.DisplayInfo{
		"user-1": {Name: "Budi Santoso", Email: "budi@example.com"},
		"user-2": {Name: "Siti Rahayu", Email: "siti@example.com"},
	}}

	e1 := pendingListing("l1")
	e2 := pendingListing("l2")
	e3 := pendingListing("l3")
	e2.OwnerID = "user-2"
	e3.OwnerID = "user-2"
	svc := newRequestsFixture(identity, e1, e2, e3)

	requests, err := svc.List(context.Background(), domain.KindListing, domain.FilterAll)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(requests) != 3 {
		t.Fatalf("got %d requests, want 3", len(requests))
	}

	if identity.calls != 1 {
		t.Errorf("identity lookups = %d, want exactly 1 batched call", identity.calls)
	}
	if len(identity.lastBatch) != 2 {
		t.Errorf("batch size = %d, want 2 distinct owner ids", len(identity.lastBatch))
	}

	for _, req := range requests {
		if req.OwnerName == domain.UnknownOwnerName {
			t.Errorf("owner %s should have resolved, got placeholder", req.OwnerID)
		}
	}
}

func TestListUsesPlaceholdersForMissingOwner(t *testing.T) {
	identity := &memIdentity{users: map[string]domain.DisplayInfo{}}
	entity := pendingListing("l1")
	entity.OwnerID = "deleted-user"
	svc := newRequestsFixture(identity, entity)

	requests, err := svc.List(context.Background(), domain.KindListing, domain.FilterAll)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(requests) != 1 {
		t.Fatalf("got %d requests, want 1", len(requests))
	}
	if requests[0].OwnerName != domain.UnknownOwnerName {
		t.Errorf("owner name = %q, want %q", requests[0].OwnerName, domain.UnknownOwnerName)
	}
}

func TestListJoinsPackagePricing(t *testing.T) {
	identity := &memIdentity{users: map[string]domain.DisplayInfo{}}
	svc := newRequestsFixture(identity, pendingListing("l1"))

	requests, err := svc.List(context.Background(), domain.KindListing, domain.FilterAll)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	req := requests[0]
	if req.PackageName != "7 Hari Teratas" || req.Price != 50_000 || req.DurationDays != 7 {
		t.Errorf("package join = %+v, want catalog row values", req)
	}
}

func TestListFallsBackForDeletedPackage(t *testing.T) {
	identity := &memIdentity{users: map[string]domain.DisplayInfo{}}
	entity := pendingListing("l1")
	entity.Boost.PackageCode = "listing_gone"
	svc := newRequestsFixture(identity, entity)

	requests, err := svc.List(context.Background(), domain.KindListing, domain.FilterAll)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	req := requests[0]
	if req.PackageName == "" || req.Price == 0 {
		t.Errorf("deleted package should yield default pricing stand-in, got %+v", req)
	}
}

func TestListFiltersByDerivedStatus(t *testing.T) {
	now := time.Now().UTC()
	identity := &memIdentity{users: map[string]domain.DisplayInfo{}}
	svc := newRequestsFixture(identity,
		pendingListing("pending-1"),
		activeListing("active-1", now.Add(48*time.Hour)),
		activeListing("expired-1", now.Add(-time.Hour)),
		&domain.PromotableEntity{ID: "plain-1", OwnerID: "user-1", Title: "Plain"},
	)

	tests := []struct {
		filter domain.StatusFilter
		wantID string
		want   int
	}{
		{domain.FilterAll, "", 4},
		{domain.FilterPending, "pending-1", 1},
		{domain.FilterActive, "active-1", 1},
		{domain.FilterExpired, "expired-1", 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			requests, err := svc.List(context.Background(), domain.KindListing, tt.filter)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(requests) != tt.want {
				t.Fatalf("got %d requests, want %d", len(requests), tt.want)
			}
			if tt.wantID != "" && requests[0].EntityID != tt.wantID {
				t.Errorf("entity = %s, want %s", requests[0].EntityID, tt.wantID)
			}
		})
	}
}

func TestListFormatsExpiryAndCountdown(t *testing.T) {
	now := time.Now().UTC()
	identity := &memIdentity{users: map[string]domain.DisplayInfo{}}
	svc := newRequestsFixture(identity,
		activeListing("active-1", now.Add(49*time.Hour+30*time.Minute)),
		activeListing("expired-1", now.Add(-time.Hour)),
	)

	requests, err := svc.List(context.Background(), domain.KindListing, domain.FilterAll)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	byID := make(map[string]*domain.BoostRequest)
	for _, r := range requests {
		byID[r.EntityID] = r
	}

	active := byID["active-1"]
	if active.ExpiresAt == nil {
		t.Fatal("active boost should carry an RFC 3339 expiry")
	}
	if _, err := time.Parse(time.RFC3339, *active.ExpiresAt); err != nil {
		t.Errorf("expiry %q is not RFC 3339: %v", *active.ExpiresAt, err)
	}
	if active.TimeRemaining != "2d 1h" {
		t.Errorf("countdown = %q, want 2d 1h", active.TimeRemaining)
	}

	expired := byID["expired-1"]
	if expired.Status != domain.BoostStatusExpired || expired.TimeRemaining != "Expired" {
		t.Errorf("expired request = %+v, want expired status with Expired countdown", expired)
	}
}
