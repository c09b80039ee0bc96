package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fadhilmahendra/otoboost/internal/domain"
)

// memPromoRepo is an in-memory PromotableRepository for one kind.
type memPromoRepo struct {
	kind     domain.EntityKind
	entities map[string]*domain.PromotableEntity
}

func newMemPromoRepo(kind domain.EntityKind, entities ...*domain.PromotableEntity) *memPromoRepo {
	m := make(map[string]*domain.PromotableEntity, len(entities))
	for _, e := range entities {
		e.Kind = kind
		m[e.ID] = e
	}
	return &memPromoRepo{kind: kind, entities: m}
}

func (r *memPromoRepo) Kind() domain.EntityKind { return r.kind }

func (r *memPromoRepo) ListPromotable(ctx context.Context) ([]*domain.PromotableEntity, error) {
	out := make([]*domain.PromotableEntity, 0, len(r.entities))
	for _, e := range r.entities {
		copied := *e
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memPromoRepo) GetPromotable(ctx context.Context, id string) (*domain.PromotableEntity, error) {
	e, ok := r.entities[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *memPromoRepo) PatchBoost(ctx context.Context, id string, patch domain.BoostPatch) error {
	e, ok := r.entities[id]
	if !ok {
		return domain.ErrNotFound
	}
	if patch.IsBoosted != nil {
		e.Boost.IsBoosted = *patch.IsBoosted
	}
	if patch.PackageCode != nil {
		e.Boost.PackageCode = *patch.PackageCode
	}
	if patch.ExpiresAt != nil {
		t := *patch.ExpiresAt
		e.Boost.ExpiresAt = &t
	} else if patch.ClearExpiresAt {
		e.Boost.ExpiresAt = nil
	}
	if patch.PaymentReference != nil {
		e.Boost.PaymentReference = *patch.PaymentReference
	}
	return nil
}

// memAudit records appended entries.
type memAudit struct {
	entries []*domain.AuditEntry
}

func (a *memAudit) Append(ctx context.Context, entry *domain.AuditEntry) error {
	a.entries = append(a.entries, entry)
	return nil
}

func (a *memAudit) GetByEntity(ctx context.Context, kind domain.EntityKind, entityID string) ([]*domain.AuditEntry, error) {
	var out []*domain.AuditEntry
	for _, e := range a.entries {
		if e.EntityKind == kind && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (a *memAudit) GetRecent(ctx context.Context, limit int64) ([]*domain.AuditEntry, error) {
	return a.entries, nil
}

type refundCall struct {
	reference string
	amount    int64
}

// memPayments records refund calls and can simulate gateway failure.
type memPayments struct {
	refunds    []refundCall
	failRefund bool
}

func (p *memPayments) GenerateVA(ctx context.Context, bank string, amount int64, userID string) (*VAResponse, error) {
	return &VAResponse{VANumber: "8888-TEST", SessionID: "sess-test", ExpiresAt: time.Now().Add(24 * time.Hour)}, nil
}

func (p *memPayments) Refund(ctx context.Context, reference string, amount int64, reason string) (string, error) {
	p.refunds = append(p.refunds, refundCall{reference: reference, amount: amount})
	if p.failRefund {
		return "", fmt.Errorf("%w: gateway timeout", domain.ErrUpstream)
	}
	return "REF-" + reference, nil
}

// memPackageStore is an in-memory PackageRepository keyed by code.
type memPackageStore struct {
	packages map[string]*domain.BoostPackage
}

func newMemPackageStore(pkgs ...*domain.BoostPackage) *memPackageStore {
	m := make(map[string]*domain.BoostPackage, len(pkgs))
	for _, p := range pkgs {
		m[p.Code] = p
	}
	return &memPackageStore{packages: m}
}

func (s *memPackageStore) Create(ctx context.Context, pkg *domain.BoostPackage) error {
	s.packages[pkg.Code] = pkg
	return nil
}

func (s *memPackageStore) GetByCode(ctx context.Context, code string) (*domain.BoostPackage, error) {
	pkg, ok := s.packages[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return pkg, nil
}

func (s *memPackageStore) GetByKind(ctx context.Context, kind domain.EntityKind) ([]*domain.BoostPackage, error) {
	var out []*domain.BoostPackage
	for _, p := range s.packages {
		if p.EntityKind == kind {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memPackageStore) GetActiveByKind(ctx context.Context, kind domain.EntityKind) ([]*domain.BoostPackage, error) {
	var out []*domain.BoostPackage
	for _, p := range s.packages {
		if p.EntityKind == kind && p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memPackageStore) Update(ctx context.Context, pkg *domain.BoostPackage) error {
	if _, ok := s.packages[pkg.Code]; !ok {
		return domain.ErrNotFound
	}
	s.packages[pkg.Code] = pkg
	return nil
}

func (s *memPackageStore) Delete(ctx context.Context, code string) error {
	if _, ok := s.packages[code]; !ok {
		return domain.ErrNotFound
	}
	delete(s.packages, code)
	return nil
}

type moderationFixture struct {
	svc      *ModerationService
	listings *memPromoRepo
	audit    *memAudit
	payments *memPayments
}

func newModerationFixture(entities ...*domain.PromotableEntity) *moderationFixture {
	listings := newMemPromoRepo(domain.KindListing, entities...)
	adapter := NewEntityAdapter(listings)
	store := newMemPackageStore(&domain.BoostPackage{
		Code:         "listing_7day",
		Name:         "7 Hari Teratas",
		EntityKind:   domain.KindListing,
		DurationDays: 7,
		Price:        50_000,
		Currency:     "IDR",
		IsActive:     true,
	})
	audit := &memAudit{}
	payments := &memPayments{}
	svc := NewModerationService(adapter, NewCatalogService(store), payments, audit)
	return &moderationFixture{svc: svc, listings: listings, audit: audit, payments: payments}
}

func pendingListing(id string) *domain.PromotableEntity {
	return &domain.PromotableEntity{
		ID:      id,
		OwnerID: "user-1",
		Title:   "Toyota Avanza 2019",
		Boost: domain.BoostFields{
			PackageCode:      "listing_7day",
			PaymentReference: "pay-123",
		},
	}
}

func activeListing(id string, expiresAt time.Time) *domain.PromotableEntity {
	return &domain.PromotableEntity{
		ID:      id,
		OwnerID: "user-1",
		Title:   "Honda Brio 2021",
		Boost: domain.BoostFields{
			IsBoosted:        true,
			PackageCode:      "listing_7day",
			ExpiresAt:        &expiresAt,
			PaymentReference: "pay-456",
		},
	}
}

func requireAudit(t *testing.T, audit *memAudit, action string, success bool) *domain.AuditEntry {
	t.Helper()
	if len(audit.entries) != 1 {
		t.Fatalf("expected exactly 1 audit entry, got %d", len(audit.entries))
	}
	entry := audit.entries[0]
	if entry.Action != action {
		t.Errorf("audit action = %q, want %q", entry.Action, action)
	}
	if entry.Success != success {
		t.Errorf("audit success = %v, want %v", entry.Success, success)
	}
	return entry
}

func TestApproveActivatesPendingBoost(t *testing.T) {
	fx := newModerationFixture(pendingListing("l1"))
	before := time.Now().UTC()

	result, err := fx.svc.Approve(context.Background(), "admin-1", domain.KindListing, "l1")
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if !result.Success || result.Status != domain.BoostStatusActive {
		t.Errorf("result = %+v, want success with active status", result)
	}

	stored := fx.listings.entities["l1"]
	if !stored.Boost.IsBoosted {
		t.Error("entity should be boosted after approval")
	}
	if stored.Boost.ExpiresAt == nil {
		t.Fatal("expiry should be set after approval")
	}
	want := before.AddDate(0, 0, 7)
	if diff := stored.Boost.ExpiresAt.Sub(want); diff < -2*time.Second || diff > 2*time.Second {
		t.Errorf("expiry = %v, want about %v", stored.Boost.ExpiresAt, want)
	}
	requireAudit(t, fx.audit, domain.AuditActionApprove, true)
}

func TestApproveRejectsNonPendingStatus(t *testing.T) {
	tests := []struct {
		name   string
		entity *domain.PromotableEntity
	}{
		{"active boost", activeListing("l1", time.Now().UTC().Add(48*time.Hour))},
		{"expired boost", activeListing("l1", time.Now().UTC().Add(-time.Hour))},
		{"no boost", &domain.PromotableEntity{ID: "l1", OwnerID: "user-1", Title: "Plain"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newModerationFixture(tt.entity)
			_, err := fx.svc.Approve(context.Background(), "admin-1", domain.KindListing, "l1")
			if !errors.Is(err, domain.ErrConflict) {
				t.Fatalf("Approve() error = %v, want ErrConflict", err)
			}
			requireAudit(t, fx.audit, domain.AuditActionApprove, false)
		})
	}
}

func TestApproveUnknownEntity(t *testing.T) {
	fx := newModerationFixture()
	_, err := fx.svc.Approve(context.Background(), "admin-1", domain.KindListing, "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Approve() error = %v, want ErrNotFound", err)
	}
	requireAudit(t, fx.audit, domain.AuditActionApprove, false)
}

func TestDenyClearsBoostAndRefunds(t *testing.T) {
	fx := newModerationFixture(pendingListing("l1"))

	result, err := fx.svc.Deny(context.Background(), "admin-1", domain.KindListing, "l1", "blurry photos")
	if err != nil {
		t.Fatalf("Deny() error = %v", err)
	}
	if !result.Success || result.Status != domain.BoostStatusNone {
		t.Errorf("result = %+v, want success with none status", result)
	}
	if result.Warning != "" {
		t.Errorf("unexpected warning: %q", result.Warning)
	}

	stored := fx.listings.entities["l1"]
	if stored.Boost.IsBoosted || stored.Boost.PackageCode != "" || stored.Boost.ExpiresAt != nil || stored.Boost.PaymentReference != "" {
		t.Errorf("boost fields not fully cleared: %+v", stored.Boost)
	}

	if len(fx.payments.refunds) != 1 {
		t.Fatalf("expected 1 refund call, got %d", len(fx.payments.refunds))
	}
	if got := fx.payments.refunds[0]; got.reference != "pay-123" || got.amount != 50_000 {
		t.Errorf("refund call = %+v, want pay-123 for 50000", got)
	}

	entry := requireAudit(t, fx.audit, domain.AuditActionDeny, true)
	if entry.Notes != "blurry photos" {
		t.Errorf("audit notes = %q, want denial notes", entry.Notes)
	}
}

func TestDenyRequiresNotes(t *testing.T) {
	fx := newModerationFixture(pendingListing("l1"))

	_, err := fx.svc.Deny(context.Background(), "admin-1", domain.KindListing, "l1", "")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Deny() error = %v, want ErrValidation", err)
	}

	stored := fx.listings.entities["l1"]
	if stored.Boost.PackageCode != "listing_7day" {
		t.Error("entity must not be mutated on a rejected denial")
	}
	if len(fx.payments.refunds) != 0 {
		t.Error("no refund should be issued on a rejected denial")
	}
	requireAudit(t, fx.audit, domain.AuditActionDeny, false)
}

func TestDenyWithoutPaymentSkipsGateway(t *testing.T) {
	entity := pendingListing("l1")
	entity.Boost.PaymentReference = ""
	fx := newModerationFixture(entity)

	result, err := fx.svc.Deny(context.Background(), "admin-1", domain.KindListing, "l1", "spam")
	if err != nil {
		t.Fatalf("Deny() error = %v", err)
	}
	if len(fx.payments.refunds) != 0 {
		t.Error("gateway must not be called without a payment reference")
	}
	if result.Warning != "" {
		t.Errorf("unexpected warning: %q", result.Warning)
	}
}

func TestExtendStacksOnCurrentExpiry(t *testing.T) {
	current := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)
	fx := newModerationFixture(activeListing("l1", current))

	result, err := fx.svc.Extend(context.Background(), "admin-1", domain.KindListing, "l1", 7)
	if err != nil {
		t.Fatalf("Extend() error = %v", err)
	}
	if result.Status != domain.BoostStatusActive {
		t.Errorf("status = %v, want active", result.Status)
	}

	stored := fx.listings.entities["l1"]
	want := current.AddDate(0, 0, 7)
	if !stored.Boost.ExpiresAt.Equal(want) {
		t.Errorf("expiry = %v, want %v (stacked on current expiry, not now)", stored.Boost.ExpiresAt, want)
	}
	requireAudit(t, fx.audit, domain.AuditActionExtend, true)
}

func TestExtendRejectsNonPositiveDays(t *testing.T) {
	for _, days := range []int{0, -3} {
		fx := newModerationFixture(activeListing("l1", time.Now().UTC().Add(time.Hour)))
		_, err := fx.svc.Extend(context.Background(), "admin-1", domain.KindListing, "l1", days)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Extend(%d) error = %v, want ErrValidation", days, err)
		}
	}
}

func TestExtendRequiresActiveBoost(t *testing.T) {
	fx := newModerationFixture(pendingListing("l1"))
	_, err := fx.svc.Extend(context.Background(), "admin-1", domain.KindListing, "l1", 7)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("Extend() error = %v, want ErrConflict", err)
	}
	requireAudit(t, fx.audit, domain.AuditActionExtend, false)
}

func TestRefundRevokesActiveBoost(t *testing.T) {
	fx := newModerationFixture(activeListing("l1", time.Now().UTC().Add(48*time.Hour)))

	result, err := fx.svc.Refund(context.Background(), "admin-1", domain.KindListing, "l1", "buyer complaint")
	if err != nil {
		t.Fatalf("Refund() error = %v", err)
	}
	if result.Status != domain.BoostStatusNone || result.Warning != "" {
		t.Errorf("result = %+v, want clean none status", result)
	}

	stored := fx.listings.entities["l1"]
	if stored.Boost.IsBoosted || stored.Boost.ExpiresAt != nil {
		t.Errorf("boost not cleared: %+v", stored.Boost)
	}
	if len(fx.payments.refunds) != 1 || fx.payments.refunds[0].reference != "pay-456" {
		t.Errorf("refund calls = %+v, want one for pay-456", fx.payments.refunds)
	}
	requireAudit(t, fx.audit, domain.AuditActionRefund, true)
}

func TestRefundGatewayFailureIsWarningNotRollback(t *testing.T) {
	fx := newModerationFixture(activeListing("l1", time.Now().UTC().Add(48*time.Hour)))
	fx.payments.failRefund = true

	result, err := fx.svc.Refund(context.Background(), "admin-1", domain.KindListing, "l1", "buyer complaint")
	if err != nil {
		t.Fatalf("Refund() error = %v, gateway failure must not fail the action", err)
	}
	if !result.Success || result.Status != domain.BoostStatusNone {
		t.Errorf("result = %+v, want successful none status", result)
	}
	if result.Warning == "" {
		t.Error("gateway failure must surface as a warning")
	}

	stored := fx.listings.entities["l1"]
	if stored.Boost.IsBoosted {
		t.Error("boost removal must not be rolled back on gateway failure")
	}
	requireAudit(t, fx.audit, domain.AuditActionRefund, true)
}

func TestRefundRequiresActiveBoost(t *testing.T) {
	fx := newModerationFixture(activeListing("l1", time.Now().UTC().Add(-time.Hour)))
	_, err := fx.svc.Refund(context.Background(), "admin-1", domain.KindListing, "l1", "late complaint")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("Refund() on expired boost error = %v, want ErrConflict", err)
	}
	if len(fx.payments.refunds) != 0 {
		t.Error("no refund on a rejected action")
	}
	requireAudit(t, fx.audit, domain.AuditActionRefund, false)
}

func TestRegisterPurchaseMarksPending(t *testing.T) {
	fx := newModerationFixture(&domain.PromotableEntity{ID: "l1", OwnerID: "user-1", Title: "Plain"})

	err := fx.svc.RegisterPurchase(context.Background(), domain.KindListing, "l1", "listing_7day", "sess-789")
	if err != nil {
		t.Fatalf("RegisterPurchase() error = %v", err)
	}

	stored := fx.listings.entities["l1"]
	if got := domain.DeriveBoostStatus(stored.Boost, time.Now().UTC()); got != domain.BoostStatusPending {
		t.Errorf("derived status = %v, want pending", got)
	}
	if stored.Boost.PaymentReference != "sess-789" {
		t.Errorf("payment reference = %q, want sess-789", stored.Boost.PaymentReference)
	}
	if len(fx.audit.entries) != 0 {
		t.Error("purchase registration is not a moderation action, no audit entry expected")
	}
}
