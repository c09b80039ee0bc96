package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fadhilmahendra/otoboost/internal/domain"
)

// memInvoices is an in-memory InvoiceRepository.
type memInvoices struct {
	invoices map[string]*domain.BoostInvoice
}

func newMemInvoices() *memInvoices {
	return &memInvoices{invoices: make(map[string]*domain.BoostInvoice)}
}

func (r *memInvoices) Create(ctx context.Context, invoice *domain.BoostInvoice) error {
	r.invoices[invoice.ID] = invoice
	return nil
}

func (r *memInvoices) GetByID(ctx context.Context, id string) (*domain.BoostInvoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func (r *memInvoices) GetByUserID(ctx context.Context, userID string) ([]*domain.BoostInvoice, error) {
	var out []*domain.BoostInvoice
	for _, inv := range r.invoices {
		if inv.UserID == userID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *memInvoices) GetPendingByEntity(ctx context.Context, kind domain.EntityKind, entityID, packageCode string) (*domain.BoostInvoice, error) {
	for _, inv := range r.invoices {
		if inv.EntityKind == kind && inv.EntityID == entityID && inv.PackageCode == packageCode &&
			inv.Status == domain.InvoiceStatusPending && inv.ExpiryDate.After(time.Now().UTC()) {
			return inv, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memInvoices) GetByPaymentSessionID(ctx context.Context, sessionID string) (*domain.BoostInvoice, error) {
	for _, inv := range r.invoices {
		if inv.PaymentSessionID == sessionID {
			return inv, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memInvoices) UpdateStatus(ctx context.Context, id string, status string) error {
	inv, ok := r.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = status
	inv.UpdatedAt = time.Now().UTC()
	return nil
}

type checkoutFixture struct {
	svc      *CheckoutService
	listings *memPromoRepo
	invoices *memInvoices
	payments *memPayments
}

func newCheckoutFixture(entities ...*domain.PromotableEntity) *checkoutFixture {
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
	catalog := NewCatalogService(store)
	invoices := newMemInvoices()
	payments := &memPayments{}
	moderation := NewModerationService(adapter, catalog, payments, &memAudit{})
	svc := NewCheckoutService(adapter, catalog, invoices, payments, moderation)
	return &checkoutFixture{svc: svc, listings: listings, invoices: invoices, payments: payments}
}

func plainListing(id, owner string) *domain.PromotableEntity {
	return &domain.PromotableEntity{ID: id, OwnerID: owner, Title: "Suzuki Ertiga 2020"}
}

func TestCheckoutCreatesPendingInvoice(t *testing.T) {
	fx := newCheckoutFixture(plainListing("l1", "user-1"))

	invoice, err := fx.svc.Checkout(context.Background(), "user-1", domain.KindListing, "l1", "listing_7day", "BCA")
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}
	if invoice.Status != domain.InvoiceStatusPending {
		t.Errorf("status = %s, want pending", invoice.Status)
	}
	if invoice.Amount != 50_000 {
		t.Errorf("amount = %d, want package price 50000", invoice.Amount)
	}
	if invoice.VANumber == "" || invoice.PaymentSessionID == "" {
		t.Errorf("invoice missing VA details: %+v", invoice)
	}
}

func TestCheckoutRejectsNonOwner(t *testing.T) {
	fx := newCheckoutFixture(plainListing("l1", "user-1"))

	_, err := fx.svc.Checkout(context.Background(), "user-2", domain.KindListing, "l1", "listing_7day", "BCA")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Checkout() error = %v, want ErrForbidden", err)
	}
}

func TestCheckoutRejectsAlreadyBoosted(t *testing.T) {
	fx := newCheckoutFixture(activeListing("l1", time.Now().UTC().Add(48*time.Hour)))

	_, err := fx.svc.Checkout(context.Background(), "user-1", domain.KindListing, "l1", "listing_7day", "BCA")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("Checkout() error = %v, want ErrConflict", err)
	}
}

func TestCheckoutReusesPendingInvoice(t *testing.T) {
	fx := newCheckoutFixture(plainListing("l1", "user-1"))

	first, err := fx.svc.Checkout(context.Background(), "user-1", domain.KindListing, "l1", "listing_7day", "BCA")
	if err != nil {
		t.Fatalf("first Checkout() error = %v", err)
	}
	second, err := fx.svc.Checkout(context.Background(), "user-1", domain.KindListing, "l1", "listing_7day", "BCA")
	if err != nil {
		t.Fatalf("second Checkout() error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second checkout created invoice %s, want reuse of %s", second.ID, first.ID)
	}
	if len(fx.invoices.invoices) != 1 {
		t.Errorf("invoice count = %d, want 1", len(fx.invoices.invoices))
	}
}

func TestCheckoutRejectsUnknownPackage(t *testing.T) {
	fx := newCheckoutFixture(plainListing("l1", "user-1"))

	_, err := fx.svc.Checkout(context.Background(), "user-1", domain.KindListing, "l1", "listing_999day", "BCA")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Checkout() error = %v, want ErrNotFound", err)
	}
}

func TestConfirmPaymentQueuesModeration(t *testing.T) {
	fx := newCheckoutFixture(plainListing("l1", "user-1"))

	invoice, err := fx.svc.Checkout(context.Background(), "user-1", domain.KindListing, "l1", "listing_7day", "BCA")
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	if err := fx.svc.ConfirmPayment(context.Background(), invoice.PaymentSessionID); err != nil {
		t.Fatalf("ConfirmPayment() error = %v", err)
	}

	if got := fx.invoices.invoices[invoice.ID].Status; got != domain.InvoiceStatusPaid {
		t.Errorf("invoice status = %s, want paid", got)
	}
	stored := fx.listings.entities["l1"]
	if got := domain.DeriveBoostStatus(stored.Boost, time.Now().UTC()); got != domain.BoostStatusPending {
		t.Errorf("entity status = %s, want pending moderation", got)
	}
	if stored.Boost.PaymentReference != invoice.PaymentSessionID {
		t.Errorf("payment reference = %q, want session id", stored.Boost.PaymentReference)
	}
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	fx := newCheckoutFixture(plainListing("l1", "user-1"))

	invoice, err := fx.svc.Checkout(context.Background(), "user-1", domain.KindListing, "l1", "listing_7day", "BCA")
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	if err := fx.svc.ConfirmPayment(context.Background(), invoice.PaymentSessionID); err != nil {
		t.Fatalf("first ConfirmPayment() error = %v", err)
	}
	if err := fx.svc.ConfirmPayment(context.Background(), invoice.PaymentSessionID); err != nil {
		t.Fatalf("duplicate ConfirmPayment() error = %v", err)
	}
	if got := fx.invoices.invoices[invoice.ID].Status; got != domain.InvoiceStatusPaid {
		t.Errorf("invoice status = %s, want paid", got)
	}
}

func TestGetInvoiceEnforcesOwnership(t *testing.T) {
	fx := newCheckoutFixture(plainListing("l1", "user-1"))

	invoice, err := fx.svc.Checkout(context.Background(), "user-1", domain.KindListing, "l1", "listing_7day", "BCA")
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	if _, err := fx.svc.GetInvoice(context.Background(), "user-2", invoice.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("GetInvoice() as stranger error = %v, want ErrForbidden", err)
	}
	if _, err := fx.svc.GetInvoice(context.Background(), "user-1", invoice.ID); err != nil {
		t.Fatalf("GetInvoice() as owner error = %v", err)
	}
}
