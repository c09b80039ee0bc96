package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fadhilmahendra/otoboost/internal/domain"
	"github.com/oklog/ulid/v2"
)

// CheckoutService handles the member side of a boost purchase: creating the
// payment invoice with a Virtual Account, exposing invoice status for polling,
// and confirming paid sessions reported by the gateway webhook.
type CheckoutService struct {
	adapter    *EntityAdapter
	catalog    *CatalogService
	invoices   domain.InvoiceRepository
	payments   PaymentProvider
	moderation *ModerationService
}

// NewCheckoutService creates a checkout service
func NewCheckoutService(adapter *EntityAdapter, catalog *CatalogService, invoices domain.InvoiceRepository, payments PaymentProvider, moderation *ModerationService) *CheckoutService {
	return &CheckoutService{
		adapter:    adapter,
		catalog:    catalog,
		invoices:   invoices,
		payments:   payments,
		moderation: moderation,
	}
}

// Checkout creates a boost purchase invoice for an entity the user owns.
// Re-submitting while a pending invoice for the same package is still open
// returns that invoice instead of opening a second Virtual Account.
func (s *CheckoutService) Checkout(ctx context.Context, userID string, kind domain.EntityKind, entityID, packageCode, bank string) (*domain.BoostInvoice, error) {
	entity, err := s.adapter.Get(ctx, kind, entityID)
	if err != nil {
		return nil, err
	}
	if entity.OwnerID != userID {
		return nil, domain.ErrForbidden
	}

	status := domain.DeriveBoostStatus(entity.Boost, time.Now().UTC())
	if status == domain.BoostStatusPending || status == domain.BoostStatusActive {
		return nil, fmt.Errorf("%w: entity already has a %s boost", domain.ErrConflict, status)
	}

	pkg, err := s.resolvePurchasable(ctx, kind, packageCode)
	if err != nil {
		return nil, err
	}

	if existing, err := s.invoices.GetPendingByEntity(ctx, kind, entityID, packageCode); err == nil && existing != nil {
		log.Printf("[Checkout] Reusing pending invoice %s for %s/%s", existing.ID, kind, entityID)
		return existing, nil
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	va, err := s.payments.GenerateVA(ctx, bank, pkg.Price, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	invoice := &domain.BoostInvoice{
		ID:               ulid.Make().String(),
		UserID:           userID,
		EntityKind:       kind,
		EntityID:         entityID,
		PackageCode:      pkg.Code,
		Amount:           pkg.Price,
		Status:           domain.InvoiceStatusPending,
		VANumber:         va.VANumber,
		PaymentMethod:    bank,
		PaymentSessionID: va.SessionID,
		ExpiryDate:       va.ExpiresAt,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.invoices.Create(ctx, invoice); err != nil {
		return nil, err
	}

	log.Printf("[Checkout] Created invoice %s: %s/%s, package %s, %d %s",
		invoice.ID, kind, entityID, pkg.Code, pkg.Price, pkg.Currency)
	return invoice, nil
}

// GetInvoice returns one invoice, restricted to its owner.
func (s *CheckoutService) GetInvoice(ctx context.Context, userID, invoiceID string) (*domain.BoostInvoice, error) {
	invoice, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return invoice, nil
}

// ListInvoices returns the user's invoices, newest first.
func (s *CheckoutService) ListInvoices(ctx context.Context, userID string) ([]*domain.BoostInvoice, error) {
	return s.invoices.GetByUserID(ctx, userID)
}

// ConfirmPayment settles a paid payment session: the invoice flips to paid and
// the entity enters the moderation queue as pending. Safe to call twice for
// the same session; the duplicate is a no-op.
func (s *CheckoutService) ConfirmPayment(ctx context.Context, sessionID string) error {
	invoice, err := s.invoices.GetByPaymentSessionID(ctx, sessionID)
	if err != nil {
		return err
	}
	if invoice.Status == domain.InvoiceStatusPaid {
		log.Printf("[Checkout] Duplicate payment notification for invoice %s, ignoring", invoice.ID)
		return nil
	}

	if err := s.invoices.UpdateStatus(ctx, invoice.ID, domain.InvoiceStatusPaid); err != nil {
		return err
	}
	if err := s.moderation.RegisterPurchase(ctx, invoice.EntityKind, invoice.EntityID, invoice.PackageCode, sessionID); err != nil {
		return err
	}

	log.Printf("[Checkout] Invoice %s paid, %s/%s queued for moderation",
		invoice.ID, invoice.EntityKind, invoice.EntityID)
	return nil
}

// FailPayment marks an invoice's session as failed or expired on the gateway.
func (s *CheckoutService) FailPayment(ctx context.Context, sessionID, status string) error {
	invoice, err := s.invoices.GetByPaymentSessionID(ctx, sessionID)
	if err != nil {
		return err
	}
	if invoice.Status != domain.InvoiceStatusPending {
		return nil
	}
	return s.invoices.UpdateStatus(ctx, invoice.ID, status)
}

// resolvePurchasable finds a package offered for purchase: an active catalog
// row, or one of the built-in defaults when the catalog is empty for the kind.
func (s *CheckoutService) resolvePurchasable(ctx context.Context, kind domain.EntityKind, code string) (*domain.BoostPackage, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: package code is required", domain.ErrValidation)
	}

	pkg, err := s.catalog.Get(ctx, code)
	if err == nil {
		if pkg.EntityKind != kind {
			return nil, fmt.Errorf("%w: package %s is for %s, not %s", domain.ErrValidation, code, pkg.EntityKind, kind)
		}
		if !pkg.IsActive {
			return nil, fmt.Errorf("%w: package %s is no longer offered", domain.ErrValidation, code)
		}
		return pkg, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	for _, fallback := range (domain.DefaultPackageSet{}).PackagesForKind(kind) {
		if fallback.Code == code {
			return fallback, nil
		}
	}
	return nil, fmt.Errorf("%w: package %s", domain.ErrNotFound, code)
}
