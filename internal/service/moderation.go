package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fadhilmahendra/otoboost/internal/domain"
)

// ActionResult reports the outcome of a moderation action. Warning carries a
// non-fatal follow-up failure (a refund the gateway rejected after the boost
// state was already changed); the action itself still succeeded.
type ActionResult struct {
	Success bool               `json:"success"`
	Status  domain.BoostStatus `json:"status"`
	Warning string             `json:"warning,omitempty"`
}

// ModerationService owns the boost lifecycle state machine. All transitions go
// through here: approve, deny, extend, refund, and the webhook-driven purchase
// registration. Every admin action attempt appends exactly one audit entry,
// rejected attempts included.
type ModerationService struct {
	adapter  *EntityAdapter
	catalog  *CatalogService
	payments PaymentProvider
	audit    domain.AuditRepository
}

// NewModerationService creates a moderation service
func NewModerationService(adapter *EntityAdapter, catalog *CatalogService, payments PaymentProvider, audit domain.AuditRepository) *ModerationService {
	return &ModerationService{
		adapter:  adapter,
		catalog:  catalog,
		payments: payments,
		audit:    audit,
	}
}

// Approve activates a pending boost. The expiry window starts at approval
// time, not purchase time: now + the package's duration.
func (s *ModerationService) Approve(ctx context.Context, actorID string, kind domain.EntityKind, entityID string) (*ActionResult, error) {
	entity, status, err := s.loadForAction(ctx, kind, entityID)
	if err != nil {
		s.writeAudit(ctx, actorID, domain.AuditActionApprove, kind, entityID, false, err.Error())
		return nil, err
	}
	if status != domain.BoostStatusPending {
		err := fmt.Errorf("%w: approve requires a pending boost, current status is %s", domain.ErrConflict, status)
		s.writeAudit(ctx, actorID, domain.AuditActionApprove, kind, entityID, false, err.Error())
		return nil, err
	}

	pkg := s.catalog.GetForPricing(ctx, kind, entity.Boost.PackageCode)
	expiresAt := domain.ExpiryForApproval(time.Now().UTC(), pkg.DurationDays)

	patch := domain.BoostPatch{
		IsBoosted: boolPtr(true),
		ExpiresAt: &expiresAt,
	}
	if err := s.adapter.Patch(ctx, kind, entityID, patch); err != nil {
		s.writeAudit(ctx, actorID, domain.AuditActionApprove, kind, entityID, false, err.Error())
		return nil, err
	}

	s.writeAudit(ctx, actorID, domain.AuditActionApprove, kind, entityID, true,
		fmt.Sprintf("approved package %s, %d days", entity.Boost.PackageCode, pkg.DurationDays))
	return &ActionResult{Success: true, Status: domain.BoostStatusActive}, nil
}

// Deny rejects a pending boost and returns the entity to the unboosted state.
// Notes are mandatory. If the purchase carried a payment reference the money
// is returned best-effort: a gateway failure surfaces as a warning, never as a
// rollback of the denial.
func (s *ModerationService) Deny(ctx context.Context, actorID string, kind domain.EntityKind, entityID, notes string) (*ActionResult, error) {
	if notes == "" {
		err := fmt.Errorf("%w: denial notes are required", domain.ErrValidation)
		s.writeAudit(ctx, actorID, domain.AuditActionDeny, kind, entityID, false, err.Error())
		return nil, err
	}

	entity, status, err := s.loadForAction(ctx, kind, entityID)
	if err != nil {
		s.writeAudit(ctx, actorID, domain.AuditActionDeny, kind, entityID, false, err.Error())
		return nil, err
	}
	if status != domain.BoostStatusPending {
		err := fmt.Errorf("%w: deny requires a pending boost, current status is %s", domain.ErrConflict, status)
		s.writeAudit(ctx, actorID, domain.AuditActionDeny, kind, entityID, false, err.Error())
		return nil, err
	}

	if err := s.adapter.Patch(ctx, kind, entityID, clearBoostPatch()); err != nil {
		s.writeAudit(ctx, actorID, domain.AuditActionDeny, kind, entityID, false, err.Error())
		return nil, err
	}

	warning := s.refundIfPaid(ctx, entity, kind)
	s.writeAudit(ctx, actorID, domain.AuditActionDeny, kind, entityID, true, notes)
	return &ActionResult{Success: true, Status: domain.BoostStatusNone, Warning: warning}, nil
}

// Extend adds days to an active boost. The extension stacks on the current
// expiry, not on now, so back-to-back extensions accumulate.
func (s *ModerationService) Extend(ctx context.Context, actorID string, kind domain.EntityKind, entityID string, days int) (*ActionResult, error) {
	if days <= 0 {
		err := fmt.Errorf("%w: extension days must be positive", domain.ErrValidation)
		s.writeAudit(ctx, actorID, domain.AuditActionExtend, kind, entityID, false, err.Error())
		return nil, err
	}

	entity, status, err := s.loadForAction(ctx, kind, entityID)
	if err != nil {
		s.writeAudit(ctx, actorID, domain.AuditActionExtend, kind, entityID, false, err.Error())
		return nil, err
	}
	if status != domain.BoostStatusActive || entity.Boost.ExpiresAt == nil {
		err := fmt.Errorf("%w: extend requires an active boost, current status is %s", domain.ErrConflict, status)
		s.writeAudit(ctx, actorID, domain.AuditActionExtend, kind, entityID, false, err.Error())
		return nil, err
	}

	newExpiry := domain.ExtendExpiry(*entity.Boost.ExpiresAt, days)
	patch := domain.BoostPatch{ExpiresAt: &newExpiry}
	if err := s.adapter.Patch(ctx, kind, entityID, patch); err != nil {
		s.writeAudit(ctx, actorID, domain.AuditActionExtend, kind, entityID, false, err.Error())
		return nil, err
	}

	s.writeAudit(ctx, actorID, domain.AuditActionExtend, kind, entityID, true,
		fmt.Sprintf("extended by %d days to %s", days, newExpiry.Format(time.RFC3339)))
	return &ActionResult{Success: true, Status: domain.BoostStatusActive}, nil
}

// Refund revokes an active boost and returns the payment. Notes are mandatory.
// The boost state is cleared first; the gateway refund runs after and a
// failure there comes back as a warning on an otherwise successful action.
func (s *ModerationService) Refund(ctx context.Context, actorID string, kind domain.EntityKind, entityID, notes string) (*ActionResult, error) {
	if notes == "" {
		err := fmt.Errorf("%w: refund notes are required", domain.ErrValidation)
		s.writeAudit(ctx, actorID, domain.AuditActionRefund, kind, entityID, false, err.Error())
		return nil, err
	}

	entity, status, err := s.loadForAction(ctx, kind, entityID)
	if err != nil {
		s.writeAudit(ctx, actorID, domain.AuditActionRefund, kind, entityID, false, err.Error())
		return nil, err
	}
	if status != domain.BoostStatusActive {
		err := fmt.Errorf("%w: refund requires an active boost, current status is %s", domain.ErrConflict, status)
		s.writeAudit(ctx, actorID, domain.AuditActionRefund, kind, entityID, false, err.Error())
		return nil, err
	}

	if err := s.adapter.Patch(ctx, kind, entityID, clearBoostPatch()); err != nil {
		s.writeAudit(ctx, actorID, domain.AuditActionRefund, kind, entityID, false, err.Error())
		return nil, err
	}

	warning := s.refundIfPaid(ctx, entity, kind)
	s.writeAudit(ctx, actorID, domain.AuditActionRefund, kind, entityID, true, notes)
	return &ActionResult{Success: true, Status: domain.BoostStatusNone, Warning: warning}, nil
}

// RegisterPurchase marks an entity as pending moderation after a confirmed
// payment. This is the webhook's single write path into boost state; the
// moderation queue picks the entity up from here.
func (s *ModerationService) RegisterPurchase(ctx context.Context, kind domain.EntityKind, entityID, packageCode, paymentReference string) error {
	if packageCode == "" {
		return fmt.Errorf("%w: package code is required", domain.ErrValidation)
	}
	patch := domain.BoostPatch{
		IsBoosted:        boolPtr(false),
		PackageCode:      strPtr(packageCode),
		ClearExpiresAt:   true,
		PaymentReference: strPtr(paymentReference),
	}
	return s.adapter.Patch(ctx, kind, entityID, patch)
}

// History returns the audit trail for one entity, newest first.
func (s *ModerationService) History(ctx context.Context, kind domain.EntityKind, entityID string) ([]*domain.AuditEntry, error) {
	return s.audit.GetByEntity(ctx, kind, entityID)
}

func (s *ModerationService) loadForAction(ctx context.Context, kind domain.EntityKind, entityID string) (*domain.PromotableEntity, domain.BoostStatus, error) {
	entity, err := s.adapter.Get(ctx, kind, entityID)
	if err != nil {
		return nil, "", err
	}
	return entity, domain.DeriveBoostStatus(entity.Boost, time.Now().UTC()), nil
}

// refundIfPaid issues a best-effort gateway refund for the entity's payment
// reference. Returns a warning string on failure, empty on success or when
// there is nothing to refund.
func (s *ModerationService) refundIfPaid(ctx context.Context, entity *domain.PromotableEntity, kind domain.EntityKind) string {
	if entity.Boost.PaymentReference == "" {
		return ""
	}
	pkg := s.catalog.GetForPricing(ctx, kind, entity.Boost.PackageCode)
	refundID, err := s.payments.Refund(ctx, entity.Boost.PaymentReference, pkg.Price, "boost moderation refund")
	if err != nil {
		log.Printf("[Moderation] Refund failed for %s/%s (ref %s): %v", kind, entity.ID, entity.Boost.PaymentReference, err)
		return fmt.Sprintf("boost removed but refund of %d %s failed: %v", pkg.Price, pkg.Currency, err)
	}
	log.Printf("[Moderation] Refunded %s/%s: %s", kind, entity.ID, refundID)
	return ""
}

func (s *ModerationService) writeAudit(ctx context.Context, actorID, action string, kind domain.EntityKind, entityID string, success bool, notes string) {
	entry := &domain.AuditEntry{
		ActorID:    actorID,
		Action:     action,
		EntityKind: kind,
		EntityID:   entityID,
		Success:    success,
		Notes:      notes,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		log.Printf("[Moderation] Audit write failed for %s on %s/%s: %v", action, kind, entityID, err)
	}
}

// clearBoostPatch resets every boost field to the unboosted state.
func clearBoostPatch() domain.BoostPatch {
	return domain.BoostPatch{
		IsBoosted:        boolPtr(false),
		PackageCode:      strPtr(""),
		ClearExpiresAt:   true,
		PaymentReference: strPtr(""),
	}
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
