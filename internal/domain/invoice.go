package domain

import (
	"context"
	"time"
)

// Invoice status constants
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusExpired = "expired"
	InvoiceStatusFailed  = "failed"
)

// BoostInvoice represents a payment intent for a boost purchase (iPaymu VA).
// The payment session id is what the webhook correlates on; after a successful
// payment it becomes the entity's boost_payment_reference.
type BoostInvoice struct {
	ID               string     `bson:"_id,omitempty" json:"id"`
	UserID           string     `bson:"user_id" json:"user_id"`
	EntityKind       EntityKind `bson:"entity_kind" json:"entity_kind"`
	EntityID         string     `bson:"entity_id" json:"entity_id"`
	PackageCode      string     `bson:"package_code" json:"package_code"`
	Amount           int64      `bson:"amount" json:"amount"` // Amount in smallest currency unit
	Status           string     `bson:"status" json:"status"` // pending, paid, expired, failed
	VANumber         string     `bson:"va_number,omitempty" json:"va_number,omitempty"`
	PaymentMethod    string     `bson:"payment_method,omitempty" json:"payment_method,omitempty"` // BCA, Mandiri, BNI
	PaymentSessionID string     `bson:"payment_session_id,omitempty" json:"payment_session_id,omitempty"`
	ExpiryDate       time.Time  `bson:"expiry_date" json:"expiry_date"` // VA expires after 24h
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `bson:"updated_at" json:"updated_at"`
}

// InvoiceRepository defines operations for managing boost invoices
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *BoostInvoice) error
	GetByID(ctx context.Context, id string) (*BoostInvoice, error)
	GetByUserID(ctx context.Context, userID string) ([]*BoostInvoice, error)
	GetPendingByEntity(ctx context.Context, kind EntityKind, entityID, packageCode string) (*BoostInvoice, error)
	GetByPaymentSessionID(ctx context.Context, sessionID string) (*BoostInvoice, error)
	UpdateStatus(ctx context.Context, id string, status string) error
}
