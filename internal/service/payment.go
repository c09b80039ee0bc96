package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fadhilmahendra/otoboost/internal/config"
	"github.com/fadhilmahendra/otoboost/internal/domain"
	"github.com/fadhilmahendra/otoboost/internal/infrastructure/ipaymu"
	"github.com/oklog/ulid/v2"
)

// VAResponse represents the response from a payment provider
type VAResponse struct {
	VANumber  string
	SessionID string
	ExpiresAt time.Time
}

// PaymentProvider defines the interface for payment gateway integrations
type PaymentProvider interface {
	// GenerateVA creates a Virtual Account for the given bank and amount
	GenerateVA(ctx context.Context, bank string, amount int64, userID string) (*VAResponse, error)
	// Refund returns money against a captured payment reference. Best-effort
	// from the moderation service's point of view; errors surface as warnings.
	Refund(ctx context.Context, paymentReference string, amount int64, reason string) (string, error)
}

// MockPaymentProvider is an in-memory PaymentProvider for development and tests
type MockPaymentProvider struct{}

// IPaymuAdapter adapts the ipaymu.Client to the PaymentProvider interface
type IPaymuAdapter struct {
	client *ipaymu.Client
}

// NewPaymentProvider returns the appropriate PaymentProvider based on config.
// Without iPaymu credentials it returns the mock provider.
func NewPaymentProvider(cfg config.IPaymuConfig) PaymentProvider {
	if cfg.APIKey == "" || cfg.VA == "" {
		log.Println("[Payment] Using mock payment provider (no iPaymu credentials configured)")
		return &MockPaymentProvider{}
	}

	webhookURL := ""
	if cfg.NotifyURL != "" {
		webhookURL = cfg.NotifyURL + "/v1/payments/webhook/ipaymu"
	}

	log.Printf("[Payment] Using iPaymu client (base: %s, notify: %s)", cfg.BaseURL, webhookURL)
	return &IPaymuAdapter{
		client: ipaymu.NewClient(ipaymu.Config{
			VA:        cfg.VA,
			APIKey:    cfg.APIKey,
			BaseURL:   cfg.BaseURL,
			NotifyURL: webhookURL,
		}),
	}
}

// GenerateVA generates a mock Virtual Account number
func (m *MockPaymentProvider) GenerateVA(ctx context.Context, bank string, amount int64, userID string) (*VAResponse, error) {
	sessionID := ulid.Make().String()

	var vaNumber string
	switch bank {
	case "BCA":
		vaNumber = fmt.Sprintf("8888-MOCK-BCA-%s", sessionID[:8])
	case "Mandiri":
		vaNumber = fmt.Sprintf("8888-MOCK-MDR-%s", sessionID[:8])
	case "BNI":
		vaNumber = fmt.Sprintf("8888-MOCK-BNI-%s", sessionID[:8])
	default:
		vaNumber = fmt.Sprintf("8888-MOCK-GEN-%s", sessionID[:8])
	}

	return &VAResponse{
		VANumber:  vaNumber,
		SessionID: sessionID,
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
	}, nil
}

// Refund pretends to refund and returns a mock reference
func (m *MockPaymentProvider) Refund(ctx context.Context, paymentReference string, amount int64, reason string) (string, error) {
	log.Printf("[Payment] Mock refund: ref=%s, amount=%d", paymentReference, amount)
	return "MOCK-REFUND-" + ulid.Make().String(), nil
}

// GenerateVA creates a real Virtual Account via the iPaymu API
func (a *IPaymuAdapter) GenerateVA(ctx context.Context, bank string, amount int64, userID string) (*VAResponse, error) {
	invoiceID := ulid.Make().String()

	resp, err := a.client.CreateDirectVA(
		ctx,
		invoiceID,
		amount,
		ipaymu.MapBankCode(bank),
		"Member",
		"member@otoboost.id",
		"081234567890",
	)
	if err != nil {
		log.Printf("[Payment] iPaymu API error: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	return &VAResponse{
		VANumber:  resp.VANumber,
		SessionID: resp.SessionID,
		ExpiresAt: resp.ExpiresAt,
	}, nil
}

// Refund issues a refund via the iPaymu API
func (a *IPaymuAdapter) Refund(ctx context.Context, paymentReference string, amount int64, reason string) (string, error) {
	refundID, err := a.client.Refund(ctx, paymentReference, amount, reason)
	if err != nil {
		log.Printf("[Payment] iPaymu refund error: %v", err)
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return refundID, nil
}
