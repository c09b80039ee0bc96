package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"

	"github.com/fadhilmahendra/otoboost/internal/domain"
	"github.com/fadhilmahendra/otoboost/internal/service"
	"github.com/gofiber/fiber/v2"
)

// WebhookHandler handles external payment webhooks
type WebhookHandler struct {
	checkout *service.CheckoutService
	apiKey   string
	vaNumber string
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(checkout *service.CheckoutService, apiKey, vaNumber string) *WebhookHandler {
	return &WebhookHandler{
		checkout: checkout,
		apiKey:   apiKey,
		vaNumber: vaNumber,
	}
}

// IPAYMUWebhookRequest represents the webhook payload from iPaymu
type IPAYMUWebhookRequest struct {
	SID         string `json:"sid"`          // Session ID
	VA          string `json:"va"`           // Virtual Account number
	Status      string `json:"status"`       // Payment status: "berhasil", "pending", "expired"
	ReferenceID string `json:"reference_id"` // Our invoice ID
	TrxID       int64  `json:"trx_id"`       // iPaymu transaction ID
	Amount      int64  `json:"amount"`       // Payment amount
	Signature   string `json:"signature"`    // HMAC signature for verification
}

// IPAYMUWebhook handles POST /v1/payments/webhook/ipaymu
// This is a public endpoint - no authentication required
func (h *WebhookHandler) IPAYMUWebhook(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req IPAYMUWebhookRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("[Webhook] Failed to parse body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	log.Printf("[Webhook] Received callback: sid=%s, status=%s, va=%s, amount=%d",
		req.SID, req.Status, req.VA, req.Amount)

	if !h.verifySignature(req.VA, req.SID, req.Status, req.Signature) {
		log.Printf("[Webhook] Signature verification failed for sid=%s", req.SID)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "invalid signature",
		})
	}

	switch req.Status {
	case "berhasil":
		if err := h.checkout.ConfirmPayment(ctx, req.SID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				log.Printf("[Webhook] Invoice not found for sid=%s", req.SID)
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"success": false,
					"error":   "invoice not found",
				})
			}
			log.Printf("[Webhook] Failed to confirm payment for sid=%s: %v", req.SID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "failed to process payment",
			})
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "payment processed",
		})

	case "expired", "gagal":
		invoiceStatus := domain.InvoiceStatusExpired
		if req.Status == "gagal" {
			invoiceStatus = domain.InvoiceStatusFailed
		}
		if err := h.checkout.FailPayment(ctx, req.SID, invoiceStatus); err != nil && !errors.Is(err, domain.ErrNotFound) {
			log.Printf("[Webhook] Failed to mark invoice %s for sid=%s: %v", invoiceStatus, req.SID, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "status acknowledged",
		})

	default:
		log.Printf("[Webhook] Payment not successful: status=%s, sid=%s", req.Status, req.SID)
		return c.JSON(fiber.Map{
			"success": true,
			"message": "status acknowledged",
		})
	}
}

// verifySignature validates the HMAC-SHA256 signature from iPaymu
// Formula: hmac_sha256(apiKey, va + "." + sid + "." + status)
func (h *WebhookHandler) verifySignature(va, sid, status, providedSig string) bool {
	if providedSig == "" {
		return false
	}

	stringToSign := va + "." + sid + "." + status
	mac := hmac.New(sha256.New, []byte(h.apiKey))
	mac.Write([]byte(stringToSign))
	expectedSig := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expectedSig), []byte(providedSig))
}
