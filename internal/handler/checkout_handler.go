package handler

import (
	"time"

	"github.com/fadhilmahendra/otoboost/internal/domain"
	"github.com/fadhilmahendra/otoboost/internal/middleware"
	"github.com/fadhilmahendra/otoboost/internal/service"
	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler exposes the member boost purchase API
type CheckoutHandler struct {
	checkout *service.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkout *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// CheckoutRequest represents the request body for a boost purchase
type CheckoutRequest struct {
	EntityKind    string `json:"entity_kind"`
	EntityID      string `json:"entity_id"`
	PackageCode   string `json:"package_code"`
	PaymentMethod string `json:"payment_method"` // BCA, Mandiri, BNI
}

// InvoiceResponse represents an invoice for the frontend
type InvoiceResponse struct {
	ID            string `json:"id"`
	EntityKind    string `json:"entity_kind"`
	EntityID      string `json:"entity_id"`
	PackageCode   string `json:"package_code"`
	VANumber      string `json:"va_number"`
	Amount        int64  `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	ExpiryDate    string `json:"expiry_date"` // ISO 8601 format
	Status        string `json:"status"`
}

func invoiceResponse(inv *domain.BoostInvoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            inv.ID,
		EntityKind:    string(inv.EntityKind),
		EntityID:      inv.EntityID,
		PackageCode:   inv.PackageCode,
		VANumber:      inv.VANumber,
		Amount:        inv.Amount,
		PaymentMethod: inv.PaymentMethod,
		ExpiryDate:    inv.ExpiryDate.Format(time.RFC3339),
		Status:        inv.Status,
	}
}

// Checkout handles POST /v1/me/boosts/checkout
// Creates or returns the existing pending invoice with VA details
func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "unauthorized",
		})
	}

	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	kind, err := domain.ParseEntityKind(req.EntityKind)
	if err != nil {
		return respondError(c, err)
	}

	validMethods := map[string]bool{"BCA": true, "Mandiri": true, "BNI": true}
	if !validMethods[req.PaymentMethod] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid payment_method, must be BCA, Mandiri, or BNI",
		})
	}

	invoice, err := h.checkout.Checkout(c.UserContext(), userID, kind, req.EntityID, req.PackageCode, req.PaymentMethod)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    invoiceResponse(invoice),
	})
}

// GetInvoiceStatus handles GET /v1/me/boosts/invoices/:id
// Returns the current status of an invoice (for refresh functionality)
func (h *CheckoutHandler) GetInvoiceStatus(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "unauthorized",
		})
	}

	invoiceID := c.Params("id")
	if invoiceID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invoice ID is required",
		})
	}

	invoice, err := h.checkout.GetInvoice(c.UserContext(), userID, invoiceID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    invoiceResponse(invoice),
	})
}

// ListInvoices handles GET /v1/me/boosts/invoices
func (h *CheckoutHandler) ListInvoices(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "unauthorized",
		})
	}

	invoices, err := h.checkout.ListInvoices(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}

	response := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		response = append(response, invoiceResponse(inv))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    response,
	})
}
