package handler

import (
	"errors"
	"fmt"
	"log"

	"github.com/fadhilmahendra/otoboost/internal/domain"
	"github.com/fadhilmahendra/otoboost/internal/middleware"
	"github.com/fadhilmahendra/otoboost/internal/service"
	"github.com/gofiber/fiber/v2"
)

// BoostHandler exposes the admin moderation API: the boost request queue and
// the four lifecycle actions.
type BoostHandler struct {
	requests   *service.BoostRequestService
	moderation *service.ModerationService
}

// NewBoostHandler creates a new BoostHandler
func NewBoostHandler(requests *service.BoostRequestService, moderation *service.ModerationService) *BoostHandler {
	return &BoostHandler{
		requests:   requests,
		moderation: moderation,
	}
}

// statusFromError maps domain errors to HTTP status codes
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrUpstream):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusFromError(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("[BoostHandler] Internal error: %v", err)
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   "internal server error",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}

// parseEntityPath extracts and validates the :kind and :id path params.
func parseEntityPath(c *fiber.Ctx) (domain.EntityKind, string, error) {
	kind, err := domain.ParseEntityKind(c.Params("kind"))
	if err != nil {
		return "", "", err
	}
	id := c.Params("id")
	if id == "" {
		return "", "", fmt.Errorf("%w: entity id is required", domain.ErrValidation)
	}
	return kind, id, nil
}

// ListRequests handles GET /v1/admin/boosts/:kind
// Returns the boost request queue, optionally filtered by ?status=
func (h *BoostHandler) ListRequests(c *fiber.Ctx) error {
	kind, err := domain.ParseEntityKind(c.Params("kind"))
	if err != nil {
		return respondError(c, err)
	}

	filter, err := domain.ParseStatusFilter(c.Query("status"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid status filter, must be all, pending, active or expired",
		})
	}

	requests, err := h.requests.List(c.UserContext(), kind, filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    requests,
		"count":   len(requests),
	})
}

// ActionNotesRequest carries the admin notes for deny and refund actions
type ActionNotesRequest struct {
	Notes string `json:"notes"`
}

// ExtendRequest carries the number of days for an extension
type ExtendRequest struct {
	Days int `json:"days"`
}

// Approve handles POST /v1/admin/boosts/:kind/:id/approve
func (h *BoostHandler) Approve(c *fiber.Ctx) error {
	kind, id, err := parseEntityPath(c)
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.moderation.Approve(c.UserContext(), middleware.GetUserID(c), kind, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

// Deny handles POST /v1/admin/boosts/:kind/:id/deny
func (h *BoostHandler) Deny(c *fiber.Ctx) error {
	kind, id, err := parseEntityPath(c)
	if err != nil {
		return respondError(c, err)
	}

	var req ActionNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	result, err := h.moderation.Deny(c.UserContext(), middleware.GetUserID(c), kind, id, req.Notes)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

// Extend handles POST /v1/admin/boosts/:kind/:id/extend
func (h *BoostHandler) Extend(c *fiber.Ctx) error {
	kind, id, err := parseEntityPath(c)
	if err != nil {
		return respondError(c, err)
	}

	var req ExtendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	result, err := h.moderation.Extend(c.UserContext(), middleware.GetUserID(c), kind, id, req.Days)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

// Refund handles POST /v1/admin/boosts/:kind/:id/refund
func (h *BoostHandler) Refund(c *fiber.Ctx) error {
	kind, id, err := parseEntityPath(c)
	if err != nil {
		return respondError(c, err)
	}

	var req ActionNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	result, err := h.moderation.Refund(c.UserContext(), middleware.GetUserID(c), kind, id, req.Notes)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

// History handles GET /v1/admin/boosts/:kind/:id/history
// Returns the audit trail for one entity, newest first
func (h *BoostHandler) History(c *fiber.Ctx) error {
	kind, id, err := parseEntityPath(c)
	if err != nil {
		return respondError(c, err)
	}

	entries, err := h.moderation.History(c.UserContext(), kind, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    entries,
		"count":   len(entries),
	})
}
