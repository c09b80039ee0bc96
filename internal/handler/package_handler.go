package handler

import (
	"time"

	"github.com/fadhilmahendra/otoboost/internal/domain"
	"github.com/fadhilmahendra/otoboost/internal/service"
	"github.com/gofiber/fiber/v2"
)

// PackageHandler exposes the boost package catalog: the public purchase list
// and the admin CRUD surface.
type PackageHandler struct {
	catalog *service.CatalogService
}

// NewPackageHandler creates a new PackageHandler
func NewPackageHandler(catalog *service.CatalogService) *PackageHandler {
	return &PackageHandler{catalog: catalog}
}

// ListForPurchase handles GET /v1/packages?kind=listing
// Public endpoint returning the active packages offered for a kind
func (h *PackageHandler) ListForPurchase(c *fiber.Ctx) error {
	kind, err := domain.ParseEntityKind(c.Query("kind"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "kind query parameter must be listing, garage or offer",
		})
	}

	packages, err := h.catalog.ListForPurchase(c.UserContext(), kind)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    packages,
	})
}

// ListAll handles GET /v1/admin/packages?kind=listing
// Admin view including inactive packages
func (h *PackageHandler) ListAll(c *fiber.Ctx) error {
	kind, err := domain.ParseEntityKind(c.Query("kind"))
	if err != nil {
		return respondError(c, err)
	}

	packages, err := h.catalog.ListAll(c.UserContext(), kind)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    packages,
	})
}

// Get handles GET /v1/admin/packages/:code
func (h *PackageHandler) Get(c *fiber.Ctx) error {
	pkg, err := h.catalog.Get(c.UserContext(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    pkg,
	})
}

// PackageRequest is the admin create/update payload
type PackageRequest struct {
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	EntityKind    string   `json:"entity_kind"`
	DurationDays  int      `json:"duration_days"`
	Price         int64    `json:"price"`
	Currency      string   `json:"currency"`
	OriginalPrice *int64   `json:"original_price,omitempty"`
	Features      []string `json:"features,omitempty"`
	IsActive      bool     `json:"is_active"`
	Popular       bool     `json:"popular"`
}

func (r *PackageRequest) toDomain() *domain.BoostPackage {
	now := time.Now().UTC()
	return &domain.BoostPackage{
		Code:          r.Code,
		Name:          r.Name,
		EntityKind:    domain.EntityKind(r.EntityKind),
		DurationDays:  r.DurationDays,
		Price:         r.Price,
		Currency:      r.Currency,
		OriginalPrice: r.OriginalPrice,
		Features:      r.Features,
		IsActive:      r.IsActive,
		Popular:       r.Popular,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Create handles POST /v1/admin/packages
func (h *PackageHandler) Create(c *fiber.Ctx) error {
	var req PackageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	pkg := req.toDomain()
	if err := h.catalog.Create(c.UserContext(), pkg); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    pkg,
	})
}

// Update handles PUT /v1/admin/packages/:code
func (h *PackageHandler) Update(c *fiber.Ctx) error {
	var req PackageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}
	req.Code = c.Params("code")

	pkg := req.toDomain()
	if err := h.catalog.Update(c.UserContext(), pkg); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    pkg,
	})
}

// Delete handles DELETE /v1/admin/packages/:code
// Removing a package never touches entities that already bought it.
func (h *PackageHandler) Delete(c *fiber.Ctx) error {
	if err := h.catalog.Delete(c.UserContext(), c.Params("code")); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "package deleted",
	})
}
