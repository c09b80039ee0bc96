package handler

import (
	"time"

	"github.com/fadhilmahendra/otoboost/internal/domain"
	"github.com/fadhilmahendra/otoboost/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

// EntityHandler exposes the member-facing entity endpoints the boost flow
// hangs off: creating listings, garages and offers, and reading them back
// with the derived boost status and countdown.
type EntityHandler struct {
	listings domain.ListingRepository
	garages  domain.GarageRepository
	offers   domain.OfferRepository
}

// NewEntityHandler creates a new EntityHandler
func NewEntityHandler(listings domain.ListingRepository, garages domain.GarageRepository, offers domain.OfferRepository) *EntityHandler {
	return &EntityHandler{
		listings: listings,
		garages:  garages,
		offers:   offers,
	}
}

// boostView is the display projection of an entity's boost state
type boostView struct {
	Status        domain.BoostStatus `json:"status"`
	PackageCode   string             `json:"package_code,omitempty"`
	ExpiresAt     *string            `json:"expires_at,omitempty"`
	TimeRemaining string             `json:"time_remaining,omitempty"`
}

func boostViewOf(b domain.BoostFields) boostView {
	now := time.Now().UTC()
	view := boostView{
		Status:      domain.DeriveBoostStatus(b, now),
		PackageCode: b.PackageCode,
	}
	if b.ExpiresAt != nil {
		formatted := b.ExpiresAt.UTC().Format(time.RFC3339)
		view.ExpiresAt = &formatted
		view.TimeRemaining = domain.FormatTimeRemaining(*b.ExpiresAt, now)
	}
	return view
}

// CreateListingRequest is the member payload for a new vehicle listing
type CreateListingRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Make         string   `json:"make"`
	Model        string   `json:"model"`
	Year         int      `json:"year"`
	Mileage      int64    `json:"mileage"`
	Price        int64    `json:"price"`
	Images       []string `json:"images"`
	ThumbnailURL string   `json:"thumbnail_url"`
}

// CreateListing handles POST /v1/me/listings
func (h *EntityHandler) CreateListing(c *fiber.Ctx) error {
	var req CreateListingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}
	if req.Title == "" || req.Price <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "title and a positive price are required",
		})
	}

	listing := &domain.Listing{
		OwnerID:      middleware.GetUserID(c),
		Title:        req.Title,
		Description:  req.Description,
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		Mileage:      req.Mileage,
		Price:        req.Price,
		Images:       req.Images,
		ThumbnailURL: req.ThumbnailURL,
	}
	if err := h.listings.Create(c.UserContext(), listing); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    listing,
	})
}

// GetListing handles GET /v1/listings/:id
// Public detail view including the derived boost badge
func (h *EntityHandler) GetListing(c *fiber.Ctx) error {
	listing, err := h.listings.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    listing,
		"boost":   boostViewOf(listing.Boost),
	})
}

// MyListings handles GET /v1/me/listings
func (h *EntityHandler) MyListings(c *fiber.Ctx) error {
	listings, err := h.listings.GetByOwnerID(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    listings,
	})
}

// CreateGarageRequest is the member payload for a new garage profile
type CreateGarageRequest struct {
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	City     string   `json:"city"`
	Phone    string   `json:"phone"`
	Services []string `json:"services"`
	LogoURL  string   `json:"logo_url"`
}

// CreateGarage handles POST /v1/me/garages
func (h *EntityHandler) CreateGarage(c *fiber.Ctx) error {
	var req CreateGarageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "name is required",
		})
	}

	garage := &domain.Garage{
		OwnerID:  middleware.GetUserID(c),
		Name:     req.Name,
		Address:  req.Address,
		City:     req.City,
		Phone:    req.Phone,
		Services: req.Services,
		LogoURL:  req.LogoURL,
	}
	if err := h.garages.Create(c.UserContext(), garage); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    garage,
	})
}

// GetGarage handles GET /v1/garages/:id
func (h *EntityHandler) GetGarage(c *fiber.Ctx) error {
	garage, err := h.garages.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    garage,
		"boost":   boostViewOf(garage.Boost),
	})
}

// MyGarages handles GET /v1/me/garages
func (h *EntityHandler) MyGarages(c *fiber.Ctx) error {
	garages, err := h.garages.GetByOwnerID(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    garages,
	})
}

// CreateOfferRequest is the member payload for a new promotional offer
type CreateOfferRequest struct {
	GarageID    string     `json:"garage_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DiscountPct int        `json:"discount_pct"`
	BannerURL   string     `json:"banner_url"`
	ValidUntil  *time.Time `json:"valid_until"`
}

// CreateOffer handles POST /v1/me/offers
func (h *EntityHandler) CreateOffer(c *fiber.Ctx) error {
	var req CreateOfferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}
	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "title is required",
		})
	}

	offer := &domain.Offer{
		OwnerID:     middleware.GetUserID(c),
		GarageID:    req.GarageID,
		Title:       req.Title,
		Description: req.Description,
		DiscountPct: req.DiscountPct,
		BannerURL:   req.BannerURL,
		ValidUntil:  req.ValidUntil,
	}
	if err := h.offers.Create(c.UserContext(), offer); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    offer,
	})
}

// GetOffer handles GET /v1/offers/:id
func (h *EntityHandler) GetOffer(c *fiber.Ctx) error {
	offer, err := h.offers.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    offer,
		"boost":   boostViewOf(offer.Boost),
	})
}

// MyOffers handles GET /v1/me/offers
func (h *EntityHandler) MyOffers(c *fiber.Ctx) error {
	offers, err := h.offers.GetByOwnerID(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    offers,
	})
}
