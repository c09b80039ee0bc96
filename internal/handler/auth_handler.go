package handler

import (
	"log"

	"github.com/fadhilmahendra/otoboost/internal/service"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// LoginRequest contains the Firebase ID token to exchange
type LoginRequest struct {
	FirebaseToken string `json:"firebase_token"`
}

// Login handles POST /v1/auth/login
// Exchanges a Firebase ID token for a service JWT, registering first-time
// users as members
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}
	if req.FirebaseToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "firebase_token is required",
		})
	}

	resp, err := h.auth.LoginOrRegister(c.UserContext(), req.FirebaseToken)
	if err != nil {
		log.Printf("[Auth] Login failed: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "authentication failed",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"token":       resp.Token,
			"is_new_user": resp.IsNewUser,
			"user": fiber.Map{
				"id":    resp.User.ID,
				"name":  resp.User.Name,
				"email": resp.User.Email,
				"roles": resp.User.Roles,
			},
		},
	})
}
