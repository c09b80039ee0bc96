package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// OtoboostClaims represents custom JWT claims for service auth
type OtoboostClaims struct {
	UserID string   `json:"user_id"`
	Name   string   `json:"name,omitempty"`
	Email  string   `json:"email,omitempty"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}
