package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/fadhilmahendra/otoboost/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// FirebaseAuthClient defines the interface for Firebase Auth operations
// This allows mocking for tests
type FirebaseAuthClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthService exchanges Firebase ID tokens for service JWTs and registers
// first-time users as members.
type AuthService struct {
	userRepo   domain.UserRepository
	authClient FirebaseAuthClient
	jwtSecret  string
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo domain.UserRepository, authClient FirebaseAuthClient, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		authClient: authClient,
		jwtSecret:  jwtSecret,
	}
}

// LoginResponse contains the user, the service token and whether the user was
// newly registered.
type LoginResponse struct {
	User      *domain.User
	Token     string
	IsNewUser bool
}

// LoginOrRegister verifies a Firebase ID token, creating a member account on
// first login, and returns a signed service token.
func (s *AuthService) LoginOrRegister(ctx context.Context, firebaseToken string) (*LoginResponse, error) {
	token, err := s.authClient.VerifyIDToken(ctx, firebaseToken)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	if name == "" {
		name = email
	}

	user, err := s.userRepo.GetByFirebaseUID(ctx, token.UID)
	switch {
	case err == nil:
		// Existing user, fall through to token generation
	case errors.Is(err, domain.ErrNotFound):
		user = &domain.User{
			FirebaseUID: token.UID,
			Email:       email,
			Name:        name,
			Roles:       []string{domain.RoleMember},
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		serviceToken, err := s.GenerateToken(user)
		if err != nil {
			return nil, err
		}
		return &LoginResponse{User: user, Token: serviceToken, IsNewUser: true}, nil
	default:
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	serviceToken, err := s.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{User: user, Token: serviceToken, IsNewUser: false}, nil
}

// GenerateToken creates a signed JWT with the user's roles.
func (s *AuthService) GenerateToken(user *domain.User) (string, error) {
	claims := domain.OtoboostClaims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Roles:  user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
