package domain

import (
	"context"
	"time"
)

// User represents a platform account (sellers, garage owners, moderators)
type User struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	FirebaseUID string    `bson:"firebase_uid,omitempty" json:"firebase_uid"`
	Email       string    `bson:"email" json:"email"`
	Name        string    `bson:"name" json:"name"`
	Phone       string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Roles       []string  `bson:"roles" json:"roles"` // ["member", "admin"]
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// HasRole checks if user has a specific role
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// DisplayInfo is the owner identity projection joined into boost requests.
type DisplayInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// IdentityProvider resolves owner display identities in a single batched
// lookup per call — never per-owner (no N+1 in the moderation listing).
type IdentityProvider interface {
	GetDisplayInfo(ctx context.Context, ownerIDs []string) (map[string]DisplayInfo, error)
}

// UserRepository defines operations for managing users
type UserRepository interface {
	IdentityProvider
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByFirebaseUID(ctx context.Context, uid string) (*User, error)
	Update(ctx context.Context, user *User) error
}

// Role constants
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)
