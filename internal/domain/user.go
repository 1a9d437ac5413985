package domain

import (
	"context"
	"time"
)

// User represents a registered user
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is set by the repository on create.
func NewUser(email, name string, isAdmin bool, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:     email,
		Name:      name,
		IsAdmin:   isAdmin,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// UserSummary is the public projection of a user listed as an event participant.
// swagger:model UserSummary
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Principal is the authenticated caller as asserted by a verified token.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// CanManage reports whether the principal may mutate a resource created by ownerID.
func (p Principal) CanManage(ownerID string) bool {
	return p.IsAdmin || (p.UserID != "" && p.UserID == ownerID)
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues signed tokens for an authenticated user.
type TokenIssuer interface {
	Issue(userID string, isAdmin bool, expiry time.Duration) (token string, expiresAt time.Time, err error)
}

// TokenVerifier verifies a token and returns the principal it asserts.
type TokenVerifier interface {
	Verify(token string) (Principal, error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

// AuthService defines registration, login and admin seeding.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// SeedAdmin creates an admin user unless the email is already registered. created reports whether a row was inserted.
	SeedAdmin(ctx context.Context, email, password, name string) (created bool, err error)
}
