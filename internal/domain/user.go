package domain

import (
	"context"
	"time"
)

type User struct {
	ID        string    `json:"id"` // identity provider subject
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const DefaultUserRole = "owner"

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	// Create inserts the user together with an empty profile.
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}

type AuthUsecase interface {
	// EnsureUserExists provisions a local user and profile on first sight and
	// keeps the email in sync afterwards.
	EnsureUserExists(ctx context.Context, user *User) error
	GetCurrentUser(ctx context.Context, id string) (*User, error)
}
