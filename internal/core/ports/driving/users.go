package driving

import (
	"context"

	"github.com/custodia-labs/teampilot/internal/core/domain"
)

// NewUser carries the fields needed to create a user account.
type NewUser struct {
	// Username is the unique login name, at least three characters.
	Username string

	// Password is the clear-text password, 8 to 200 characters. It is
	// hashed before storage and never kept.
	Password string

	// Name is the optional display name.
	Name string

	// Email is the optional, unique contact address.
	Email string

	// Staff grants document management rights.
	Staff bool

	// Admin grants user management rights.
	Admin bool

	// Enabled controls whether the account can authenticate.
	Enabled bool
}

// UserService manages user accounts.
type UserService interface {
	// CreateUser validates the input, hashes the password and stores the
	// account. A taken username or email returns domain.ErrAlreadyExists.
	CreateUser(ctx context.Context, input NewUser) (*domain.User, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, id string) (*domain.User, error)

	// ListUsers returns all users.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// DeleteUser removes a user, returning the account as it was before
	// deletion.
	DeleteUser(ctx context.Context, id string) (*domain.User, error)
}
