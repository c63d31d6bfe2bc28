package driven

import (
	"context"

	"github.com/custodia-labs/teampilot/internal/core/domain"
)

// UserStore persists user accounts.
type UserStore interface {
	// SaveUser stores or updates a user. A new user gets its ID assigned
	// by the store. A username or email held by another user returns
	// domain.ErrAlreadyExists.
	SaveUser(ctx context.Context, user *domain.User) error

	// GetUser retrieves a user by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetUser(ctx context.Context, id string) (*domain.User, error)

	// GetUserByUsername retrieves a user by its unique username.
	// Returns domain.ErrNotFound if it does not exist.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// ListUsers returns all users ordered by username.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// DeleteUser removes a user.
	// Returns domain.ErrNotFound if it does not exist.
	DeleteUser(ctx context.Context, id string) error
}
