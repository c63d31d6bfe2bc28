package services

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/custodia-labs/teampilot/internal/core/domain"
	"github.com/custodia-labs/teampilot/internal/core/ports/driven"
	"github.com/custodia-labs/teampilot/internal/core/ports/driving"
	"github.com/custodia-labs/teampilot/internal/logger"
)

// bcrypt reads at most 72 bytes of input; GenerateFromPassword rejects
// longer passwords instead of truncating, while CompareHashAndPassword
// quietly ignores the tail. Truncating before hashing keeps the two
// consistent for passwords up to domain.MaxPasswordLength.
const bcryptMaxBytes = 72

// Ensure UserService implements the interface.
var _ driving.UserService = (*UserService)(nil)

// UserService manages user accounts.
type UserService struct {
	users driven.UserStore
}

// NewUserService creates a new user service.
func NewUserService(users driven.UserStore) *UserService {
	return &UserService{users: users}
}

// CreateUser validates the input, hashes the password and stores the
// account.
func (s *UserService) CreateUser(ctx context.Context, input driving.NewUser) (*domain.User, error) {
	if len(input.Username) < domain.MinUsernameLength {
		return nil, fmt.Errorf("username must be at least %d characters: %w",
			domain.MinUsernameLength, domain.ErrInvalidInput)
	}
	if len(input.Password) < domain.MinPasswordLength || len(input.Password) > domain.MaxPasswordLength {
		return nil, fmt.Errorf("password must be %d to %d characters: %w",
			domain.MinPasswordLength, domain.MaxPasswordLength, domain.ErrInvalidInput)
	}

	secret := []byte(input.Password)
	if len(secret) > bcryptMaxBytes {
		secret = secret[:bcryptMaxBytes]
	}
	hash, err := bcrypt.GenerateFromPassword(secret, bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		PasswordHash: string(hash),
		Name:         input.Name,
		Email:        input.Email,
		Staff:        input.Staff,
		Admin:        input.Admin,
		Enabled:      input.Enabled,
	}
	if err := s.users.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	logger.Info("User %s (%s) created", user.ID, user.Username)
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ListUsers returns all users ordered by username.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes a user, returning the account as it was before
// deletion.
func (s *UserService) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}

	logger.Info("User %s (%s) deleted", user.ID, user.Username)
	return user, nil
}
