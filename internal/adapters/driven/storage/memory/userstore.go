package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/teampilot/internal/core/domain"
	"github.com/custodia-labs/teampilot/internal/core/ports/driven"
)

// Ensure UserStore implements the interface.
var _ driven.UserStore = (*UserStore)(nil)

// UserStore is an in-memory implementation of driven.UserStore.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[string]domain.User),
	}
}

// SaveUser stores or updates a user, assigning ID and timestamps to new
// records.
func (s *UserStore) SaveUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.users {
		if id == user.ID {
			continue
		}
		if existing.Username == user.Username {
			return domain.ErrAlreadyExists
		}
		if user.Email != "" && existing.Email == user.Email {
			return domain.ErrAlreadyExists
		}
	}

	now := time.Now()
	if user.ID == "" {
		user.ID = uuid.NewString()
		user.CreatedAt = now
	} else if _, ok := s.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	user.UpdatedAt = now

	s.users[user.ID] = *user
	return nil
}

// GetUser retrieves a user by ID.
func (s *UserStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by its unique username.
func (s *UserStore) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id := range s.users {
		if s.users[id].Username == username {
			user := s.users[id]
			return &user, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListUsers returns all users ordered by username.
func (s *UserStore) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.User, 0, len(s.users))
	for id := range s.users {
		result = append(result, s.users[id])
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Username < result[j].Username
	})
	return result, nil
}

// DeleteUser removes a user.
func (s *UserStore) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.users, id)
	return nil
}
