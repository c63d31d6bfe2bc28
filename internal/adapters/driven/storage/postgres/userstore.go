package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/teampilot/internal/core/domain"
	"github.com/custodia-labs/teampilot/internal/core/ports/driven"
)

// userStore implements driven.UserStore.
type userStore struct {
	store *Store
}

var _ driven.UserStore = (*userStore)(nil)

// SaveUser stores or updates a user. New users get their ID and timestamps
// from the database. Name and email are optional and stored as NULL when
// empty so the unique email constraint ignores them.
func (s *userStore) SaveUser(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		err := s.store.db.QueryRowContext(ctx, `
			INSERT INTO users (username, password_hash, name, email, staff, admin, enabled)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at
		`, user.Username, user.PasswordHash, nullString(user.Name), nullString(user.Email),
			user.Staff, user.Admin, user.Enabled).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		if err != nil {
			return fmt.Errorf("saving user: %w", err)
		}
		return nil
	}

	err := s.store.db.QueryRowContext(ctx, `
		UPDATE users
		SET username = $2, password_hash = $3, name = $4, email = $5,
		    staff = $6, admin = $7, enabled = $8, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, user.ID, user.Username, user.PasswordHash, nullString(user.Name), nullString(user.Email),
		user.Staff, user.Admin, user.Enabled).Scan(&user.UpdatedAt)

	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("saving user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *userStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, name, email, staff, admin, enabled, created_at, updated_at
		FROM users WHERE id = $1
	`, id)

	return scanUser(row)
}

// GetUserByUsername retrieves a user by its unique username.
func (s *userStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, name, email, staff, admin, enabled, created_at, updated_at
		FROM users WHERE username = $1
	`, username)

	return scanUser(row)
}

// ListUsers returns all users ordered by username.
func (s *userStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, username, password_hash, name, email, staff, admin, enabled, created_at, updated_at
		FROM users ORDER BY username
	`)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []domain.User //nolint:prealloc // size unknown from query
	for rows.Next() {
		var user domain.User
		var name, email sql.NullString
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &name, &email,
			&user.Staff, &user.Admin, &user.Enabled, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		user.Name = name.String
		user.Email = email.String
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}

	return users, nil
}

// DeleteUser removes a user.
func (s *userStore) DeleteUser(ctx context.Context, id string) error {
	result, err := s.store.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanUser scans a single user row.
func scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var name, email sql.NullString

	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &name, &email,
		&user.Staff, &user.Admin, &user.Enabled, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	user.Name = name.String
	user.Email = email.String
	return &user, nil
}
