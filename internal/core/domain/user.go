package domain

import "time"

// MinUsernameLength is the lower bound on usernames.
const MinUsernameLength = 3

// MinPasswordLength and MaxPasswordLength bound clear-text passwords.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 200
)

// User is an account that can query the agent or manage documents.
// Authorisation is tiered: every enabled user may chat, staff users manage
// documents, admin users manage other users.
type User struct {
	// ID is the unique identifier for the user.
	ID string

	// Username is the unique login name.
	Username string

	// PasswordHash is the bcrypt hash of the password.
	// The clear-text password is never stored.
	PasswordHash string

	// Name is the optional display name.
	Name string

	// Email is the optional contact address.
	Email string

	// Staff grants document management rights.
	Staff bool

	// Admin grants user management rights.
	Admin bool

	// Enabled gates all access; disabled users cannot authenticate.
	Enabled bool

	// CreatedAt is when the account was created.
	CreatedAt time.Time

	// UpdatedAt is when the account was last written.
	UpdatedAt time.Time
}
