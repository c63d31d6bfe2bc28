package driving

import (
	"context"

	"github.com/custodia-labs/teampilot/internal/core/domain"
)

// AuthService authenticates users and issues access tokens.
type AuthService interface {
	// Login verifies the credentials and returns a signed access token.
	// An unknown username, wrong password or disabled account all return
	// domain.ErrInvalidCredentials; callers must not reveal which.
	Login(ctx context.Context, username, password string) (string, error)

	// VerifyToken validates an access token and returns the user it was
	// issued to. Expired, malformed or otherwise invalid tokens return
	// domain.ErrInvalidCredentials.
	VerifyToken(ctx context.Context, token string) (*domain.User, error)
}
