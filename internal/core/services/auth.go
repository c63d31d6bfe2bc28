package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/custodia-labs/teampilot/internal/core/domain"
	"github.com/custodia-labs/teampilot/internal/core/ports/driven"
	"github.com/custodia-labs/teampilot/internal/core/ports/driving"
	"github.com/custodia-labs/teampilot/internal/logger"
)

// DefaultTokenExpiry is how long an access token stays valid when no
// expiry is configured.
const DefaultTokenExpiry = time.Hour

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// AuthService verifies credentials and issues signed access tokens.
type AuthService struct {
	users       driven.UserStore
	secretKey   []byte
	tokenExpiry time.Duration
}

// NewAuthService creates a new auth service signing tokens with the given
// secret key.
func NewAuthService(users driven.UserStore, secretKey string, tokenExpiry time.Duration) *AuthService {
	if tokenExpiry <= 0 {
		tokenExpiry = DefaultTokenExpiry
	}
	return &AuthService{
		users:       users,
		secretKey:   []byte(secretKey),
		tokenExpiry: tokenExpiry,
	}
}

// Login verifies the credentials and returns a signed access token. An
// unknown username, a wrong password and a disabled account are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	if !user.Enabled {
		return "", domain.ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.Username,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	logger.Debug("Issued token for user %s", user.Username)
	return token, nil
}

// VerifyToken validates an access token and returns the user it was issued
// to. Anything wrong with the token or the account maps to
// domain.ErrInvalidCredentials.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		logger.Debug("Token rejected: %v", err)
		return nil, domain.ErrInvalidCredentials
	}
	if claims.Subject == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !user.Enabled {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}
