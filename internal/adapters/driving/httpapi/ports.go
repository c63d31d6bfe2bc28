package httpapi

import (
	"context"
	"errors"

	"github.com/custodia-labs/teampilot/internal/core/ports/driving"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Health(ctx context.Context) error
}

// Ports contains the driving ports the HTTP server exposes.
type Ports struct {
	// Auth issues and verifies access tokens. Required.
	Auth driving.AuthService

	// Documents manages the document lifecycle. Required.
	Documents driving.DocumentService

	// Users manages user accounts. Required.
	Users driving.UserService

	// Chat answers questions about the stored documents. Required.
	Chat driving.ChatService

	// Health checks the database connection for the health endpoint.
	// Optional; without it /health/db reports unavailable.
	Health Pinger
}

// Validate checks that all required ports are set.
func (p Ports) Validate() error {
	if p.Auth == nil {
		return errors.New("httpapi: auth service is required")
	}
	if p.Documents == nil {
		return errors.New("httpapi: document service is required")
	}
	if p.Users == nil {
		return errors.New("httpapi: user service is required")
	}
	if p.Chat == nil {
		return errors.New("httpapi: chat service is required")
	}
	return nil
}
