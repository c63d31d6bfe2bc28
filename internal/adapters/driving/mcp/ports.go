package mcp

import (
	"github.com/custodia-labs/teampilot/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides document similarity search.
	Search driving.SearchService

	// Document exposes the stored documents as resources.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Document is optional; without it the document resources are empty.
	return nil
}
