// Package mcp provides an MCP (Model Context Protocol) server adapter for
// Teampilot. It lets AI assistants like Claude search the stored documents.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
