// Package domain defines the core business entities for Teampilot.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded PDF and its processing lifecycle
//   - DocumentChunk: An embedded slice of a document's extracted text
//   - User: An account that can query or manage documents
//   - Message: One turn of an agent conversation
//   - StreamChunk: The unit of a streamed agent answer
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
