// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// InputType selects the asymmetric embedding mode: documents and queries may
// be embedded differently by the underlying model.
type InputType string

const (
	// InputTypeDocument embeds text that will be stored and searched over.
	InputTypeDocument InputType = "document"

	// InputTypeQuery embeds text that is searching for stored documents.
	InputTypeQuery InputType = "query"
)

// Valid returns true for the two supported input types.
func (t InputType) Valid() bool {
	return t == InputTypeDocument || t == InputTypeQuery
}

// EmbeddingService generates vector embeddings from text.
//
// Implementations may include:
//   - Voyage AI (voyage-3, voyage-3-lite)
//   - Any provider with an asymmetric document/query embedding model
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text. An
	// unsupported input type fails immediately with domain.ErrInvalidInput
	// and no API call. A successful call never returns an empty vector.
	Embed(ctx context.Context, text string, inputType InputType) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g., 512, 1024).
	// This is determined by the model and must match the chunk store's
	// vector column.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
