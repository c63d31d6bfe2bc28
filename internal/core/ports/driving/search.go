package driving

import (
	"context"

	"github.com/custodia-labs/teampilot/internal/core/domain"
)

// DefaultSearchLimit is the number of chunks returned when the caller does
// not specify a limit.
const DefaultSearchLimit = 5

// SearchService finds the stored chunks most similar to a query text.
type SearchService interface {
	// Search embeds the query and returns the closest chunks ordered by
	// ascending cosine distance, truncated to limit. A limit of zero or
	// less uses DefaultSearchLimit. An empty store yields an empty slice,
	// not an error.
	Search(ctx context.Context, query string, limit int) ([]domain.DocumentChunk, error)
}
