package driven

import (
	"context"

	"github.com/custodia-labs/teampilot/internal/core/domain"
)

// ChunkStore persists document chunks and answers nearest-neighbour queries
// over their embeddings. Backed by PostgreSQL with the pgvector extension.
type ChunkStore interface {
	// SaveChunks stores all chunks in a single transaction. The unique
	// (document_id, chunk_index) constraint must hold; the caller deletes
	// stale chunks first.
	SaveChunks(ctx context.Context, chunks []domain.DocumentChunk) error

	// DeleteChunks removes every chunk belonging to a document and commits
	// the delete before returning. Deleting for a document without chunks
	// is not an error.
	DeleteChunks(ctx context.Context, documentID string) error

	// NearestChunkIDs returns the IDs of the chunks closest to the given
	// embedding, ordered by ascending cosine distance and truncated to
	// limit. An empty store yields an empty slice.
	NearestChunkIDs(ctx context.Context, embedding []float32, limit int) ([]string, error)

	// GetChunksByIDs retrieves full chunk records for the given IDs, in no
	// particular order. Unknown IDs are silently absent from the result.
	GetChunksByIDs(ctx context.Context, ids []string) ([]domain.DocumentChunk, error)
}
