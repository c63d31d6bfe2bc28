package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/teampilot/internal/core/domain"
	"github.com/custodia-labs/teampilot/internal/core/ports/driven"
	"github.com/custodia-labs/teampilot/internal/core/ports/driving"
	"github.com/custodia-labs/teampilot/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService finds stored chunks by embedding similarity.
type SearchService struct {
	chunkStore driven.ChunkStore
	embedder   driven.EmbeddingService
}

// NewSearchService creates a new search service.
func NewSearchService(chunkStore driven.ChunkStore, embedder driven.EmbeddingService) *SearchService {
	return &SearchService{
		chunkStore: chunkStore,
		embedder:   embedder,
	}
}

// Search embeds the query and returns the closest chunks by ascending cosine
// distance. A query no document matches is an empty result; a query that
// cannot be embedded is an error, never silently empty.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]domain.DocumentChunk, error) {
	if limit <= 0 {
		limit = driving.DefaultSearchLimit
	}
	logger.Debug("Search: query=%q, limit=%d", query, limit)

	embedding, err := s.embedder.Embed(ctx, query, driven.InputTypeQuery)
	if err != nil {
		return nil, fmt.Errorf("search %q: embed query: %w", query, err)
	}

	ids, err := s.chunkStore.NearestChunkIDs(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("search %q: nearest chunks: %w", query, err)
	}
	if len(ids) == 0 {
		logger.Debug("Search: no chunks stored")
		return []domain.DocumentChunk{}, nil
	}

	chunks, err := s.chunkStore.GetChunksByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("search %q: resolve chunks: %w", query, err)
	}

	// The hydrating query returns rows in storage order; restore the
	// distance order from the id list.
	byID := make(map[string]domain.DocumentChunk, len(chunks))
	for _, chunk := range chunks {
		byID[chunk.ID] = chunk
	}
	ordered := make([]domain.DocumentChunk, 0, len(ids))
	for _, id := range ids {
		if chunk, ok := byID[id]; ok {
			ordered = append(ordered, chunk)
		}
	}

	logger.Debug("Search: %d chunks", len(ordered))
	return ordered, nil
}
