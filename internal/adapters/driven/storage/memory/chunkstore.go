package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/teampilot/internal/core/domain"
	"github.com/custodia-labs/teampilot/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore with a
// brute-force cosine nearest-neighbour query.
type ChunkStore struct {
	mu     sync.RWMutex
	chunks map[string]domain.DocumentChunk
	// order preserves insertion order so equal distances rank stably.
	order []string
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[string]domain.DocumentChunk),
	}
}

// SaveChunks stores all chunks, assigning IDs.
func (s *ChunkStore) SaveChunks(_ context.Context, chunks []domain.DocumentChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range chunks {
		for _, id := range s.order {
			existing := s.chunks[id]
			if existing.DocumentID == chunks[i].DocumentID && existing.Index == chunks[i].Index {
				return domain.ErrAlreadyExists
			}
		}
		if chunks[i].ID == "" {
			chunks[i].ID = uuid.NewString()
		}
		s.chunks[chunks[i].ID] = chunks[i]
		s.order = append(s.order, chunks[i].ID)
	}
	return nil
}

// DeleteChunks removes every chunk belonging to a document.
func (s *ChunkStore) DeleteChunks(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	remaining := s.order[:0]
	for _, id := range s.order {
		if s.chunks[id].DocumentID == documentID {
			delete(s.chunks, id)
			continue
		}
		remaining = append(remaining, id)
	}
	s.order = remaining
	return nil
}

// NearestChunkIDs returns chunk IDs ordered by ascending cosine distance.
func (s *ChunkStore) NearestChunkIDs(_ context.Context, embedding []float32, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || len(s.order) == 0 {
		return nil, nil
	}

	type scored struct {
		id       string
		distance float64
	}
	ranked := make([]scored, 0, len(s.order))
	for _, id := range s.order {
		ranked = append(ranked, scored{
			id:       id,
			distance: cosineDistance(embedding, s.chunks[id].Embedding),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].distance < ranked[j].distance
	})

	if limit > len(ranked) {
		limit = len(ranked)
	}
	ids := make([]string, limit)
	for i := 0; i < limit; i++ {
		ids[i] = ranked[i].id
	}
	return ids, nil
}

// GetChunksByIDs retrieves full chunk records for the given IDs. To mirror
// the SQL store, results deliberately do not follow the input order.
func (s *ChunkStore) GetChunksByIDs(_ context.Context, ids []string) ([]domain.DocumentChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	result := make([]domain.DocumentChunk, 0, len(ids))
	for _, id := range s.order {
		if want[id] {
			result = append(result, s.chunks[id])
		}
	}
	return result, nil
}

// ChunksForDocument returns a document's chunks ordered by index.
func (s *ChunkStore) ChunksForDocument(documentID string) []domain.DocumentChunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.DocumentChunk //nolint:prealloc // size unknown
	for _, id := range s.order {
		if s.chunks[id].DocumentID == documentID {
			result = append(result, s.chunks[id])
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Index < result[j].Index })
	return result
}

// cosineDistance is 1 minus the cosine similarity of a and b. Vectors
// without magnitude are maximally distant.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) {
		return 1
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
