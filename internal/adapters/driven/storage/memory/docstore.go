// Package memory provides in-memory store implementations. They back the
// service tests and carry the same contracts as the PostgreSQL stores:
// store-assigned IDs, uniqueness conflicts and the processing claim.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/teampilot/internal/core/domain"
	"github.com/custodia-labs/teampilot/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
	}
}

// SaveDocument stores or updates a document, assigning ID and timestamps to
// new records.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.documents {
		if existing.Name == doc.Name && id != doc.ID {
			return domain.ErrAlreadyExists
		}
	}

	now := time.Now()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
		doc.CreatedAt = now
		if doc.Status == "" {
			doc.Status = domain.DocumentStatusPending
		}
	} else if _, ok := s.documents[doc.ID]; !ok {
		return domain.ErrNotFound
	}
	doc.UpdatedAt = now

	s.documents[doc.ID] = *doc
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetDocumentByName retrieves a document by its unique name.
func (s *DocumentStore) GetDocumentByName(_ context.Context, name string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id := range s.documents {
		if s.documents[id].Name == name {
			doc := s.documents[id]
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListDocuments returns all documents ordered by name.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Document, 0, len(s.documents))
	for id := range s.documents {
		result = append(result, s.documents[id])
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// DeleteDocument removes a document.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	return nil
}

// SetStatus transitions a document to the given status.
func (s *DocumentStore) SetStatus(_ context.Context, id string, status domain.DocumentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Status = status
	doc.UpdatedAt = time.Now()
	s.documents[id] = doc
	return nil
}

// ClaimProcessing transitions a document to processing unless it already is.
func (s *DocumentStore) ClaimProcessing(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	if doc.Status == domain.DocumentStatusProcessing {
		return domain.ErrDocumentBusy
	}
	doc.Status = domain.DocumentStatusProcessing
	doc.UpdatedAt = time.Now()
	s.documents[id] = doc
	return nil
}
