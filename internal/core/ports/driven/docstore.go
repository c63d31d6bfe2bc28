package driven

import (
	"context"

	"github.com/custodia-labs/teampilot/internal/core/domain"
)

// DocumentStore persists documents and drives their status transitions.
// Backed by PostgreSQL.
type DocumentStore interface {
	// SaveDocument stores or updates a document. A new document gets its
	// ID assigned by the store. A name held by another document returns
	// domain.ErrAlreadyExists.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetDocumentByName retrieves a document by its unique name.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocumentByName(ctx context.Context, name string) (*domain.Document, error)

	// ListDocuments returns all documents ordered by name.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document; its chunks cascade.
	// Returns domain.ErrNotFound if it does not exist.
	DeleteDocument(ctx context.Context, id string) error

	// SetStatus transitions a document to the given status as a single
	// committed write. Returns domain.ErrNotFound if it does not exist.
	SetStatus(ctx context.Context, id string, status domain.DocumentStatus) error

	// ClaimProcessing transitions a document to processing only when it is
	// not already processing, as one atomic compare-and-swap. A document
	// already being processed returns domain.ErrDocumentBusy; a missing
	// one returns domain.ErrNotFound.
	ClaimProcessing(ctx context.Context, id string) error
}
