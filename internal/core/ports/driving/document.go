package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/teampilot/internal/core/domain"
)

// DocumentService manages the document lifecycle: registration, upload,
// ingestion and deletion.
type DocumentService interface {
	// Create registers a new document under the given unique name, stores
	// the uploaded payload and returns the pending document. The caller
	// then triggers processing, usually via ProcessAsync.
	Create(ctx context.Context, name string, file io.Reader) (*domain.Document, error)

	// Update replaces an existing document's name and payload and prepares
	// it for reprocessing. A document currently uploading or processing
	// returns domain.ErrDocumentBusy.
	Update(ctx context.Context, id, name string, file io.Reader) (*domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List returns all documents.
	List(ctx context.Context) ([]domain.Document, error)

	// Delete removes a document, its chunks and any stored payload,
	// returning the document as it was before deletion.
	Delete(ctx context.Context, id string) (*domain.Document, error)

	// Process runs the ingestion pipeline for a document: claim it,
	// extract, embed, replace its chunk set and mark it completed. Any
	// pipeline failure marks the document failed and is returned.
	Process(ctx context.Context, id string) error

	// ProcessAsync runs Process in the background with a detached context,
	// logging the outcome instead of returning it.
	ProcessAsync(id string)
}
