package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/teampilot/internal/core/domain"
	"github.com/custodia-labs/teampilot/internal/core/ports/driven"
	"github.com/custodia-labs/teampilot/internal/core/ports/driving"
	"github.com/custodia-labs/teampilot/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages the document lifecycle from upload to searchable
// chunk set.
type DocumentService struct {
	docStore   driven.DocumentStore
	chunkStore driven.ChunkStore
	fileStore  driven.FileStore
	extractor  driven.Extractor
	embedder   driven.EmbeddingService
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	docStore driven.DocumentStore,
	chunkStore driven.ChunkStore,
	fileStore driven.FileStore,
	extractor driven.Extractor,
	embedder driven.EmbeddingService,
) *DocumentService {
	return &DocumentService{
		docStore:   docStore,
		chunkStore: chunkStore,
		fileStore:  fileStore,
		extractor:  extractor,
		embedder:   embedder,
	}
}

// Create registers a new document and stores its payload. The record is
// saved first so the store assigns the ID the payload is keyed by; an upload
// failure leaves the pending record behind for a later retry via Update.
func (s *DocumentService) Create(ctx context.Context, name string, file io.Reader) (*domain.Document, error) {
	if err := domain.ValidateDocumentName(name); err != nil {
		return nil, fmt.Errorf("invalid document name %q: %w", name, err)
	}

	doc := &domain.Document{Name: name}
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	if _, err := s.fileStore.Save(ctx, doc.ID, file); err != nil {
		return nil, fmt.Errorf("store payload: %w", err)
	}

	logger.Debug("Document %s (%s) created", doc.ID, doc.Name)
	return doc, nil
}

// Update replaces a document's name and payload. The document holds the
// uploading status while the new payload streams in so a concurrent claim
// cannot start processing against a half-written file.
func (s *DocumentService) Update(ctx context.Context, id, name string, file io.Reader) (*domain.Document, error) {
	if err := domain.ValidateDocumentName(name); err != nil {
		return nil, fmt.Errorf("invalid document name %q: %w", name, err)
	}

	doc, err := s.docStore.GetDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if doc.Status == domain.DocumentStatusUploading || doc.Status == domain.DocumentStatusProcessing {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrDocumentBusy)
	}

	other, err := s.docStore.GetDocumentByName(ctx, name)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check document name: %w", err)
	}
	if other != nil && other.ID != id {
		return nil, fmt.Errorf("document name %q: %w", name, domain.ErrAlreadyExists)
	}

	doc.Name = name
	doc.Status = domain.DocumentStatusUploading
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	if _, err := s.fileStore.Save(ctx, id, file); err != nil {
		// Leave the document failed rather than stuck uploading; the
		// previous chunk set is still intact and searchable.
		if serr := s.docStore.SetStatus(ctx, id, domain.DocumentStatusFailed); serr != nil {
			logger.Error("Marking document %s failed: %v", id, serr)
		}
		return nil, fmt.Errorf("store payload: %w", err)
	}

	logger.Debug("Document %s (%s) updated", doc.ID, doc.Name)
	return doc, nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, id)
}

// List returns all documents.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx)
}

// Delete removes a document, its chunks and any stored payload.
func (s *DocumentService) Delete(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := s.docStore.GetDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	// Chunks cascade with the record at the database level.
	if err := s.docStore.DeleteDocument(ctx, id); err != nil {
		return nil, fmt.Errorf("delete document: %w", err)
	}

	if err := s.fileStore.Remove(id); err != nil {
		logger.Warn("Removing payload of document %s: %v", id, err)
	}

	logger.Info("Document %s (%s) deleted", doc.ID, doc.Name)
	return doc, nil
}

// Process runs the ingestion pipeline for a document. Each status transition
// is its own committed write so the current phase stays observable across a
// crash. The returned error is for the caller to log; the failed status is
// already recorded.
func (s *DocumentService) Process(ctx context.Context, id string) error {
	// 1. LOAD
	doc, err := s.docStore.GetDocument(ctx, id)
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}

	// 2. CLAIM. A single compare-and-swap; a concurrent run of the same
	// document loses here with ErrDocumentBusy before any pipeline work.
	if err := s.docStore.ClaimProcessing(ctx, id); err != nil {
		return fmt.Errorf("claim document: %w", err)
	}

	// From here on the claim is held: the payload is consumed on every
	// exit path, success or failure.
	defer func() {
		if err := s.fileStore.Remove(id); err != nil {
			logger.Warn("Removing payload of document %s: %v", id, err)
		}
	}()

	logger.Info("Processing document %s (%s)", doc.ID, doc.Name)

	if err := s.runPipeline(ctx, doc); err != nil {
		if serr := s.docStore.SetStatus(ctx, id, domain.DocumentStatusFailed); serr != nil {
			logger.Error("Marking document %s failed: %v", id, serr)
		}
		return fmt.Errorf("process document %s: %w", id, err)
	}

	logger.Info("Document %s (%s) processed", doc.ID, doc.Name)
	return nil
}

// runPipeline extracts, embeds and persists the document's chunk set.
func (s *DocumentService) runPipeline(ctx context.Context, doc *domain.Document) error {
	// 3. EXTRACT
	texts, err := s.extractor.Extract(ctx, s.fileStore.Path(doc.ID))
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}

	// 4. DROP THE STALE CHUNK SET. Committed before any insert so a
	// failure below can never leave chunks from two runs mixed.
	if err := s.chunkStore.DeleteChunks(ctx, doc.ID); err != nil {
		return fmt.Errorf("delete stale chunks: %w", err)
	}

	// 5. EMBED AND SAVE
	chunks := make([]domain.DocumentChunk, 0, len(texts))
	for i, text := range texts {
		embedding, err := s.embedder.Embed(ctx, text, driven.InputTypeDocument)
		if err != nil {
			return fmt.Errorf("embed chunk %d: %w", i, err)
		}
		chunks = append(chunks, domain.DocumentChunk{
			DocumentID: doc.ID,
			Index:      i,
			Text:       text,
			Embedding:  embedding,
		})
	}
	if len(chunks) > 0 {
		if err := s.chunkStore.SaveChunks(ctx, chunks); err != nil {
			return fmt.Errorf("save chunks: %w", err)
		}
	}

	// 6. COMPLETE
	if err := s.docStore.SetStatus(ctx, doc.ID, domain.DocumentStatusCompleted); err != nil {
		return fmt.Errorf("mark document completed: %w", err)
	}
	return nil
}

// ProcessAsync runs Process in the background. The context is detached so
// processing survives the upload request that triggered it.
func (s *DocumentService) ProcessAsync(id string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Processing document %s panicked: %v", id, r)
			}
		}()

		if err := s.Process(context.Background(), id); err != nil {
			logger.Error("Background processing of document %s: %v", id, err)
		}
	}()
}
