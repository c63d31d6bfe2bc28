package mcp

import (
	"context"
	"io"

	"github.com/custodia-labs/teampilot/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	chunks []domain.DocumentChunk
	err    error

	lastQuery string
	lastLimit int
}

func (m *mockSearchService) Search(_ context.Context, query string, limit int) ([]domain.DocumentChunk, error) {
	m.lastQuery = query
	m.lastLimit = limit
	return m.chunks, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	err       error
}

func (m *mockDocumentService) Create(_ context.Context, _ string, _ io.Reader) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Update(_ context.Context, _, _ string, _ io.Reader) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Process(_ context.Context, _ string) error {
	return m.err
}

func (m *mockDocumentService) ProcessAsync(_ string) {}
