package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/teampilot/internal/core/domain"
)

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid document URI",
			uri:      "teampilot://documents/doc-456",
			expected: "doc-456",
		},
		{
			name:     "invalid prefix",
			uri:      "file://documents/doc-456",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractDocumentID(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil document service returns empty list", func(t *testing.T) {
		ports := &Ports{Search: &mockSearchService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("teampilot://documents")
		result, err := server.handleDocumentsResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns documents successfully", func(t *testing.T) {
		mockDocs := &mockDocumentService{
			documents: []domain.Document{
				{ID: "doc-1", Name: "report.pdf", Status: domain.DocumentStatusCompleted},
				{ID: "doc-2", Name: "notes.pdf", Status: domain.DocumentStatusPending},
			},
		}

		ports := &Ports{Search: &mockSearchService{}, Document: mockDocs}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("teampilot://documents")
		result, err := server.handleDocumentsResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "doc-1")
		assert.Contains(t, result.Contents[0].Text, "report.pdf")
		assert.Contains(t, result.Contents[0].Text, "completed")
		assert.Contains(t, result.Contents[0].Text, "notes.pdf")
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		mockDocs := &mockDocumentService{err: errors.New("database gone")}
		ports := &Ports{Search: &mockSearchService{}, Document: mockDocs}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("teampilot://documents")
		_, err = server.handleDocumentsResource(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing documents")
	})
}

func TestServer_handleDocumentResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns document metadata", func(t *testing.T) {
		mockDocs := &mockDocumentService{
			document: &domain.Document{
				ID:     "doc-1",
				Name:   "report.pdf",
				Status: domain.DocumentStatusCompleted,
			},
		}

		ports := &Ports{Search: &mockSearchService{}, Document: mockDocs}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("teampilot://documents/doc-1")
		result, err := server.handleDocumentResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "doc-1")
		assert.Contains(t, result.Contents[0].Text, "report.pdf")
	})

	t.Run("unknown document is not found", func(t *testing.T) {
		mockDocs := &mockDocumentService{err: domain.ErrNotFound}
		ports := &Ports{Search: &mockSearchService{}, Document: mockDocs}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("teampilot://documents/doc-404")
		_, err = server.handleDocumentResource(ctx, req)

		assert.Error(t, err)
	})

	t.Run("malformed URI is not found", func(t *testing.T) {
		ports := &Ports{Search: &mockSearchService{}, Document: &mockDocumentService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("file://documents/doc-1")
		_, err = server.handleDocumentResource(ctx, req)

		assert.Error(t, err)
	})

	t.Run("nil document service is not found", func(t *testing.T) {
		ports := &Ports{Search: &mockSearchService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("teampilot://documents/doc-1")
		_, err = server.handleDocumentResource(ctx, req)

		assert.Error(t, err)
	})
}
