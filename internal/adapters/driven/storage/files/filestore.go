package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/custodia-labs/teampilot/internal/core/domain"
	"github.com/custodia-labs/teampilot/internal/core/ports/driven"
)

// DefaultMaxFileSize is the maximum size for uploaded documents (10MB).
const DefaultMaxFileSize = 10 * 1024 * 1024

// Ensure FileStore implements the interface.
var _ driven.FileStore = (*FileStore)(nil)

// FileStore keeps uploaded document payloads on the local filesystem, one
// file per document named after its ID.
type FileStore struct {
	dir     string
	maxSize int64
}

// NewFileStore creates a file store rooted at dir, creating the directory if
// needed. A non-positive maxSize falls back to DefaultMaxFileSize.
func NewFileStore(dir string, maxSize int64) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("files: directory is required")
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating document directory: %w", err)
	}

	return &FileStore{
		dir:     dir,
		maxSize: maxSize,
	}, nil
}

// Save streams r into the document's file. The payload is never buffered in
// memory; anything over the size limit aborts the write with
// domain.ErrFileTooLarge and a partial file never survives an error.
func (s *FileStore) Save(ctx context.Context, documentID string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := s.Path(documentID)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}

	// Copy one byte past the limit so an oversized payload is detectable
	// without reading it to the end.
	written, copyErr := io.Copy(f, io.LimitReader(r, s.maxSize+1))
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		os.Remove(path) //nolint:errcheck
		return "", fmt.Errorf("writing %s: %w", path, copyErr)
	case written > s.maxSize:
		os.Remove(path) //nolint:errcheck
		return "", domain.ErrFileTooLarge
	case closeErr != nil:
		os.Remove(path) //nolint:errcheck
		return "", fmt.Errorf("closing %s: %w", path, closeErr)
	}

	return path, nil
}

// Path returns the file path for a document's payload.
func (s *FileStore) Path(documentID string) string {
	return filepath.Join(s.dir, documentID+".pdf")
}

// Remove deletes a document's payload. A missing file is not an error.
func (s *FileStore) Remove(documentID string) error {
	path := s.Path(documentID)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}
