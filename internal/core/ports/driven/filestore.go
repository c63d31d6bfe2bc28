package driven

import (
	"context"
	"io"
)

// FileStore holds uploaded document payloads while they await processing.
// Files are keyed by document ID and deleted once processing finishes.
type FileStore interface {
	// Save streams r into the store under the document's key and returns
	// the resolved file path. Payloads over the configured size limit
	// return domain.ErrFileTooLarge; a partially written file is removed
	// on any failure.
	Save(ctx context.Context, documentID string, r io.Reader) (string, error)

	// Path returns the file path a document's payload is stored at,
	// whether or not the file currently exists.
	Path(documentID string) string

	// Remove deletes a document's stored payload. Removing a payload that
	// does not exist is not an error.
	Remove(documentID string) error
}
