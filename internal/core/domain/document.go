package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// DocumentStatus tracks a document through its processing lifecycle.
// Transitions are persisted individually so the current phase is always
// observable, even after a crash.
type DocumentStatus string

const (
	// DocumentStatusPending means the document record exists but processing
	// has not started yet.
	DocumentStatusPending DocumentStatus = "pending"
	// DocumentStatusUploading means a replacement file is being received.
	DocumentStatusUploading DocumentStatus = "uploading"
	// DocumentStatusProcessing means extraction and embedding are under way.
	DocumentStatusProcessing DocumentStatus = "processing"
	// DocumentStatusCompleted means the chunk set is fully persisted.
	DocumentStatusCompleted DocumentStatus = "completed"
	// DocumentStatusFailed means processing raised an error; the previous
	// chunk set may already have been discarded.
	DocumentStatusFailed DocumentStatus = "failed"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentStatusPending, DocumentStatusUploading, DocumentStatusProcessing,
		DocumentStatusCompleted, DocumentStatusFailed:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status ends a processing run.
// Only an externally triggered reprocess leaves a terminal state.
func (s DocumentStatus) Terminal() bool {
	return s == DocumentStatusCompleted || s == DocumentStatusFailed
}

// MaxDocumentNameLength is the upper bound on document names.
const MaxDocumentNameLength = 100

// Document represents an uploaded PDF and its processing state.
// The status field is owned by the document processor and mutated only
// through its state machine.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Name is the unique, human-chosen document name.
	Name string

	// Status is the current lifecycle state.
	Status DocumentStatus

	// CreatedAt is when the document record was created.
	CreatedAt time.Time

	// UpdatedAt is when the record was last written.
	UpdatedAt time.Time
}

// ValidateDocumentName checks a document name against the naming rules:
// non-blank after trimming and at most MaxDocumentNameLength characters.
func ValidateDocumentName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidInput
	}
	if utf8.RuneCountInString(name) > MaxDocumentNameLength {
		return ErrInvalidInput
	}
	return nil
}

// DocumentChunk is an embedded slice of a document's extracted text.
// Chunks for a document are contiguous from index 0 and are replaced as a
// whole set when the document is reprocessed.
type DocumentChunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Index is the 0-based ordinal position within the document.
	// (document_id, index) is unique.
	Index int

	// Text is the extracted text content of this chunk.
	Text string

	// Embedding is the vector representation used for similarity search.
	// Its length matches the configured embedding dimension.
	Embedding []float32
}
