package driving

import (
	"context"

	"github.com/custodia-labs/teampilot/internal/core/domain"
)

// ChatService answers natural-language questions about the stored documents
// through a retrieval-augmented agent loop.
type ChatService interface {
	// Query starts a fresh agent conversation for the given question and
	// returns a channel of answer tokens. The channel is closed when the
	// answer completes; a mid-stream failure delivers one final token with
	// Err set before closing. Text that is empty after trimming is
	// rejected with domain.ErrInvalidInput before any state is created.
	// Cancelling ctx stops token production at the next boundary.
	Query(ctx context.Context, text string) (<-chan domain.Token, error)
}
