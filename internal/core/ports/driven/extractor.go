package driven

import "context"

// Extractor turns a stored PDF file into the ordered text chunks that will
// be embedded. Order is significant: the position of each chunk in the
// returned slice becomes its chunk index.
type Extractor interface {
	// Extract reads the file at path and returns its text as ordered,
	// materialised chunks. A file that cannot be opened or parsed returns
	// an error; a readable file with no usable text returns an empty
	// slice.
	Extract(ctx context.Context, path string) ([]string, error)
}
