package driven

import "context"

// OCREngine recovers text from rasterised PDF pages. It backs the
// extraction fallback for pages whose native text is too sparse.
//
// The production implementation binds Tesseract through cgo; builds without
// cgo get a stub whose Available reports false.
type OCREngine interface {
	// PageText renders the given page of the PDF at path to an image and
	// runs OCR over it. Pages are numbered from 1.
	PageText(ctx context.Context, path string, page int) (string, error)

	// Available reports whether OCR support was compiled into this build
	// and the engine initialised successfully.
	Available() bool

	// Close releases resources.
	Close() error
}
