//go:build !cgo

package tesseract

import (
	"context"

	"github.com/custodia-labs/teampilot/internal/core/domain"
	"github.com/custodia-labs/teampilot/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.OCREngine = (*Engine)(nil)

// Engine recognises text on rasterised PDF pages using Tesseract.
// This is a stub for builds without CGO.
type Engine struct{}

// New initialises a Tesseract client.
// This is a stub for builds without CGO.
func New() (*Engine, error) {
	return &Engine{}, nil
}

// PageText renders the given page of the PDF at path and runs OCR over it.
func (e *Engine) PageText(_ context.Context, _ string, _ int) (string, error) {
	return "", domain.ErrNotImplemented
}

// Available reports whether OCR support is compiled into this build.
func (e *Engine) Available() bool {
	return false
}

// Close releases resources.
func (e *Engine) Close() error {
	return nil
}
