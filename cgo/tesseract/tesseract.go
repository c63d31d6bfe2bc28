//go:build cgo

package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"sync"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"

	"github.com/custodia-labs/teampilot/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.OCREngine = (*Engine)(nil)

// Engine recognises text on rasterised PDF pages using Tesseract.
type Engine struct {
	// The Tesseract client holds native state and is not safe for
	// concurrent use.
	mu     sync.Mutex
	client *gosseract.Client
}

// New initialises a Tesseract client with the default language data.
func New() (*Engine, error) {
	return &Engine{client: gosseract.NewClient()}, nil
}

// PageText renders the given page of the PDF at path to an image and runs
// OCR over it. Pages are numbered from 1.
func (e *Engine) PageText(ctx context.Context, path string, page int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	// go-fitz numbers pages from 0.
	img, err := doc.Image(page - 1)
	if err != nil {
		return "", fmt.Errorf("render page %d: %w", page, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode page %d: %w", page, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("load page %d: %w", page, err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("recognise page %d: %w", page, err)
	}

	return text, nil
}

// Available reports that OCR support is compiled into this build.
func (e *Engine) Available() bool {
	return true
}

// Close releases the Tesseract client.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.client.Close()
}
