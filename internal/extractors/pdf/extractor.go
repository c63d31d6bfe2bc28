package pdf

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/teampilot/internal/core/ports/driven"
	"github.com/custodia-labs/teampilot/internal/logger"
	"github.com/custodia-labs/teampilot/internal/postprocessors/chunker"
)

// DefaultOCRThreshold is the native text length, in characters, below which
// a page is considered a candidate for OCR.
const DefaultOCRThreshold = 100

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor extracts chunked text from PDF files.
type Extractor struct {
	splitter     *chunker.Processor
	ocr          driven.OCREngine
	ocrThreshold int
	open         openFunc
}

// Option configures the extractor.
type Option func(*Extractor)

// WithOCR sets the OCR engine used for pages with little native text.
func WithOCR(engine driven.OCREngine) Option {
	return func(e *Extractor) {
		e.ocr = engine
	}
}

// WithChunker sets the processor used to split page text into chunks.
func WithChunker(p *chunker.Processor) Option {
	return func(e *Extractor) {
		if p != nil {
			e.splitter = p
		}
	}
}

// WithOCRThreshold sets the native text length below which OCR is attempted.
func WithOCRThreshold(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.ocrThreshold = n
		}
	}
}

// New creates a new PDF extractor with the given options.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		splitter:     chunker.New(),
		ocrThreshold: DefaultOCRThreshold,
		open:         openFile,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Extract reads the PDF at path and returns its text as ordered chunks.
// Pages are processed in document order and each page's winning text is
// split independently, so chunks never span a page boundary.
func (e *Extractor) Extract(ctx context.Context, path string) ([]string, error) {
	source, closer, err := e.open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer closer.Close()

	var chunks []string
	for page := 1; page <= source.NumPage(); page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := e.pageText(ctx, source, path, page)
		if err != nil {
			return nil, err
		}
		if text == "" {
			continue
		}

		chunks = append(chunks, e.splitter.Split(text)...)
	}

	return chunks, nil
}

// pageText resolves the winning text for a single page: the native text
// layer when it is long enough, otherwise the OCR text when that is longer
// than the native text. An empty result means the page contributes nothing.
func (e *Extractor) pageText(ctx context.Context, source pageSource, path string, page int) (string, error) {
	native, err := source.PageText(page)
	if err != nil {
		// Treat an undecodable page like a page without a text layer.
		logger.Warn("Reading page %d of %s failed: %v", page, path, err)
		native = ""
	}

	native = strings.TrimSpace(native)
	length := utf8.RuneCountInString(native)
	if length >= e.ocrThreshold {
		return native, nil
	}

	// The page is probably an image, or blank.
	if e.ocr == nil || !e.ocr.Available() {
		logger.Warn("OCR unavailable: skipping page %d of %s", page, path)
		return "", nil
	}

	ocrText, err := e.ocr.PageText(ctx, path, page)
	if err != nil {
		return "", fmt.Errorf("ocr page %d of %s: %w", page, path, err)
	}

	ocrText = strings.TrimSpace(ocrText)
	if utf8.RuneCountInString(ocrText) > length {
		return ocrText, nil
	}

	return "", nil
}

// pageSource abstracts the native text layer of an open PDF file.
type pageSource interface {
	NumPage() int
	PageText(page int) (string, error)
}

// openFunc opens the PDF at path and returns its page source together with
// a closer for the underlying file.
type openFunc func(path string) (pageSource, io.Closer, error)

// openFile opens a PDF from disk.
func openFile(path string) (pageSource, io.Closer, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return &fileSource{reader: r}, f, nil
}

// fileSource reads native page text through the pdf library.
type fileSource struct {
	reader *pdf.Reader
}

func (s *fileSource) NumPage() int {
	return s.reader.NumPage()
}

func (s *fileSource) PageText(page int) (string, error) {
	p := s.reader.Page(page)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}
