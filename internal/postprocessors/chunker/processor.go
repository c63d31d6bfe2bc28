// Package chunker splits extracted document text into fixed-size
// overlapping windows ready for embedding.
package chunker

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 100

// DefaultMinChunkSize is the default minimum amount of new text a trailing
// partial window must add before it is kept.
const DefaultMinChunkSize = 200

// Processor splits text into fixed-size chunks.
type Processor struct {
	chunkSize    int
	overlap      int
	minChunkSize int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithMinChunkSize sets the minimum number of characters a trailing partial
// window must add beyond the previous window before it is kept.
func WithMinChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.minChunkSize = size
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:    DefaultChunkSize,
		overlap:      DefaultChunkOverlap,
		minChunkSize: DefaultMinChunkSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// ChunkSize returns the configured window size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Split cuts text into windows of the configured chunk size, each window
// starting a stride of (size - overlap) characters after the previous one.
// Offsets are counted in runes so multibyte text never splits mid-character.
//
// Every full window is kept. The final partial window is kept only when it
// reaches at least minChunkSize characters past the end of the previous
// window; a short tail that mostly repeats overlap is discarded. Text that
// fits in a single window is returned as one chunk regardless of length.
func (p *Processor) Split(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	total := len(runes)
	stride := p.chunkSize - p.overlap

	var chunks []string
	for start := 0; start < total; start += stride {
		end := start + p.chunkSize
		if end > total {
			// Trailing partial window. The first window is always kept;
			// later ones must add enough new text beyond the previous
			// window's end.
			if start == 0 || total-(start-stride+p.chunkSize) >= p.minChunkSize {
				chunks = append(chunks, string(runes[start:total]))
			}
			break
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == total {
			break
		}
	}

	return chunks
}
