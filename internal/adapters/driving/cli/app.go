package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/teampilot/cgo/tesseract"
	"github.com/custodia-labs/teampilot/internal/adapters/driven/embedding/voyage"
	"github.com/custodia-labs/teampilot/internal/adapters/driven/llm/anthropic"
	"github.com/custodia-labs/teampilot/internal/adapters/driven/storage/files"
	"github.com/custodia-labs/teampilot/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/teampilot/internal/extractors/pdf"
	"github.com/custodia-labs/teampilot/internal/logger"
	"github.com/custodia-labs/teampilot/internal/postprocessors/chunker"
)

// The builders below turn the loaded configuration into driven adapters.
// Each command wires only the adapters it needs, so a missing LLM key does
// not stop "teampilot user add" from working.

// openStore connects to Postgres and runs any pending migrations.
func openStore() (*postgres.Store, error) {
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is not configured")
	}
	store, err := postgres.Open(cfg.Database.URL, cfg.Embedding.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return store, nil
}

// newFileStore opens the directory where uploaded documents are kept.
func newFileStore() (*files.FileStore, error) {
	if cfg.Documents.Dir == "" {
		return nil, errors.New("documents.dir is not configured")
	}
	store, err := files.NewFileStore(cfg.Documents.Dir, cfg.Documents.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("opening document directory: %w", err)
	}
	return store, nil
}

// newEmbedder builds the Voyage AI embedding client.
func newEmbedder() (*voyage.EmbeddingService, error) {
	if cfg.Embedding.APIKey == "" {
		return nil, errors.New("embedding.api_key is not configured")
	}
	embedder, err := voyage.NewEmbeddingService(voyage.Config{
		APIKey:            cfg.Embedding.APIKey,
		Model:             cfg.Embedding.Model,
		Timeout:           time.Duration(cfg.Embedding.TimeoutSeconds) * time.Second,
		Dimensions:        cfg.Embedding.Dimensions,
		MaxAttempts:       cfg.Embedding.MaxAttempts,
		RetryDelay:        time.Duration(cfg.Embedding.RetryDelaySeconds) * time.Second,
		RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedding client: %w", err)
	}
	return embedder, nil
}

// newLLM builds the Anthropic chat client.
func newLLM() (*anthropic.LLMService, error) {
	if cfg.LLM.APIKey == "" {
		return nil, errors.New("llm.api_key is not configured")
	}
	llm, err := anthropic.NewLLMService(anthropic.Config{
		APIKey:    cfg.LLM.APIKey,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
		Timeout:   time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}
	return llm, nil
}

// newExtractor assembles the PDF extractor with chunking and, when the
// binary was built with OCR support, a Tesseract engine for scanned pages.
func newExtractor() *pdf.Extractor {
	proc := chunker.New(
		chunker.WithChunkSize(cfg.Extraction.ChunkSize),
		chunker.WithOverlap(cfg.Extraction.ChunkOverlap),
		chunker.WithMinChunkSize(cfg.Extraction.MinChunkSize),
	)
	opts := []pdf.Option{
		pdf.WithChunker(proc),
		pdf.WithOCRThreshold(cfg.Extraction.OCRThreshold),
	}
	if engine, err := tesseract.New(); err != nil {
		logger.Warn("OCR unavailable: %v", err)
	} else {
		if !engine.Available() {
			logger.Debug("Built without OCR support, scanned pages will yield no text")
		}
		opts = append(opts, pdf.WithOCR(engine))
	}
	return pdf.New(opts...)
}

// serverAddr returns the host:port the HTTP API listens on.
func serverAddr() string {
	return fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
}

// tokenExpiry returns the configured lifetime of issued access tokens.
func tokenExpiry() time.Duration {
	return time.Duration(cfg.Server.TokenExpiryMinutes) * time.Minute
}

// requireSecretKey guards commands that sign or verify access tokens.
func requireSecretKey() error {
	if cfg.Server.SecretKey == "" {
		return errors.New("server.secret_key is not configured")
	}
	return nil
}
