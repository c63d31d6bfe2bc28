// Package watcher ingests PDF files dropped into a watched directory. Each
// new file is registered as a document named after the file stem, replacing
// an existing document of the same name, and run through the processing
// pipeline.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/teampilot/internal/core/domain"
	"github.com/custodia-labs/teampilot/internal/core/ports/driving"
	"github.com/custodia-labs/teampilot/internal/logger"
)

// pdfExtension is the only file type the watcher picks up.
const pdfExtension = ".pdf"

// Defaults for the settle check. A dropped file is ingested once its size
// has stopped changing for settleDelay.
const (
	defaultSettleDelay  = 500 * time.Millisecond
	defaultPollInterval = 100 * time.Millisecond
)

// Watcher watches a drop directory and ingests PDF files appearing in it.
type Watcher struct {
	dir       string
	documents driving.DocumentService
	settle    time.Duration
	poll      time.Duration

	mu      sync.Mutex
	pending map[string]struct{}
	wg      sync.WaitGroup
}

// New creates a watcher for the given directory.
func New(dir string, documents driving.DocumentService) (*Watcher, error) {
	if documents == nil {
		return nil, errors.New("watcher: document service is required")
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("checking watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch path %s is not a directory", dir)
	}

	return &Watcher{
		dir:       dir,
		documents: documents,
		settle:    defaultSettleDelay,
		poll:      defaultPollInterval,
		pending:   make(map[string]struct{}),
	}, nil
}

// Run watches the directory until ctx is cancelled. In-flight ingests are
// waited for before returning.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close() //nolint:errcheck // nothing to do about close failures

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	logger.Info("Watching %s for PDF files", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.wg.Wait()
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				w.wg.Wait()
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-fw.Errors:
			if !ok {
				w.wg.Wait()
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// handleEvent inspects a filesystem event and schedules an ingest for new
// or rewritten PDF files. Removals and renames away are ignored.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}

	if !strings.EqualFold(filepath.Ext(event.Name), pdfExtension) {
		logger.Debug("Ignoring non-PDF file %s", event.Name)
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return
	}

	w.mu.Lock()
	if _, busy := w.pending[event.Name]; busy {
		w.mu.Unlock()
		return
	}
	w.pending[event.Name] = struct{}{}
	w.mu.Unlock()

	w.wg.Add(1)
	go w.ingest(ctx, event.Name)
}

// ingest waits for the file to settle, registers or replaces the document
// and runs the processing pipeline on it.
func (w *Watcher) ingest(ctx context.Context, path string) {
	defer w.wg.Done()
	defer w.forget(path)

	if err := w.waitSettled(ctx, path); err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Warn("Skipping %s: %v", path, err)
		}
		return
	}

	file, err := os.Open(path)
	if err != nil {
		logger.Warn("Skipping %s: %v", path, err)
		return
	}
	defer file.Close() //nolint:errcheck // read-only handle

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc, err := w.register(ctx, name, file)
	if err != nil {
		logger.Error("Registering %s failed: %v", path, err)
		return
	}

	if err := w.documents.Process(ctx, doc.ID); err != nil {
		logger.Error("Ingesting %s failed: %v", path, err)
		return
	}

	logger.Info("Ingested %s as document %s (%s)", filepath.Base(path), doc.ID, name)
}

// register creates a document for the file, or replaces the payload of the
// existing document with the same name.
func (w *Watcher) register(ctx context.Context, name string, file *os.File) (*domain.Document, error) {
	doc, err := w.documents.Create(ctx, name, file)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, domain.ErrAlreadyExists) {
		return nil, err
	}

	existing, err := w.findByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding %s: %w", file.Name(), err)
	}

	return w.documents.Update(ctx, existing.ID, name, file)
}

// findByName looks up a document by its unique name.
func (w *Watcher) findByName(ctx context.Context, name string) (*domain.Document, error) {
	docs, err := w.documents.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	for i := range docs {
		if docs[i].Name == name {
			return &docs[i], nil
		}
	}
	return nil, fmt.Errorf("document %s: %w", name, domain.ErrNotFound)
}

// waitSettled polls the file until its size has been stable for the settle
// delay. Files that vanish before settling abort the ingest.
func (w *Watcher) waitSettled(ctx context.Context, path string) error {
	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	lastSize := int64(-1)
	stableSince := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat: %w", err)
		}

		if info.Size() != lastSize {
			lastSize = info.Size()
			stableSince = time.Now()
			continue
		}

		if time.Since(stableSince) >= w.settle {
			return nil
		}
	}
}

func (w *Watcher) forget(path string) {
	w.mu.Lock()
	delete(w.pending, path)
	w.mu.Unlock()
}
