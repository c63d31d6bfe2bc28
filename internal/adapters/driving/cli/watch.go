package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/teampilot/internal/adapters/driving/watcher"
	"github.com/custodia-labs/teampilot/internal/core/services"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Ingest PDFs dropped into a local directory",
	Long: `Ingest PDFs dropped into a local directory.

Watches the given directory and registers every new PDF as a document
named after the file stem, replacing the previous upload when a document
of that name already exists. Each file is processed as soon as it has
finished copying. Non-PDF files are ignored.

Runs until interrupted.

Examples:
  teampilot watch --dir ~/drop/teampilot`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, _ []string) error {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return fmt.Errorf("getting dir flag: %w", err)
	}
	if dir == "" {
		return errors.New("--dir is required")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	fileStore, err := newFileStore()
	if err != nil {
		return err
	}

	embedder, err := newEmbedder()
	if err != nil {
		return err
	}
	defer embedder.Close()

	documents := services.NewDocumentService(
		store.DocumentStore(), store.ChunkStore(), fileStore, newExtractor(), embedder)

	w, err := watcher.New(dir, documents)
	if err != nil {
		return err
	}

	return w.Run(cmd.Context())
}

func init() {
	watchCmd.Flags().StringP("dir", "d", "", "directory to watch for PDF files")
	rootCmd.AddCommand(watchCmd)
}
