package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/teampilot/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/teampilot/internal/core/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Teampilot HTTP API",
	Long: `Run the Teampilot HTTP API.

Serves authentication, user administration, document upload and
retrieval-augmented chat over REST. Uploaded documents are processed in
the background and chat answers are streamed as server-sent events.

The server shuts down gracefully when the process receives SIGINT or
SIGTERM, draining in-flight requests first.

Examples:
  # Listen on the configured host and port (default 127.0.0.1:8000)
  teampilot serve

  # Override the listen port for this run
  TEAMPILOT_SERVER_PORT=9000 teampilot serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := requireSecretKey(); err != nil {
		return err
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

	llm, err := newLLM()
	if err != nil {
		return err
	}
	defer llm.Close()

	documents := services.NewDocumentService(
		store.DocumentStore(), store.ChunkStore(), fileStore, newExtractor(), embedder)
	search := services.NewSearchService(store.ChunkStore(), embedder)

	server, err := httpapi.NewServer(serverAddr(), cfg.Documents.MaxSize, httpapi.Ports{
		Auth:      services.NewAuthService(store.UserStore(), cfg.Server.SecretKey, tokenExpiry()),
		Users:     services.NewUserService(store.UserStore()),
		Documents: documents,
		Chat:      services.NewAgentService(llm, search),
		Health:    store,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run(cmd.Context())
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
