package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/teampilot/internal/adapters/driving/mcp"
	"github.com/custodia-labs/teampilot/internal/core/services"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server communicates over stdio using JSON-RPC and exposes document
search as a tool and the ingested documents as resources, for use with
Claude Desktop and other MCP-compatible AI assistants.

Examples:
  teampilot mcp

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "teampilot": {
        "command": "/path/to/teampilot",
        "args": ["mcp"]
      }
    }
  }`,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, _ []string) error {
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

	server, err := mcp.NewServer(&mcp.Ports{
		Search:   services.NewSearchService(store.ChunkStore(), embedder),
		Document: documents,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	return server.Run(cmd.Context())
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
