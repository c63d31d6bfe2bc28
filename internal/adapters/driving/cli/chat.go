package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/teampilot/internal/adapters/driving/tui"
	"github.com/custodia-labs/teampilot/internal/core/services"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the agent in the terminal",
	Long: `Chat with the agent in the terminal.

Opens an interactive session that answers questions about the ingested
documents. Answers stream in as they are generated; press Esc or Ctrl+C
to quit, also mid-answer.

Examples:
  teampilot chat`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, _ []string) error {
	// Recover so a panic inside the alternate screen still leaves a
	// readable stack trace on the terminal.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat UI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

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

	search := services.NewSearchService(store.ChunkStore(), embedder)

	app, err := tui.NewApp(&tui.Ports{
		Chat: services.NewAgentService(llm, search),
	})
	if err != nil {
		return fmt.Errorf("creating chat UI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("chat UI: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
