// Package cli implements the teampilot command-line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/teampilot/internal/config"
	"github.com/custodia-labs/teampilot/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var (
	cfgFile string
	verbose bool

	// cfg is populated by the root PersistentPreRunE before any
	// subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "teampilot",
	Short: "Document Q&A over your team's PDFs",
	Long: `Teampilot ingests PDF documents, indexes their contents with vector
embeddings and answers questions about them through a retrieval-augmented
agent.

Start the HTTP API with "teampilot serve". Documents can also be ingested
by dropping PDFs into a watched directory ("teampilot watch"), and the
agent is available interactively ("teampilot chat") or over the Model
Context Protocol ("teampilot mcp").

Configuration is read from teampilot.toml and TEAMPILOT_* environment
variables; environment variables win.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfig()
	},
}

func loadConfig() error {
	// A .env file is optional; TEAMPILOT_* variables from it take part
	// in config loading like any other environment variable.
	_ = godotenv.Load()

	loaded, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if verbose {
		loaded.Verbose = true
	}
	logger.SetVerbose(loaded.Verbose)
	cfg = loaded
	return nil
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"path to the config file (default "+config.DefaultConfigFile+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")
}
