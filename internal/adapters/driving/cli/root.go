// Package cli provides the command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsen1220/tw-stock-analyst/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg holds the loaded configuration, shared by all commands.
var (
	cfg     config.Config
	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:   "twstock",
	Short: "Taiwan stock market RAG analyst",
	Long: `twstock ingests Taiwan stock price history, technical indicators and
quarterly fundamentals into a local vector store, then answers market
questions in Traditional Chinese through a local LLM.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"config file path (default: ~/.twstock/config.toml)")
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
