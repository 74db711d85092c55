// Package cmd contains all CLI command definitions.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fitz/taskflow/internal/config"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "taskflow",
	Short: "TaskFlow - context-aware task manager",
	Long: `TaskFlow keeps a prioritized task list that reacts to what you are
looking at. Tasks are scored by urgency and importance and boosted when
they relate to the active browser tab.

Run 'taskflow serve' to expose the board to the browser extension over
HTTP, or 'taskflow mcp' to expose it to AI agents over MCP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Config commands work on raw files and must run with a broken config
		skipCommands := map[string]bool{
			"completion": true,
			"help":       true,
			"config":     true,
			"set":        true,
			"get":        true,
		}
		if skipCommands[cmd.Name()] || (cmd.Parent() != nil && cmd.Parent().Name() == "config") {
			logger = newLogger("info")
			return nil
		}

		dir, _ := cmd.Flags().GetString("dir")
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("invalid directory: %w", err)
		}

		cfg, err = config.Load(absDir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w\nRun 'taskflow config list' to inspect it", err)
		}
		logger = newLogger(cfg.LogLevel)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringP("dir", "d", ".", "Directory holding a local .env configuration")
}

// exitWithError prints an error message and exits with code 1.
func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// newLogger logs JSON to stderr; stdout carries command output and the MCP
// stdio transport.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
