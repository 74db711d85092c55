package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fitz/taskflow/internal/board"
	mcpserver "github.com/fitz/taskflow/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI agent integration",
	Long: `Start the Model Context Protocol (MCP) server that lets AI agents
work with the task board via JSON-RPC over stdio.

This command is typically invoked by an AI agent rather than directly by
users. It enables agents to:
  - List and rank tasks for the page the user is looking at
  - Create tasks from text, with predicted urgency and importance
  - Reorder, complete and group tasks
  - Start and cancel pause timers

Pause timers expire while the server runs.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		withBoard(ctx, func(b *board.Board) error {
			go b.Watch(ctx, timerInterval)

			// stdout is for MCP protocol
			logger.Info("starting MCP server on stdio", "store", cfg.Store)
			return mcpserver.NewServer(b, logger).Run(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
