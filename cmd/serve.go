package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/fitz/taskflow/internal/api"
	"github.com/fitz/taskflow/internal/board"
	mcpserver "github.com/fitz/taskflow/internal/mcp"
)

const timerInterval = time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the board to the browser extension",
	Long: `Start the HTTP API used by the browser extension. The server also
exposes Prometheus metrics at /metrics, the MCP Streamable HTTP transport at
/mcp, and fires notifications when pause timers run out.

The listen address defaults to TASKFLOW_HTTP_ADDR.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.HTTPAddr
		}
		noMetrics, _ := cmd.Flags().GetBool("no-metrics")

		withBoard(cmd.Context(), func(b *board.Board) error {
			return serve(cmd.Context(), b, addr, !noMetrics)
		})
	},
}

func serve(ctx context.Context, b *board.Board, addr string, withMetrics bool) error {
	srv := api.NewServer(b, logger)
	if withMetrics {
		srv.EnableMetrics()
	}
	srv.SetMCPHandler(mcpserver.NewServer(b, logger).HTTPHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go b.Watch(watchCtx, timerInterval)

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("starting HTTP server", "addr", addr, "store", cfg.Store)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default: TASKFLOW_HTTP_ADDR)")
	serveCmd.Flags().Bool("no-metrics", false, "Disable the /metrics endpoint")
}
