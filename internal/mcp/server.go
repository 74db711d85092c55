package mcp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fitz/taskflow/internal/board"
	"github.com/fitz/taskflow/internal/mcp/tools"
)

const (
	ServerName    = "taskflow"
	ServerVersion = "v1.0.0"
)

// Server exposes a task board as MCP tools.
type Server struct {
	mcpServer *mcp.Server
	board     *board.Board
	logger    *slog.Logger
	handler   *tools.Handler
}

// NewServer creates a new MCP server over the given board.
func NewServer(b *board.Board, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		board:     b,
		logger:    logger,
		handler:   tools.NewHandler(b, logger),
	}

	s.registerTools()
	return s
}

// registerTools adds all MCP tools to the server
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, tools.ListTasksTool(), s.handler.HandleListTasks)
	mcp.AddTool(s.mcpServer, tools.RankTasksTool(), s.handler.HandleRankTasks)
	mcp.AddTool(s.mcpServer, tools.CreateTasksTool(), s.handler.HandleCreateTasks)
	mcp.AddTool(s.mcpServer, tools.DecomposeTaskTool(), s.handler.HandleDecomposeTask)
	mcp.AddTool(s.mcpServer, tools.UpdateTaskTool(), s.handler.HandleUpdateTask)
	mcp.AddTool(s.mcpServer, tools.DeleteTaskTool(), s.handler.HandleDeleteTask)
	mcp.AddTool(s.mcpServer, tools.CompleteTaskTool(), s.handler.HandleCompleteTask)
	mcp.AddTool(s.mcpServer, tools.ToggleCheckTool(), s.handler.HandleToggleCheck)
	mcp.AddTool(s.mcpServer, tools.MoveItemTool(), s.handler.HandleMoveItem)
	mcp.AddTool(s.mcpServer, tools.CompleteGroupTool(), s.handler.HandleCompleteGroup)
	mcp.AddTool(s.mcpServer, tools.DeleteGroupTool(), s.handler.HandleDeleteGroup)
	mcp.AddTool(s.mcpServer, tools.PauseTaskTool(), s.handler.HandlePauseTask)
	mcp.AddTool(s.mcpServer, tools.CancelTimerTool(), s.handler.HandleCancelTimer)
	mcp.AddTool(s.mcpServer, tools.ListTimersTool(), s.handler.HandleListTimers)
}

// Connect attaches the server to a transport and returns the session.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcpServer.Connect(ctx, t, nil)
}

// HTTPHandler returns an http.Handler for the MCP server
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server {
			return s.mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Logger: s.logger,
		},
	)
}

// Run starts the MCP server over stdio (for CLI usage)
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
