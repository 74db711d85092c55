// Package api exposes the task board over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fitz/taskflow/internal/board"
	"github.com/fitz/taskflow/internal/metrics"
	"github.com/fitz/taskflow/internal/models"
	"github.com/fitz/taskflow/internal/predict"
	"github.com/fitz/taskflow/internal/reorder"
)

// Server is the HTTP API server.
type Server struct {
	board          *board.Board
	logger         *slog.Logger
	metricsEnabled bool
	mcpHandler     http.Handler
}

// NewServer creates a new API server over a board.
func NewServer(b *board.Board, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{board: b, logger: logger}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetMCPHandler mounts the MCP Streamable HTTP transport at /mcp.
func (s *Server) SetMCPHandler(h http.Handler) { s.mcpHandler = h }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))
	r.Use(s.countRequests)
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/tasks", s.handleListTasks)
		r.Post("/tasks", s.handleCreateTasks)
		r.Get("/rank", s.handleRank)
		r.Post("/decompose", s.handleDecompose)
		r.Route("/tasks/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetTask)
			r.Patch("/", s.handleUpdateTask)
			r.Delete("/", s.handleDeleteTask)
			r.Post("/complete", s.handleCompleteTask)
			r.Post("/check", s.handleToggleCheck)
			r.Post("/resplit", s.handleResplit)
			r.Post("/pause", s.handlePause)
		})

		r.Get("/timers", s.handleListTimers)
		r.Delete("/timers", s.handleCancelAllTimers)
		r.Delete("/timers/{taskID}", s.handleCancelTimer)

		r.Post("/groups/{name}/complete", s.handleCompleteGroup)
		r.Delete("/groups/{name}", s.handleDeleteGroup)
		r.Patch("/groups/{name}", s.handleRenameGroup)

		r.Post("/move", s.handleMove)
		r.Post("/move/child", s.handleMoveChild)
		r.Post("/drop", s.handleDrop)
		r.Post("/compact", s.handleCompact)

		r.Get("/patterns", s.handleGetPatterns)
		r.Put("/patterns", s.handlePutPatterns)
		r.Post("/patterns", s.handlePostPattern)
		r.Post("/patterns/reset", s.handleResetPatterns)

		r.Get("/summary", s.handleSummary)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	if s.mcpHandler != nil {
		r.Handle("/mcp", s.mcpHandler)
	}
	return r
}

// tabFromQuery reads the tab context the extension sends with reads.
func tabFromQuery(r *http.Request) *models.TabContext {
	q := r.URL.Query()
	return models.NewTabContext(q.Get("url"), q.Get("title"))
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeBoardError maps board errors to status codes.
func (s *Server) writeBoardError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, board.ErrTaskNotFound), errors.Is(err, board.ErrGroupNotFound):
		status = http.StatusNotFound
	case errors.Is(err, reorder.ErrGroupNotChecked):
		status = http.StatusConflict
	case errors.Is(err, board.ErrNoPredictor), errors.Is(err, predict.ErrNoAPIKey):
		status = http.StatusServiceUnavailable
	case errors.Is(err, predict.ErrEmptyInput):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, status, err.Error())
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// countRequests records each request against its route pattern.
func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}

// corsMiddleware allows the browser extension to call the API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
