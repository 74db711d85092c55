package tools

import (
	"log/slog"

	"github.com/fitz/taskflow/internal/board"
	"github.com/fitz/taskflow/internal/models"
)

// Handler provides the dependencies needed by tool handlers.
type Handler struct {
	Board  *board.Board
	Logger *slog.Logger
}

// NewHandler creates a new Handler with the given dependencies.
func NewHandler(b *board.Board, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Board:  b,
		Logger: logger,
	}
}

// TabInput carries the browser tab a ranking is computed for.
type TabInput struct {
	URL   string `json:"url,omitempty" jsonschema:"URL of the active browser tab, used to boost related tasks"`
	Title string `json:"title,omitempty" jsonschema:"Title of the active browser tab"`
}

func (t TabInput) context() *models.TabContext {
	return models.NewTabContext(t.URL, t.Title)
}

// TaskSummary is the task shape returned by tools.
type TaskSummary struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Status        string   `json:"status"`
	Urgency       int      `json:"urgency"`
	Importance    int      `json:"importance"`
	ContextKey    string   `json:"context_key"`
	EstimatedTime int      `json:"estimated_time"`
	Keywords      []string `json:"keywords,omitempty"`
	Group         string   `json:"group,omitempty"`
	Checked       bool     `json:"checked,omitempty"`
	Current       bool     `json:"current,omitempty"`
	Order         *float64 `json:"order,omitempty"`
	Score         float64  `json:"score,omitempty"`
	TopPriority   bool     `json:"top_priority,omitempty"`
}

func summarize(t models.Task) TaskSummary {
	s := TaskSummary{
		ID:            t.ID,
		Name:          t.Name,
		Status:        string(t.Status),
		Urgency:       t.Urgency,
		Importance:    t.Importance,
		ContextKey:    t.ContextKey,
		EstimatedTime: t.EstimatedTime,
		Keywords:      t.Keywords,
		Checked:       t.IsChecked,
		Current:       t.IsCurrent,
		Order:         t.Order,
		TopPriority:   t.IsTopPriority,
	}
	if t.IsGroupChild() {
		s.Group = t.ParentTaskName
	}
	return s
}

// summarizeAll initializes an empty slice so JSON serializes as [] not null.
func summarizeAll(tasks []models.Task) []TaskSummary {
	out := make([]TaskSummary, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, summarize(t))
	}
	return out
}
