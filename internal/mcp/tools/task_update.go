package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fitz/taskflow/internal/board"
)

// UpdateTaskInput defines the input for the update_task tool.
type UpdateTaskInput struct {
	ID            string    `json:"id" jsonschema:"The ID of the task to update"`
	Name          *string   `json:"name,omitempty" jsonschema:"New task name"`
	Urgency       *int      `json:"urgency,omitempty" jsonschema:"Urgency from 1 to 4"`
	Importance    *int      `json:"importance,omitempty" jsonschema:"Importance from 1 to 5"`
	ContextKey    *string   `json:"context_key,omitempty" jsonschema:"Context the task belongs to, such as aws or github"`
	EstimatedTime *int      `json:"estimated_time,omitempty" jsonschema:"Estimated minutes, clamped to 1..999"`
	Keywords      *[]string `json:"keywords,omitempty" jsonschema:"Keywords matched against the active tab (replaces existing)"`
}

// UpdateTaskTool returns the tool definition for update_task.
func UpdateTaskTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "update_task",
		Description: "Update an existing task. Only provided fields are updated.",
	}
}

// HandleUpdateTask handles the update_task tool call.
func (h *Handler) HandleUpdateTask(ctx context.Context, req *mcp.CallToolRequest, input UpdateTaskInput) (*mcp.CallToolResult, TaskSummary, error) {
	h.Logger.Info("update_task", "id", input.ID)

	if input.ID == "" {
		return nil, TaskSummary{}, fmt.Errorf("id is required")
	}

	t, err := h.Board.Update(ctx, input.ID, board.Update{
		Name:          input.Name,
		Urgency:       input.Urgency,
		Importance:    input.Importance,
		ContextKey:    input.ContextKey,
		EstimatedTime: input.EstimatedTime,
		Keywords:      input.Keywords,
	})
	if err != nil {
		h.Logger.Error("update_task failed", "id", input.ID, "error", err)
		return nil, TaskSummary{}, fmt.Errorf("failed to update task: %w", err)
	}

	h.Logger.Info("update_task complete", "id", t.ID)
	return nil, summarize(t), nil
}
