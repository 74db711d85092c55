package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// TaskIDInput is the input for tools that act on a single task.
type TaskIDInput struct {
	ID string `json:"id" jsonschema:"The ID of the task"`
}

// DeleteTaskOutput defines the output for the delete_task tool.
type DeleteTaskOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// DeleteTaskTool returns the tool definition for delete_task.
func DeleteTaskTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task and cancel its pause timer. This action cannot be undone.",
	}
}

// HandleDeleteTask handles the delete_task tool call.
func (h *Handler) HandleDeleteTask(ctx context.Context, req *mcp.CallToolRequest, input TaskIDInput) (*mcp.CallToolResult, DeleteTaskOutput, error) {
	h.Logger.Info("delete_task", "id", input.ID)

	if input.ID == "" {
		return nil, DeleteTaskOutput{}, fmt.Errorf("id is required")
	}

	if err := h.Board.Delete(ctx, input.ID); err != nil {
		h.Logger.Error("delete_task failed", "id", input.ID, "error", err)
		return nil, DeleteTaskOutput{}, fmt.Errorf("failed to delete task: %w", err)
	}

	h.Logger.Info("delete_task complete", "id", input.ID)
	return nil, DeleteTaskOutput{
		ID:      input.ID,
		Deleted: true,
	}, nil
}

// CompleteTaskTool returns the tool definition for complete_task.
func CompleteTaskTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "complete_task",
		Description: "Mark a task completed. Its pause timer is cancelled and it moves to the completed list.",
	}
}

// HandleCompleteTask handles the complete_task tool call.
func (h *Handler) HandleCompleteTask(ctx context.Context, req *mcp.CallToolRequest, input TaskIDInput) (*mcp.CallToolResult, TaskSummary, error) {
	h.Logger.Info("complete_task", "id", input.ID)

	if input.ID == "" {
		return nil, TaskSummary{}, fmt.Errorf("id is required")
	}

	t, err := h.Board.Complete(ctx, input.ID)
	if err != nil {
		h.Logger.Error("complete_task failed", "id", input.ID, "error", err)
		return nil, TaskSummary{}, fmt.Errorf("failed to complete task: %w", err)
	}

	h.Logger.Info("complete_task complete", "id", input.ID)
	return nil, summarize(t), nil
}

// ToggleCheckTool returns the tool definition for toggle_check.
func ToggleCheckTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "toggle_check",
		Description: "Flip the checked state of a subtask. A group can only be completed once every subtask is checked.",
	}
}

// HandleToggleCheck handles the toggle_check tool call.
func (h *Handler) HandleToggleCheck(ctx context.Context, req *mcp.CallToolRequest, input TaskIDInput) (*mcp.CallToolResult, TaskSummary, error) {
	h.Logger.Info("toggle_check", "id", input.ID)

	if input.ID == "" {
		return nil, TaskSummary{}, fmt.Errorf("id is required")
	}

	t, err := h.Board.ToggleCheck(ctx, input.ID)
	if err != nil {
		return nil, TaskSummary{}, fmt.Errorf("failed to toggle check: %w", err)
	}
	return nil, summarize(t), nil
}
