package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// GroupInput is the input for tools that act on a task group.
type GroupInput struct {
	Name string `json:"name" jsonschema:"The group name shared by its subtasks"`
}

// CompleteGroupOutput defines the output for the complete_group tool.
type CompleteGroupOutput struct {
	Tasks []TaskSummary `json:"tasks"`
}

// CompleteGroupTool returns the tool definition for complete_group.
func CompleteGroupTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "complete_group",
		Description: "Complete every active subtask of a group. Fails unless all of them are checked.",
	}
}

// HandleCompleteGroup handles the complete_group tool call.
func (h *Handler) HandleCompleteGroup(ctx context.Context, req *mcp.CallToolRequest, input GroupInput) (*mcp.CallToolResult, CompleteGroupOutput, error) {
	h.Logger.Info("complete_group", "name", input.Name)

	if input.Name == "" {
		return nil, CompleteGroupOutput{}, fmt.Errorf("name is required")
	}

	done, err := h.Board.CompleteGroup(ctx, input.Name)
	if err != nil {
		h.Logger.Error("complete_group failed", "name", input.Name, "error", err)
		return nil, CompleteGroupOutput{}, fmt.Errorf("failed to complete group: %w", err)
	}

	h.Logger.Info("complete_group complete", "name", input.Name, "count", len(done))
	return nil, CompleteGroupOutput{Tasks: summarizeAll(done)}, nil
}

// DeleteGroupOutput defines the output for the delete_group tool.
type DeleteGroupOutput struct {
	Name    string `json:"name"`
	Deleted int    `json:"deleted"`
}

// DeleteGroupTool returns the tool definition for delete_group.
func DeleteGroupTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "delete_group",
		Description: "Delete a group with all of its subtasks. This action cannot be undone.",
	}
}

// HandleDeleteGroup handles the delete_group tool call.
func (h *Handler) HandleDeleteGroup(ctx context.Context, req *mcp.CallToolRequest, input GroupInput) (*mcp.CallToolResult, DeleteGroupOutput, error) {
	h.Logger.Info("delete_group", "name", input.Name)

	if input.Name == "" {
		return nil, DeleteGroupOutput{}, fmt.Errorf("name is required")
	}

	n, err := h.Board.DeleteGroup(ctx, input.Name)
	if err != nil {
		h.Logger.Error("delete_group failed", "name", input.Name, "error", err)
		return nil, DeleteGroupOutput{}, fmt.Errorf("failed to delete group: %w", err)
	}

	h.Logger.Info("delete_group complete", "name", input.Name, "deleted", n)
	return nil, DeleteGroupOutput{Name: input.Name, Deleted: n}, nil
}
