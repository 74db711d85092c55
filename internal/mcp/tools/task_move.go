package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fitz/taskflow/internal/models"
	"github.com/fitz/taskflow/internal/reorder"
)

// MoveItemInput defines the input for the move_item tool.
type MoveItemInput struct {
	Type      string `json:"type" jsonschema:"Kind of row being moved: task or group"`
	ID        string `json:"id" jsonschema:"Task ID, or group name when type is group"`
	Index     int    `json:"index" jsonschema:"Zero-based position in the destination list"`
	ToCurrent bool   `json:"to_current,omitempty" jsonschema:"Move into the current list instead of the all list"`
	TabInput
}

// MoveItemOutput defines the output for the move_item tool.
type MoveItemOutput struct {
	Current []TaskSummary `json:"current"`
	All     []TaskSummary `json:"all"`
}

// MoveItemTool returns the tool definition for move_item.
func MoveItemTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "move_item",
		Description: "Move a task or a whole group to a position in the current or all list. Groups move with all their subtasks. Returns both lists in their new order.",
	}
}

// HandleMoveItem handles the move_item tool call.
func (h *Handler) HandleMoveItem(ctx context.Context, req *mcp.CallToolRequest, input MoveItemInput) (*mcp.CallToolResult, MoveItemOutput, error) {
	h.Logger.Info("move_item", "type", input.Type, "id", input.ID, "index", input.Index, "to_current", input.ToCurrent)

	if !models.IsValidItemKind(input.Type) {
		return nil, MoveItemOutput{}, fmt.Errorf("invalid type: %s (must be one of: task, group)", input.Type)
	}
	if input.ID == "" {
		return nil, MoveItemOutput{}, fmt.Errorf("id is required")
	}

	item := reorder.Item{Kind: models.ItemKind(input.Type), Key: input.ID}
	tab := input.context()
	if err := h.Board.Move(ctx, item, input.Index, input.ToCurrent, tab); err != nil {
		h.Logger.Error("move_item failed", "id", input.ID, "error", err)
		return nil, MoveItemOutput{}, fmt.Errorf("failed to move item: %w", err)
	}

	out := MoveItemOutput{
		Current: summarizeAll(h.Board.List(reorder.TargetCurrent, tab)),
		All:     summarizeAll(h.Board.List(reorder.TargetAll, tab)),
	}
	h.Logger.Info("move_item complete", "current", len(out.Current), "all", len(out.All))
	return nil, out, nil
}
