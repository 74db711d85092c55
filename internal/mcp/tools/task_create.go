package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CreateTasksInput defines the input for the create_tasks tool.
type CreateTasksInput struct {
	Text string `json:"text" jsonschema:"One task per line. Urgency, importance, context and duration are predicted for each line."`
}

// CreateTasksOutput defines the output for the create_tasks tool.
type CreateTasksOutput struct {
	Tasks   []TaskSummary `json:"tasks"`
	Notices []string      `json:"notices,omitempty"`
}

// CreateTasksTool returns the tool definition for create_tasks.
func CreateTasksTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_tasks",
		Description: "Create tasks from text, one per line. Properties are predicted per line; lines whose prediction fails are created with default values and reported in notices.",
	}
}

// HandleCreateTasks handles the create_tasks tool call.
func (h *Handler) HandleCreateTasks(ctx context.Context, req *mcp.CallToolRequest, input CreateTasksInput) (*mcp.CallToolResult, CreateTasksOutput, error) {
	h.Logger.Info("create_tasks", "lines", strings.Count(input.Text, "\n")+1)

	res, err := h.Board.CreateFromText(ctx, input.Text)
	if err != nil {
		h.Logger.Error("create_tasks failed", "error", err)
		return nil, CreateTasksOutput{}, fmt.Errorf("failed to create tasks: %w", err)
	}

	h.Logger.Info("create_tasks complete", "count", len(res.Tasks), "notices", len(res.Notices))
	return nil, CreateTasksOutput{
		Tasks:   summarizeAll(res.Tasks),
		Notices: res.Notices,
	}, nil
}

// DecomposeTaskInput defines the input for the decompose_task tool.
type DecomposeTaskInput struct {
	Text string `json:"text,omitempty" jsonschema:"A request to break into a group of subtasks"`
	ID   string `json:"id,omitempty" jsonschema:"ID of an existing task to split into subtasks, replacing it"`
}

// DecomposeTaskTool returns the tool definition for decompose_task.
func DecomposeTaskTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "decompose_task",
		Description: "Split a request into a named group of subtasks. Pass text for a new request, or id to replace an existing task with its subtasks.",
	}
}

// HandleDecomposeTask handles the decompose_task tool call.
func (h *Handler) HandleDecomposeTask(ctx context.Context, req *mcp.CallToolRequest, input DecomposeTaskInput) (*mcp.CallToolResult, CreateTasksOutput, error) {
	h.Logger.Info("decompose_task", "id", input.ID)

	if input.ID == "" && strings.TrimSpace(input.Text) == "" {
		return nil, CreateTasksOutput{}, fmt.Errorf("text or id is required")
	}

	res, err := h.Board.Decompose(ctx, input.Text)
	if input.ID != "" {
		res, err = h.Board.Resplit(ctx, input.ID)
	}
	if err != nil {
		h.Logger.Error("decompose_task failed", "error", err)
		return nil, CreateTasksOutput{}, fmt.Errorf("failed to decompose task: %w", err)
	}

	h.Logger.Info("decompose_task complete", "count", len(res.Tasks))
	return nil, CreateTasksOutput{
		Tasks:   summarizeAll(res.Tasks),
		Notices: res.Notices,
	}, nil
}
