package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fitz/taskflow/internal/reorder"
)

// ListTasksInput defines the input for the list_tasks tool.
type ListTasksInput struct {
	List string `json:"list,omitempty" jsonschema:"Which list to return: current, all or completed (default: all)"`
	TabInput
}

// ListTasksOutput defines the output for the list_tasks tool.
type ListTasksOutput struct {
	Tasks []TaskSummary `json:"tasks"`
	Count int           `json:"count"`
}

// ListTasksTool returns the tool definition for list_tasks.
func ListTasksTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_tasks",
		Description: "List the tasks of one list in display order. The current list holds what the user is working on now; the all list holds the backlog, with unordered tasks ranked for the given tab.",
	}
}

// HandleListTasks handles the list_tasks tool call.
func (h *Handler) HandleListTasks(ctx context.Context, req *mcp.CallToolRequest, input ListTasksInput) (*mcp.CallToolResult, ListTasksOutput, error) {
	h.Logger.Info("list_tasks", "list", input.List, "url", input.URL)

	list := input.List
	if list == "" {
		list = string(reorder.TargetAll)
	}
	if !reorder.IsValidTarget(list) {
		return nil, ListTasksOutput{}, fmt.Errorf("invalid list: %s (must be one of: current, all, completed)", list)
	}

	summaries := summarizeAll(h.Board.List(reorder.Target(list), input.context()))

	h.Logger.Info("list_tasks complete", "count", len(summaries))
	return nil, ListTasksOutput{
		Tasks: summaries,
		Count: len(summaries),
	}, nil
}

// RankTasksInput defines the input for the rank_tasks tool.
type RankTasksInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of tasks to return (default: all active tasks)"`
	TabInput
}

// RankTasksOutput defines the output for the rank_tasks tool.
type RankTasksOutput struct {
	Tasks []TaskSummary `json:"tasks"`
}

// RankTasksTool returns the tool definition for rank_tasks.
func RankTasksTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "rank_tasks",
		Description: "Rank active tasks by priority score: (urgency + importance + 1) boosted up to 2.5x by relevance to the given browser tab. The first task is the top priority.",
	}
}

// HandleRankTasks handles the rank_tasks tool call.
func (h *Handler) HandleRankTasks(ctx context.Context, req *mcp.CallToolRequest, input RankTasksInput) (*mcp.CallToolResult, RankTasksOutput, error) {
	h.Logger.Info("rank_tasks", "limit", input.Limit, "url", input.URL)

	ranked := h.Board.Rank(input.context())
	if input.Limit > 0 && input.Limit < len(ranked) {
		ranked = ranked[:input.Limit]
	}
	out := make([]TaskSummary, 0, len(ranked))
	for _, s := range ranked {
		sum := summarize(s.Task)
		sum.Score = s.Score
		out = append(out, sum)
	}

	h.Logger.Info("rank_tasks complete", "count", len(out))
	return nil, RankTasksOutput{Tasks: out}, nil
}
