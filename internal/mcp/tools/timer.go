package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fitz/taskflow/internal/board"
)

// TimerSummary is the timer shape returned by tools.
type TimerSummary struct {
	TaskID   string  `json:"task_id"`
	TaskName string  `json:"task_name"`
	State    string  `json:"state"`
	EndTime  string  `json:"end_time"`
	Minutes  int     `json:"minutes_left"`
	Seconds  int     `json:"seconds_left"`
	Progress float64 `json:"progress"`
}

func summarizeTimer(v board.TimerView) TimerSummary {
	return TimerSummary{
		TaskID:   v.Timer.TaskID,
		TaskName: v.Timer.OriginalTask.Name,
		State:    string(v.State),
		EndTime:  v.Timer.EndTime.Format(time.RFC3339),
		Minutes:  v.Remaining.Minutes,
		Seconds:  v.Remaining.Seconds,
		Progress: v.Remaining.Progress,
	}
}

// PauseTaskInput defines the input for the pause_task tool.
type PauseTaskInput struct {
	ID      string `json:"id" jsonschema:"The ID of the task to pause"`
	Minutes int    `json:"minutes,omitempty" jsonschema:"Timer length in minutes (default: the task's estimated time)"`
}

// PauseTaskTool returns the tool definition for pause_task.
func PauseTaskTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "pause_task",
		Description: "Start a pause timer for a task. A notification is sent when it runs out. Starting a timer for a task that has one replaces it.",
	}
}

// HandlePauseTask handles the pause_task tool call.
func (h *Handler) HandlePauseTask(ctx context.Context, req *mcp.CallToolRequest, input PauseTaskInput) (*mcp.CallToolResult, TimerSummary, error) {
	h.Logger.Info("pause_task", "id", input.ID, "minutes", input.Minutes)

	if input.ID == "" {
		return nil, TimerSummary{}, fmt.Errorf("id is required")
	}

	v, err := h.Board.Pause(ctx, input.ID, input.Minutes)
	if err != nil {
		h.Logger.Error("pause_task failed", "id", input.ID, "error", err)
		return nil, TimerSummary{}, fmt.Errorf("failed to pause task: %w", err)
	}

	h.Logger.Info("pause_task complete", "id", input.ID, "end_time", v.Timer.EndTime)
	return nil, summarizeTimer(v), nil
}

// CancelTimerInput defines the input for the cancel_timer tool.
type CancelTimerInput struct {
	ID  string `json:"id,omitempty" jsonschema:"The ID of the task whose timer to cancel"`
	All bool   `json:"all,omitempty" jsonschema:"Cancel every timer"`
}

// CancelTimerOutput defines the output for the cancel_timer tool.
type CancelTimerOutput struct {
	Cancelled bool `json:"cancelled"`
}

// CancelTimerTool returns the tool definition for cancel_timer.
func CancelTimerTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "cancel_timer",
		Description: "Cancel a task's pause timer, or every timer when all is set.",
	}
}

// HandleCancelTimer handles the cancel_timer tool call.
func (h *Handler) HandleCancelTimer(ctx context.Context, req *mcp.CallToolRequest, input CancelTimerInput) (*mcp.CallToolResult, CancelTimerOutput, error) {
	h.Logger.Info("cancel_timer", "id", input.ID, "all", input.All)

	var err error
	switch {
	case input.All:
		err = h.Board.CancelAllTimers(ctx)
	case input.ID != "":
		err = h.Board.CancelTimer(ctx, input.ID)
	default:
		return nil, CancelTimerOutput{}, fmt.Errorf("id or all is required")
	}
	if err != nil {
		return nil, CancelTimerOutput{}, fmt.Errorf("failed to cancel timer: %w", err)
	}
	return nil, CancelTimerOutput{Cancelled: true}, nil
}

// ListTimersInput defines the input for the list_timers tool.
type ListTimersInput struct{}

// ListTimersOutput defines the output for the list_timers tool.
type ListTimersOutput struct {
	Timers []TimerSummary `json:"timers"`
}

// ListTimersTool returns the tool definition for list_timers.
func ListTimersTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_timers",
		Description: "List pause timers with their remaining time.",
	}
}

// HandleListTimers handles the list_timers tool call.
func (h *Handler) HandleListTimers(ctx context.Context, req *mcp.CallToolRequest, input ListTimersInput) (*mcp.CallToolResult, ListTimersOutput, error) {
	h.Logger.Info("list_timers")

	views := h.Board.Timers()
	out := make([]TimerSummary, 0, len(views))
	for _, v := range views {
		out = append(out, summarizeTimer(v))
	}
	return nil, ListTimersOutput{Timers: out}, nil
}
