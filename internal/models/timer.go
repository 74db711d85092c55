package models

import (
	"encoding/json"
	"time"
)

// TimerData is a running or expired pause timer for a task.
type TimerData struct {
	TaskID       string
	EndTime      time.Time
	Duration     time.Duration
	OriginalTask Task
	HasExpired   bool
}

// timerJSON is the stored shape: epoch milliseconds and millisecond
// durations, as written by the extension.
type timerJSON struct {
	TaskID       string `json:"taskId"`
	EndTime      int64  `json:"endTime"`
	Duration     int64  `json:"duration"`
	OriginalTask Task   `json:"originalTask"`
	HasExpired   bool   `json:"hasExpired,omitempty"`
}

func (t TimerData) MarshalJSON() ([]byte, error) {
	return json.Marshal(timerJSON{
		TaskID:       t.TaskID,
		EndTime:      t.EndTime.UnixMilli(),
		Duration:     t.Duration.Milliseconds(),
		OriginalTask: t.OriginalTask,
		HasExpired:   t.HasExpired,
	})
}

func (t *TimerData) UnmarshalJSON(data []byte) error {
	var raw timerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = TimerData{
		TaskID:       raw.TaskID,
		EndTime:      time.UnixMilli(raw.EndTime),
		Duration:     time.Duration(raw.Duration) * time.Millisecond,
		OriginalTask: raw.OriginalTask,
		HasExpired:   raw.HasExpired,
	}
	return nil
}

// RemainingTime is the countdown shown for a timer.
type RemainingTime struct {
	Minutes  int     `json:"minutes"`
	Seconds  int     `json:"seconds"`
	Progress float64 `json:"progress"`
}

// TimerState is the lifecycle position of a task's timer.
type TimerState string

const (
	TimerNone    TimerState = "none"
	TimerRunning TimerState = "running"
	TimerExpired TimerState = "expired"
)
