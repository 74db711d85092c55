// Package timer tracks pause timers: one wall-clock deadline per task.
package timer

import (
	"context"
	"slices"
	"time"

	"github.com/fitz/taskflow/internal/models"
)

// DefaultInterval is how often Watch checks for expired timers.
const DefaultInterval = time.Second

// Start adds a timer for task. minutes <= 0 falls back to the task's
// estimated time. An existing timer for the task is replaced.
func Start(timers []models.TimerData, task models.Task, minutes int, now time.Time) []models.TimerData {
	if minutes <= 0 {
		minutes = max(task.EstimatedTime, 1)
	}
	d := time.Duration(minutes) * time.Minute
	out := Cancel(timers, task.ID)
	return append(out, models.TimerData{
		TaskID:       task.ID,
		EndTime:      now.Add(d),
		Duration:     d,
		OriginalTask: task.Clone(),
	})
}

// Cancel removes the timer for taskID.
func Cancel(timers []models.TimerData, taskID string) []models.TimerData {
	return CancelMany(timers, []string{taskID})
}

// CancelMany removes the timers of all listed tasks.
func CancelMany(timers []models.TimerData, taskIDs []string) []models.TimerData {
	out := make([]models.TimerData, 0, len(timers))
	for _, t := range timers {
		if !slices.Contains(taskIDs, t.TaskID) {
			out = append(out, t)
		}
	}
	return out
}

// Find returns the timer for taskID.
func Find(timers []models.TimerData, taskID string) (models.TimerData, bool) {
	for _, t := range timers {
		if t.TaskID == taskID {
			return t, true
		}
	}
	return models.TimerData{}, false
}

// Expire marks timers whose deadline has passed. Expired timers stay in the
// list; newlyExpired holds only those that crossed their deadline in this
// call, so each expiry is reported once.
func Expire(timers []models.TimerData, now time.Time) (updated, newlyExpired []models.TimerData) {
	updated = slices.Clone(timers)
	for i := range updated {
		if updated[i].HasExpired || now.Before(updated[i].EndTime) {
			continue
		}
		updated[i].HasExpired = true
		newlyExpired = append(newlyExpired, updated[i])
	}
	return updated, newlyExpired
}

// Remaining computes the countdown for a timer.
func Remaining(t models.TimerData, now time.Time) models.RemainingTime {
	remaining := max(t.EndTime.Sub(now), 0)
	var progress float64
	if t.Duration > 0 {
		progress = float64(t.Duration-remaining) / float64(t.Duration) * 100
		progress = min(max(progress, 0), 100)
	}
	return models.RemainingTime{
		Minutes:  int(remaining / time.Minute),
		Seconds:  int((remaining % time.Minute) / time.Second),
		Progress: progress,
	}
}

// State reports the lifecycle state of a task's timer.
func State(timers []models.TimerData, taskID string, now time.Time) models.TimerState {
	t, ok := Find(timers, taskID)
	switch {
	case !ok:
		return models.TimerNone
	case t.HasExpired || !now.Before(t.EndTime):
		return models.TimerExpired
	default:
		return models.TimerRunning
	}
}

// Watch calls tick every interval until ctx is done.
func Watch(ctx context.Context, interval time.Duration, now func() time.Time, tick func(time.Time)) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if now == nil {
		now = time.Now
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick(now())
		}
	}
}
