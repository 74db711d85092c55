package board

import (
	"context"
	"fmt"
	"time"

	"github.com/fitz/taskflow/internal/metrics"
	"github.com/fitz/taskflow/internal/models"
	"github.com/fitz/taskflow/internal/timer"
)

// TimerView is a timer with its countdown at the time of the call.
type TimerView struct {
	Timer     models.TimerData     `json:"timer"`
	State     models.TimerState    `json:"state"`
	Remaining models.RemainingTime `json:"remaining"`
}

// Pause starts a pause timer for a task. minutes <= 0 uses the task's
// estimated time. The task stays active while the timer runs.
func (b *Board) Pause(ctx context.Context, id string, minutes int) (TimerView, error) {
	if err := b.lockFresh(ctx); err != nil {
		return TimerView{}, err
	}
	defer b.mu.Unlock()

	i := b.indexLocked(id)
	if i < 0 {
		return TimerView{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	now := b.now()
	next := timer.Start(b.timers, b.tasks[i], minutes, now)
	if err := b.commitTimers(ctx, next); err != nil {
		return TimerView{}, fmt.Errorf("failed to start timer: %w", err)
	}
	t, _ := timer.Find(next, id)
	b.logger.Info("timer started", "task_id", id, "minutes", int(t.Duration/time.Minute))
	return view(t, now), nil
}

// CancelTimer stops a task's timer. Cancelling a task without a timer is
// not an error.
func (b *Board) CancelTimer(ctx context.Context, id string) error {
	if err := b.lockFresh(ctx); err != nil {
		return err
	}
	defer b.mu.Unlock()

	if err := b.commitTimers(ctx, timer.Cancel(b.timers, id)); err != nil {
		return fmt.Errorf("failed to cancel timer: %w", err)
	}
	return nil
}

// CancelAllTimers stops every timer.
func (b *Board) CancelAllTimers(ctx context.Context) error {
	if err := b.lockFresh(ctx); err != nil {
		return err
	}
	defer b.mu.Unlock()

	if err := b.commitTimers(ctx, []models.TimerData{}); err != nil {
		return fmt.Errorf("failed to cancel timers: %w", err)
	}
	return nil
}

// Timers returns every timer with its current countdown.
func (b *Board) Timers() []TimerView {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	out := make([]TimerView, 0, len(b.timers))
	for _, t := range b.timers {
		out = append(out, view(t, now))
	}
	return out
}

// TimerState reports the lifecycle state of a task's timer.
func (b *Board) TimerState(id string) models.TimerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return timer.State(b.timers, id, b.now())
}

// Tick expires timers whose deadline has passed and notifies about each
// one once. It returns the timers that expired in this call.
func (b *Board) Tick(ctx context.Context, now time.Time) ([]models.TimerData, error) {
	if err := b.lockFresh(ctx); err != nil {
		return nil, err
	}
	defer b.mu.Unlock()
	return b.expireLocked(ctx, now)
}

// Watch runs Tick every interval until ctx is cancelled.
func (b *Board) Watch(ctx context.Context, interval time.Duration) {
	timer.Watch(ctx, interval, b.now, func(now time.Time) {
		if _, err := b.Tick(ctx, now); err != nil {
			b.logger.Error("timer tick failed", "error", err)
		}
	})
}

func (b *Board) expireLocked(ctx context.Context, now time.Time) ([]models.TimerData, error) {
	updated, expired := timer.Expire(b.timers, now)
	if len(expired) == 0 {
		return nil, nil
	}
	if err := b.commitTimers(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to expire timers: %w", err)
	}
	metrics.TimersExpired.Add(float64(len(expired)))
	for _, t := range expired {
		b.logger.Info("timer expired", "task_id", t.TaskID, "task_name", t.OriginalTask.Name)
		if !b.notifications || b.notifier == nil {
			continue
		}
		if err := b.notifier.TimerExpired(ctx, t.TaskID, t.OriginalTask.Name); err != nil {
			b.logger.Warn("notification failed", "task_id", t.TaskID, "error", err)
		}
	}
	return expired, nil
}

func view(t models.TimerData, now time.Time) TimerView {
	state := models.TimerRunning
	if t.HasExpired || !now.Before(t.EndTime) {
		state = models.TimerExpired
	}
	return TimerView{Timer: t, State: state, Remaining: timer.Remaining(t, now)}
}
