// Package notify delivers "timer expired" events.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Notifier receives timer expiry events.
type Notifier interface {
	TimerExpired(ctx context.Context, taskID, taskName string) error
}

// Title is the heading used for desktop notifications.
const Title = "TaskFlow"

// Message formats the text shown when a pause ends.
func Message(taskName string) string {
	return fmt.Sprintf("Pause for %q is over", taskName)
}

// appleScript escapes text for an AppleScript string literal. It rewrites in
// a single pass, so the backslashes it inserts are never escaped again.
var appleScript = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return appleScript.Replace(s)
}

// Log writes expiry events to a structured logger.
type Log struct {
	Logger *slog.Logger
}

func (l Log) TimerExpired(ctx context.Context, taskID, taskName string) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "timer_expired", "task_id", taskID, "task_name", taskName)
	return nil
}

// Desktop shows an OS notification where the platform supports it.
type Desktop struct{}

func (Desktop) TimerExpired(_ context.Context, _, taskName string) error {
	return Send(Title, Message(taskName))
}

// Multi fans an event out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) TimerExpired(ctx context.Context, taskID, taskName string) error {
	var errs []error
	for _, n := range m {
		if err := n.TimerExpired(ctx, taskID, taskName); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, taskID, taskName string) error

func (f Func) TimerExpired(ctx context.Context, taskID, taskName string) error {
	return f(ctx, taskID, taskName)
}
