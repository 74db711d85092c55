// Package board is the task manager's state container. It owns the task,
// timer and domain pattern collections, serializes every mutation behind a
// mutex and persists the result through the store port before returning.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fitz/taskflow/internal/metrics"
	"github.com/fitz/taskflow/internal/models"
	"github.com/fitz/taskflow/internal/notify"
	"github.com/fitz/taskflow/internal/predict"
	"github.com/fitz/taskflow/internal/store"
	"github.com/fitz/taskflow/internal/timer"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrGroupNotFound = errors.New("group not found")
	ErrNoPredictor   = errors.New("prediction is not configured; set GEMINI_API_KEY")
)

// Options wires a Board to its ports. Only Store is required.
type Options struct {
	Store     store.Store
	Predictor predict.Predictor
	Notifier  notify.Notifier
	Logger    *slog.Logger

	// Notifications enables notifier calls for expired timers.
	Notifications bool
	// BatchLimit bounds concurrent predictions when creating tasks.
	BatchLimit int

	Now   func() time.Time
	NewID func() string
}

// Board holds the collections. All methods are safe for concurrent use.
type Board struct {
	mu sync.Mutex

	store         store.Store
	predictor     predict.Predictor
	notifier      notify.Notifier
	logger        *slog.Logger
	notifications bool
	batchLimit    int
	now           func() time.Time
	newID         func() string

	tasks    []models.Task
	timers   []models.TimerData
	patterns []models.DomainPattern

	// seen holds the raw document last read or written per store key.
	seen map[string][]byte
}

// New creates an empty board. Call Load to read persisted state.
func New(opts Options) *Board {
	b := &Board{
		store:         opts.Store,
		predictor:     opts.Predictor,
		notifier:      opts.Notifier,
		logger:        opts.Logger,
		notifications: opts.Notifications,
		batchLimit:    opts.BatchLimit,
		now:           opts.Now,
		newID:         opts.NewID,
		tasks:         []models.Task{},
		timers:        []models.TimerData{},
		patterns:      models.DefaultDomainPatterns(),
		seen:          make(map[string][]byte),
	}
	if b.store == nil {
		b.store = store.NewMemory()
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.newID == nil {
		b.newID = uuid.NewString
	}
	return b
}

// Open creates a board and loads its persisted state.
func Open(ctx context.Context, opts Options) (*Board, error) {
	b := New(opts)
	if err := b.Load(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// Load replaces in-memory state with the persisted collections. Corrupt
// documents are logged and replaced by defaults. Timers whose deadline
// passed while nothing was running are expired immediately.
func (b *Board) Load(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tasks = []models.Task{}
	b.timers = []models.TimerData{}
	b.patterns = models.DefaultDomainPatterns()
	clear(b.seen)
	if err := b.readLocked(ctx); err != nil {
		return fmt.Errorf("failed to load board: %w", err)
	}
	b.logger.Info("board loaded", "tasks", len(b.tasks), "timers", len(b.timers), "patterns", len(b.patterns))

	_, err := b.expireLocked(ctx, b.now())
	return err
}

// Close releases the underlying store.
func (b *Board) Close() error {
	return b.store.Close()
}

// Tasks returns a copy of the task collection in stored order.
func (b *Board) Tasks() []models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return models.CloneTasks(b.tasks)
}

// Task returns a single task by id.
func (b *Board) Task(id string) (models.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexLocked(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return b.tasks[i].Clone(), nil
}

func (b *Board) indexLocked(id string) int {
	return slices.IndexFunc(b.tasks, func(t models.Task) bool { return t.ID == id })
}

// commitTasks persists next and, on success, makes it the current state.
func (b *Board) commitTasks(ctx context.Context, op string, next []models.Task) error {
	if err := persist(ctx, b, store.KeyTasks, next); err != nil {
		return err
	}
	b.tasks = next
	metrics.TaskOps.WithLabelValues(op).Inc()
	b.observeLocked()
	return nil
}

func (b *Board) commitTimers(ctx context.Context, next []models.TimerData) error {
	if err := persist(ctx, b, store.KeyTimers, next); err != nil {
		return err
	}
	b.timers = next
	b.observeLocked()
	return nil
}

// commit persists tasks and timers for operations that touch both. When the
// timer write fails the previous tasks are written back and nothing in
// memory changes.
func (b *Board) commit(ctx context.Context, op string, tasks []models.Task, timers []models.TimerData) error {
	if err := persist(ctx, b, store.KeyTasks, tasks); err != nil {
		return err
	}
	if err := persist(ctx, b, store.KeyTimers, timers); err != nil {
		if rerr := persist(ctx, b, store.KeyTasks, b.tasks); rerr != nil {
			b.logger.Error("failed to restore tasks after timer write failed", "op", op, "error", rerr)
		}
		return err
	}
	b.tasks, b.timers = tasks, timers
	metrics.TaskOps.WithLabelValues(op).Inc()
	b.observeLocked()
	return nil
}

func (b *Board) observeLocked() {
	var active, completed int
	for _, t := range b.tasks {
		switch t.Status {
		case models.TaskStatusActive:
			active++
		case models.TaskStatusCompleted:
			completed++
		}
	}
	var running int
	for _, t := range b.timers {
		if !t.HasExpired {
			running++
		}
	}
	metrics.TasksActive.Set(float64(active))
	metrics.TasksCompleted.Set(float64(completed))
	metrics.TimersRunning.Set(float64(running))
}

// stopTimers drops the timers of the given tasks.
func (b *Board) stopTimers(ids ...string) []models.TimerData {
	return timer.CancelMany(b.timers, ids)
}

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
