package board

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/fitz/taskflow/internal/metrics"
	"github.com/fitz/taskflow/internal/models"
	"github.com/fitz/taskflow/internal/orderkey"
	"github.com/fitz/taskflow/internal/predict"
)

// Created is the result of a task-creating operation. Notices carry
// non-fatal problems, such as a prediction that fell back to defaults.
type Created struct {
	Tasks   []models.Task `json:"tasks"`
	Notices []string      `json:"notices,omitempty"`
}

// Update is a partial task edit; nil fields are left unchanged.
type Update struct {
	Name          *string   `json:"name,omitempty"`
	Urgency       *int      `json:"urgency,omitempty"`
	Importance    *int      `json:"importance,omitempty"`
	ContextKey    *string   `json:"contextKey,omitempty"`
	EstimatedTime *int      `json:"estimatedTime,omitempty"`
	Keywords      *[]string `json:"keywords,omitempty"`
}

// Add appends tasks to the collection. Missing ids and statuses are filled
// in and numeric fields are clamped.
func (b *Board) Add(ctx context.Context, tasks ...models.Task) ([]models.Task, error) {
	if err := b.lockFresh(ctx); err != nil {
		return nil, err
	}
	defer b.mu.Unlock()

	added := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		added = append(added, b.prepare(t))
	}
	b.appendToCurrent(added)
	next := append(models.CloneTasks(b.tasks), added...)
	if err := b.commitTasks(ctx, "create", next); err != nil {
		return nil, fmt.Errorf("failed to add tasks: %w", err)
	}
	return models.CloneTasks(added), nil
}

func (b *Board) prepare(t models.Task) models.Task {
	t = t.Clone()
	if t.ID == "" {
		t.ID = b.newID()
	}
	if !models.IsValidTaskStatus(string(t.Status)) {
		t.Status = models.TaskStatusActive
	}
	if t.ContextKey == "" {
		t.ContextKey = models.ContextNone
	}
	if t.Keywords == nil {
		t.Keywords = []string{}
	}
	t.Urgency = models.ClampInt(t.Urgency, models.MinUrgency, models.MaxUrgency)
	t.Importance = models.ClampInt(t.Importance, models.MinImportance, models.MaxImportance)
	t.EstimatedTime = models.ClampInt(t.EstimatedTime, models.MinEstimatedTime, models.MaxEstimatedTime)
	t.IsTopPriority = false
	return t
}

// appendToCurrent gives new current-list tasks without an order key keys
// after the last row of the current list, in the order they were given.
func (b *Board) appendToCurrent(added []models.Task) {
	var pending []int
	for i, t := range added {
		if t.IsCurrent && t.IsActive() && !t.HasOrder() {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return
	}
	var last float64
	for _, t := range b.tasks {
		if t.IsCurrent && t.IsActive() && t.HasOrder() {
			last = max(last, *t.Order)
		}
	}
	for j, key := range orderkey.Spread(last, 0, len(pending)) {
		added[pending[j]].Order = models.Float(key)
	}
}

// CreateFromText creates one task per non-empty line, predicting each
// line's properties concurrently. A failed prediction falls back to default
// properties and adds a notice; the batch itself never fails on prediction.
func (b *Board) CreateFromText(ctx context.Context, input string) (Created, error) {
	lines := predict.Lines(input)
	if len(lines) == 0 {
		return Created{}, predict.ErrEmptyInput
	}

	results := predict.Batch(ctx, b.instrumented(), lines, b.batchLimit)

	var res Created
	tasks := make([]models.Task, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			b.logger.Warn("prediction failed, using defaults", "task_name", r.Text, "error", r.Err)
			res.Notices = append(res.Notices, fmt.Sprintf("%q: prediction failed (%v); default values used", r.Text, r.Err))
		}
		tasks = append(tasks, r.Properties.Apply(models.Task{Name: r.Text}))
	}

	added, err := b.Add(ctx, tasks...)
	if err != nil {
		return Created{}, err
	}
	res.Tasks = added
	return res, nil
}

// Decompose asks the predictor to split text into a named group of
// subtasks and adds them.
func (b *Board) Decompose(ctx context.Context, text string) (Created, error) {
	if strings.TrimSpace(text) == "" {
		return Created{}, predict.ErrEmptyInput
	}
	tasks, err := b.decompose(ctx, text)
	if err != nil {
		return Created{}, err
	}
	added, err := b.Add(ctx, tasks...)
	if err != nil {
		return Created{}, err
	}
	return Created{Tasks: added}, nil
}

// Resplit decomposes an existing task by name and replaces it with the
// resulting subtasks. The original task is left alone when the model
// returns nothing usable.
func (b *Board) Resplit(ctx context.Context, id string) (Created, error) {
	original, err := b.Task(id)
	if err != nil {
		return Created{}, err
	}
	subtasks, err := b.decompose(ctx, original.Name)
	if err != nil {
		return Created{}, err
	}
	if len(subtasks) == 0 {
		return Created{Notices: []string{"the model returned no subtasks; task unchanged"}}, nil
	}

	if err := b.lockFresh(ctx); err != nil {
		return Created{}, err
	}
	defer b.mu.Unlock()

	i := b.indexLocked(id)
	if i < 0 {
		return Created{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	added := make([]models.Task, 0, len(subtasks))
	for _, t := range subtasks {
		added = append(added, b.prepare(t))
	}
	next := slices.Delete(models.CloneTasks(b.tasks), i, i+1)
	next = append(next, added...)
	if err := b.commit(ctx, "resplit", next, b.stopTimers(id)); err != nil {
		return Created{}, fmt.Errorf("failed to resplit task: %w", err)
	}
	b.logger.Info("task resplit", "task_id", id, "subtasks", len(added))
	return Created{Tasks: models.CloneTasks(added)}, nil
}

// decompose runs the predictor outside the lock and turns the result into
// group children. Subtasks named like the group are dropped so the group
// never gains a marker row.
func (b *Board) decompose(ctx context.Context, text string) ([]models.Task, error) {
	p := b.instrumented()
	if p == nil {
		return nil, ErrNoPredictor
	}
	d, err := p.Decompose(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to decompose task: %w", err)
	}
	var tasks []models.Task
	for _, s := range d.SubTasks {
		if s.Name == d.ParentTaskName {
			continue
		}
		t := s.Properties.Apply(models.Task{Name: s.Name, ParentTaskName: d.ParentTaskName})
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Update applies a partial edit. Estimated time is clamped to 1-999 minutes.
func (b *Board) Update(ctx context.Context, id string, u Update) (models.Task, error) {
	if err := b.lockFresh(ctx); err != nil {
		return models.Task{}, err
	}
	defer b.mu.Unlock()

	i := b.indexLocked(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	next := models.CloneTasks(b.tasks)
	t := &next[i]
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return models.Task{}, errors.New("task name must not be empty")
		}
		t.Name = name
	}
	if u.Urgency != nil {
		t.Urgency = models.ClampInt(*u.Urgency, models.MinUrgency, models.MaxUrgency)
	}
	if u.Importance != nil {
		t.Importance = models.ClampInt(*u.Importance, models.MinImportance, models.MaxImportance)
	}
	if u.ContextKey != nil {
		t.ContextKey = strings.TrimSpace(*u.ContextKey)
		if t.ContextKey == "" {
			t.ContextKey = models.ContextNone
		}
	}
	if u.EstimatedTime != nil {
		t.EstimatedTime = models.ClampInt(*u.EstimatedTime, models.MinEstimatedTime, models.MaxEstimatedTime)
	}
	if u.Keywords != nil {
		t.Keywords = slices.Clone(*u.Keywords)
	}
	if err := b.commitTasks(ctx, "update", next); err != nil {
		return models.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return next[i].Clone(), nil
}

// Delete removes a task and its timer.
func (b *Board) Delete(ctx context.Context, id string) error {
	if err := b.lockFresh(ctx); err != nil {
		return err
	}
	defer b.mu.Unlock()

	i := b.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	next := slices.Delete(models.CloneTasks(b.tasks), i, i+1)
	if err := b.commit(ctx, "delete", next, b.stopTimers(id)); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// Complete marks a task completed and cancels its timer. Children of a
// group may be completed individually.
func (b *Board) Complete(ctx context.Context, id string) (models.Task, error) {
	if err := b.lockFresh(ctx); err != nil {
		return models.Task{}, err
	}
	defer b.mu.Unlock()

	i := b.indexLocked(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	next := models.CloneTasks(b.tasks)
	next[i].Status = models.TaskStatusCompleted
	if err := b.commit(ctx, "complete", next, b.stopTimers(id)); err != nil {
		return models.Task{}, fmt.Errorf("failed to complete task: %w", err)
	}
	return next[i].Clone(), nil
}

// ToggleCheck flips a task's checked state.
func (b *Board) ToggleCheck(ctx context.Context, id string) (models.Task, error) {
	if err := b.lockFresh(ctx); err != nil {
		return models.Task{}, err
	}
	defer b.mu.Unlock()

	i := b.indexLocked(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	next := models.CloneTasks(b.tasks)
	next[i].IsChecked = !next[i].IsChecked
	if err := b.commitTasks(ctx, "check", next); err != nil {
		return models.Task{}, fmt.Errorf("failed to toggle check: %w", err)
	}
	return next[i].Clone(), nil
}

// instrumented wraps the predictor with metrics, or returns nil when no
// predictor is configured.
func (b *Board) instrumented() predict.Predictor {
	if b.predictor == nil {
		return nil
	}
	return measured{b.predictor}
}

type measured struct {
	next predict.Predictor
}

func (m measured) Predict(ctx context.Context, text string) (predict.Properties, error) {
	defer observe("predict", time.Now())
	p, err := m.next.Predict(ctx, text)
	metrics.Predictions.WithLabelValues("predict", result(err)).Inc()
	return p, err
}

func (m measured) Decompose(ctx context.Context, text string) (predict.Decomposition, error) {
	defer observe("decompose", time.Now())
	d, err := m.next.Decompose(ctx, text)
	metrics.Predictions.WithLabelValues("decompose", result(err)).Inc()
	return d, err
}

func observe(kind string, start time.Time) {
	metrics.PredictionLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
