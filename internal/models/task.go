package models

import "strings"

// TaskStatus defines the status of a task
type TaskStatus string

const (
	TaskStatusActive    TaskStatus = "active"
	TaskStatusPaused    TaskStatus = "paused"
	TaskStatusCompleted TaskStatus = "completed"
)

// ValidTaskStatuses contains all valid task status values
var ValidTaskStatuses = []TaskStatus{
	TaskStatusActive,
	TaskStatusPaused,
	TaskStatusCompleted,
}

// IsValidTaskStatus checks if a status string is a valid TaskStatus
func IsValidTaskStatus(s string) bool {
	for _, status := range ValidTaskStatuses {
		if string(status) == s {
			return true
		}
	}
	return false
}

// IndependentLabel is the parent name the extension writes for tasks that
// belong to no group.
const IndependentLabel = "独立タスク"

// independentAliases are parent names treated the same as IndependentLabel.
var independentAliases = []string{IndependentLabel, "independent task"}

// ContextNone is the context key of a task with no associated tool.
const ContextNone = "None"

// Urgency, importance and estimated time bounds.
const (
	MinUrgency       = 1
	MaxUrgency       = 4
	MinImportance    = 1
	MaxImportance    = 5
	MinEstimatedTime = 1
	MaxEstimatedTime = 999
)

// Task is a single work item as stored by the extension.
type Task struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Urgency        int        `json:"urgency"`
	Importance     int        `json:"importance"`
	ContextKey     string     `json:"contextKey"`
	EstimatedTime  int        `json:"estimatedTime"`
	Status         TaskStatus `json:"status"`
	IsTopPriority  bool       `json:"isTopPriority,omitempty"`
	Keywords       []string   `json:"keywords,omitempty"`
	Order          *float64   `json:"order,omitempty"`
	ParentTaskName string     `json:"parentTaskName,omitempty"`
	IsChecked      bool       `json:"isChecked,omitempty"`
	IsCurrent      bool       `json:"isCurrent,omitempty"`
}

// TaskKind classifies a task for list projection.
type TaskKind int

const (
	KindStandalone TaskKind = iota
	KindChild
	KindMarker
)

func (k TaskKind) String() string {
	switch k {
	case KindChild:
		return "child"
	case KindMarker:
		return "marker"
	default:
		return "standalone"
	}
}

// Classify decides whether a task is standalone, a child of a named group,
// or the group's own parent marker row. It is the only place the grouping
// rule lives.
func Classify(t Task) TaskKind {
	parent := t.ParentTaskName
	if parent == "" {
		return KindStandalone
	}
	if parent == t.Name {
		return KindMarker
	}
	if IsIndependentLabel(parent) {
		return KindStandalone
	}
	return KindChild
}

// IsIndependentLabel reports whether name is the "no group" sentinel.
func IsIndependentLabel(name string) bool {
	for _, alias := range independentAliases {
		if strings.EqualFold(name, alias) {
			return true
		}
	}
	return false
}

// IsGroupChild reports whether the task belongs to a named group.
func (t Task) IsGroupChild() bool { return Classify(t) == KindChild }

// IsMarker reports whether the task is a group's parent marker row.
func (t Task) IsMarker() bool { return Classify(t) == KindMarker }

// IsActive reports whether the task is shown in the working lists.
func (t Task) IsActive() bool { return t.Status == TaskStatusActive }

// HasOrder reports whether an explicit order key is set.
func (t Task) HasOrder() bool { return t.Order != nil }

// OrderOr returns the order key or def when unset.
func (t Task) OrderOr(def float64) float64 {
	if t.Order == nil {
		return def
	}
	return *t.Order
}

// WithOrder returns a copy of the task with the given order key.
func (t Task) WithOrder(order float64) Task {
	t.Order = &order
	return t
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	if t.Keywords != nil {
		t.Keywords = append([]string(nil), t.Keywords...)
	}
	if t.Order != nil {
		o := *t.Order
		t.Order = &o
	}
	return t
}

// CloneTasks deep-copies a task slice.
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// ClampInt bounds v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }
