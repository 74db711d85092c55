package board

import (
	"slices"

	"github.com/fitz/taskflow/internal/models"
	"github.com/fitz/taskflow/internal/priority"
	"github.com/fitz/taskflow/internal/reorder"
	"github.com/fitz/taskflow/internal/unified"
)

// Summary totals estimated minutes across the board.
type Summary struct {
	TotalTasks       int `json:"totalTasks"`
	TotalMinutes     int `json:"totalMinutes"`
	ActiveTasks      int `json:"activeTasks"`
	ActiveMinutes    int `json:"activeMinutes"`
	CompletedTasks   int `json:"completedTasks"`
	CompletedMinutes int `json:"completedMinutes"`
}

// Snapshot is everything a client needs to render the board for one tab.
type Snapshot struct {
	Current   []models.DisplayItem `json:"current"`
	All       []models.DisplayItem `json:"all"`
	Completed []models.Task        `json:"completed"`
	DoNow     []priority.Scored    `json:"doNow"`
	Suggested []string             `json:"suggested"`
	Summary   Summary              `json:"summary"`
}

// List returns one list's tasks in display order. The current and
// completed lists sort by order key; the all-list additionally ranks
// unordered tasks by score for the given tab.
func (b *Board) List(target reorder.Target, tab *models.TabContext) []models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.listLocked(target, tab)
}

func (b *Board) listLocked(target reorder.Target, tab *models.TabContext) []models.Task {
	return b.sortedList(b.tasks, target, tab)
}

// sortedList picks one list out of tasks in display order.
func (b *Board) sortedList(tasks []models.Task, target reorder.Target, tab *models.TabContext) []models.Task {
	var picked []models.Task
	for _, t := range tasks {
		switch target {
		case reorder.TargetCompleted:
			if t.Status == models.TaskStatusCompleted {
				picked = append(picked, t)
			}
		case reorder.TargetCurrent:
			if t.IsActive() && t.IsCurrent {
				picked = append(picked, t)
			}
		default:
			if t.IsActive() && !t.IsCurrent {
				picked = append(picked, t)
			}
		}
	}
	if target == reorder.TargetAll {
		return priority.SortForDisplay(picked, tab, b.patterns)
	}
	return priority.SortByOrder(picked)
}

// Snapshot projects every list for the given tab.
func (b *Board) Snapshot(tab *models.TabContext) Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	active := activeTasks(b.tasks)
	suggested := priority.Suggested(active, tab, b.patterns)
	ids := make([]string, 0, len(suggested))
	for _, t := range active {
		if suggested[t.ID] {
			ids = append(ids, t.ID)
		}
	}
	return Snapshot{
		Current:   unified.Project(b.listLocked(reorder.TargetCurrent, tab)),
		All:       unified.Project(b.listLocked(reorder.TargetAll, tab)),
		Completed: b.listLocked(reorder.TargetCompleted, tab),
		DoNow:     priority.Top(b.tasks, tab, b.patterns, priority.DoNowCount),
		Suggested: ids,
		Summary:   b.summaryLocked(),
	}
}

// Rank scores the active tasks against the tab, best first.
func (b *Board) Rank(tab *models.TabContext) []priority.Scored {
	b.mu.Lock()
	defer b.mu.Unlock()
	return priority.Rank(b.tasks, tab, b.patterns)
}

// Top returns the n best-scoring active tasks.
func (b *Board) Top(tab *models.TabContext, n int) []priority.Scored {
	b.mu.Lock()
	defer b.mu.Unlock()
	return priority.Top(b.tasks, tab, b.patterns, n)
}

// Summary totals estimated minutes by status.
func (b *Board) Summary() Summary {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.summaryLocked()
}

func (b *Board) summaryLocked() Summary {
	var s Summary
	for _, t := range b.tasks {
		s.TotalTasks++
		s.TotalMinutes += t.EstimatedTime
		switch t.Status {
		case models.TaskStatusActive:
			s.ActiveTasks++
			s.ActiveMinutes += t.EstimatedTime
		case models.TaskStatusCompleted:
			s.CompletedTasks++
			s.CompletedMinutes += t.EstimatedTime
		}
	}
	return s
}

// Patterns returns the configured domain patterns.
func (b *Board) Patterns() []models.DomainPattern {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.patterns)
}
