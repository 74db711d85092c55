package board

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/fitz/taskflow/internal/models"
	"github.com/fitz/taskflow/internal/reorder"
	"github.com/fitz/taskflow/internal/unified"
)

// RenameGroup changes the parent name of every task in the group, the
// marker row included. It returns the number of tasks updated.
func (b *Board) RenameGroup(ctx context.Context, oldName, newName string) (int, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" || models.IsIndependentLabel(newName) {
		return 0, fmt.Errorf("invalid group name %q", newName)
	}

	if err := b.lockFresh(ctx); err != nil {
		return 0, err
	}
	defer b.mu.Unlock()

	if len(unified.GroupChildren(b.tasks, oldName)) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrGroupNotFound, oldName)
	}
	next := models.CloneTasks(b.tasks)
	var n int
	for i := range next {
		if next[i].ParentTaskName != oldName {
			continue
		}
		if next[i].Name == oldName {
			next[i].Name = newName
		}
		next[i].ParentTaskName = newName
		n++
	}
	if err := b.commitTasks(ctx, "rename_group", next); err != nil {
		return 0, fmt.Errorf("failed to rename group: %w", err)
	}
	return n, nil
}

// CompleteGroup completes every active child of the group at once. It
// requires each of them to be checked.
func (b *Board) CompleteGroup(ctx context.Context, name string) ([]models.Task, error) {
	if err := b.lockFresh(ctx); err != nil {
		return nil, err
	}
	defer b.mu.Unlock()

	item := reorder.GroupRef(name)
	if err := reorder.CheckDrop(b.tasks, item, reorder.TargetCompleted); err != nil {
		if errors.Is(err, reorder.ErrItemNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, name)
		}
		return nil, err
	}
	return b.completeLocked(ctx, "complete_group", activeMembers(b.tasks, item))
}

// DeleteGroup removes every child of the group, its marker row and their
// timers. It returns the number of tasks removed.
func (b *Board) DeleteGroup(ctx context.Context, name string) (int, error) {
	if err := b.lockFresh(ctx); err != nil {
		return 0, err
	}
	defer b.mu.Unlock()

	if len(unified.GroupChildren(b.tasks, name)) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrGroupNotFound, name)
	}
	var removed []string
	next := slices.DeleteFunc(models.CloneTasks(b.tasks), func(t models.Task) bool {
		if t.ParentTaskName == name {
			removed = append(removed, t.ID)
			return true
		}
		return false
	})
	if err := b.commit(ctx, "delete_group", next, b.stopTimers(removed...)); err != nil {
		return 0, fmt.Errorf("failed to delete group: %w", err)
	}
	return len(removed), nil
}

// Groups returns the names of groups with at least one active child, in
// collection order.
func (b *Board) Groups() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var names []string
	for _, item := range unified.Project(activeTasks(b.tasks)) {
		if item.Kind == models.ItemGroup {
			names = append(names, item.GroupName)
		}
	}
	return names
}

// completeLocked marks members completed and cancels their timers.
func (b *Board) completeLocked(ctx context.Context, op string, members []models.Task) ([]models.Task, error) {
	done := ids(members)
	next := models.CloneTasks(b.tasks)
	var out []models.Task
	for i := range next {
		if slices.Contains(done, next[i].ID) {
			next[i].Status = models.TaskStatusCompleted
			out = append(out, next[i].Clone())
		}
	}
	if err := b.commit(ctx, op, next, b.stopTimers(done...)); err != nil {
		return nil, fmt.Errorf("failed to complete tasks: %w", err)
	}
	return out, nil
}

func activeMembers(tasks []models.Task, item reorder.Item) []models.Task {
	return activeTasks(reorder.Members(tasks, item))
}

func activeTasks(tasks []models.Task) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.IsActive() {
			out = append(out, t)
		}
	}
	return out
}
