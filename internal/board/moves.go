package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitz/taskflow/internal/metrics"
	"github.com/fitz/taskflow/internal/models"
	"github.com/fitz/taskflow/internal/reorder"
)

// Move drags a task or group to newIndex of the current list (toCurrent) or
// the all-list. tab must be the context the client rendered the list with,
// since it decides where unordered tasks appear in the all-list.
func (b *Board) Move(ctx context.Context, item reorder.Item, newIndex int, toCurrent bool, tab *models.TabContext) error {
	if err := b.lockFresh(ctx); err != nil {
		return err
	}
	defer b.mu.Unlock()

	if err := b.findLocked(item); err != nil {
		return err
	}
	target := reorder.TargetAll
	if toCurrent {
		target = reorder.TargetCurrent
	}
	next := reorder.Move(b.tasks, b.listLocked(target, tab), item, newIndex, toCurrent)
	next = b.compactIfNeeded(next, tab)
	if err := b.commitTasks(ctx, "move", next); err != nil {
		return fmt.Errorf("failed to move %s: %w", item.Kind, err)
	}
	return nil
}

// ReorderChild moves a group child to newIndex among its siblings.
func (b *Board) ReorderChild(ctx context.Context, id string, newIndex int) error {
	if err := b.lockFresh(ctx); err != nil {
		return err
	}
	defer b.mu.Unlock()

	i := b.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if !b.tasks[i].IsGroupChild() {
		return fmt.Errorf("task %s is not part of a group", id)
	}
	next := reorder.ReorderChild(b.tasks, id, newIndex)
	if err := b.commitTasks(ctx, "move_child", next); err != nil {
		return fmt.Errorf("failed to reorder child: %w", err)
	}
	return nil
}

// Drop handles a drop onto a list container rather than a position. A drop
// on the completed list completes the item; a group must have every active
// child checked first. A drop on the current or all-list appends the item
// to the end of that list.
func (b *Board) Drop(ctx context.Context, item reorder.Item, target reorder.Target, tab *models.TabContext) error {
	if err := b.lockFresh(ctx); err != nil {
		return err
	}
	defer b.mu.Unlock()

	if err := reorder.CheckDrop(b.tasks, item, target); err != nil {
		if errors.Is(err, reorder.ErrItemNotFound) {
			return b.notFound(item)
		}
		return err
	}
	if target == reorder.TargetCompleted {
		members := reorder.Members(b.tasks, item)
		if item.Kind == models.ItemGroup {
			members = activeTasks(members)
		}
		_, err := b.completeLocked(ctx, "drop", members)
		return err
	}

	toCurrent := target == reorder.TargetCurrent
	list := b.listLocked(target, tab)
	next := reorder.Move(b.tasks, list, item, len(list), toCurrent)
	next = b.compactIfNeeded(next, tab)
	if err := b.commitTasks(ctx, "drop", next); err != nil {
		return fmt.Errorf("failed to drop %s: %w", item.Kind, err)
	}
	return nil
}

// Compact renumbers every order key with full spacing. The lists keep the
// order they are displayed in for tab.
func (b *Board) Compact(ctx context.Context, tab *models.TabContext) error {
	if err := b.lockFresh(ctx); err != nil {
		return err
	}
	defer b.mu.Unlock()

	next := b.renumber(b.tasks, tab)
	if err := b.commitTasks(ctx, "compact", next); err != nil {
		return fmt.Errorf("failed to compact order keys: %w", err)
	}
	metrics.Compactions.Inc()
	return nil
}

// compactIfNeeded renumbers when midpoint insertion has run out of float
// precision between two neighbours.
func (b *Board) compactIfNeeded(tasks []models.Task, tab *models.TabContext) []models.Task {
	if !reorder.NeedsCompaction(tasks) {
		return tasks
	}
	b.logger.Warn("order keys exhausted, renumbering")
	metrics.Compactions.Inc()
	return b.renumber(tasks, tab)
}

func (b *Board) renumber(tasks []models.Task, tab *models.TabContext) []models.Task {
	return reorder.Renumber(tasks,
		b.sortedList(tasks, reorder.TargetCurrent, tab),
		b.sortedList(tasks, reorder.TargetAll, tab),
	)
}

func (b *Board) findLocked(item reorder.Item) error {
	if len(reorder.Members(b.tasks, item)) == 0 {
		return b.notFound(item)
	}
	return nil
}

func (b *Board) notFound(item reorder.Item) error {
	if item.Kind == models.ItemGroup {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, item.Key)
	}
	return fmt.Errorf("%w: %s", ErrTaskNotFound, item.Key)
}
