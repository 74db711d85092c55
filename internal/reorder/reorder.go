// Package reorder recomputes order keys after drag-and-drop moves.
//
// All functions are pure: they take the task collection and return a new
// one. A move that cannot be located, or that lands on the item's current
// index, returns the input unchanged.
package reorder

import (
	"cmp"
	"errors"
	"slices"

	"github.com/fitz/taskflow/internal/models"
	"github.com/fitz/taskflow/internal/orderkey"
	"github.com/fitz/taskflow/internal/unified"
)

var (
	// ErrItemNotFound is returned when a dragged task or group does not exist.
	ErrItemNotFound = errors.New("dragged item not found")
	// ErrGroupNotChecked rejects completing a group with unchecked children.
	ErrGroupNotChecked = errors.New("check every subtask before completing the group")
)

// Item is the drag payload: what kind of row is being dragged and its key
// (task id or group name).
type Item struct {
	Kind models.ItemKind `json:"type"`
	Key  string          `json:"id"`
}

// TaskRef builds the payload for dragging a single task.
func TaskRef(id string) Item { return Item{Kind: models.ItemTask, Key: id} }

// GroupRef builds the payload for dragging a whole group.
func GroupRef(name string) Item { return Item{Kind: models.ItemGroup, Key: name} }

// Target names a drop container.
type Target string

const (
	TargetCurrent   Target = "current"
	TargetAll       Target = "all"
	TargetCompleted Target = "completed"
)

// IsValidTarget checks if a string names a drop target.
func IsValidTarget(s string) bool {
	switch Target(s) {
	case TargetCurrent, TargetAll, TargetCompleted:
		return true
	}
	return false
}

// Reorder moves an item within a single list. The active tasks are
// projected in input order, the item is spliced to newIndex (clamped to the
// list), and every active task receives order = position*1000 + offset
// within its group. Non-active tasks are left untouched.
func Reorder(tasks []models.Task, item Item, newIndex int) []models.Task {
	items := unified.Project(activeOnly(tasks))
	from := unified.IndexOf(items, item.Kind, item.Key)
	if from == -1 {
		return tasks
	}
	to := clamp(newIndex, len(items))
	if from == to {
		return tasks
	}

	moved := items[from]
	items = slices.Delete(items, from, from+1)
	items = slices.Insert(items, to, moved)

	return applyOrders(tasks, positions(items))
}

// Renumber rewrites the order keys of the active tasks in each list,
// restoring full Spacing between rows. Every list must already be in
// display order; it is renumbered from its own unified list. Tasks that
// appear in no list keep their keys.
func Renumber(tasks []models.Task, lists ...[]models.Task) []models.Task {
	orders := make(map[string]float64)
	for _, list := range lists {
		for id, order := range positions(unified.Project(activeOnly(list))) {
			orders[id] = order
		}
	}
	return applyOrders(tasks, orders)
}

// NeedsCompaction reports whether two neighbouring active tasks in either
// partition have keys too close for another midpoint insertion.
func NeedsCompaction(tasks []models.Task) bool {
	for _, current := range []bool{true, false} {
		var keys []float64
		for _, t := range tasks {
			if t.IsActive() && t.IsCurrent == current && t.HasOrder() {
				keys = append(keys, *t.Order)
			}
		}
		slices.Sort(keys)
		for i := 1; i < len(keys); i++ {
			if keys[i] != keys[i-1] && orderkey.Exhausted(keys[i-1], keys[i]) {
				return true
			}
		}
	}
	return false
}

// Move places an item into the target list at newIndex. target is the
// destination list as displayed (sorted) and toCurrent its partition flag.
// When the item already lives in that partition this is a same-list
// Reorder; otherwise the item takes a key between its new neighbours and
// switches partition. Group children keep their relative order, offset by
// one from the new base key.
func Move(tasks, target []models.Task, item Item, newIndex int, toCurrent bool) []models.Task {
	members := membersOf(tasks, item)
	if len(members) == 0 {
		return tasks
	}

	if members[0].IsCurrent == toCurrent {
		reordered := Reorder(target, item, newIndex)
		updated := make(map[string]*float64, len(reordered))
		for _, t := range reordered {
			if t.IsCurrent == toCurrent {
				updated[t.ID] = t.Order
			}
		}
		out := models.CloneTasks(tasks)
		for i := range out {
			if order, ok := updated[out[i].ID]; ok && out[i].IsCurrent == toCurrent {
				out[i].Order = order
			}
		}
		return out
	}

	base := slotKey(unified.Project(target), newIndex)

	if item.Kind == models.ItemGroup {
		slices.SortStableFunc(members, func(a, b models.Task) int {
			return cmp.Compare(a.OrderOr(0), b.OrderOr(0))
		})
	}
	updates := make(map[string]float64, len(members))
	for i, m := range members {
		updates[m.ID] = base + float64(i)
	}

	out := models.CloneTasks(tasks)
	for i := range out {
		if order, ok := updates[out[i].ID]; ok {
			out[i].Order = models.Float(order)
			out[i].IsCurrent = toCurrent
		}
	}
	return out
}

// ReorderChild moves a child within its group. Siblings, sorted by order
// with unset as 0, keep their existing order slots; only the assignment of
// tasks to slots changes.
func ReorderChild(tasks []models.Task, taskID string, newIndex int) []models.Task {
	var parent string
	for _, t := range tasks {
		if t.ID == taskID && t.IsGroupChild() {
			parent = t.ParentTaskName
			break
		}
	}
	if parent == "" {
		return tasks
	}

	siblings := slices.Clone(unified.GroupChildren(tasks, parent))
	slices.SortStableFunc(siblings, func(a, b models.Task) int {
		return cmp.Compare(a.OrderOr(0), b.OrderOr(0))
	})
	slots := make([]float64, len(siblings))
	for i, s := range siblings {
		slots[i] = s.OrderOr(0)
	}

	from := slices.IndexFunc(siblings, func(t models.Task) bool { return t.ID == taskID })
	to := clamp(newIndex, len(siblings))
	if from == to {
		return tasks
	}
	moved := siblings[from]
	siblings = slices.Delete(siblings, from, from+1)
	siblings = slices.Insert(siblings, to, moved)

	updates := make(map[string]float64, len(siblings))
	for i, s := range siblings {
		updates[s.ID] = slots[i]
	}
	out := models.CloneTasks(tasks)
	for i := range out {
		if order, ok := updates[out[i].ID]; ok {
			out[i].Order = models.Float(order)
		}
	}
	return out
}

// CheckDrop validates a drop onto a container before any state changes.
// A group may only be dropped on the completed list when all of its active
// children are checked.
func CheckDrop(tasks []models.Task, item Item, target Target) error {
	members := membersOf(tasks, item)
	if item.Kind == models.ItemGroup {
		members = activeOnly(members)
	}
	if len(members) == 0 {
		return ErrItemNotFound
	}
	if item.Kind == models.ItemGroup && target == TargetCompleted {
		for _, m := range members {
			if !m.IsChecked {
				return ErrGroupNotChecked
			}
		}
	}
	return nil
}

// Members returns the tasks an item stands for: the task itself, or every
// current child of the group.
func Members(tasks []models.Task, item Item) []models.Task {
	return membersOf(tasks, item)
}

func membersOf(tasks []models.Task, item Item) []models.Task {
	if item.Kind == models.ItemGroup {
		return slices.Clone(unified.GroupChildren(tasks, item.Key))
	}
	for _, t := range tasks {
		if t.ID == item.Key {
			return []models.Task{t}
		}
	}
	return nil
}

// slotKey picks the base key for inserting at index in items. Neighbours
// without a key are skipped in favour of the nearest keyed row on that side.
func slotKey(items []models.DisplayItem, index int) float64 {
	if len(items) == 0 {
		return 0
	}
	index = max(0, min(index, len(items)))

	var lo, hi *float64
	for i := index - 1; i >= 0 && lo == nil; i-- {
		lo = items[i].LastOrder()
	}
	for i := index; i < len(items) && hi == nil; i++ {
		hi = items[i].FirstOrder()
	}
	return orderkey.Neighbours(lo, hi)
}

func positions(items []models.DisplayItem) map[string]float64 {
	orders := make(map[string]float64)
	for pos, item := range items {
		for offset, t := range item.Members() {
			if item.Kind == models.ItemTask {
				offset = 0
			}
			orders[t.ID] = orderkey.At(pos, offset)
		}
	}
	return orders
}

func applyOrders(tasks []models.Task, orders map[string]float64) []models.Task {
	out := models.CloneTasks(tasks)
	for i := range out {
		if !out[i].IsActive() {
			continue
		}
		if order, ok := orders[out[i].ID]; ok {
			out[i].Order = models.Float(order)
		}
	}
	return out
}

func activeOnly(tasks []models.Task) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.IsActive() {
			out = append(out, t)
		}
	}
	return out
}

func clamp(index, n int) int {
	if index < 0 {
		return 0
	}
	if index > n-1 {
		return n - 1
	}
	return index
}
