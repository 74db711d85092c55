// Package unified projects a flat task collection into the mixed list of
// standalone tasks and named groups that the UI renders.
package unified

import "github.com/fitz/taskflow/internal/models"

// Project builds the unified list. Input order is kept: the caller sorts
// first. A group appears once, at the rank of its first child, and carries
// every child from the whole input. Parent marker rows are never emitted.
func Project(tasks []models.Task) []models.DisplayItem {
	items := make([]models.DisplayItem, 0, len(tasks))
	emitted := make(map[string]bool)

	for _, t := range tasks {
		switch models.Classify(t) {
		case models.KindMarker:
			continue
		case models.KindChild:
			name := t.ParentTaskName
			if emitted[name] {
				continue
			}
			emitted[name] = true
			items = append(items, models.GroupItem(name, GroupChildren(tasks, name)))
		default:
			items = append(items, models.TaskItem(t))
		}
	}
	return items
}

// GroupChildren returns the children of the named group in input order,
// excluding the group's marker row.
func GroupChildren(tasks []models.Task, name string) []models.Task {
	var children []models.Task
	for _, t := range tasks {
		if t.ParentTaskName == name && models.Classify(t) == models.KindChild {
			children = append(children, t)
		}
	}
	return children
}

// IndexOf finds an item by kind and key, or returns -1.
func IndexOf(items []models.DisplayItem, kind models.ItemKind, key string) int {
	for i, item := range items {
		if item.Kind == kind && item.Key() == key {
			return i
		}
	}
	return -1
}

// Flatten returns the tasks of the list in display order, group children
// inline.
func Flatten(items []models.DisplayItem) []models.Task {
	var out []models.Task
	for _, item := range items {
		out = append(out, item.Members()...)
	}
	return out
}
