package models

// ItemKind discriminates the two kinds of rows in the unified list.
type ItemKind string

const (
	ItemTask  ItemKind = "task"
	ItemGroup ItemKind = "group"
)

// IsValidItemKind checks if a string names an ItemKind.
func IsValidItemKind(s string) bool {
	return s == string(ItemTask) || s == string(ItemGroup)
}

// DisplayItem is one row of the unified list: either a single task or a
// named group with its children. Use TaskItem and GroupItem to build one.
type DisplayItem struct {
	Kind      ItemKind `json:"type"`
	Task      *Task    `json:"task,omitempty"`
	GroupName string   `json:"groupName,omitempty"`
	Tasks     []Task   `json:"tasks,omitempty"`
}

// TaskItem wraps a standalone task.
func TaskItem(t Task) DisplayItem {
	return DisplayItem{Kind: ItemTask, Task: &t}
}

// GroupItem wraps a named group.
func GroupItem(name string, tasks []Task) DisplayItem {
	return DisplayItem{Kind: ItemGroup, GroupName: name, Tasks: tasks}
}

// Key identifies the item for drag-and-drop: the task id or group name.
func (d DisplayItem) Key() string {
	if d.Kind == ItemGroup {
		return d.GroupName
	}
	if d.Task == nil {
		return ""
	}
	return d.Task.ID
}

// Members returns the tasks the item stands for.
func (d DisplayItem) Members() []Task {
	if d.Kind == ItemGroup {
		return d.Tasks
	}
	if d.Task == nil {
		return nil
	}
	return []Task{*d.Task}
}

// FirstOrder returns the order key representing the start of the item.
// Groups use their first child.
func (d DisplayItem) FirstOrder() *float64 {
	m := d.Members()
	if len(m) == 0 {
		return nil
	}
	return m[0].Order
}

// LastOrder returns the order key representing the end of the item.
// Groups use their last child.
func (d DisplayItem) LastOrder() *float64 {
	m := d.Members()
	if len(m) == 0 {
		return nil
	}
	return m[len(m)-1].Order
}
