package unified

import (
	"testing"

	"github.com/fitz/taskflow/internal/models"
)

func task(id, parent string) models.Task {
	return models.Task{ID: id, Name: id, ParentTaskName: parent, Status: models.TaskStatusActive}
}

func TestProjectGroupsAtFirstChild(t *testing.T) {
	a := task("A", "G1")
	b := task("B", "G1")
	c := task("C", "")

	items := Project([]models.Task{a, b, c})
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Kind != models.ItemGroup || items[0].GroupName != "G1" {
		t.Fatalf("expected group G1 first, got %+v", items[0])
	}
	if len(items[0].Tasks) != 2 || items[0].Tasks[0].ID != "A" || items[0].Tasks[1].ID != "B" {
		t.Errorf("unexpected group children: %+v", items[0].Tasks)
	}
	if items[1].Kind != models.ItemTask || items[1].Task.ID != "C" {
		t.Errorf("expected task C second, got %+v", items[1])
	}
}

func TestProjectCollectsScatteredChildren(t *testing.T) {
	tasks := []models.Task{
		task("X", ""),
		task("A", "G"),
		task("Y", ""),
		task("B", "G"),
	}

	items := Project(tasks)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[1].Kind != models.ItemGroup || len(items[1].Tasks) != 2 {
		t.Errorf("expected group with both children at index 1, got %+v", items[1])
	}
	if items[2].Key() != "Y" {
		t.Errorf("expected Y last, got %s", items[2].Key())
	}
}

func TestProjectSkipsMarkersAndKeepsIndependent(t *testing.T) {
	tasks := []models.Task{
		task("G", "G"),
		task("A", "G"),
		task("I", models.IndependentLabel),
	}

	items := Project(tasks)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d: %+v", len(items), items)
	}
	if len(items[0].Tasks) != 1 || items[0].Tasks[0].ID != "A" {
		t.Errorf("marker row leaked into group: %+v", items[0].Tasks)
	}
	if items[1].Kind != models.ItemTask || items[1].Key() != "I" {
		t.Errorf("independent task should be standalone, got %+v", items[1])
	}
}

func TestProjectCompleteness(t *testing.T) {
	tasks := []models.Task{
		task("G1", "G1"),
		task("a", "G1"),
		task("b", ""),
		task("c", "G2"),
		task("d", "G1"),
		task("e", models.IndependentLabel),
		task("f", "G2"),
		task("G2", "G2"),
	}

	seen := map[string]int{}
	for _, item := range Project(tasks) {
		for _, m := range item.Members() {
			seen[m.ID]++
		}
	}

	for _, tk := range tasks {
		want := 1
		if tk.IsMarker() {
			want = 0
		}
		if seen[tk.ID] != want {
			t.Errorf("task %s appears %d times, expected %d", tk.ID, seen[tk.ID], want)
		}
	}
}

func TestIndexOfAndFlatten(t *testing.T) {
	items := Project([]models.Task{task("x", ""), task("a", "G"), task("b", "G")})

	if got := IndexOf(items, models.ItemGroup, "G"); got != 1 {
		t.Errorf("IndexOf(group G) = %d, expected 1", got)
	}
	if got := IndexOf(items, models.ItemTask, "G"); got != -1 {
		t.Errorf("IndexOf(task G) = %d, expected -1", got)
	}
	if got := IndexOf(items, models.ItemTask, "x"); got != 0 {
		t.Errorf("IndexOf(task x) = %d, expected 0", got)
	}

	flat := Flatten(items)
	if len(flat) != 3 || flat[0].ID != "x" || flat[2].ID != "b" {
		t.Errorf("unexpected flatten result: %+v", flat)
	}
}
