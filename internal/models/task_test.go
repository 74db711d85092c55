package models

import (
	"encoding/json"
	"testing"
)

func TestTaskStatusConstants(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected string
	}{
		{TaskStatusActive, "active"},
		{TaskStatusPaused, "paused"},
		{TaskStatusCompleted, "completed"},
	}

	for _, tc := range tests {
		if string(tc.status) != tc.expected {
			t.Errorf("expected %s, got %s", tc.expected, tc.status)
		}
	}
}

func TestIsValidTaskStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"active", true},
		{"paused", true},
		{"completed", true},
		{"pending", false},
		{"", false},
		{"ACTIVE", false},
	}

	for _, tc := range tests {
		result := IsValidTaskStatus(tc.input)
		if result != tc.expected {
			t.Errorf("IsValidTaskStatus(%q) = %v, expected %v", tc.input, result, tc.expected)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		task     Task
		expected TaskKind
	}{
		{"no parent", Task{Name: "write report"}, KindStandalone},
		{"child", Task{Name: "draft", ParentTaskName: "report"}, KindChild},
		{"marker", Task{Name: "report", ParentTaskName: "report"}, KindMarker},
		{"independent label", Task{Name: "draft", ParentTaskName: IndependentLabel}, KindStandalone},
		{"english alias", Task{Name: "draft", ParentTaskName: "Independent Task"}, KindStandalone},
		{"marker beats sentinel", Task{Name: IndependentLabel, ParentTaskName: IndependentLabel}, KindMarker},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.task); got != tc.expected {
				t.Errorf("Classify() = %v, expected %v", got, tc.expected)
			}
			if tc.task.IsGroupChild() != (tc.expected == KindChild) {
				t.Errorf("IsGroupChild() disagrees with Classify")
			}
			if tc.task.IsMarker() != (tc.expected == KindMarker) {
				t.Errorf("IsMarker() disagrees with Classify")
			}
		})
	}
}

func TestTaskOrderHelpers(t *testing.T) {
	task := Task{ID: "a"}
	if task.HasOrder() {
		t.Fatal("expected no order")
	}
	if got := task.OrderOr(-1); got != -1 {
		t.Errorf("OrderOr() = %v, expected -1", got)
	}

	ordered := task.WithOrder(2500)
	if task.Order != nil {
		t.Error("WithOrder must not modify the receiver")
	}
	if got := ordered.OrderOr(0); got != 2500 {
		t.Errorf("OrderOr() = %v, expected 2500", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := Task{ID: "a", Keywords: []string{"x"}, Order: Float(1)}
	c := orig.Clone()
	c.Keywords[0] = "y"
	*c.Order = 2

	if orig.Keywords[0] != "x" {
		t.Error("clone shares keywords")
	}
	if *orig.Order != 1 {
		t.Error("clone shares order")
	}
}

func TestTaskJSONFieldNames(t *testing.T) {
	task := Task{
		ID:             "t1",
		Name:           "reply",
		Urgency:        3,
		Importance:     4,
		ContextKey:     "Gmail",
		EstimatedTime:  15,
		Status:         TaskStatusActive,
		Order:          Float(1000),
		ParentTaskName: "inbox",
		IsCurrent:      true,
	}

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("failed to marshal task: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	for _, key := range []string{"contextKey", "estimatedTime", "parentTaskName", "isCurrent", "order"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("expected key %q in %s", key, data)
		}
	}
	if _, ok := raw["isChecked"]; ok {
		t.Error("expected isChecked to be omitted when false")
	}
}

func TestClampInt(t *testing.T) {
	tests := []struct{ v, lo, hi, want int }{
		{0, 1, 4, 1},
		{5, 1, 4, 4},
		{3, 1, 4, 3},
	}
	for _, tc := range tests {
		if got := ClampInt(tc.v, tc.lo, tc.hi); got != tc.want {
			t.Errorf("ClampInt(%d, %d, %d) = %d, expected %d", tc.v, tc.lo, tc.hi, got, tc.want)
		}
	}
}
