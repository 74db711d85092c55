package priority

import (
	"math"
	"testing"

	"github.com/fitz/taskflow/internal/models"
)

var deployConsole = models.DomainPattern{
	ID:       "deploy-console",
	Name:     "Deploy Console",
	Patterns: []string{"aws"},
	Keywords: []string{"deploy"},
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func active(id string, urgency, importance int) models.Task {
	return models.Task{ID: id, Name: id, Urgency: urgency, Importance: importance, Status: models.TaskStatusActive}
}

func TestScoreWithAndWithoutTab(t *testing.T) {
	task := active("deploy", 4, 5)
	task.Keywords = []string{"deploy"}
	patterns := []models.DomainPattern{deployConsole}
	tab := models.NewTabContext("https://console.aws.amazon.com/deploy/home", "")

	if got := Score(task, tab, patterns); !approx(got, 25) {
		t.Errorf("Score() with matching tab = %v, expected 25", got)
	}
	if got := Score(task, nil, patterns); !approx(got, 10) {
		t.Errorf("Score() without tab = %v, expected 10", got)
	}
}

func TestScoreMonotonicInRelevance(t *testing.T) {
	tab := models.NewTabContext("https://example.com/alpha/beta", "gamma")
	keywordSets := [][]string{
		{"zzz", "yyy", "xxx", "www"},
		{"alpha", "yyy", "xxx", "www"},
		{"alpha", "beta", "xxx", "www"},
		{"alpha", "beta", "gamma", "www"},
		{"alpha", "beta", "gamma", "example"},
	}

	prev := -1.0
	for _, kw := range keywordSets {
		task := active("t", 2, 3)
		task.Keywords = kw
		got := Score(task, tab, nil)
		if got < prev {
			t.Fatalf("score decreased from %v to %v with keywords %v", prev, got, kw)
		}
		prev = got
	}
	if !approx(prev, 6*2.5) {
		t.Errorf("full relevance score = %v, expected 15", prev)
	}
}

func TestRankMarksOnlyTop(t *testing.T) {
	hot := active("hot", 4, 5)
	hot.Keywords = []string{"deploy"}
	tasks := []models.Task{
		active("a", 4, 5),
		hot,
		active("b", 4, 5),
	}
	tab := models.NewTabContext("https://console.aws.amazon.com/deploy", "")

	ranked := Rank(tasks, tab, []models.DomainPattern{deployConsole})
	if len(ranked) != 3 {
		t.Fatalf("expected 3 ranked tasks, got %d", len(ranked))
	}
	if ranked[0].Task.ID != "hot" || !approx(ranked[0].Score, 25) {
		t.Errorf("expected hot first with 25, got %s with %v", ranked[0].Task.ID, ranked[0].Score)
	}

	tops := 0
	for _, r := range ranked {
		if r.Task.IsTopPriority {
			tops++
		}
	}
	if tops != 1 || !ranked[0].Task.IsTopPriority {
		t.Errorf("expected exactly the first task to be top priority, got %d flagged", tops)
	}

	// ties keep input order
	if ranked[1].Task.ID != "a" || ranked[2].Task.ID != "b" {
		t.Errorf("expected tie order a, b; got %s, %s", ranked[1].Task.ID, ranked[2].Task.ID)
	}
}

func TestRankSkipsInactiveAndDoesNotMutate(t *testing.T) {
	done := active("done", 4, 5)
	done.Status = models.TaskStatusCompleted
	paused := active("paused", 4, 5)
	paused.Status = models.TaskStatusPaused
	tasks := []models.Task{done, paused, active("x", 1, 1)}

	ranked := Rank(tasks, nil, nil)
	if len(ranked) != 1 || ranked[0].Task.ID != "x" {
		t.Fatalf("expected only x ranked, got %+v", ranked)
	}
	if tasks[2].IsTopPriority {
		t.Error("Rank must not modify its input")
	}
}

func TestTop(t *testing.T) {
	tasks := []models.Task{active("a", 1, 1), active("b", 2, 2), active("c", 3, 3), active("d", 4, 4)}

	top := Top(tasks, nil, nil, DoNowCount)
	if len(top) != 3 {
		t.Fatalf("expected 3, got %d", len(top))
	}
	if top[0].Task.ID != "d" || top[2].Task.ID != "b" {
		t.Errorf("unexpected order: %s %s %s", top[0].Task.ID, top[1].Task.ID, top[2].Task.ID)
	}
	if got := Top(tasks, nil, nil, 10); len(got) != 4 {
		t.Errorf("expected all 4 when n exceeds length, got %d", len(got))
	}
	if got := Top(tasks, nil, nil, -1); len(got) != 0 {
		t.Errorf("expected none for negative n, got %d", len(got))
	}
}

func TestSuggested(t *testing.T) {
	tasks := []models.Task{
		active("low", 1, 1),  // 3
		active("edge", 4, 5), // 10, not above threshold
		active("high", 4, 5),
	}
	tasks[2].Keywords = []string{"deploy"}
	tab := models.NewTabContext("https://example.com/deploy", "")

	ids := Suggested(tasks, tab, nil)
	if !ids["high"] {
		t.Error("expected high to be suggested")
	}
	if ids["edge"] || ids["low"] {
		t.Errorf("unexpected suggestions: %v", ids)
	}
}

func TestSortForDisplay(t *testing.T) {
	a := active("a", 1, 1).WithOrder(2000)
	b := active("b", 1, 1).WithOrder(1000)
	c := active("c", 1, 1)
	d := active("d", 4, 5)
	e := active("e", 1, 1)

	got := SortForDisplay([]models.Task{c, a, d, b, e}, nil, nil)
	want := []string{"b", "a", "d", "c", "e"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: got %s, expected %s (full %v)", i, got[i].ID, id, ids(got))
		}
	}
}

func TestSortByOrder(t *testing.T) {
	a := active("a", 1, 1).WithOrder(2)
	b := active("b", 1, 1)
	c := active("c", 1, 1).WithOrder(1)
	d := active("d", 1, 1)

	got := SortByOrder([]models.Task{a, b, c, d})
	want := []string{"c", "a", "b", "d"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: got %s, expected %s", i, got[i].ID, id)
		}
	}
}

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
