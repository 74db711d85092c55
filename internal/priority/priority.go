// Package priority turns task attributes and tab relevance into a ranking.
package priority

import (
	"cmp"
	"slices"

	"github.com/fitz/taskflow/internal/models"
	"github.com/fitz/taskflow/internal/relevance"
)

const (
	// RelevanceWeight scales relevance into the multiplicative boost.
	RelevanceWeight = 1.5
	// SuggestThreshold is the score above which a task is highlighted.
	SuggestThreshold = 10.0
	// DoNowCount is the size of the "do now" list.
	DoNowCount = 3
)

// Scored pairs a task with its computed score.
type Scored struct {
	Task  models.Task `json:"task"`
	Score float64     `json:"score"`
}

// Base is urgency + importance + 1.
func Base(t models.Task) float64 {
	return float64(t.Urgency + t.Importance + 1)
}

// Boost is 1 without a tab, otherwise 1 + relevance*1.5 (at most 2.5).
func Boost(t models.Task, tab *models.TabContext, patterns []models.DomainPattern) float64 {
	if tab == nil {
		return 1
	}
	return 1 + relevance.Score(t, tab, patterns)*RelevanceWeight
}

// Score is Base * Boost.
func Score(t models.Task, tab *models.TabContext, patterns []models.DomainPattern) float64 {
	return Base(t) * Boost(t, tab, patterns)
}

// Rank returns the active tasks sorted by score descending. Ties keep input
// order. Only the first task has IsTopPriority set.
func Rank(tasks []models.Task, tab *models.TabContext, patterns []models.DomainPattern) []Scored {
	ranked := make([]Scored, 0, len(tasks))
	for _, t := range tasks {
		if !t.IsActive() {
			continue
		}
		t = t.Clone()
		ranked = append(ranked, Scored{Task: t, Score: Score(t, tab, patterns)})
	}
	slices.SortStableFunc(ranked, func(a, b Scored) int {
		return cmp.Compare(b.Score, a.Score)
	})
	for i := range ranked {
		ranked[i].Task.IsTopPriority = i == 0
	}
	return ranked
}

// Top returns the first n ranked tasks.
func Top(tasks []models.Task, tab *models.TabContext, patterns []models.DomainPattern, n int) []Scored {
	ranked := Rank(tasks, tab, patterns)
	if n < len(ranked) {
		ranked = ranked[:max(n, 0)]
	}
	return ranked
}

// Suggested returns the ids of tasks scoring above SuggestThreshold.
func Suggested(tasks []models.Task, tab *models.TabContext, patterns []models.DomainPattern) map[string]bool {
	ids := make(map[string]bool)
	for _, t := range tasks {
		if Score(t, tab, patterns) > SuggestThreshold {
			ids[t.ID] = true
		}
	}
	return ids
}

// SortByOrder sorts tasks by explicit order ascending with unset orders last,
// keeping input order among ties and among unset tasks.
func SortByOrder(tasks []models.Task) []models.Task {
	out := models.CloneTasks(tasks)
	slices.SortStableFunc(out, compareOrder)
	return out
}

// SortForDisplay sorts by explicit order first; tasks without an order come
// after and are sorted by score descending.
func SortForDisplay(tasks []models.Task, tab *models.TabContext, patterns []models.DomainPattern) []models.Task {
	scores := make(map[string]float64, len(tasks))
	for _, t := range tasks {
		if !t.HasOrder() {
			scores[t.ID] = Score(t, tab, patterns)
		}
	}
	out := models.CloneTasks(tasks)
	slices.SortStableFunc(out, func(a, b models.Task) int {
		if a.HasOrder() || b.HasOrder() {
			return compareOrder(a, b)
		}
		return cmp.Compare(scores[b.ID], scores[a.ID])
	})
	return out
}

func compareOrder(a, b models.Task) int {
	switch {
	case a.HasOrder() && b.HasOrder():
		return cmp.Compare(*a.Order, *b.Order)
	case a.HasOrder():
		return -1
	case b.HasOrder():
		return 1
	default:
		return 0
	}
}
