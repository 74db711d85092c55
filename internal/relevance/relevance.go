// Package relevance scores how closely a task relates to the browser tab the
// user is currently looking at.
package relevance

import (
	"strings"

	"github.com/fitz/taskflow/internal/models"
)

// Weights applied by DomainScore.
const (
	ExplicitScore = 1.0
	ImplicitBoost = 0.8
	KeywordBoost  = 0.5
)

// Score returns the relevance of task to tab in [0,1]. A nil tab means no
// context is available and always yields 0.
func Score(task models.Task, tab *models.TabContext, patterns []models.DomainPattern) float64 {
	if tab == nil {
		return 0
	}
	return max(KeywordScore(task.Keywords, tab), DomainScore(task, tab, patterns))
}

// KeywordScore is the fraction of keywords found in the tab's title, URL or
// domain, compared case-insensitively.
func KeywordScore(keywords []string, tab *models.TabContext) float64 {
	if tab == nil || len(keywords) == 0 {
		return 0
	}
	haystack := tab.Text()
	matched := 0
	for _, k := range keywords {
		if strings.Contains(haystack, strings.ToLower(k)) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}

// DomainScore matches the task and the tab against the configured domain
// patterns. An explicit context key match on a pattern the tab also matches
// forces the maximum score; otherwise implicit co-occurrence and shared
// pattern keywords add up, capped at 1.
func DomainScore(task models.Task, tab *models.TabContext, patterns []models.DomainPattern) float64 {
	if tab == nil {
		return 0
	}
	tabText := strings.ToLower(tab.Domain + " " + tab.URL + " " + tab.Title)
	taskText := taskText(task)
	contextKey := strings.ToLower(strings.TrimSpace(task.ContextKey))
	taskMatchText := contextKey + " " + taskText

	var score float64
	for _, p := range patterns {
		tabMatches := matches(tabText, p)
		taskMatches := matches(taskMatchText, p)

		if tabMatches && explicitlyNamed(contextKey, p.Name) {
			score = ExplicitScore
			continue
		}
		if taskMatches && tabMatches {
			score += ImplicitBoost
		}
		if sharesKeyword(taskText, tabText, p.Keywords) {
			score += KeywordBoost
		}
	}
	return min(1, score)
}

func taskText(task models.Task) string {
	parts := make([]string, 0, 2+len(task.Keywords))
	parts = append(parts, task.Name, task.ParentTaskName)
	parts = append(parts, task.Keywords...)
	return strings.ToLower(strings.Join(parts, " "))
}

func explicitlyNamed(contextKey, patternName string) bool {
	if contextKey == "" || patternName == "" {
		return false
	}
	name := strings.ToLower(patternName)
	return contextKey == name || strings.Contains(contextKey, name)
}

// matches reports whether text (already lowercased) contains any URL
// fragment or keyword of the pattern.
func matches(text string, p models.DomainPattern) bool {
	return containsAny(text, p.Patterns) || containsAny(text, p.Keywords)
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if n == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

func sharesKeyword(taskText, tabText string, keywords []string) bool {
	for _, k := range keywords {
		if k == "" {
			continue
		}
		lk := strings.ToLower(k)
		if strings.Contains(taskText, lk) && strings.Contains(tabText, lk) {
			return true
		}
	}
	return false
}
