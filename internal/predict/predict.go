// Package predict turns free-form task text into scored task properties
// using a generative language model.
package predict

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fitz/taskflow/internal/models"
)

// Default property values used when the model omits a field or fails.
const (
	DefaultUrgency       = 2
	DefaultImportance    = 3
	DefaultEstimatedTime = 30

	// Single predictions are bounded tighter than decomposed subtasks.
	MinPredictedTime = 5
	MaxPredictedTime = 480

	// UntitledTask names a subtask the model returned without a name.
	UntitledTask = "Untitled task"

	parentNameRunes = 50
)

var (
	ErrNoAPIKey   = errors.New("gemini API key is not configured")
	ErrEmptyInput = errors.New("task text is empty")
	ErrNoJSON     = errors.New("no JSON object in model response")
	ErrBadShape   = errors.New("model response has no subTasks array")
)

// Properties are the attributes predicted for a single task.
type Properties struct {
	Urgency       int      `json:"urgency"`
	Importance    int      `json:"importance"`
	ContextKey    string   `json:"contextKey"`
	EstimatedTime int      `json:"estimatedTime"`
	Keywords      []string `json:"keywords"`
}

// Subtask is one step of a decomposed request.
type Subtask struct {
	Name string `json:"name"`
	Properties
}

// Decomposition is a parent task name and its subtasks.
type Decomposition struct {
	ParentTaskName string    `json:"parentTaskName"`
	SubTasks       []Subtask `json:"subTasks"`
}

// Predictor is the model-backed prediction port.
type Predictor interface {
	Predict(ctx context.Context, text string) (Properties, error)
	Decompose(ctx context.Context, text string) (Decomposition, error)
}

// Defaults returns the properties used when prediction is unavailable.
func Defaults() Properties {
	return Properties{
		Urgency:       DefaultUrgency,
		Importance:    DefaultImportance,
		ContextKey:    models.ContextNone,
		EstimatedTime: DefaultEstimatedTime,
		Keywords:      []string{},
	}
}

// Apply copies the properties onto a task.
func (p Properties) Apply(t models.Task) models.Task {
	t.Urgency = p.Urgency
	t.Importance = p.Importance
	t.ContextKey = p.ContextKey
	t.EstimatedTime = p.EstimatedTime
	t.Keywords = append([]string(nil), p.Keywords...)
	return t
}

// rawProperties accepts numbers, numeric strings or junk from the model.
type rawProperties struct {
	Urgency       json.RawMessage `json:"urgency"`
	Importance    json.RawMessage `json:"importance"`
	ContextKey    string          `json:"contextKey"`
	EstimatedTime json.RawMessage `json:"estimatedTime"`
	Keywords      json.RawMessage `json:"keywords"`
}

type rawSubtask struct {
	Name string `json:"name"`
	rawProperties
}

type rawDecomposition struct {
	ParentTaskName string          `json:"parentTaskName"`
	SubTasks       json.RawMessage `json:"subTasks"`
}

// normalize fills defaults and clamps. minTime/maxTime bound the estimate;
// maxTime <= 0 leaves it unbounded above.
func (r rawProperties) normalize(minTime, maxTime int) Properties {
	p := Properties{
		Urgency:    models.ClampInt(intOr(r.Urgency, DefaultUrgency), models.MinUrgency, models.MaxUrgency),
		Importance: models.ClampInt(intOr(r.Importance, DefaultImportance), models.MinImportance, models.MaxImportance),
		ContextKey: strings.TrimSpace(r.ContextKey),
		Keywords:   stringsOr(r.Keywords),
	}
	if p.ContextKey == "" {
		p.ContextKey = models.ContextNone
	}
	est := intOr(r.EstimatedTime, DefaultEstimatedTime)
	if est < minTime {
		est = minTime
	}
	if maxTime > 0 && est > maxTime {
		est = maxTime
	}
	p.EstimatedTime = est
	return p
}

// intOr reads an integer the way a lenient parser would: leading digits of
// a string or the integer part of a number. Zero and unparsable values
// yield def.
func intOr(raw json.RawMessage, def int) int {
	if len(raw) == 0 {
		return def
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if n := int(f); n != 0 {
			return n
		}
		return def
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return def
	}
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && s[end] == '-') {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n == 0 {
		return def
	}
	return n
}

func stringsOr(raw json.RawMessage) []string {
	var items []any
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

// ParseProperties extracts and normalizes a single prediction from model
// output.
func ParseProperties(text string) (Properties, error) {
	obj, err := ExtractJSON(text)
	if err != nil {
		return Properties{}, err
	}
	var raw rawProperties
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return Properties{}, fmt.Errorf("failed to parse model response: %w", err)
	}
	return raw.normalize(MinPredictedTime, MaxPredictedTime), nil
}

// ParseDecomposition extracts and normalizes a decomposition. prompt fills
// in a missing parent name.
func ParseDecomposition(text, prompt string) (Decomposition, error) {
	obj, err := ExtractJSON(text)
	if err != nil {
		return Decomposition{}, err
	}
	var raw rawDecomposition
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return Decomposition{}, fmt.Errorf("failed to parse model response: %w", err)
	}
	var subs []rawSubtask
	if len(raw.SubTasks) == 0 || json.Unmarshal(raw.SubTasks, &subs) != nil || subs == nil {
		return Decomposition{}, ErrBadShape
	}

	d := Decomposition{
		ParentTaskName: strings.TrimSpace(raw.ParentTaskName),
		SubTasks:       make([]Subtask, 0, len(subs)),
	}
	if d.ParentTaskName == "" {
		d.ParentTaskName = truncateRunes(strings.TrimSpace(prompt), parentNameRunes)
	}
	for _, s := range subs {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			name = UntitledTask
		}
		d.SubTasks = append(d.SubTasks, Subtask{
			Name:       name,
			Properties: s.rawProperties.normalize(models.MinEstimatedTime, 0),
		})
	}
	return d, nil
}

// ExtractJSON returns the first balanced JSON object in text, looking inside
// a fenced code block when one is present.
func ExtractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)
	if inner, ok := fenced(text); ok {
		text = inner
	}
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", ErrNoJSON
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("%w: object is incomplete", ErrNoJSON)
}

func fenced(text string) (string, bool) {
	open := strings.Index(text, "```")
	if open < 0 {
		return "", false
	}
	rest := strings.TrimPrefix(text[open+3:], "json")
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
