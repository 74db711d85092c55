package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/option/internaloption"
	htransport "google.golang.org/api/transport/http"
)

// basePath is the Generative Language REST endpoint; apiVersion is joined
// to it on every call.
const (
	basePath   = "https://generativelanguage.googleapis.com/"
	apiVersion = "v1beta/"
)

// PreferredModels is the order models are tried in when several are available.
var PreferredModels = []string{
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
	"gemini-2.0-flash-exp",
	"gemini-1.5-flash",
	"gemini-1.5-pro",
}

const generateMethod = "generateContent"

// GeminiConfig configures the Gemini client.
type GeminiConfig struct {
	APIKey string
	// Model is tried first when set.
	Model string
	// AutoSwitch falls through to the next model on quota, overload and
	// missing-model errors.
	AutoSwitch bool
	// OnModelSwitch is called with the model that answered when it was not
	// the first one tried.
	OnModelSwitch func(model string)
	Logger        *slog.Logger
}

// Gemini is a Predictor backed by the Generative Language API.
type Gemini struct {
	client   *http.Client
	basePath string
	cfg      GeminiConfig
	logger   *slog.Logger
}

// NewGemini creates a Gemini client. Extra options are passed to the API
// client and are mainly used to point it at a test endpoint.
func NewGemini(ctx context.Context, cfg GeminiConfig, opts ...option.ClientOption) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	opts = append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	opts = append(opts, internaloption.WithDefaultEndpoint(basePath))
	client, endpoint, err := htransport.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if endpoint == "" {
		endpoint = basePath
	}
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gemini{client: client, basePath: endpoint, cfg: cfg, logger: logger}, nil
}

type modelInfo struct {
	Name                       string   `json:"name"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
}

type listModelsResponse struct {
	Models        []modelInfo `json:"models"`
	NextPageToken string      `json:"nextPageToken"`
}

type part struct {
	Text         string        `json:"text,omitempty"`
	FunctionCall *functionCall `json:"functionCall,omitempty"`
}

type functionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type candidate struct {
	Content      *content `json:"content"`
	FinishReason string   `json:"finishReason"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

// do sends a request and decodes a JSON response into out. Non-2xx
// responses come back as *googleapi.Error.
func (g *Gemini) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := g.basePath + apiVersion + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		payload = b
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer googleapi.CloseBody(res)
	if err := googleapi.CheckResponse(res); err != nil {
		return err
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Models lists the models that support content generation, preferred ones
// first. It falls back to PreferredModels when listing fails.
func (g *Gemini) Models(ctx context.Context) []string {
	names, err := g.listModels(ctx)
	if err != nil || len(names) == 0 {
		g.logger.Warn("model listing failed, using preferred list", "error", err)
		return slices.Clone(PreferredModels)
	}
	return orderModels(names)
}

func (g *Gemini) listModels(ctx context.Context) ([]string, error) {
	var names []string
	token := ""
	for {
		q := url.Values{"pageSize": {"1000"}}
		if token != "" {
			q.Set("pageToken", token)
		}
		var resp listModelsResponse
		if err := g.do(ctx, http.MethodGet, "models", q, nil, &resp); err != nil {
			return nil, err
		}
		for _, m := range resp.Models {
			if slices.Contains(m.SupportedGenerationMethods, generateMethod) {
				names = append(names, strings.TrimPrefix(m.Name, "models/"))
			}
		}
		if resp.NextPageToken == "" {
			return names, nil
		}
		token = resp.NextPageToken
	}
}

// orderModels puts available preferred models first in preference order,
// followed by the rest in listing order.
func orderModels(available []string) []string {
	out := make([]string, 0, len(available))
	for _, p := range PreferredModels {
		if slices.Contains(available, p) {
			out = append(out, p)
		}
	}
	for _, m := range available {
		if !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	return out
}

// candidates is the list of models to try for one request.
func (g *Gemini) candidates(ctx context.Context) []string {
	all := g.Models(ctx)
	if g.cfg.Model != "" {
		all = append([]string{g.cfg.Model}, slices.DeleteFunc(all, func(m string) bool { return m == g.cfg.Model })...)
	}
	if !g.cfg.AutoSwitch && len(all) > 1 {
		all = all[:1]
	}
	return all
}

// Generate sends prompt to the first model that answers and returns its text.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	models := g.candidates(ctx)
	var lastErr error
	for i, model := range models {
		text, err := g.generateWith(ctx, model, prompt)
		if err == nil {
			if i > 0 && g.cfg.OnModelSwitch != nil {
				g.cfg.OnModelSwitch(model)
			}
			return text, nil
		}
		lastErr = err
		if !g.cfg.AutoSwitch || !Retryable(err) {
			return "", err
		}
		g.logger.Warn("model failed, trying next", "model", model, "error", err)
	}
	if lastErr == nil {
		lastErr = errors.New("no models available")
	}
	return "", fmt.Errorf("all models failed: %w", lastErr)
}

func (g *Gemini) generateWith(ctx context.Context, model, prompt string) (string, error) {
	req := generateContentRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	}
	var resp generateContentResponse
	path := "models/" + url.PathEscape(model) + ":" + generateMethod
	if err := g.do(ctx, http.MethodPost, path, nil, req, &resp); err != nil {
		return "", fmt.Errorf("model %s: %w", model, err)
	}
	return responseText(&resp)
}

func responseText(resp *generateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("model returned no candidates")
	}
	c := resp.Candidates[0]
	switch c.FinishReason {
	case "SAFETY":
		return "", errors.New("response blocked by safety filter")
	case "MAX_TOKENS":
		if c.Content == nil || len(c.Content.Parts) == 0 {
			return "", errors.New("response hit the token limit; shorten the request")
		}
	}
	if c.Content == nil || len(c.Content.Parts) == 0 {
		return "", errors.New("model response has no content")
	}
	part := c.Content.Parts[0]
	if part.Text != "" {
		return part.Text, nil
	}
	if part.FunctionCall != nil {
		b, err := json.Marshal(part.FunctionCall.Args)
		if err != nil {
			return "", fmt.Errorf("failed to encode function call args: %w", err)
		}
		return string(b), nil
	}
	return "", errors.New("model response has neither text nor function call")
}

// Retryable reports whether another model may succeed where this one failed.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusNotFound:
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"quota", "overloaded", "not found", "not supported"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// Predict asks the model for a task's properties.
func (g *Gemini) Predict(ctx context.Context, text string) (Properties, error) {
	if strings.TrimSpace(text) == "" {
		return Properties{}, ErrEmptyInput
	}
	out, err := g.Generate(ctx, propertiesPrompt(text))
	if err != nil {
		return Properties{}, err
	}
	return ParseProperties(out)
}

// Decompose asks the model to split text into subtasks.
func (g *Gemini) Decompose(ctx context.Context, text string) (Decomposition, error) {
	if strings.TrimSpace(text) == "" {
		return Decomposition{}, ErrEmptyInput
	}
	out, err := g.Generate(ctx, decomposePrompt(text))
	if err != nil {
		return Decomposition{}, err
	}
	return ParseDecomposition(out, text)
}

const contextKeys = `"None" | "Development" | "Testing" | "DeployConsole" | "Documentation" | "Meeting" | "Review" | "Planning"`

func propertiesPrompt(task string) string {
	return `Predict the urgency, importance, working context and estimated duration of the task below.

Task: ` + task + `

Answer with JSON only, no explanation:
{
  "urgency": integer 1-4 (1=low, 2=medium, 3=high, 4=critical),
  "importance": integer 1-5 (1=low, 3=medium, 5=high),
  "contextKey": ` + contextKeys + `,
  "estimatedTime": integer minutes between 5 and 480,
  "keywords": ["keyword1", "keyword2"]
}`
}

func decomposePrompt(request string) string {
	return `Break the request below into concrete, independently actionable subtasks.
If it is already a single small task, return it as the only subtask.

Request: ` + request + `

Answer with JSON only, no explanation:
{
  "parentTaskName": "short name for the whole request",
  "subTasks": [
    {
      "name": "subtask name",
      "urgency": integer 1-4,
      "importance": integer 1-5,
      "contextKey": ` + contextKeys + `,
      "estimatedTime": integer minutes,
      "keywords": ["keyword1", "keyword2"]
    }
  ]
}`
}
