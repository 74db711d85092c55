package predict

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchLimit bounds concurrent model requests in a batch.
const DefaultBatchLimit = 4

// Result is the outcome for one line of a batch.
type Result struct {
	Text       string
	Properties Properties
	// Err is set when prediction failed and Properties holds defaults.
	Err error
}

// Lines splits multi-line input into trimmed, non-empty task names.
func Lines(input string) []string {
	var out []string
	for _, l := range strings.Split(input, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Batch predicts properties for every line concurrently. A failed line gets
// default properties and its error; it never fails the batch. Results keep
// input order. A nil predictor yields defaults for every line.
func Batch(ctx context.Context, p Predictor, lines []string, limit int) []Result {
	results := make([]Result, len(lines))
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, line := range lines {
		results[i] = Result{Text: line, Properties: Defaults()}
		if p == nil {
			results[i].Err = ErrNoAPIKey
			continue
		}
		g.Go(func() error {
			props, err := p.Predict(gctx, line)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Properties = props
			return nil
		})
	}
	_ = g.Wait()
	return results
}
