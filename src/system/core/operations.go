package core

import (
	"context"

	"github.com/voodooEntity/noumenon/src/system/apperr"
	"github.com/voodooEntity/noumenon/src/system/atom"
	"github.com/voodooEntity/noumenon/src/system/graph"
	"github.com/voodooEntity/noumenon/src/system/pln"
)

// QueryOptions bounds a QueryKnowledge call. Limit <= 0 means unbounded.
type QueryOptions struct {
	Limit int
}

// QueryKnowledge runs pattern against the graph, capped at opts.Limit.
func (in *Instance) QueryKnowledge(pattern graph.Pattern, opts QueryOptions) []*atom.Atom {
	results := in.Graph.Query(pattern)
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results
}

// InferenceOptions bounds a PerformInference call.
type InferenceOptions struct {
	MaxIterations int
}

// PerformInference runs the PLN engine for up to opts.MaxIterations
// passes, defaulting to a single pass.
func (in *Instance) PerformInference(ctx context.Context, opts InferenceOptions) pln.Result {
	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = 1
	}
	return in.PLN.Infer(ctx, maxIterations)
}

// GetFocus returns the current attentional-focus set.
func (in *Instance) GetFocus() []*atom.Atom {
	return in.Graph.Focus()
}

// Stimulate applies amount to every id in turn; the first not-found
// error is returned but every other id in the batch is still attempted.
// When the instance was configured with a stimulate rate guard, a call
// exceeding it is rejected whole rather than partially applied.
func (in *Instance) Stimulate(ids []atom.ID, amount int64) error {
	if in.stimulateLimiter != nil && !in.stimulateLimiter.Allow() {
		return apperr.New(apperr.KindRateLimited, "stimulate: rate limit exceeded")
	}

	var firstErr error
	for _, id := range ids {
		if err := in.ECAN.Stimulate(id, amount); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// GetStatistics returns the graph's current statistics snapshot.
func (in *Instance) GetStatistics() graph.Statistics {
	return in.Graph.Statistics()
}
