package scheduler

import (
	"context"

	"github.com/voodooEntity/noumenon/src/system/atom"
	"github.com/voodooEntity/noumenon/src/system/ecan"
	"github.com/voodooEntity/noumenon/src/system/graph"
	"github.com/voodooEntity/noumenon/src/system/pln"
)

// registerBuiltins pre-registers the five built-in cognitive plugins.
func registerBuiltins(s *Scheduler, ecanEngine *ecan.Engine, plnEngine *pln.Engine) {
	s.RegisterPlugin("ecan", 10, true, PluginFunc(func(ctx context.Context, g *graph.Graph, params map[string]any) (any, error) {
		return ecanEngine.RunCycle(ctx), nil
	}))

	s.RegisterPlugin("pln", 10, true, PluginFunc(func(ctx context.Context, g *graph.Graph, params map[string]any) (any, error) {
		maxIterations := intParam(params, "maxIterations", 1)
		return plnEngine.Infer(ctx, maxIterations), nil
	}))

	s.RegisterPlugin("patternMining", 5, true, PluginFunc(patternMining))
	s.RegisterPlugin("goalProcessing", 5, true, PluginFunc(goalProcessing))
	s.RegisterPlugin("memoryConsolidation", 1, true, PluginFunc(memoryConsolidation))
}

// patternMining counts node types and returns those with count >=
// minSupport.
func patternMining(ctx context.Context, g *graph.Graph, params map[string]any) (any, error) {
	minSupport := intParam(params, "minSupport", 2)

	counts := make(map[atom.Type]int)
	for _, a := range g.All() {
		if a.IsNode() {
			counts[a.Type]++
		}
	}

	frequent := make(map[atom.Type]int)
	for t, c := range counts {
		if c >= minSupport {
			frequent[t] = c
		}
	}
	return frequent, nil
}

// goalProcessing returns goal atoms with STI above threshold.
func goalProcessing(ctx context.Context, g *graph.Graph, params map[string]any) (any, error) {
	threshold := int64Param(params, "threshold", 0)

	var goals []*atom.Atom
	for _, a := range g.ByType(atom.GoalNode) {
		if a.AV.STI > threshold {
			goals = append(goals, a)
		}
	}
	return goals, nil
}

// memoryConsolidation increments LTI by 1 for every atom with STI above
// threshold, returning the count of atoms whose LTI was actually
// incremented this run.
func memoryConsolidation(ctx context.Context, g *graph.Graph, params map[string]any) (any, error) {
	threshold := int64Param(params, "threshold", 0)

	consolidated := 0
	for _, a := range g.All() {
		if a.AV.STI <= threshold {
			continue
		}
		if _, ok := g.MutateAttention(a.ID, func(av atom.AttentionValue) atom.AttentionValue {
			av.LTI++
			return av
		}); ok {
			consolidated++
		}
	}
	return consolidated, nil
}

func intParam(params map[string]any, key string, def int) int {
	if params == nil {
		return def
	}
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return def
}

func int64Param(params map[string]any, key string, def int64) int64 {
	if params == nil {
		return def
	}
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int64:
			return n
		case int:
			return int64(n)
		case float64:
			return int64(n)
		}
	}
	return def
}
