package scheduler

import (
	"context"

	"github.com/voodooEntity/noumenon/src/system/graph"
)

// Plugin is a periodic cognitive job body. Execute receives the shared
// graph and the job's parameters; it must not hold references to graph
// internals across suspension points — reads and writes go through
// *graph.Graph's own locking operations.
type Plugin interface {
	Execute(ctx context.Context, g *graph.Graph, params map[string]any) (any, error)
}

// PluginFunc adapts a plain function to the Plugin interface.
type PluginFunc func(ctx context.Context, g *graph.Graph, params map[string]any) (any, error)

func (f PluginFunc) Execute(ctx context.Context, g *graph.Graph, params map[string]any) (any, error) {
	return f(ctx, g, params)
}

// PluginEntry is a registered plugin plus its scheduling metadata and
// running statistics.
type PluginEntry struct {
	Name    string
	Priority int
	Enabled bool
	Plugin  Plugin

	ExecutionCount  uint64
	AvgDurationNS   float64
}
