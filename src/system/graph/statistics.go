package graph

import "github.com/voodooEntity/noumenon/src/system/atom"

// Statistics is a snapshot of the graph's shape: totals, the node/link
// split, a per-type distribution, and focus size.
type Statistics struct {
	Total     int
	Nodes     int
	Links     int
	ByType    map[atom.Type]int
	FocusSize int
}

// Statistics computes a fresh snapshot under the read lock. O(|graph|),
// same bound as Query/All.
func (g *Graph) Statistics() Statistics {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stats := Statistics{
		Total:     len(g.atoms),
		ByType:    make(map[atom.Type]int, len(g.byType)),
		FocusSize: len(g.focusOrder),
	}
	for t, ids := range g.byType {
		n := len(ids)
		stats.ByType[t] = n
		if t.IsNode() {
			stats.Nodes += n
		} else {
			stats.Links += n
		}
	}
	return stats
}
