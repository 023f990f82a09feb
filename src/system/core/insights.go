package core

import (
	"sort"

	"github.com/voodooEntity/noumenon/src/system/atom"
	"github.com/voodooEntity/noumenon/src/system/graph"
)

// Insights is a read-only composite of existing subsystem state, kept
// as a derived view rather than a subsystem of its own: the top of the
// current focus by STI, the graph's own statistics, and ECAN's running
// cycle stats.
type Insights struct {
	TopFocus     []*atom.Atom
	Statistics   graph.Statistics
	CyclesRun    uint64
	AvgFocusSize float64
}

// GetInsights builds the composite view. topN bounds TopFocus; topN <= 0
// means unbounded.
func (in *Instance) GetInsights(topN int) Insights {
	focus := in.Graph.Focus()
	sort.SliceStable(focus, func(i, j int) bool { return focus[i].AV.STI > focus[j].AV.STI })
	if topN > 0 && len(focus) > topN {
		focus = focus[:topN]
	}

	return Insights{
		TopFocus:     focus,
		Statistics:   in.Graph.Statistics(),
		CyclesRun:    in.ECAN.CyclesRun,
		AvgFocusSize: in.ECAN.AvgFocusSize,
	}
}
