package graph

import (
	"time"

	"github.com/voodooEntity/noumenon/src/system/atom"
)

// Export produces the graph's wire form: every atom's Exported form,
// the size, and a timestamp.
func (g *Graph) Export() atom.ExportedGraph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	all := make([]*atom.Atom, 0, len(g.atoms))
	for _, a := range g.atoms {
		all = append(all, a)
	}
	sortByID(all)

	exported := make([]atom.Exported, 0, len(all))
	for _, a := range all {
		exported = append(exported, atom.Export(a))
	}
	return atom.ExportedGraph{Atoms: exported, Size: len(exported), Timestamp: time.Now()}
}

// Import replaces the graph's contents with the atoms in exp,
// reconstructed in two passes: first every atom is created by its
// exported id, then outgoing references are re-linked. An outgoing id
// with no corresponding exported atom is dropped silently rather than
// rejected. If dropping an unknown id leaves a link with zero outgoing
// atoms, that link is itself dropped, cascading through any link that
// referenced only it — the same invariant Remove enforces on a live
// graph (a link always references at least one atom).
func (g *Graph) Import(exp atom.ExportedGraph) {
	g.mu.Lock()
	defer g.mu.Unlock()

	atoms := make(map[atom.ID]*atom.Atom, len(exp.Atoms))
	for _, e := range exp.Atoms {
		atoms[e.ID] = atom.Rehydrate(e)
	}

	var maxID atom.ID
	for id := range atoms {
		if id > maxID {
			maxID = id
		}
	}

	for {
		changed := false
		for id, a := range atoms {
			if !a.Type.IsLink() {
				continue
			}
			filtered := make([]atom.ID, 0, len(a.Outgoing))
			for _, oid := range a.Outgoing {
				if _, ok := atoms[oid]; ok {
					filtered = append(filtered, oid)
				}
			}
			if len(filtered) != len(a.Outgoing) {
				changed = true
			}
			a.Outgoing = filtered
			if len(a.Outgoing) == 0 {
				delete(atoms, id)
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	g.atoms = make(map[atom.ID]*atom.Atom, len(atoms))
	g.byType = make(map[atom.Type]map[atom.ID]struct{})
	g.byName = make(map[string]map[atom.ID]struct{})
	g.byStructuralKey = make(map[string]atom.ID)
	g.focusSet = make(map[atom.ID]struct{})
	g.focusOrder = nil

	for id, a := range atoms {
		g.atoms[id] = a
		g.index(a, a.StructuralKey())
	}
	for _, a := range atoms {
		for _, oid := range a.Outgoing {
			if target, ok := g.atoms[oid]; ok {
				target.AddIncoming(a.ID)
			}
		}
	}
	g.nextID = maxID + 1
}
