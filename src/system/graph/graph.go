// Package graph implements the typed hypergraph knowledge store: indexed
// storage of nodes and links, incoming-set back-pointers, the
// attentional-focus set, and pattern query.
//
// All cross-atom references are by atom.ID, never by owning pointer —
// the Graph is the sole owner of every Atom it holds, which is why every
// accessor below hands back a Clone rather than the live pointer:
// callers can read and inspect freely without risking a data race
// against the next mutating call.
package graph

import (
	"sort"
	"sync"
	"time"

	"github.com/voodooEntity/archivist"
	"github.com/voodooEntity/noumenon/src/system/apperr"
	"github.com/voodooEntity/noumenon/src/system/atom"
)

// Graph is the indexed, mutex-guarded knowledge store. One mutex covers
// every index below, since structural mutation must stay atomic across
// several indexes at once and the index set here is small enough that a
// single RWMutex doesn't become a bottleneck.
type Graph struct {
	mu sync.RWMutex

	atoms           map[atom.ID]*atom.Atom
	byType          map[atom.Type]map[atom.ID]struct{}
	byName          map[string]map[atom.ID]struct{}
	byStructuralKey map[string]atom.ID
	focusSet        map[atom.ID]struct{}
	focusOrder      []atom.ID
	nextID          atom.ID

	cfg Config
	log *archivist.Archivist
}

// New constructs an empty Graph. A nil logger gets a default stdout
// logger at warning level.
func New(cfg Config, log *archivist.Archivist) *Graph {
	if log == nil {
		log = archivist.New(&archivist.Config{LogLevel: archivist.LEVEL_WARNING})
	}
	return &Graph{
		atoms:           make(map[atom.ID]*atom.Atom),
		byType:          make(map[atom.Type]map[atom.ID]struct{}),
		byName:          make(map[string]map[atom.ID]struct{}),
		byStructuralKey: make(map[string]atom.ID),
		focusSet:        make(map[atom.ID]struct{}),
		cfg:             cfg,
		log:             log,
		nextID:          1,
	}
}

// AddNode returns the existing node of (type, name) if one is already
// present (updating its truth value if tv is supplied), otherwise creates
// one. name may be nil for anonymous nodes.
func (g *Graph) AddNode(t atom.Type, name *string, tv *atom.TruthValue) (*atom.Atom, error) {
	if !t.IsNode() {
		return nil, apperr.Newf(apperr.KindInvalidArgument, "type %q is not a node type", t)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	key := atom.StructuralKey(t, name, nil)
	if id, ok := g.byStructuralKey[key]; ok {
		existing := g.atoms[id]
		if tv != nil {
			existing.TV = tv.Clamped()
		}
		return existing.Clone(), nil
	}

	a := &atom.Atom{
		ID:         g.allocID(),
		Type:       t,
		Name:       name,
		TV:         defaultOrClamped(tv),
		AV:         atom.DefaultAttentionValue(),
		Incoming:   make(map[atom.ID]struct{}),
		Properties: make(map[string]string),
		CreatedAt:  time.Now(),
	}
	g.index(a, key)
	g.log.Debug("graph: added node", string(t))
	return a.Clone(), nil
}

// AddLink returns the existing link of (type, outgoing) if one is already
// present (updating its truth value if tv is supplied), otherwise creates
// one, wiring the incoming set of every referenced atom. Every id in
// outgoing must already exist in the graph (unknown-reference is an
// invalid-argument error) — auto-creation by identity happens at the
// atom-construction call site, not here; a caller that wants
// auto-creation must add the referenced node/link first and pass its
// id.
func (g *Graph) AddLink(t atom.Type, outgoing []atom.ID, tv *atom.TruthValue) (*atom.Atom, error) {
	if !t.IsLink() {
		return nil, apperr.Newf(apperr.KindInvalidArgument, "type %q is not a link type", t)
	}
	if len(outgoing) == 0 {
		return nil, apperr.New(apperr.KindInvalidArgument, "link outgoing sequence must not be empty")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for _, id := range outgoing {
		if _, ok := g.atoms[id]; !ok {
			return nil, apperr.Newf(apperr.KindInvalidArgument, "unknown outgoing atom reference %d", id)
		}
	}

	key := atom.StructuralKey(t, nil, outgoing)
	if id, ok := g.byStructuralKey[key]; ok {
		existing := g.atoms[id]
		if tv != nil {
			existing.TV = tv.Clamped()
		}
		return existing.Clone(), nil
	}

	a := &atom.Atom{
		ID:         g.allocID(),
		Type:       t,
		Outgoing:   append([]atom.ID(nil), outgoing...),
		TV:         defaultOrClamped(tv),
		AV:         atom.DefaultAttentionValue(),
		Incoming:   make(map[atom.ID]struct{}),
		Properties: make(map[string]string),
		CreatedAt:  time.Now(),
	}
	g.index(a, key)

	for _, id := range outgoing {
		g.atoms[id].AddIncoming(a.ID)
	}

	g.log.Debug("graph: added link", string(t), len(outgoing))
	return a.Clone(), nil
}

// Remove deletes the atom, unwiring it from the incoming sets of its own
// outgoing atoms, pruning it from the outgoing sequence of every link
// that referenced it rather than leaving a dangling id behind, and
// removing it from focus. Removing a non-existent id is a no-op
// returning false.
func (g *Graph) Remove(id atom.ID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.removeLocked(id)
}

func (g *Graph) removeLocked(id atom.ID) bool {
	a, ok := g.atoms[id]
	if !ok {
		return false
	}

	// unwire from atoms this one points at
	for _, out := range a.Outgoing {
		if target, ok := g.atoms[out]; ok {
			target.RemoveIncoming(id)
		}
	}

	// prune this id out of every referrer's outgoing sequence instead of
	// leaving a dangling reference. If that empties a referrer's outgoing
	// sequence entirely, the referrer is itself a link that just lost its
	// last leg — cascade-remove it too rather than leave a zero-arity
	// link behind, since a link must always reference at least one atom.
	for referrer := range a.Incoming {
		r, ok := g.atoms[referrer]
		if !ok {
			continue
		}
		oldKey := r.StructuralKey()
		r.Outgoing = pruneID(r.Outgoing, id)
		if len(r.Outgoing) == 0 {
			delete(g.byStructuralKey, oldKey)
			g.removeLocked(r.ID)
			continue
		}
		// the referrer's structural key is derived from its outgoing
		// sequence, so the old key must be retired and a fresh one
		// indexed, or a later structurally-identical AddLink would
		// miss this now-shorter link entirely.
		delete(g.byStructuralKey, oldKey)
		g.byStructuralKey[r.StructuralKey()] = r.ID
	}

	delete(g.atoms, id)
	delete(g.byType[a.Type], id)
	if a.Name != nil {
		delete(g.byName[*a.Name], id)
	}
	delete(g.byStructuralKey, a.StructuralKey())
	g.removeFromFocusLocked(id)

	g.log.Debug("graph: removed atom", uint64(id))
	return true
}

// Get returns a copy of the atom, if present.
func (g *Graph) Get(id atom.ID) (*atom.Atom, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	a, ok := g.atoms[id]
	if !ok {
		return nil, false
	}
	return a.Clone(), true
}

// Has reports whether id is present in the graph.
func (g *Graph) Has(id atom.ID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.atoms[id]
	return ok
}

// ByType returns every atom of type t.
func (g *Graph) ByType(t atom.Type) []*atom.Atom {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := g.byType[t]
	out := make([]*atom.Atom, 0, len(ids))
	for id := range ids {
		out = append(out, g.atoms[id].Clone())
	}
	sortByID(out)
	return out
}

// ByName returns every node with the given name (any type).
func (g *Graph) ByName(name string) []*atom.Atom {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := g.byName[name]
	out := make([]*atom.Atom, 0, len(ids))
	for id := range ids {
		out = append(out, g.atoms[id].Clone())
	}
	sortByID(out)
	return out
}

// IncomingOf returns the atoms that reference id in their outgoing
// sequence.
func (g *Graph) IncomingOf(id atom.ID) []*atom.Atom {
	g.mu.RLock()
	defer g.mu.RUnlock()
	a, ok := g.atoms[id]
	if !ok {
		return nil
	}
	out := make([]*atom.Atom, 0, len(a.Incoming))
	for ref := range a.Incoming {
		if r, ok := g.atoms[ref]; ok {
			out = append(out, r.Clone())
		}
	}
	sortByID(out)
	return out
}

// All returns every atom in the graph.
func (g *Graph) All() []*atom.Atom {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*atom.Atom, 0, len(g.atoms))
	for _, a := range g.atoms {
		out = append(out, a.Clone())
	}
	sortByID(out)
	return out
}

// Size returns the number of atoms currently stored.
func (g *Graph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.atoms)
}

// AddToFocus inserts id into the attentional-focus set. It is a raw
// set-insert; enforcing the maximum focus size and the minimum STI floor
// is ECAN's job during its focus-update phase, since those bounds are
// ECAN tunables, not graph config.
func (g *Graph) AddToFocus(id atom.ID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.atoms[id]; !ok {
		return apperr.Newf(apperr.KindNotFound, "atom %d not found", id)
	}
	if _, already := g.focusSet[id]; !already {
		g.focusSet[id] = struct{}{}
		g.focusOrder = append(g.focusOrder, id)
	}
	return nil
}

// RemoveFromFocus evicts id from the attentional-focus set, if present.
func (g *Graph) RemoveFromFocus(id atom.ID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removeFromFocusLocked(id)
}

func (g *Graph) removeFromFocusLocked(id atom.ID) {
	if _, ok := g.focusSet[id]; !ok {
		return
	}
	delete(g.focusSet, id)
	for i, fid := range g.focusOrder {
		if fid == id {
			g.focusOrder = append(g.focusOrder[:i], g.focusOrder[i+1:]...)
			break
		}
	}
}

// Focus returns the current attentional-focus set's atoms, in the order
// they were added.
func (g *Graph) Focus() []*atom.Atom {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*atom.Atom, 0, len(g.focusOrder))
	for _, id := range g.focusOrder {
		if a, ok := g.atoms[id]; ok {
			out = append(out, a.Clone())
		}
	}
	return out
}

// ReplaceFocus clears the current focus set and replaces it with ids, in
// the order given. Used by ECAN's focus-update phase.
func (g *Graph) ReplaceFocus(ids []atom.ID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.focusSet = make(map[atom.ID]struct{}, len(ids))
	g.focusOrder = make([]atom.ID, 0, len(ids))
	for _, id := range ids {
		if _, ok := g.atoms[id]; !ok {
			continue
		}
		if _, dup := g.focusSet[id]; dup {
			continue
		}
		g.focusSet[id] = struct{}{}
		g.focusOrder = append(g.focusOrder, id)
	}
}

// Query returns every atom matching every supplied predicate in pattern.
func (g *Graph) Query(pattern Pattern) []*atom.Atom {
	g.mu.RLock()
	defer g.mu.RUnlock()

	// a type predicate lets us scan only that type's index instead of the
	// whole store.
	if pattern.Type != nil {
		out := make([]*atom.Atom, 0, len(g.byType[*pattern.Type]))
		for id := range g.byType[*pattern.Type] {
			a := g.atoms[id]
			if pattern.matches(a) {
				out = append(out, a.Clone())
			}
		}
		sortByID(out)
		return out
	}

	out := make([]*atom.Atom, 0)
	for _, a := range g.atoms {
		if pattern.matches(a) {
			out = append(out, a.Clone())
		}
	}
	sortByID(out)
	return out
}

// MutateAttention applies fn to the live attention value of id under the
// write lock and returns the updated value. Engines (ECAN) use this
// rather than Get+a separate setter to avoid lost updates across
// concurrent cycles/stimulate calls.
func (g *Graph) MutateAttention(id atom.ID, fn func(atom.AttentionValue) atom.AttentionValue) (atom.AttentionValue, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a, ok := g.atoms[id]
	if !ok {
		return atom.AttentionValue{}, false
	}
	a.AV = fn(a.AV)
	return a.AV, true
}

// MutateTruth applies fn to the live truth value of id under the write
// lock and returns the updated value.
func (g *Graph) MutateTruth(id atom.ID, fn func(atom.TruthValue) atom.TruthValue) (atom.TruthValue, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a, ok := g.atoms[id]
	if !ok {
		return atom.TruthValue{}, false
	}
	a.TV = fn(a.TV).Clamped()
	return a.TV, true
}

// NeighboursOf returns the neighbour set ECAN's spreading phase needs:
// incoming(atom) union outgoing(atom) if it is a link.
func (g *Graph) NeighboursOf(id atom.ID) []atom.ID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	a, ok := g.atoms[id]
	if !ok {
		return nil
	}
	seen := make(map[atom.ID]struct{}, len(a.Incoming)+len(a.Outgoing))
	out := make([]atom.ID, 0, len(a.Incoming)+len(a.Outgoing))
	for ref := range a.Incoming {
		if _, dup := seen[ref]; !dup {
			seen[ref] = struct{}{}
			out = append(out, ref)
		}
	}
	for _, out2 := range a.Outgoing {
		if _, dup := seen[out2]; !dup {
			seen[out2] = struct{}{}
			out = append(out, out2)
		}
	}
	return out
}

func (g *Graph) index(a *atom.Atom, key string) {
	g.atoms[a.ID] = a
	if g.byType[a.Type] == nil {
		g.byType[a.Type] = make(map[atom.ID]struct{})
	}
	g.byType[a.Type][a.ID] = struct{}{}
	if a.Name != nil {
		if g.byName[*a.Name] == nil {
			g.byName[*a.Name] = make(map[atom.ID]struct{})
		}
		g.byName[*a.Name][a.ID] = struct{}{}
	}
	g.byStructuralKey[key] = a.ID
}

func (g *Graph) allocID() atom.ID {
	id := g.nextID
	g.nextID++
	return id
}

func defaultOrClamped(tv *atom.TruthValue) atom.TruthValue {
	if tv == nil {
		return atom.DefaultTruthValue()
	}
	return tv.Clamped()
}

func pruneID(ids []atom.ID, target atom.ID) []atom.ID {
	out := ids[:0:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

func sortByID(atoms []*atom.Atom) {
	sort.Slice(atoms, func(i, j int) bool { return atoms[i].ID < atoms[j].ID })
}
