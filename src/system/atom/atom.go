// Package atom holds the immutable-identity, mutable-value data types that
// every other component in this module builds on: the node/link type
// enumeration, truth values, attention values, and the Atom itself.
package atom

import (
	"strconv"
	"strings"
	"time"
)

// ID is the opaque identifier assigned by the graph store at creation.
// It is never reused within the lifetime of a single graph.
type ID uint64

// Atom is either a node (Outgoing == nil, Name optionally set) or a link
// (len(Outgoing) >= 1, Name == nil). Equality between atoms is by ID;
// the graph alone may mutate TV, AV, Properties and the Incoming index —
// Type and Name are fixed at construction and never updated afterward;
// Outgoing changes only when the graph prunes the id of a removed atom
// out of it.
type Atom struct {
	ID         ID
	Type       Type
	Name       *string
	Outgoing   []ID
	TV         TruthValue
	AV         AttentionValue
	Incoming   map[ID]struct{}
	Properties map[string]string
	CreatedAt  time.Time
}

// IsNode reports whether this atom has arity 0.
func (a *Atom) IsNode() bool {
	return a.Outgoing == nil
}

// IsLink reports whether this atom has arity >= 1.
func (a *Atom) IsLink() bool {
	return !a.IsNode()
}

// Arity returns len(Outgoing) for a link, 0 for a node.
func (a *Atom) Arity() int {
	return len(a.Outgoing)
}

// StructuralKey is the de-duplication key the graph indexes atoms by:
// (type, name) for nodes, (type, outgoing-id-sequence) for links.
func StructuralKey(t Type, name *string, outgoing []ID) string {
	var b strings.Builder
	b.WriteString(string(t))
	b.WriteByte(0)
	if len(outgoing) == 0 {
		if name != nil {
			b.WriteString(*name)
		}
		return b.String()
	}
	for i, id := range outgoing {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	return b.String()
}

// StructuralKey returns this atom's own de-duplication key.
func (a *Atom) StructuralKey() string {
	return StructuralKey(a.Type, a.Name, a.Outgoing)
}

// AddIncoming records that referrer points at this atom.
func (a *Atom) AddIncoming(referrer ID) {
	if a.Incoming == nil {
		a.Incoming = make(map[ID]struct{})
	}
	a.Incoming[referrer] = struct{}{}
}

// RemoveIncoming unrecords referrer.
func (a *Atom) RemoveIncoming(referrer ID) {
	delete(a.Incoming, referrer)
}

// IncomingIDs returns the incoming set as a slice, in no particular order.
func (a *Atom) IncomingIDs() []ID {
	out := make([]ID, 0, len(a.Incoming))
	for id := range a.Incoming {
		out = append(out, id)
	}
	return out
}

// Clone returns a shallow-independent copy safe to hand to a caller
// without risking mutation of the graph's own bookkeeping maps/slices.
func (a *Atom) Clone() *Atom {
	clone := *a
	if a.Name != nil {
		name := *a.Name
		clone.Name = &name
	}
	if a.Outgoing != nil {
		clone.Outgoing = append([]ID(nil), a.Outgoing...)
	}
	clone.Incoming = make(map[ID]struct{}, len(a.Incoming))
	for id := range a.Incoming {
		clone.Incoming[id] = struct{}{}
	}
	clone.Properties = make(map[string]string, len(a.Properties))
	for k, v := range a.Properties {
		clone.Properties[k] = v
	}
	return &clone
}
