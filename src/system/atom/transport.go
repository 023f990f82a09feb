package atom

import "time"

// Exported is an atom's wire form: id, type, optional name, outgoing
// ids, truth value and attention value, plus a creation timestamp. It
// is scoped to a single atom rather than a recursively nested tree —
// the graph is flat and reference-by-id throughout, so there is no
// nesting to express.
type Exported struct {
	ID        ID                `json:"id"`
	Type      Type              `json:"type"`
	Name      *string           `json:"name,omitempty"`
	Outgoing  []ID              `json:"outgoing,omitempty"`
	TV        ExportedTV        `json:"tv"`
	AV        ExportedAV        `json:"av"`
	Timestamp time.Time         `json:"timestamp"`
	Props     map[string]string `json:"properties,omitempty"`
}

type ExportedTV struct {
	Strength   float64 `json:"strength"`
	Confidence float64 `json:"confidence"`
}

type ExportedAV struct {
	STI  int64 `json:"sti"`
	LTI  int64 `json:"lti"`
	VLTI bool  `json:"vlti"`
}

// Export produces the wire form of a single atom.
func Export(a *Atom) Exported {
	return Exported{
		ID:        a.ID,
		Type:      a.Type,
		Name:      a.Name,
		Outgoing:  append([]ID(nil), a.Outgoing...),
		TV:        ExportedTV{Strength: a.TV.Strength, Confidence: a.TV.Confidence},
		AV:        ExportedAV{STI: a.AV.STI, LTI: a.AV.LTI, VLTI: a.AV.VLTI},
		Timestamp: a.CreatedAt,
		Props:     a.Properties,
	}
}

// ExportedGraph is the graph export wire form: {atoms, size, timestamp}.
type ExportedGraph struct {
	Atoms     []Exported `json:"atoms"`
	Size      int        `json:"size"`
	Timestamp time.Time  `json:"timestamp"`
}

// Rehydrate reconstructs an *Atom from its wire form without resolving
// outgoing references yet — that is pass two, driven by the graph so it
// can silently drop unknown ids during import.
func Rehydrate(e Exported) *Atom {
	var outgoing []ID
	if len(e.Outgoing) > 0 {
		outgoing = append([]ID(nil), e.Outgoing...)
	}
	props := e.Props
	if props == nil {
		props = make(map[string]string)
	}
	return &Atom{
		ID:         e.ID,
		Type:       e.Type,
		Name:       e.Name,
		Outgoing:   outgoing,
		TV:         TruthValue{Strength: e.TV.Strength, Confidence: e.TV.Confidence}.Clamped(),
		AV:         AttentionValue{STI: e.AV.STI, LTI: e.AV.LTI, VLTI: e.AV.VLTI},
		Incoming:   make(map[ID]struct{}),
		Properties: props,
		CreatedAt:  e.Timestamp,
	}
}
