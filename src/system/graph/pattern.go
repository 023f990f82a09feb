package graph

import "github.com/voodooEntity/noumenon/src/system/atom"

// Pattern is a conjunction of optional predicates; Query returns every
// atom matching every supplied field. There is no variable binding at
// this layer — just a structural filter over type, name, and arity.
type Pattern struct {
	Type  *atom.Type
	Name  *string
	Arity *int
}

func (p Pattern) matches(a *atom.Atom) bool {
	if p.Type != nil && a.Type != *p.Type {
		return false
	}
	if p.Name != nil {
		if a.Name == nil || *a.Name != *p.Name {
			return false
		}
	}
	if p.Arity != nil && a.Arity() != *p.Arity {
		return false
	}
	return true
}

// WithType returns a Pattern filtering by atom type.
func WithType(t atom.Type) Pattern {
	return Pattern{Type: &t}
}

// WithName returns a Pattern filtering by node name.
func WithName(name string) Pattern {
	return Pattern{Name: &name}
}
