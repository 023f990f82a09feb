package pln

import "github.com/voodooEntity/noumenon/src/system/atom"

// Conclusion is what a Rule produces from a matched premise pair: either
// a new (or structurally-deduplicated) link — LinkType/Outgoing set — or
// a truth-value update of an atom that already stands for the
// conclusion statement (modus ponens updates B in place rather than
// minting a new edge) — TargetID set instead.
type Conclusion struct {
	LinkType atom.Type
	Outgoing []atom.ID
	TargetID atom.ID
	TV       atom.TruthValue
}

func (c Conclusion) isUpdate() bool {
	return c.TargetID != 0
}

// RuleFunc attempts to apply a rule to the ordered premise pair (a, b).
// ok is false if the pair does not match the rule's premise pattern.
type RuleFunc func(cfg Config, a, b *atom.Atom) (Conclusion, bool)

// Rule pairs a name and premise-pool type filter with its formula.
// Pool1/Pool2 name the atom types the engine draws candidate premises
// from; when they're equal the engine enumerates ordered pairs within
// one pool (i != j), otherwise the full cross product of the two pools.
type Rule struct {
	Name  string
	Pool1 atom.Type
	Pool2 atom.Type
	Apply RuleFunc
}

// DefaultRules returns the five minimum rules in a fixed order — rule
// iteration order is always the registry's slice order. Revision is
// listed here as a registry entry too, even though Infer() rarely
// matches it against a graph-wide pair (structural de-duplication keeps
// two distinct atoms for the same statement from arising outside of
// Remove's outgoing pruning; conflict resolution on re-add is handled
// by Revise directly); keeping it in the registry lets callers see it
// documented alongside its siblings.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "Deduction", Pool1: atom.ImplicationLink, Pool2: atom.ImplicationLink, Apply: deduction},
		{Name: "Induction", Pool1: atom.ImplicationLink, Pool2: atom.ImplicationLink, Apply: induction},
		{Name: "Abduction", Pool1: atom.ImplicationLink, Pool2: atom.ImplicationLink, Apply: abduction},
		{Name: "ModusPonens", Pool1: atom.ImplicationLink, Pool2: atom.EvaluationLink, Apply: modusPonens},
		{Name: "Revision", Pool1: atom.ImplicationLink, Pool2: atom.ImplicationLink, Apply: func(cfg Config, a, b *atom.Atom) (Conclusion, bool) {
			if a.StructuralKey() != b.StructuralKey() {
				return Conclusion{}, false
			}
			return Conclusion{LinkType: a.Type, Outgoing: a.Outgoing, TV: Revise(cfg, a.TV, b.TV)}, true
		}},
	}
}

// deduction: A->B (s1,c1), B->C (s2,c2) => A->C, s1*s2, c1*c2*(1-s1+s1*s2).
// Matches when a's target equals b's source (shared middle term B).
func deduction(cfg Config, a, b *atom.Atom) (Conclusion, bool) {
	if len(a.Outgoing) != 2 || len(b.Outgoing) != 2 {
		return Conclusion{}, false
	}
	if a.Outgoing[1] != b.Outgoing[0] {
		return Conclusion{}, false
	}
	s1, c1 := a.TV.Strength, a.TV.Confidence
	s2, c2 := b.TV.Strength, b.TV.Confidence
	tv := atom.TruthValue{
		Strength:   s1 * s2,
		Confidence: c1 * c2 * (1 - s1 + s1*s2),
	}.Clamped()
	return Conclusion{
		LinkType: atom.ImplicationLink,
		Outgoing: []atom.ID{a.Outgoing[0], b.Outgoing[1]},
		TV:       tv,
	}, true
}

// induction: A->B (s1,c1), A->C (s2,c2) => C->B, s2, c1*c2*s1.
// Matches when a and b share a source (A).
func induction(cfg Config, a, b *atom.Atom) (Conclusion, bool) {
	if len(a.Outgoing) != 2 || len(b.Outgoing) != 2 {
		return Conclusion{}, false
	}
	if a.Outgoing[0] != b.Outgoing[0] {
		return Conclusion{}, false
	}
	s1, c1 := a.TV.Strength, a.TV.Confidence
	s2, c2 := b.TV.Strength, b.TV.Confidence
	tv := atom.TruthValue{
		Strength:   s2,
		Confidence: c1 * c2 * s1,
	}.Clamped()
	return Conclusion{
		LinkType: atom.ImplicationLink,
		Outgoing: []atom.ID{b.Outgoing[1], a.Outgoing[1]},
		TV:       tv,
	}, true
}

// abduction: A->B (s1,c1), C->B (s2,c2) => A->C, s1*s2, c1*c2.
// Matches when a and b share a target (B).
func abduction(cfg Config, a, b *atom.Atom) (Conclusion, bool) {
	if len(a.Outgoing) != 2 || len(b.Outgoing) != 2 {
		return Conclusion{}, false
	}
	if a.Outgoing[1] != b.Outgoing[1] {
		return Conclusion{}, false
	}
	s1, c1 := a.TV.Strength, a.TV.Confidence
	s2, c2 := b.TV.Strength, b.TV.Confidence
	tv := atom.TruthValue{
		Strength:   s1 * s2,
		Confidence: c1 * c2,
	}.Clamped()
	return Conclusion{
		LinkType: atom.ImplicationLink,
		Outgoing: []atom.ID{a.Outgoing[0], b.Outgoing[0]},
		TV:       tv,
	}, true
}

// modusPonens: A->B (s1,c1), an EvaluationLink b standing for A itself
// with strength>0.5 and confidence>=minConfidence (s2,c2) => the
// evaluation standing for B gets strength s1*s2, confidence c1*c2. B is
// updated in place (it is "B" by identity, not a freshly minted edge).
func modusPonens(cfg Config, a, b *atom.Atom) (Conclusion, bool) {
	if len(a.Outgoing) != 2 {
		return Conclusion{}, false
	}
	if a.Outgoing[0] != b.ID {
		return Conclusion{}, false
	}
	if b.TV.Strength <= 0.5 || b.TV.Confidence < cfg.MinConfidence {
		return Conclusion{}, false
	}
	s1, c1 := a.TV.Strength, a.TV.Confidence
	s2, c2 := b.TV.Strength, b.TV.Confidence
	tv := atom.TruthValue{
		Strength:   s1 * s2,
		Confidence: c1 * c2,
	}.Clamped()
	return Conclusion{
		TargetID: a.Outgoing[1],
		TV:       tv,
	}, true
}

// Revise implements the Revision rule's formula: combining two truth
// values asserted for the same statement into one.
func Revise(cfg Config, tv1, tv2 atom.TruthValue) atom.TruthValue {
	s1, c1 := tv1.Strength, tv1.Confidence
	s2, c2 := tv2.Strength, tv2.Confidence

	denom := c1 + c2 - c1*c2
	var strength float64
	if denom == 0 {
		strength = (s1 + s2) / 2
	} else {
		strength = (s1*c1 + s2*c2 - s1*s2*c1*c2) / denom
	}

	confidence := (c1 + c2 - c1*c2) * cfg.RevisionInflationFactor
	if confidence > 1 {
		confidence = 1
	}

	return atom.TruthValue{Strength: strength, Confidence: confidence}.Clamped()
}
