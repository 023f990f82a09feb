package core

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/voodooEntity/noumenon/src/system/apperr"
	"github.com/voodooEntity/noumenon/src/system/atom"
)

var knowledgeValidate = validator.New()

// AddKnowledgeRequest is the client boundary's structured-triple input:
// callers submit already-parsed triples, not free text, and Kind
// selects which of the six small constructors below builds the
// atom(s).
type AddKnowledgeRequest struct {
	Kind       string            `validate:"required,oneof=concept fact goal procedure memory rule"`
	Content    map[string]string `validate:"required"`
	Context    string
	TV         *atom.TruthValue
	MemoryKind string // for Kind == "memory": episodic | semantic | working
}

// AddKnowledge validates req and dispatches to one of six constructor
// functions by req.Kind — a tagged variant at the API boundary, rather
// than a class hierarchy, since the six kinds never share behavior
// beyond "build some atoms and return the head one".
func (in *Instance) AddKnowledge(req AddKnowledgeRequest) (*atom.Atom, error) {
	if err := knowledgeValidate.Struct(req); err != nil {
		return nil, apperr.Newf(apperr.KindInvalidArgument, "invalid AddKnowledgeRequest: %v", err)
	}

	switch req.Kind {
	case "concept":
		return in.buildConceptAtom(req)
	case "fact":
		return in.buildFactAtom(req)
	case "goal":
		return in.buildGoalAtom(req)
	case "procedure":
		return in.buildProcedureAtom(req)
	case "memory":
		return in.buildMemoryAtom(req)
	case "rule":
		return in.buildRuleAtom(req)
	default:
		return nil, apperr.Newf(apperr.KindInvalidArgument, "unknown knowledge kind %q", req.Kind)
	}
}

// buildConceptAtom: concept -> ConceptNode(name). A concept submitted
// without content["name"] gets an anonymous, uuid-derived name instead
// of being rejected — unlike goal/procedure/memory, a bare concept is a
// legitimate "something exists" assertion that doesn't need a caller
// to invent a label for it.
func (in *Instance) buildConceptAtom(req AddKnowledgeRequest) (*atom.Atom, error) {
	name, ok := req.Content["name"]
	if !ok || name == "" {
		name = anonymousConceptName()
	}
	return in.Graph.AddNode(atom.ConceptNode, &name, req.TV)
}

func anonymousConceptName() string {
	return "anon:" + uuid.New().String()
}

// buildFactAtom: fact -> EvaluationLink(PredicateNode, ListLink(Subject, Object)).
func (in *Instance) buildFactAtom(req AddKnowledgeRequest) (*atom.Atom, error) {
	predicate, subject, object := req.Content["predicate"], req.Content["subject"], req.Content["object"]
	if predicate == "" || subject == "" || object == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "fact knowledge requires predicate, subject and object")
	}

	predAtom, err := in.Graph.AddNode(atom.PredicateNode, &predicate, nil)
	if err != nil {
		return nil, err
	}
	subjAtom, err := in.Graph.AddNode(atom.ConceptNode, &subject, nil)
	if err != nil {
		return nil, err
	}
	objAtom, err := in.Graph.AddNode(atom.ConceptNode, &object, nil)
	if err != nil {
		return nil, err
	}
	listAtom, err := in.Graph.AddLink(atom.ListLink, []atom.ID{subjAtom.ID, objAtom.ID}, nil)
	if err != nil {
		return nil, err
	}
	return in.Graph.AddLink(atom.EvaluationLink, []atom.ID{predAtom.ID, listAtom.ID}, req.TV)
}

// buildGoalAtom: goal -> GoalNode(name).
func (in *Instance) buildGoalAtom(req AddKnowledgeRequest) (*atom.Atom, error) {
	name, ok := req.Content["name"]
	if !ok || name == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "goal knowledge requires content[\"name\"]")
	}
	return in.Graph.AddNode(atom.GoalNode, &name, req.TV)
}

// buildProcedureAtom: procedure -> ProcedureNode(name).
func (in *Instance) buildProcedureAtom(req AddKnowledgeRequest) (*atom.Atom, error) {
	name, ok := req.Content["name"]
	if !ok || name == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "procedure knowledge requires content[\"name\"]")
	}
	return in.Graph.AddNode(atom.ProcedureNode, &name, req.TV)
}

// buildMemoryAtom: memory -> one of the three memory-kind node types,
// selected by req.MemoryKind (default semantic).
func (in *Instance) buildMemoryAtom(req AddKnowledgeRequest) (*atom.Atom, error) {
	name, ok := req.Content["name"]
	if !ok || name == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "memory knowledge requires content[\"name\"]")
	}
	var t atom.Type
	switch req.MemoryKind {
	case "episodic":
		t = atom.EpisodicMemoryNode
	case "working":
		t = atom.WorkingMemoryNode
	case "semantic", "":
		t = atom.SemanticMemoryNode
	default:
		return nil, apperr.Newf(apperr.KindInvalidArgument, "unknown memory kind %q", req.MemoryKind)
	}
	return in.Graph.AddNode(t, &name, req.TV)
}

// buildRuleAtom: rule -> ImplicationLink(ConceptNode(if), ConceptNode(then)).
func (in *Instance) buildRuleAtom(req AddKnowledgeRequest) (*atom.Atom, error) {
	ifName, thenName := req.Content["if"], req.Content["then"]
	if ifName == "" || thenName == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "rule knowledge requires content[\"if\"] and content[\"then\"]")
	}
	ifAtom, err := in.Graph.AddNode(atom.ConceptNode, &ifName, nil)
	if err != nil {
		return nil, err
	}
	thenAtom, err := in.Graph.AddNode(atom.ConceptNode, &thenName, nil)
	if err != nil {
		return nil, err
	}
	return in.Graph.AddLink(atom.ImplicationLink, []atom.ID{ifAtom.ID, thenAtom.ID}, req.TV)
}
