// Package pln implements the probabilistic logic network: the minimum
// five-rule set, the infer loop, and truth-value revision.
package pln

import (
	"context"
	"sync"

	"github.com/voodooEntity/archivist"
	"github.com/voodooEntity/noumenon/src/system/apperr"
	"github.com/voodooEntity/noumenon/src/system/atom"
	"github.com/voodooEntity/noumenon/src/system/graph"
)

// Inference records one successful rule application.
type Inference struct {
	Rule         string
	PremiseA     atom.ID
	PremiseB     atom.ID
	ConclusionID atom.ID
	TV           atom.TruthValue
}

// Result is what Infer returns.
type Result struct {
	Results         []Inference
	Iterations      int
	TotalInferences int
}

// Engine holds the graph it reasons over, its tunables, and an ordered
// rule registry. One Engine per core instance.
type Engine struct {
	mu    sync.Mutex
	g     *graph.Graph
	cfg   Config
	log   *archivist.Archivist
	rules []Rule
}

// New constructs an Engine with the minimum five rules pre-registered.
func New(g *graph.Graph, cfg Config, log *archivist.Archivist) *Engine {
	if log == nil {
		log = archivist.New(&archivist.Config{LogLevel: archivist.LEVEL_WARNING})
	}
	return &Engine{
		g:     g,
		cfg:   cfg,
		log:   log,
		rules: DefaultRules(),
	}
}

// RegisterRule appends rule to the end of the registry, extending the
// minimum five — the rule iteration order is still the registry's slice
// order, so inference stays deterministic for extensions too.
func (e *Engine) RegisterRule(r Rule) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = append(e.rules, r)
}

// Infer repeats up to maxIterations passes over the rule registry,
// stopping early if a pass yields zero qualifying inferences. An
// inference run on an empty graph completes in one iteration with zero
// inferences.
func (e *Engine) Infer(ctx context.Context, maxIterations int) Result {
	e.mu.Lock()
	rules := append([]Rule(nil), e.rules...)
	cfg := e.cfg
	e.mu.Unlock()

	result := Result{}
	for iter := 0; iter < maxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			break
		}
		result.Iterations++
		produced := e.runIteration(ctx, rules, cfg, &result)
		if produced == 0 {
			break
		}
	}
	return result
}

func (e *Engine) runIteration(ctx context.Context, rules []Rule, cfg Config, result *Result) int {
	// every rule in a pass draws its premises from the graph as it stood
	// when the pass began, so one rule's conclusions are not premises of a
	// later rule in the same pass.
	pools := make(map[atom.Type][]*atom.Atom)
	for _, rule := range rules {
		pools[rule.Pool1], pools[rule.Pool2] = e.g.ByType(rule.Pool1), e.g.ByType(rule.Pool2)
	}
	produced := 0
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return produced
		}
		produced += e.applyRule(rule, cfg, pools, result)
	}
	return produced
}

func (e *Engine) applyRule(rule Rule, cfg Config, pools map[atom.Type][]*atom.Atom, result *Result) int {
	pool1 := pools[rule.Pool1]
	var pool2 []*atom.Atom
	homogeneous := rule.Pool1 == rule.Pool2
	if homogeneous {
		pool2 = pool1
	} else {
		pool2 = pools[rule.Pool2]
	}

	produced := 0
	for i, a := range pool1 {
		for j, b := range pool2 {
			if homogeneous && i == j {
				continue
			}
			conclusion, ok := rule.Apply(cfg, a, b)
			if !ok {
				continue
			}
			if conclusion.TV.Confidence < cfg.MinConfidence || conclusion.TV.Strength < cfg.StrengthThreshold {
				continue
			}
			conclID, err := e.commit(conclusion, cfg)
			if err != nil {
				e.log.Debug("pln: rule application skipped", rule.Name, err)
				continue
			}
			result.Results = append(result.Results, Inference{
				Rule:         rule.Name,
				PremiseA:     a.ID,
				PremiseB:     b.ID,
				ConclusionID: conclID,
				TV:           conclusion.TV,
			})
			result.TotalInferences++
			produced++
		}
	}
	return produced
}

// commit writes a rule's conclusion into the graph: either a truth-value
// update of an existing atom (modus ponens), or a structurally
// deduplicated link add. On conflict (a structurally identical link
// already exists) the default policy is overwrite;
// Config.UseRevisionOnConflict switches to applying the Revision
// formula against the prior value instead.
func (e *Engine) commit(c Conclusion, cfg Config) (atom.ID, error) {
	if c.isUpdate() {
		tv, ok := e.g.MutateTruth(c.TargetID, func(prev atom.TruthValue) atom.TruthValue {
			if cfg.UseRevisionOnConflict {
				return Revise(cfg, prev, c.TV)
			}
			return c.TV
		})
		_ = tv
		if !ok {
			return 0, apperr.Newf(apperr.KindNotFound, "conclusion target %d not found", c.TargetID)
		}
		return c.TargetID, nil
	}

	tv := c.TV
	if cfg.UseRevisionOnConflict {
		if existing := e.findExisting(c.LinkType, c.Outgoing); existing != nil {
			tv = Revise(cfg, existing.TV, c.TV)
		}
	}
	a, err := e.g.AddLink(c.LinkType, c.Outgoing, &tv)
	if err != nil {
		return 0, err
	}
	return a.ID, nil
}

func (e *Engine) findExisting(t atom.Type, outgoing []atom.ID) *atom.Atom {
	key := atom.StructuralKey(t, nil, outgoing)
	for _, a := range e.g.ByType(t) {
		if a.StructuralKey() == key {
			return a
		}
	}
	return nil
}

