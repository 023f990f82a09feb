// Package ecan implements economic attention allocation: the six-phase
// cycle (rent, decay, spreading, focus update, forgetting, statistics)
// plus the stimulate and hebbian primitives.
package ecan

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/voodooEntity/archivist"
	"github.com/voodooEntity/noumenon/src/system/apperr"
	"github.com/voodooEntity/noumenon/src/system/atom"
	"github.com/voodooEntity/noumenon/src/system/graph"
)

// CycleStats summarizes one RunCycle execution for callers/plugins to
// report.
type CycleStats struct {
	Rent      int
	Decay     int
	Spread    int
	Forgotten int
	FocusSize int
}

// Engine owns the STI/LTI pools and runs the attention-allocation cycle
// against a shared *graph.Graph. One Engine per core instance — there is
// no global/process-wide attention state.
type Engine struct {
	mu  sync.Mutex
	g   *graph.Graph
	cfg Config
	log *archivist.Archivist
	rng *rand.Rand

	stiPool int64
	ltiPool int64

	CyclesRun    uint64
	AvgFocusSize float64
}

// New constructs an Engine over g. seed fixes the RNG used for the
// spreading and forgetting phases' probabilistic decisions, so cycles
// are reproducible under test instead of depending on the global
// math/rand source.
func New(g *graph.Graph, cfg Config, log *archivist.Archivist, seed int64) *Engine {
	if log == nil {
		log = archivist.New(&archivist.Config{LogLevel: archivist.LEVEL_WARNING})
	}
	return &Engine{
		g:       g,
		cfg:     cfg,
		log:     log,
		rng:     rand.New(rand.NewSource(seed)),
		stiPool: cfg.InitialSTIPool,
		ltiPool: cfg.InitialLTIPool,
	}
}

// STIPool returns the current internal STI pool balance.
func (e *Engine) STIPool() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stiPool
}

// RunCycle executes the six ECAN phases in order and returns a snapshot
// of what happened. A cycle never aborts on a per-atom error — such
// errors are logged at Debug and that atom is skipped so one bad atom
// can't stall the whole cycle.
func (e *Engine) RunCycle(ctx context.Context) CycleStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := CycleStats{}
	stats.Rent = e.rentLocked(ctx)
	stats.Decay = e.decayLocked(ctx)
	stats.Spread = e.spreadLocked(ctx)
	e.focusUpdateLocked(ctx)
	stats.Forgotten = e.forgetLocked(ctx)
	stats.FocusSize = len(e.g.Focus())

	e.CyclesRun++
	if e.CyclesRun == 1 {
		e.AvgFocusSize = float64(stats.FocusSize)
	} else {
		e.AvgFocusSize += (float64(stats.FocusSize) - e.AvgFocusSize) / float64(e.CyclesRun)
	}

	return stats
}

// phase 1: rent — every atom in focus pays rentAmount STI into the pool.
func (e *Engine) rentLocked(ctx context.Context) int {
	count := 0
	for _, a := range e.g.Focus() {
		if err := ctx.Err(); err != nil {
			return count
		}
		_, ok := e.g.MutateAttention(a.ID, func(av atom.AttentionValue) atom.AttentionValue {
			before := av.STI
			av.STI -= e.cfg.RentAmount
			av = av.Clamp(e.cfg.MinSTI, e.cfg.MaxSTI)
			e.stiPool += before - av.STI
			return av
		})
		if !ok {
			e.log.Debug("ecan: rent skipped missing atom")
			continue
		}
		count++
	}
	return count
}

// phase 2: decay — every atom with STI > 0 loses STI*decayRate, rounded
// toward zero, credited back to the pool.
func (e *Engine) decayLocked(ctx context.Context) int {
	count := 0
	for _, a := range e.g.All() {
		if err := ctx.Err(); err != nil {
			return count
		}
		if a.AV.STI <= 0 {
			continue
		}
		_, ok := e.g.MutateAttention(a.ID, func(av atom.AttentionValue) atom.AttentionValue {
			delta := truncateTowardZero(float64(av.STI) * e.cfg.DecayRate)
			av.STI -= delta
			av = av.Clamp(e.cfg.MinSTI, e.cfg.MaxSTI)
			e.stiPool += delta
			return av
		})
		if !ok {
			continue
		}
		count++
	}
	return count
}

// phase 3: spreading — focus atoms with STI > 2*minSTI push a diffusion
// budget out to their neighbour set, probabilistically per neighbour.
func (e *Engine) spreadLocked(ctx context.Context) int {
	count := 0
	threshold := 2 * e.cfg.MinSTI
	for _, a := range e.g.Focus() {
		if err := ctx.Err(); err != nil {
			return count
		}
		if a.AV.STI <= threshold {
			continue
		}
		budget := float64(a.AV.STI) * e.cfg.DiffusionRate
		if budget < 1 {
			continue
		}
		neighbours := e.g.NeighboursOf(a.ID)
		if len(neighbours) == 0 {
			continue
		}
		share := int64(budget / float64(len(neighbours)))
		if share < 1 {
			continue
		}
		for _, n := range neighbours {
			if e.rng.Float64() >= e.cfg.SpreadProbability {
				continue
			}
			_, ok := e.g.MutateAttention(n, func(av atom.AttentionValue) atom.AttentionValue {
				av.STI += share
				return av.Clamp(e.cfg.MinSTI, e.cfg.MaxSTI)
			})
			if !ok {
				continue
			}
			e.g.MutateAttention(a.ID, func(av atom.AttentionValue) atom.AttentionValue {
				av.STI -= share
				return av.Clamp(e.cfg.MinSTI, e.cfg.MaxSTI)
			})
			count++
		}
	}
	return count
}

// phase 4: focus update — clear focus, keep the top maxAF atoms with
// STI >= minSTI, ordered by STI descending.
func (e *Engine) focusUpdateLocked(ctx context.Context) {
	all := e.g.All()
	candidates := make([]*atom.Atom, 0, len(all))
	for _, a := range all {
		if a.AV.STI >= e.cfg.MinSTI {
			candidates = append(candidates, a)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].AV.STI > candidates[j].AV.STI
	})
	if int64(len(candidates)) > e.cfg.MaxAF {
		candidates = candidates[:e.cfg.MaxAF]
	}
	ids := make([]atom.ID, 0, len(candidates))
	for _, a := range candidates {
		ids = append(ids, a.ID)
	}
	e.g.ReplaceFocus(ids)
}

// phase 5: forgetting — atoms with LTI==0, VLTI==false and
// STI < 2*minSTI are removed with probability forgetProbability.
func (e *Engine) forgetLocked(ctx context.Context) int {
	threshold := 2 * e.cfg.MinSTI
	count := 0
	for _, a := range e.g.All() {
		if err := ctx.Err(); err != nil {
			return count
		}
		if a.AV.LTI != 0 || a.AV.VLTI || a.AV.STI >= threshold {
			continue
		}
		if e.rng.Float64() >= e.cfg.ForgetProbability {
			continue
		}
		recovered := a.AV.STI
		if e.g.Remove(a.ID) {
			e.stiPool += recovered
			count++
		}
	}
	return count
}

// Stimulate adds amount to id's STI (clamped at maxSTI), deducting it
// from the internal pool (clamped at 0).
func (e *Engine) Stimulate(id atom.ID, amount int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.g.MutateAttention(id, func(av atom.AttentionValue) atom.AttentionValue {
		av.STI += amount
		return av.Clamp(e.cfg.MinSTI, e.cfg.MaxSTI)
	})
	if !ok {
		return apperr.Newf(apperr.KindNotFound, "atom %d not found", id)
	}
	e.stiPool -= amount
	if e.stiPool < 0 {
		e.stiPool = 0
	}
	return nil
}

// Hebbian ensures a hebbian-link exists between a and b (order
// unordered), raising its strength toward 1 by hebbianLearningRate and
// its confidence by 0.1*hebbianLearningRate.
func (e *Engine) Hebbian(a, b atom.ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.g.Has(a) || !e.g.Has(b) {
		return apperr.Newf(apperr.KindNotFound, "atom %d or %d not found", a, b)
	}

	link, err := e.findOrCreateHebbian(a, b)
	if err != nil {
		return err
	}

	e.g.MutateTruth(link.ID, func(tv atom.TruthValue) atom.TruthValue {
		tv.Strength += (1 - tv.Strength) * e.cfg.HebbianLearningRate
		tv.Confidence += 0.1 * e.cfg.HebbianLearningRate
		return tv
	})
	return nil
}

func (e *Engine) findOrCreateHebbian(a, b atom.ID) (*atom.Atom, error) {
	for _, l := range e.g.ByType(atom.HebbianLink) {
		if len(l.Outgoing) == 2 {
			if (l.Outgoing[0] == a && l.Outgoing[1] == b) || (l.Outgoing[0] == b && l.Outgoing[1] == a) {
				return l, nil
			}
		}
	}
	return e.g.AddLink(atom.HebbianLink, []atom.ID{a, b}, nil)
}

func truncateTowardZero(v float64) int64 {
	return int64(math.Trunc(v))
}
