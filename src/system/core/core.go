// Package core wires the four subsystems — graph, ECAN, PLN, scheduler
// — into one freely-instantiable Instance: each instance owns its own
// graph, ECAN, PLN, and scheduler, with no process-wide cognitive state.
// Instance lifetime is create -> run until shutdown -> discard.
package core

import (
	"context"
	"sync"

	"github.com/voodooEntity/archivist"
	"github.com/voodooEntity/noumenon/src/system/ecan"
	"github.com/voodooEntity/noumenon/src/system/graph"
	"github.com/voodooEntity/noumenon/src/system/pln"
	"github.com/voodooEntity/noumenon/src/system/scheduler"
	"golang.org/x/time/rate"
)

// Config bundles the per-component tunable structs so a caller builds
// one Instance from one Config.
type Config struct {
	Graph     graph.Config
	ECAN      ecan.Config
	PLN       pln.Config
	Scheduler scheduler.Config
	// ECANSeed fixes the ECAN engine's RNG so cycles are reproducible
	// under test; defaults to 1 if zero.
	ECANSeed int64
	// StimulateRatePerSecond caps external Stimulate calls per Instance —
	// it is the one operation an untrusted caller can invoke at an
	// attacker-chosen frequency to push STI around, so it gets its own
	// rate guard while every other operation is bounded by the graph
	// itself. Zero disables the guard.
	StimulateRatePerSecond float64
	// StimulateBurst is the limiter's burst size; ignored when
	// StimulateRatePerSecond is zero. Defaults to 1 if zero and the
	// rate is set.
	StimulateBurst int
}

// DefaultConfig returns sensible default tunables for every component.
// The stimulate rate guard defaults to disabled; it's an optional
// safeguard a caller opts into rather than a baseline requirement.
func DefaultConfig() Config {
	return Config{
		Graph:     graph.DefaultConfig(),
		ECAN:      ecan.DefaultConfig(),
		PLN:       pln.DefaultConfig(),
		Scheduler: scheduler.DefaultConfig(),
		ECANSeed:  1,
	}
}

// Instance is one self-contained cognitive substrate: its own graph,
// ECAN engine, PLN engine, and plugin scheduler. ID is the caller's
// conversation id — this package never maps ids to instances itself;
// that mapping is the hosting application's job.
type Instance struct {
	ID        string
	Graph     *graph.Graph
	ECAN      *ecan.Engine
	PLN       *pln.Engine
	Scheduler *scheduler.Scheduler

	log *archivist.Archivist

	// stimulateLimiter is nil when the Config didn't request a guard.
	stimulateLimiter *rate.Limiter

	mu       sync.Mutex
	shutdown bool
}

// New constructs an Instance with all four subsystems wired together
// and the five built-in scheduler plugins pre-registered. A nil logger
// gets a default stdout logger at warning level.
func New(id string, cfg Config, log *archivist.Archivist) *Instance {
	if log == nil {
		log = archivist.New(&archivist.Config{LogLevel: archivist.LEVEL_WARNING})
	}
	seed := cfg.ECANSeed
	if seed == 0 {
		seed = 1
	}

	g := graph.New(cfg.Graph, log)
	e := ecan.New(g, cfg.ECAN, log, seed)
	p := pln.New(g, cfg.PLN, log)
	s := scheduler.New(g, cfg.Scheduler, log, e, p)

	var limiter *rate.Limiter
	if cfg.StimulateRatePerSecond > 0 {
		burst := cfg.StimulateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.StimulateRatePerSecond), burst)
	}

	return &Instance{
		ID:               id,
		Graph:            g,
		ECAN:             e,
		PLN:              p,
		Scheduler:        s,
		log:              log,
		stimulateLimiter: limiter,
	}
}

// Run starts the scheduler's cycle loop against ctx. Cancelling ctx
// stops dispatch the same way Shutdown does.
func (in *Instance) Run(ctx context.Context) {
	in.Scheduler.Start(ctx)
}

// Shutdown is best-effort and never returns an error itself: it stops
// the scheduler and marks the instance discarded. Safe to call twice.
func (in *Instance) Shutdown() error {
	in.mu.Lock()
	if in.shutdown {
		in.mu.Unlock()
		return nil
	}
	in.shutdown = true
	in.mu.Unlock()

	in.log.Info("core: shutting down instance", in.ID)
	in.Scheduler.Stop()
	return nil
}
