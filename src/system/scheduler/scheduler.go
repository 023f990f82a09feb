// Package scheduler implements the plugin registry and priority job
// queue that periodically dispatches cognitive work (PLN, ECAN, pattern
// mining, goal processing, memory consolidation) against a shared
// *graph.Graph.
//
// Each job runs on its own goroutine under a bounded semaphore, carries
// its own context with a per-job timeout, and is dispatched from the
// queue on a cycle tick rather than by cooperative busy-waiting.
package scheduler

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/voodooEntity/archivist"
	"github.com/voodooEntity/noumenon/src/system/apperr"
	"github.com/voodooEntity/noumenon/src/system/ecan"
	"github.com/voodooEntity/noumenon/src/system/graph"
	"github.com/voodooEntity/noumenon/src/system/pln"
	"golang.org/x/sync/semaphore"
)

// CycleEvent is emitted once per cycle tick.
type CycleEvent struct {
	Cycle        uint64
	QueueSize    int
	RunningCount int
}

// Scheduler owns the plugin registry, the priority job queue, and the
// cycle loop. One Scheduler per core instance.
type Scheduler struct {
	mu sync.Mutex

	g   *graph.Graph
	cfg Config
	log *archivist.Archivist

	plugins map[string]*PluginEntry
	queue   jobQueue
	running map[uuid.UUID]*Job
	jobs    map[uuid.UUID]*Job

	enqueueSeq uint64
	cycle      uint64

	sem    *semaphore.Weighted
	events chan CycleEvent

	cancelLoop context.CancelFunc
	loopDone   chan struct{}
	started    bool
}

// New constructs a Scheduler with the five built-in plugins
// pre-registered. ecanEngine/plnEngine are the same engine instances the
// core owns elsewhere — the builtin "ecan"/"pln" plugins dispatch into
// them rather than constructing throwaway engines, so cycle statistics
// and the STI/LTI pools persist across dispatches the way a single
// long-lived ECAN/PLN engine is meant to.
func New(g *graph.Graph, cfg Config, log *archivist.Archivist, ecanEngine *ecan.Engine, plnEngine *pln.Engine) *Scheduler {
	if log == nil {
		log = archivist.New(&archivist.Config{LogLevel: archivist.LEVEL_WARNING})
	}
	s := &Scheduler{
		g:       g,
		cfg:     cfg,
		log:     log,
		plugins: make(map[string]*PluginEntry),
		running: make(map[uuid.UUID]*Job),
		jobs:    make(map[uuid.UUID]*Job),
		sem:     semaphore.NewWeighted(int64(cfg.MaxConcurrentJobs)),
		events:  make(chan CycleEvent, 16),
	}
	registerBuiltins(s, ecanEngine, plnEngine)
	return s
}

// RegisterPlugin adds or replaces a plugin entry.
func (s *Scheduler) RegisterPlugin(name string, priority int, enabled bool, p Plugin) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plugins[name] = &PluginEntry{Name: name, Priority: priority, Enabled: enabled, Plugin: p}
}

// SetPluginEnabled toggles a registered plugin's enabled flag.
func (s *Scheduler) SetPluginEnabled(name string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.plugins[name]
	if !ok {
		return apperr.Newf(apperr.KindNotFound, "plugin %q not registered", name)
	}
	entry.Enabled = enabled
	return nil
}

// Enqueue queues a job against pluginID. Rejects with queue-full at
// capacity, not-found for an unknown plugin, disabled for a disabled
// one.
func (s *Scheduler) Enqueue(pluginID string, params map[string]any, priority int, timeout time.Duration, maxRetries int) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.plugins[pluginID]
	if !ok {
		return nil, apperr.Newf(apperr.KindNotFound, "plugin %q not registered", pluginID)
	}
	if !entry.Enabled {
		return nil, apperr.Newf(apperr.KindDisabled, "plugin %q is disabled", pluginID)
	}
	if len(s.queue) >= s.cfg.MaxQueueSize {
		return nil, apperr.New(apperr.KindQueueFull, "job queue at capacity")
	}
	if timeout <= 0 {
		timeout = s.cfg.JobTimeout
	}

	job := &Job{
		ID:         uuid.New(),
		PluginID:   pluginID,
		Parameters: params,
		Priority:   priority,
		Timeout:    timeout,
		MaxRetries: maxRetries,
		State:      JobQueued,
		EnqueuedAt: time.Now(),
		enqueueSeq: s.enqueueSeq,
	}
	s.enqueueSeq++
	heap.Push(&s.queue, job)
	s.jobs[job.ID] = job
	return job, nil
}

// GetJob returns the scheduler's own record for job id (not a copy).
func (s *Scheduler) GetJob(id uuid.UUID) (*Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	return j, ok
}

// Events returns the channel cycle events are published on.
func (s *Scheduler) Events() <-chan CycleEvent {
	return s.events
}

// Start begins the cycle timer. Idempotent.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancelLoop = cancel
	s.loopDone = make(chan struct{})
	s.started = true
	s.mu.Unlock()

	go s.loop(loopCtx)
}

// Stop halts dispatch and cancels all running jobs. Idempotent and safe
// to call before Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	cancel := s.cancelLoop
	done := s.loopDone

	for _, j := range s.running {
		if j.cancel != nil {
			j.cancel()
		}
		j.State = JobCancelled
		j.FinishedAt = time.Now()
		s.sem.Release(1)
	}
	s.running = make(map[uuid.UUID]*Job)
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.loopDone)
	ticker := time.NewTicker(s.cfg.CycleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// runCycle dispatches queued jobs while capacity and the queue allow,
// then emits the cycle event. Per-job timeout is enforced by the
// dispatch goroutine's own context, not a separate polling pass, since
// each dispatched job already carries a context.WithTimeout scoped to
// its own deadline.
func (s *Scheduler) runCycle(ctx context.Context) {
	s.mu.Lock()
	s.cycle++
	cycle := s.cycle

	for len(s.queue) > 0 && s.sem.TryAcquire(1) {
		job := heap.Pop(&s.queue).(*Job)
		job.State = JobRunning
		job.StartedAt = time.Now()
		s.running[job.ID] = job
		go s.dispatch(ctx, job)
	}

	event := CycleEvent{Cycle: cycle, QueueSize: len(s.queue), RunningCount: len(s.running)}
	s.mu.Unlock()

	select {
	case s.events <- event:
	default:
		s.log.Debug("scheduler: events channel full, dropping cycle event")
	}
}

func (s *Scheduler) dispatch(parent context.Context, job *Job) {
	s.mu.Lock()
	entry, ok := s.plugins[job.PluginID]
	s.mu.Unlock()
	if !ok {
		s.finish(job, nil, apperr.Newf(apperr.KindNotFound, "plugin %q not registered", job.PluginID), false)
		return
	}

	jobCtx, cancel := context.WithTimeout(parent, job.Timeout)
	s.mu.Lock()
	job.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	started := time.Now()
	resultCh := make(chan struct {
		result any
		err    error
	}, 1)
	go func() {
		result, err := entry.Plugin.Execute(jobCtx, s.g, job.Parameters)
		resultCh <- struct {
			result any
			err    error
		}{result, err}
	}()

	select {
	case out := <-resultCh:
		s.recordDuration(entry, time.Since(started))
		s.finish(job, out.result, out.err, false)
	case <-jobCtx.Done():
		timedOut := jobCtx.Err() == context.DeadlineExceeded
		if timedOut {
			s.finish(job, nil, apperr.New(apperr.KindTimeout, "job exceeded its deadline"), true)
		}
		// a non-timeout Done (explicit Stop cancellation) is handled by
		// Stop itself, which already marked the job cancelled.
	}
}

func (s *Scheduler) recordDuration(entry *PluginEntry, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ExecutionCount++
	if entry.ExecutionCount == 1 {
		entry.AvgDurationNS = float64(d.Nanoseconds())
	} else {
		entry.AvgDurationNS += (float64(d.Nanoseconds()) - entry.AvgDurationNS) / float64(entry.ExecutionCount)
	}
}

// finish records a job's outcome: on success it stores the result; on
// failure it retries if retries remain, otherwise it marks the job
// failed and records the error.
func (s *Scheduler) finish(job *Job, result any, err error, timedOut bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.running, job.ID)
	s.sem.Release(1)

	if err == nil {
		job.State = JobCompleted
		job.Result = result
		job.FinishedAt = time.Now()
		return
	}

	job.TimedOut = timedOut
	if job.RetryCount < job.MaxRetries {
		job.RetryCount++
		job.State = JobQueued
		job.enqueueSeq = s.enqueueSeq
		s.enqueueSeq++
		heap.Push(&s.queue, job)
		s.log.Debug("scheduler: job failed, retrying", job.ID.String(), job.RetryCount)
		return
	}

	job.State = JobFailed
	job.Err = err
	job.FinishedAt = time.Now()
}
