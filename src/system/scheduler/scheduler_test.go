package scheduler_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voodooEntity/noumenon/src/system/ecan"
	"github.com/voodooEntity/noumenon/src/system/graph"
	"github.com/voodooEntity/noumenon/src/system/pln"
	"github.com/voodooEntity/noumenon/src/system/scheduler"
)

func newScheduler(cfg scheduler.Config) *scheduler.Scheduler {
	g := graph.New(graph.DefaultConfig(), nil)
	e := ecan.New(g, ecan.DefaultConfig(), nil, 1)
	p := pln.New(g, pln.DefaultConfig(), nil)
	return scheduler.New(g, cfg, nil, e, p)
}

func TestSchedulerPriorityOrder(t *testing.T) {
	cfg := scheduler.DefaultConfig()
	cfg.MaxConcurrentJobs = 1
	cfg.CycleInterval = 5 * time.Millisecond
	s := newScheduler(cfg)

	var mu sync.Mutex
	var order []int

	s.RegisterPlugin("trivial", 0, true, scheduler.PluginFunc(func(ctx context.Context, g *graph.Graph, params map[string]any) (any, error) {
		mu.Lock()
		order = append(order, params["n"].(int))
		mu.Unlock()
		return nil, nil
	}))

	_, err := s.Enqueue("trivial", map[string]any{"n": 3}, 3, time.Second, 0)
	require.NoError(t, err)
	_, err = s.Enqueue("trivial", map[string]any{"n": 1}, 1, time.Second, 0)
	require.NoError(t, err)
	_, err = s.Enqueue("trivial", map[string]any{"n": 2}, 2, time.Second, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	defer s.Stop()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 3
	}, 2*time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{3, 2, 1}, order)
}

func TestSchedulerJobTimeout(t *testing.T) {
	cfg := scheduler.DefaultConfig()
	cfg.CycleInterval = 5 * time.Millisecond
	s := newScheduler(cfg)

	s.RegisterPlugin("hangs", 0, true, scheduler.PluginFunc(func(ctx context.Context, g *graph.Graph, params map[string]any) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))

	job, err := s.Enqueue("hangs", nil, 0, 50*time.Millisecond, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	defer s.Stop()

	require.Eventually(t, func() bool {
		j, ok := s.GetJob(job.ID)
		return ok && j.State == scheduler.JobFailed
	}, time.Second, 10*time.Millisecond)

	j, _ := s.GetJob(job.ID)
	assert.True(t, j.TimedOut)
}

func TestEnqueueRejectsWhenQueueFull(t *testing.T) {
	cfg := scheduler.DefaultConfig()
	cfg.MaxQueueSize = 1
	s := newScheduler(cfg)

	s.RegisterPlugin("noop", 0, true, scheduler.PluginFunc(func(ctx context.Context, g *graph.Graph, params map[string]any) (any, error) {
		return nil, nil
	}))

	_, err := s.Enqueue("noop", nil, 0, time.Second, 0)
	require.NoError(t, err)
	_, err = s.Enqueue("noop", nil, 0, time.Second, 0)
	require.Error(t, err)
}

func TestEnqueueAgainstDisabledPluginErrors(t *testing.T) {
	s := newScheduler(scheduler.DefaultConfig())
	s.RegisterPlugin("off", 0, false, scheduler.PluginFunc(func(ctx context.Context, g *graph.Graph, params map[string]any) (any, error) {
		return nil, nil
	}))
	_, err := s.Enqueue("off", nil, 0, time.Second, 0)
	require.Error(t, err)
}

func TestStopIsIdempotentAndSafePreStart(t *testing.T) {
	s := newScheduler(scheduler.DefaultConfig())
	s.Stop()
	s.Stop()
}
