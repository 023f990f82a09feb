package ecan_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voodooEntity/noumenon/src/system/atom"
	"github.com/voodooEntity/noumenon/src/system/ecan"
	"github.com/voodooEntity/noumenon/src/system/graph"
)

func newNamedNode(t *testing.T, g *graph.Graph, name string) atom.ID {
	t.Helper()
	a, err := g.AddNode(atom.ConceptNode, &name, nil)
	require.NoError(t, err)
	return a.ID
}

func TestStimulateClampsAtMaxSTI(t *testing.T) {
	g := graph.New(graph.DefaultConfig(), nil)
	cfg := ecan.DefaultConfig()
	e := ecan.New(g, cfg, nil, 1)

	id := newNamedNode(t, g, "a")
	require.NoError(t, e.Stimulate(id, cfg.MaxSTI+500))

	a, ok := g.Get(id)
	require.True(t, ok)
	assert.Equal(t, cfg.MaxSTI, a.AV.STI)
}

func TestStimulateByZeroLeavesSTIUnchanged(t *testing.T) {
	g := graph.New(graph.DefaultConfig(), nil)
	e := ecan.New(g, ecan.DefaultConfig(), nil, 1)

	id := newNamedNode(t, g, "a")
	before, _ := g.Get(id)
	require.NoError(t, e.Stimulate(id, 0))
	after, _ := g.Get(id)
	assert.Equal(t, before.AV.STI, after.AV.STI)
}

func TestFocusCapKeepsTopN(t *testing.T) {
	g := graph.New(graph.DefaultConfig(), nil)
	cfg := ecan.DefaultConfig()
	cfg.MaxAF = 3
	e := ecan.New(g, cfg, nil, 42)

	amounts := []int64{10, 20, 30, 40, 50}
	ids := make([]atom.ID, len(amounts))
	for i, amt := range amounts {
		id := newNamedNode(t, g, string(rune('a'+i)))
		require.NoError(t, e.Stimulate(id, amt))
		ids[i] = id
	}

	e.RunCycle(context.Background())

	focus := g.Focus()
	assert.LessOrEqual(t, len(focus), 3)
	focusIDs := map[atom.ID]bool{}
	for _, a := range focus {
		focusIDs[a.ID] = true
	}
	// the three highest-stimulated nodes (ids[2], ids[3], ids[4]) must be
	// in focus; the two lowest must not.
	assert.True(t, focusIDs[ids[2]])
	assert.True(t, focusIDs[ids[3]])
	assert.True(t, focusIDs[ids[4]])
	assert.False(t, focusIDs[ids[0]])
	assert.False(t, focusIDs[ids[1]])
}

func TestAttentionValueStaysInBounds(t *testing.T) {
	g := graph.New(graph.DefaultConfig(), nil)
	cfg := ecan.DefaultConfig()
	e := ecan.New(g, cfg, nil, 7)

	id := newNamedNode(t, g, "a")
	require.NoError(t, e.Stimulate(id, 10000))

	for i := 0; i < 20; i++ {
		e.RunCycle(context.Background())
	}

	a, ok := g.Get(id)
	if ok {
		assert.GreaterOrEqual(t, a.AV.STI, cfg.MinSTI)
		assert.LessOrEqual(t, a.AV.STI, cfg.MaxSTI)
	}
}

func TestHebbianCreatesLinkAndRaisesStrength(t *testing.T) {
	g := graph.New(graph.DefaultConfig(), nil)
	cfg := ecan.DefaultConfig()
	e := ecan.New(g, cfg, nil, 3)

	a := newNamedNode(t, g, "a")
	b := newNamedNode(t, g, "b")

	require.NoError(t, e.Hebbian(a, b))
	links := g.ByType(atom.HebbianLink)
	require.Len(t, links, 1)
	first := links[0].TV.Strength

	require.NoError(t, e.Hebbian(b, a))
	links = g.ByType(atom.HebbianLink)
	require.Len(t, links, 1, "hebbian link is order-unordered, must not duplicate")
	assert.Greater(t, links[0].TV.Strength, first)
}

func TestRentDecrementsFocusSTIAndCreditsPool(t *testing.T) {
	g := graph.New(graph.DefaultConfig(), nil)
	cfg := ecan.DefaultConfig()
	e := ecan.New(g, cfg, nil, 5)

	id := newNamedNode(t, g, "a")
	require.NoError(t, e.Stimulate(id, 500))
	require.NoError(t, g.AddToFocus(id))

	poolBefore := e.STIPool()
	stats := e.RunCycle(context.Background())
	assert.Equal(t, 1, stats.Rent)
	assert.Greater(t, e.STIPool(), poolBefore)
}
