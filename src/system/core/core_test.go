package core_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voodooEntity/noumenon/src/system/apperr"
	"github.com/voodooEntity/noumenon/src/system/atom"
	"github.com/voodooEntity/noumenon/src/system/core"
	"github.com/voodooEntity/noumenon/src/system/graph"
)

func TestAddKnowledgeConceptIsIdempotentByName(t *testing.T) {
	in := core.New("conv-1", core.DefaultConfig(), nil)

	a, err := in.AddKnowledge(core.AddKnowledgeRequest{
		Kind:    "concept",
		Content: map[string]string{"name": "Cat"},
	})
	require.NoError(t, err)
	assert.Equal(t, atom.ConceptNode, a.Type)

	b, err := in.AddKnowledge(core.AddKnowledgeRequest{
		Kind:    "concept",
		Content: map[string]string{"name": "Cat"},
	})
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
}

func TestAddKnowledgeFactBuildsEvaluationLink(t *testing.T) {
	in := core.New("conv-1", core.DefaultConfig(), nil)

	a, err := in.AddKnowledge(core.AddKnowledgeRequest{
		Kind: "fact",
		Content: map[string]string{
			"predicate": "likes",
			"subject":   "Alice",
			"object":    "Bob",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, atom.EvaluationLink, a.Type)
	require.Len(t, a.Outgoing, 2)
}

func TestAddKnowledgeRejectsUnknownKind(t *testing.T) {
	in := core.New("conv-1", core.DefaultConfig(), nil)
	_, err := in.AddKnowledge(core.AddKnowledgeRequest{
		Kind:    "nonsense",
		Content: map[string]string{"name": "x"},
	})
	assert.Error(t, err)
}

func TestAddKnowledgeRejectsMissingContent(t *testing.T) {
	in := core.New("conv-1", core.DefaultConfig(), nil)
	_, err := in.AddKnowledge(core.AddKnowledgeRequest{
		Kind:    "goal",
		Content: map[string]string{},
	})
	assert.Error(t, err)
}

func TestAddKnowledgeConceptWithoutNameGetsAnonymousName(t *testing.T) {
	in := core.New("conv-1", core.DefaultConfig(), nil)
	a, err := in.AddKnowledge(core.AddKnowledgeRequest{
		Kind:    "concept",
		Content: map[string]string{},
	})
	require.NoError(t, err)
	require.NotNil(t, a.Name)
	assert.NotEmpty(t, *a.Name)

	b, err := in.AddKnowledge(core.AddKnowledgeRequest{
		Kind:    "concept",
		Content: map[string]string{},
	})
	require.NoError(t, err)
	assert.NotEqual(t, *a.Name, *b.Name, "each anonymous concept gets a distinct name")
}

func TestQueryKnowledgeRespectsLimit(t *testing.T) {
	in := core.New("conv-1", core.DefaultConfig(), nil)
	for _, name := range []string{"A", "B", "C"} {
		_, err := in.AddKnowledge(core.AddKnowledgeRequest{Kind: "concept", Content: map[string]string{"name": name}})
		require.NoError(t, err)
	}
	results := in.QueryKnowledge(graph.WithType(atom.ConceptNode), core.QueryOptions{Limit: 2})
	assert.Len(t, results, 2)
}

func TestPerformInferenceOnEmptyGraphStopsAtOneIteration(t *testing.T) {
	in := core.New("conv-1", core.DefaultConfig(), nil)
	result := in.PerformInference(context.Background(), core.InferenceOptions{})
	assert.Equal(t, 1, result.Iterations)
	assert.Equal(t, 0, result.TotalInferences)
}

func TestStimulateAndGetFocus(t *testing.T) {
	in := core.New("conv-1", core.DefaultConfig(), nil)
	a, err := in.AddKnowledge(core.AddKnowledgeRequest{Kind: "concept", Content: map[string]string{"name": "A"}})
	require.NoError(t, err)

	require.NoError(t, in.Stimulate([]atom.ID{a.ID}, 50))
	in.ECAN.RunCycle(context.Background())

	focus := in.GetFocus()
	require.Len(t, focus, 1)
	assert.Equal(t, a.ID, focus[0].ID)
}

func TestGetInsightsReflectsFocusAndStatistics(t *testing.T) {
	in := core.New("conv-1", core.DefaultConfig(), nil)
	a, err := in.AddKnowledge(core.AddKnowledgeRequest{Kind: "concept", Content: map[string]string{"name": "A"}})
	require.NoError(t, err)
	require.NoError(t, in.Stimulate([]atom.ID{a.ID}, 50))
	in.ECAN.RunCycle(context.Background())

	insights := in.GetInsights(0)
	assert.Equal(t, 1, insights.Statistics.Total)
	require.Len(t, insights.TopFocus, 1)
	assert.Equal(t, uint64(1), insights.CyclesRun)
}

func TestStimulateRateGuardRejectsBurstOverflow(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.StimulateRatePerSecond = 1
	cfg.StimulateBurst = 1
	in := core.New("conv-1", cfg, nil)

	a, err := in.AddKnowledge(core.AddKnowledgeRequest{Kind: "concept", Content: map[string]string{"name": "A"}})
	require.NoError(t, err)

	require.NoError(t, in.Stimulate([]atom.ID{a.ID}, 10))
	err = in.Stimulate([]atom.ID{a.ID}, 10)
	assert.ErrorIs(t, err, apperr.ErrRateLimited)
}

func TestStimulateWithoutRateGuardConfiguredIsUnbounded(t *testing.T) {
	in := core.New("conv-1", core.DefaultConfig(), nil)
	a, err := in.AddKnowledge(core.AddKnowledgeRequest{Kind: "concept", Content: map[string]string{"name": "A"}})
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		require.NoError(t, in.Stimulate([]atom.ID{a.ID}, 1))
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	in := core.New("conv-1", core.DefaultConfig(), nil)
	assert.NoError(t, in.Shutdown())
	assert.NoError(t, in.Shutdown())
}
