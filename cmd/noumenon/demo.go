package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/voodooEntity/noumenon/src/system/atom"
	"github.com/voodooEntity/noumenon/src/system/core"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Add a small knowledge base and run PLN inference (up to five passes)",
	RunE:  runDemo,
}

func runDemo(cmd *cobra.Command, args []string) error {
	in := core.New(uuid.NewString(), loadConfig(), nil)
	defer in.Shutdown()

	ctx := context.Background()

	a, err := in.AddKnowledge(core.AddKnowledgeRequest{
		Kind:    "rule",
		Content: map[string]string{"if": "A", "then": "B"},
		TV:      &atom.TruthValue{Strength: 0.9, Confidence: 0.8},
	})
	if err != nil {
		return err
	}
	b, err := in.AddKnowledge(core.AddKnowledgeRequest{
		Kind:    "rule",
		Content: map[string]string{"if": "B", "then": "C"},
		TV:      &atom.TruthValue{Strength: 0.7, Confidence: 0.6},
	})
	if err != nil {
		return err
	}
	fmt.Printf("seeded %s (id %d) and %s (id %d)\n", a.Type, a.ID, b.Type, b.ID)

	result := in.PerformInference(ctx, core.InferenceOptions{MaxIterations: 5})
	fmt.Printf("ran %d iteration(s), produced %d inference(s)\n", result.Iterations, result.TotalInferences)
	for _, inf := range result.Results {
		fmt.Printf("  %s: %d,%d -> %d  tv=(%.4f, %.4f)\n", inf.Rule, inf.PremiseA, inf.PremiseB, inf.ConclusionID, inf.TV.Strength, inf.TV.Confidence)
	}

	stats := in.GetStatistics()
	fmt.Printf("graph: %d atoms (%d nodes, %d links)\n", stats.Total, stats.Nodes, stats.Links)
	return nil
}
