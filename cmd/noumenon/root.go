package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "noumenon",
	Short: "A cognitive knowledge substrate: graph + ECAN + PLN + scheduler",
	Long: "Noumenon hosts a typed hypergraph knowledge store, an economic " +
		"attention-allocation engine, a probabilistic inference engine, " +
		"and a plugin scheduler behind one in-process core.Instance per " +
		"conversation id.",
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(serveCycleCmd)
}
