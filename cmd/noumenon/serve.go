package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/voodooEntity/noumenon/src/system/core"
)

var serveCycleCmd = &cobra.Command{
	Use:   "serve-cycle",
	Short: "Start one instance's scheduler and print cycle events until interrupted",
	RunE:  runServeCycle,
}

func runServeCycle(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	in := core.New(uuid.NewString(), cfg, nil)
	defer in.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in.Run(ctx)
	fmt.Fprintf(os.Stderr, "noumenon serving instance %s, cycle interval %s\n", in.ID, cfg.Scheduler.CycleInterval)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case ev := <-in.Scheduler.Events():
			fmt.Printf("cycle %d: queue=%d running=%d\n", ev.Cycle, ev.QueueSize, ev.RunningCount)
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\nshutting down...")
			return in.Shutdown()
		case <-time.After(30 * time.Second):
			fmt.Fprintln(os.Stderr, "no activity in 30s, shutting down")
			return in.Shutdown()
		}
	}
}
