package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/affine-ml/affine/launch"
)

// runLaunch reads the scheduler allocation from the environment, derives
// the rendezvous, and spawns one training worker per local device.
// Arguments after -- are passed through to the worker entry point; the
// default worker is this binary running `affine train`.
func runLaunch(cmd *cobra.Command, args []string) error {
	alloc, err := launch.AllocationFromEnv(os.Getenv)
	if err != nil {
		return err
	}

	entry := launchEntry
	if entry == "" {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolving worker entry point: %w", err)
		}
		entry = exe
	}
	workerArgs := args
	if len(workerArgs) == 0 {
		workerArgs = []string{"train"}
	}

	spec := launch.SpecFromAllocation(alloc, launchProcs, entry, workerArgs)

	if launchPrint {
		fmt.Println(strings.Join(launch.BuildArgs(spec), " "))
		return nil
	}
	if err := spec.Validate(); err != nil {
		return err
	}

	logger, err := buildLogger("")
	if err != nil {
		return err
	}

	// SIGINT/SIGTERM cancel the context, which kills the workers; scancel
	// and Ctrl-C both tear the whole group down.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	launcher := &launch.Launcher{Spec: spec, Logger: logger}
	return launcher.Run(ctx)
}
