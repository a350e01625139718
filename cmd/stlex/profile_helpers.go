package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stlex/internal/prof"
)

// setupProfiling starts the profilers requested by persistent flags.
// The returned stop function is safe to call multiple times.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()

	var opts prof.Options
	var err error
	if opts.CPU, err = root.PersistentFlags().GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = root.PersistentFlags().GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = root.PersistentFlags().GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}

	session, err := prof.Start(opts)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profiling: %v\n", err)
		}
	}, nil
}

// beginCommand starts profiling and tracing for a command run. The returned
// function must be called with the command's error when it returns.
func beginCommand(cmd *cobra.Command) (func(runErr error), error) {
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return nil, err
	}
	finishTracing, err := setupTracing(cmd)
	if err != nil {
		stopProfiling()
		return nil, err
	}
	return func(runErr error) {
		finishTracing(runErr)
		stopProfiling()
	}, nil
}
