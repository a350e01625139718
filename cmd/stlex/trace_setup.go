package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stlex/internal/trace"
)

// setupTracing inspects trace-related flags and attaches a tracer to the
// command context. The returned finish function flushes the tracer and, when
// runErr is non-nil, dumps the ring buffer to stderr.
func setupTracing(cmd *cobra.Command) (func(runErr error), error) {
	root := cmd.Root()

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	// --trace without a level means "detail"
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelDetail
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func(error) {}, nil
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: traceOutput,
		RingSize:   ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	cmdSpan := trace.Begin(tracer, trace.ScopeDriver, cmd.Name(), 0)
	ctx := trace.WithTracer(cmd.Context(), tracer)
	ctx = trace.WithSpan(ctx, cmdSpan)
	cmd.SetContext(ctx)

	finish := func(runErr error) {
		if runErr != nil {
			cmdSpan.End("error: " + runErr.Error())
			if ring, ok := trace.RingOf(tracer); ok {
				fmt.Fprintln(cmd.ErrOrStderr(), "trace: last events before failure:")
				if err := ring.Dump(cmd.ErrOrStderr(), trace.FormatText); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
				}
			}
		} else {
			cmdSpan.End("")
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return finish, nil
}
