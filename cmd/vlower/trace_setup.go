package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vlower/internal/trace"
)

// setupTracing creates the tracer described by the effective settings and
// attaches it to the command context. The returned cleanup flushes it; with
// failed set, a ring tracer is dumped to stderr first.
func setupTracing(cmd *cobra.Command, s *settings) (func(failed bool), error) {
	ringSize, err := cmd.Root().PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	level, err := trace.ParseLevel(s.cfg.Trace.Level)
	if err != nil {
		return nil, err
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func(bool) {}, nil
	}
	mode, err := trace.ParseMode(s.cfg.Trace.Mode)
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: s.cfg.Trace.Output,
		RingSize:   ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	return func(failed bool) {
		if failed {
			dumpRing(tracer)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}

func dumpRing(t trace.Tracer) {
	var ring *trace.RingTracer
	switch tt := t.(type) {
	case *trace.RingTracer:
		ring = tt
	case *trace.MultiTracer:
		ring = tt.Ring()
	}
	if ring == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "trace: last events before failure:")
	_ = ring.Dump(os.Stderr, trace.FormatText) //nolint:errcheck
}

// mergeTracer carries the tracer of the command context over to ctx, which
// may have been derived before tracing was set up.
func mergeTracer(ctx, cmdCtx context.Context) context.Context {
	return trace.WithTracer(ctx, trace.FromContext(cmdCtx))
}
