package driver

import (
	"context"
	"errors"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"vlower/internal/diag"
	"vlower/internal/elab"
	"vlower/internal/llhd"
	"vlower/internal/source"
)

// PackResult is the outcome of lowering one HIR pack file.
type PackResult struct {
	Path   string
	Result *Result
	// Err is the load or lowering failure of this pack.
	Err error
}

// LowerPacks loads and lowers independent HIR packs concurrently, each into
// its own module. A failing pack does not stop its siblings; only context
// cancellation is returned as an error. Results keep the order of paths.
func LowerPacks(ctx context.Context, paths []string, opts Options) ([]PackResult, error) {
	results := make([]PackResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	for _, path := range paths {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// индексы уникальны для каждой горутины, мьютекс не нужен
			results[i] = LowerPack(gctx, path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// LowerPack loads one HIR pack and lowers it. Load failures are turned into
// diagnostics so callers can report every pack uniformly.
func LowerPack(ctx context.Context, path string, opts Options) PackResult {
	start := time.Now()
	emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})
	d, err := elab.LoadFile(path)
	if err != nil {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		return PackResult{Path: path, Result: loadFailure(err, opts), Err: err}
	}

	emit(opts.Progress, Event{File: path, Stage: StageLower, Status: StatusWorking, Elapsed: time.Since(start)})
	res, err := LowerDesign(ctx, d, opts)
	status := StatusDone
	if err != nil {
		status = StatusError
	}
	emit(opts.Progress, Event{File: path, Stage: StageLower, Status: status, Err: err, Elapsed: time.Since(start)})
	return PackResult{Path: path, Result: res, Err: err}
}

func loadFailure(err error, opts Options) *Result {
	res := &Result{Module: llhd.NewModule(), Bag: diag.NewBag(opts.MaxDiagnostics)}
	reporter := diag.BagReporter{Bag: res.Bag}
	var pe *elab.PackError
	if errors.As(err, &pe) {
		// Joined pack errors carry one diagnostic each.
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				if errors.As(e, &pe) {
					diag.ReportError(reporter, pe.Code, source.NoSpan, pe.Msg).Emit()
				}
			}
			return res
		}
		diag.ReportError(reporter, pe.Code, source.NoSpan, pe.Msg).Emit()
		return res
	}
	diag.ReportError(reporter, diag.PckBadFormat, source.NoSpan, err.Error()).Emit()
	return res
}
