package driver

import (
	"context"
	"errors"
	"fmt"

	"vlower/internal/codegen"
	"vlower/internal/diag"
	"vlower/internal/elab"
	"vlower/internal/hir"
	"vlower/internal/llhd"
	"vlower/internal/observ"
	"vlower/internal/source"
	"vlower/internal/trace"
)

// Options controls how a design is lowered.
type Options struct {
	// KeepGoing lowers the remaining design units after one fails.
	KeepGoing bool
	// MaxDiagnostics caps the diagnostics collected per design.
	MaxDiagnostics int
	// Jobs bounds the number of packs lowered concurrently; <= 0 means GOMAXPROCS.
	Jobs int
	// Top restricts lowering to the named entities; empty means all.
	Top []string
	// Progress receives per-pack events from LowerPacks; nil disables them.
	Progress ProgressSink
}

// Result is the outcome of lowering one design.
type Result struct {
	Module  *llhd.Module
	Bag     *diag.Bag
	Lowered []string
	Failed  []string
	Timing  observ.Report
}

// LowerUnit lowers one design unit into out. Units are first built in a
// staging module that is committed only when the whole design unit lowered,
// so a failure leaves out untouched.
func LowerUnit(ctx context.Context, scope codegen.Scope, top *hir.DesignUnit, out *llhd.Module, reporter diag.Reporter) error {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeUnit, "unit:"+top.Entity.Value, 0)

	err := lowerUnit(scope, top, out, reporter, tracer, span.ID())
	if err != nil {
		span.End("failed")
		return err
	}
	span.End("")
	return nil
}

func lowerUnit(scope codegen.Scope, top *hir.DesignUnit, out *llhd.Module, reporter diag.Reporter, tracer trace.Tracer, parent uint64) error {
	name := llhd.GlobalName(top.Entity.Value)
	if out.Has(name) {
		diag.ReportError(reporter, diag.CgUnitRedefined, top.Span,
			fmt.Sprintf("unit `%s` is already defined", name)).Emit()
		return codegen.ErrReported
	}

	staging := llhd.NewModule()
	cg := codegen.NewContext(scope, staging, reporter, codegen.Options{
		Tracer:    tracer,
		Parent:    parent,
		Committed: out,
	})

	unit := llhd.NewUnitData(llhd.UnitEntity, name, llhd.NewSignature())
	b := llhd.NewUnitBuilder(unit)
	b.AppendTo(b.NamedBlock("entry"))

	for _, d := range top.Decls {
		if err := cg.LowerDecl(d, b); err != nil {
			return err
		}
	}
	for _, s := range top.Stmts {
		if err := cg.LowerConcStmt(s, b); err != nil {
			return err
		}
	}

	if err := staging.AddUnit(unit); err != nil {
		diag.ReportError(reporter, diag.CgUnitRedefined, top.Span,
			fmt.Sprintf("unit `%s` is already defined", name)).Emit()
		return codegen.ErrReported
	}
	if err := out.Commit(staging); err != nil {
		return fmt.Errorf("driver: commit %s: %w", name, err)
	}
	return nil
}

// LowerDesign lowers every selected design unit of d into a fresh module and
// validates the result. The returned error is non-nil when a unit failed or
// ctx was cancelled; Result is always usable.
func LowerDesign(ctx context.Context, d *elab.Design, opts Options) (*Result, error) {
	res := &Result{
		Module: llhd.NewModule(),
		Bag:    diag.NewBag(opts.MaxDiagnostics),
	}
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	tracer := trace.FromContext(ctx)
	timer := observ.NewTimer()
	defer func() { res.Timing = timer.Report() }()

	units, err := selectUnits(d, opts.Top, reporter)
	if err != nil {
		return res, err
	}

	pass := trace.Begin(tracer, trace.ScopePass, "lower", 0)
	var errs []error
	lowerErr := timer.Measure("lower", func() (string, error) {
		for _, u := range units {
			if err := ctx.Err(); err != nil {
				return "cancelled", err
			}
			if err := LowerUnit(ctx, d, u, res.Module, reporter); err != nil {
				res.Failed = append(res.Failed, u.Entity.Value)
				errs = append(errs, fmt.Errorf("%s: %w", u.Entity.Value, err))
				if !opts.KeepGoing {
					break
				}
				continue
			}
			res.Lowered = append(res.Lowered, u.Entity.Value)
		}
		return fmt.Sprintf("%d lowered, %d failed", len(res.Lowered), len(res.Failed)), nil
	})
	if n := reporter.Suppressed(); n > 0 {
		trace.Point(tracer, trace.ScopePass, "dedup", fmt.Sprintf("%d duplicate diagnostics", n), pass.ID())
	}
	pass.End(fmt.Sprintf("%d units", res.Module.Len()))
	if lowerErr != nil {
		return res, lowerErr
	}

	_ = timer.Measure("validate", func() (string, error) { //nolint:errcheck
		if err := llhd.Validate(res.Module); err != nil {
			diag.ReportBug(reporter, diag.CgInternalDefect, source.NoSpan, err.Error()).Emit()
			errs = append(errs, &codegen.DefectError{Msg: err.Error()})
			return "invalid", nil
		}
		return "", nil
	})

	if len(errs) > 0 {
		return res, fmt.Errorf("driver: lowering failed (%d of %d design units): %w", len(res.Failed), len(units), errors.Join(errs...))
	}
	return res, nil
}

func selectUnits(d *elab.Design, top []string, reporter diag.Reporter) ([]*hir.DesignUnit, error) {
	if len(top) == 0 {
		return d.Units, nil
	}
	units := make([]*hir.DesignUnit, 0, len(top))
	var missing []string
	for _, name := range top {
		u, ok := d.Unit(name)
		if !ok {
			diag.ReportError(reporter, diag.PckUnknownDesign, source.NoSpan, fmt.Sprintf("no design unit for entity `%s`", name)).Emit()
			missing = append(missing, name)
			continue
		}
		units = append(units, u)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("driver: unknown design units %v", missing)
	}
	return units, nil
}
