// Package codegen lowers elaborated VHDL HIR into LLHD units.
//
// Lowering is depth-first and single-threaded. Every lowering call receives
// the builder cursor of the unit it appends to; process statements spawn
// their own unit, which is registered in the module only once its body is
// complete.
package codegen

import (
	"vlower/internal/diag"
	"vlower/internal/hir"
	"vlower/internal/konst"
	"vlower/internal/llhd"
	"vlower/internal/source"
	"vlower/internal/trace"
	"vlower/internal/ty"
)

// Scope is the view of elaboration results lowering consumes. Lookups fail
// for nodes that were never elaborated.
type Scope interface {
	Signal(id hir.NodeID) (*hir.SignalDecl, error)
	Process(id hir.NodeID) (*hir.ProcessStmt, error)
	TypeDecl(id hir.NodeID) (*hir.TypeDecl, error)
	// Span locates a node for diagnostics, source.NoSpan if unknown.
	Span(id hir.NodeID) source.Span

	Types() *ty.Table
	Deref(id ty.TypeID) (ty.TypeID, error)
	TypeOf(id hir.NodeID) (ty.TypeID, error)
	ConstValue(id hir.NodeID) (konst.Const, error)
	DefaultValue(id ty.TypeID) (konst.Const, error)
}

// Options tune a Context.
type Options struct {
	// Tracer receives node-level events; nil means trace.Nop.
	Tracer trace.Tracer
	// Parent is the span id node events are attached to.
	Parent uint64
	// Committed holds units from earlier design units. Names taken there
	// are as unavailable as names in the module being built.
	Committed *llhd.Module
}

// Context carries everything lowering needs besides the builder cursor.
type Context struct {
	scope     Scope
	module    *llhd.Module
	committed *llhd.Module
	reporter  diag.Reporter
	tracer    trace.Tracer
	parent    uint64
}

// NewContext binds lowering to scope, the module receiving finished units and
// the diagnostic sink.
func NewContext(scope Scope, module *llhd.Module, reporter diag.Reporter, opts Options) *Context {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Context{
		scope:     scope,
		module:    module,
		committed: opts.Committed,
		reporter:  reporter,
		tracer:    tracer,
		parent:    opts.Parent,
	}
}

// Module returns the module finished units are registered in.
func (c *Context) Module() *llhd.Module { return c.module }

// unitDefined reports whether name is taken in the module or among the
// committed units.
func (c *Context) unitDefined(name llhd.UnitName) bool {
	if c.module.Has(name) {
		return true
	}
	return c.committed != nil && c.committed.Has(name)
}

func (c *Context) point(name, detail string) {
	trace.Point(c.tracer, trace.ScopeNode, name, detail, c.parent)
}
