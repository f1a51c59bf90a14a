package hir

import (
	"fmt"

	"fortio.org/safecast"

	"vlower/internal/source"
)

// Arena owns all elaborated nodes of a design. Nodes without a dedicated
// payload (expressions, not-yet-modelled declarations and statements) are
// still allocated so they carry a span.
type Arena struct {
	spans     []source.Span
	signals   map[NodeID]*SignalDecl
	processes map[NodeID]*ProcessStmt
	typeDecls map[NodeID]*TypeDecl
}

// NewArena returns an empty arena; NodeID 0 is reserved.
func NewArena() *Arena {
	return &Arena{
		spans:     []source.Span{{}},
		signals:   make(map[NodeID]*SignalDecl),
		processes: make(map[NodeID]*ProcessStmt),
		typeDecls: make(map[NodeID]*TypeDecl),
	}
}

// NewNode allocates a payload-less node.
func (a *Arena) NewNode(span source.Span) NodeID {
	n, err := safecast.Conv[uint32](len(a.spans))
	if err != nil {
		panic(fmt.Errorf("hir: node arena overflow: %w", err))
	}
	a.spans = append(a.spans, span)
	return NodeID(n)
}

// Len returns the number of allocated nodes, sentinel excluded.
func (a *Arena) Len() int { return len(a.spans) - 1 }

// Has reports whether id was allocated by this arena.
func (a *Arena) Has(id NodeID) bool {
	return id.IsValid() && int(id) < len(a.spans)
}

// Span returns the node's span, or source.NoSpan for unknown ids.
func (a *Arena) Span(id NodeID) source.Span {
	if !a.Has(id) {
		return source.NoSpan
	}
	return a.spans[id]
}

func (a *Arena) AddSignal(d *SignalDecl) DeclRef {
	id := a.NewNode(d.Span)
	a.signals[id] = d
	return DeclRef{Kind: DeclSignal, ID: id}
}

func (a *Arena) Signal(id NodeID) (*SignalDecl, bool) {
	d, ok := a.signals[id]
	return d, ok
}

func (a *Arena) AddProcess(p *ProcessStmt) ConcStmtRef {
	id := a.NewNode(p.Span)
	a.processes[id] = p
	return ConcStmtRef{Kind: ConcProcess, ID: id}
}

func (a *Arena) Process(id NodeID) (*ProcessStmt, bool) {
	p, ok := a.processes[id]
	return p, ok
}

func (a *Arena) AddTypeDecl(d *TypeDecl) DeclRef {
	id := a.NewNode(d.Span)
	a.typeDecls[id] = d
	return DeclRef{Kind: DeclType, ID: id}
}

func (a *Arena) TypeDecl(id NodeID) (*TypeDecl, bool) {
	d, ok := a.typeDecls[id]
	return d, ok
}

// Each calls fn for every allocated node in allocation order.
func (a *Arena) Each(fn func(id NodeID, span source.Span)) {
	for i := 1; i < len(a.spans); i++ {
		fn(NodeID(i), a.spans[i]) //nolint:gosec // bounded by NewNode
	}
}
