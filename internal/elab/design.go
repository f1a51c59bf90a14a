// Package elab holds the results of elaboration in memory: the HIR arena,
// the type table and the per-node type and constant values lowering
// queries. Designs are assembled with Builder or read from a HIR pack.
package elab

import (
	"fmt"

	"vlower/internal/hir"
	"vlower/internal/konst"
	"vlower/internal/source"
	"vlower/internal/ty"
)

// Design is an elaborated design ready for lowering.
type Design struct {
	Arena *hir.Arena
	Table *ty.Table
	Units []*hir.DesignUnit

	typevals map[hir.NodeID]ty.TypeID
	consts   map[hir.NodeID]konst.Const
}

// NewDesign returns an empty design.
func NewDesign() *Design {
	return &Design{
		Arena:    hir.NewArena(),
		Table:    ty.NewTable(),
		typevals: make(map[hir.NodeID]ty.TypeID),
		consts:   make(map[hir.NodeID]konst.Const),
	}
}

// SetTypeOf records the type of a node.
func (d *Design) SetTypeOf(id hir.NodeID, t ty.TypeID) { d.typevals[id] = t }

// SetConst records the folded value of an expression node.
func (d *Design) SetConst(id hir.NodeID, k konst.Const) { d.consts[id] = k }

// Unit finds a design unit by entity name.
func (d *Design) Unit(entity string) (*hir.DesignUnit, bool) {
	folded := hir.NewIdent(entity, source.NoSpan).Value
	for _, u := range d.Units {
		if u.Entity.Value == folded {
			return u, true
		}
	}
	return nil, false
}

func (d *Design) Signal(id hir.NodeID) (*hir.SignalDecl, error) {
	if s, ok := d.Arena.Signal(id); ok {
		return s, nil
	}
	return nil, fmt.Errorf("elab: node #%d is not an elaborated signal declaration", id)
}

func (d *Design) Process(id hir.NodeID) (*hir.ProcessStmt, error) {
	if p, ok := d.Arena.Process(id); ok {
		return p, nil
	}
	return nil, fmt.Errorf("elab: node #%d is not an elaborated process statement", id)
}

func (d *Design) TypeDecl(id hir.NodeID) (*hir.TypeDecl, error) {
	if td, ok := d.Arena.TypeDecl(id); ok {
		return td, nil
	}
	return nil, fmt.Errorf("elab: node #%d is not an elaborated type declaration", id)
}

func (d *Design) Span(id hir.NodeID) source.Span { return d.Arena.Span(id) }

func (d *Design) Types() *ty.Table { return d.Table }

func (d *Design) Deref(id ty.TypeID) (ty.TypeID, error) { return d.Table.Deref(id) }

// TypeOf returns the type recorded for a node.
func (d *Design) TypeOf(id hir.NodeID) (ty.TypeID, error) {
	if t, ok := d.typevals[id]; ok {
		return t, nil
	}
	return ty.NoTypeID, fmt.Errorf("elab: no type recorded for node #%d", id)
}

// ConstValue returns the folded value of a static expression.
func (d *Design) ConstValue(id hir.NodeID) (konst.Const, error) {
	if k, ok := d.consts[id]; ok {
		return k, nil
	}
	return konst.Const{}, fmt.Errorf("elab: node #%d is not a static expression", id)
}

// DefaultValue returns the implicit initial value of objects of type t.
func (d *Design) DefaultValue(t ty.TypeID) (konst.Const, error) {
	return konst.Default(d.Table, t)
}
