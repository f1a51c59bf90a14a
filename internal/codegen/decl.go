package codegen

import (
	"fmt"

	"vlower/internal/hir"
	"vlower/internal/konst"
	"vlower/internal/llhd"
	"vlower/internal/ty"
)

// LowerDecl lowers a declarative item into the unit under b.
func (c *Context) LowerDecl(ref hir.DeclRef, b *llhd.UnitBuilder) error {
	switch ref.Kind {
	// Purely declarative; nothing to emit.
	case hir.DeclType, hir.DeclSubtype, hir.DeclAlias,
		hir.DeclAttr, hir.DeclAttrSpec, hir.DeclCfgSpec, hir.DeclDiscon,
		hir.DeclGroupTemp, hir.DeclGroup:
		return nil

	// Would produce units of their own.
	case hir.DeclSubprog, hir.DeclSubprogBody, hir.DeclSubprogInst,
		hir.DeclPkg, hir.DeclPkgBody, hir.DeclPkgInst, hir.DeclComp:
		return c.unimplemented(ref.Kind.String(), c.scope.Span(ref.ID))

	// Would emit into the current unit.
	case hir.DeclConst, hir.DeclVar, hir.DeclFile:
		return c.unimplemented(ref.Kind.String(), c.scope.Span(ref.ID))

	case hir.DeclSignal:
		return c.lowerSignalDecl(ref.ID, b)
	}
	return c.defect(c.scope.Span(ref.ID), "unknown declaration kind %d", ref.Kind)
}

// lowerSignalDecl emits the initial value followed by the signal itself.
func (c *Context) lowerSignalDecl(id hir.NodeID, b *llhd.UnitBuilder) error {
	decl, err := c.scope.Signal(id)
	if err != nil {
		return c.defect(c.scope.Span(id), "signal declaration #%d: %v", id, err)
	}
	typ, err := c.scope.TypeOf(id)
	if err != nil {
		return c.queryFailed(decl.Span, fmt.Sprintf("type of signal `%s`", decl.Name), err)
	}

	init, err := c.signalInit(decl, typ)
	if err != nil {
		return err
	}
	c.point("signal", fmt.Sprintf("%s: %s := %s", decl.Name, c.scope.Types().Display(typ), init))

	k, err := c.MapConst(b, init)
	if err != nil {
		return err
	}
	sig := b.Ins().Sig(k)
	b.SetName(sig, decl.Name.Value)
	return nil
}

func (c *Context) signalInit(decl *hir.SignalDecl, typ ty.TypeID) (konst.Const, error) {
	if decl.Init.IsValid() {
		k, err := c.scope.ConstValue(decl.Init)
		if err != nil {
			return konst.Const{}, c.queryFailed(c.scope.Span(decl.Init), fmt.Sprintf("initial value of signal `%s`", decl.Name), err)
		}
		return k, nil
	}
	k, err := c.scope.DefaultValue(typ)
	if err != nil {
		return konst.Const{}, c.queryFailed(decl.Span, fmt.Sprintf("default value of signal `%s`", decl.Name), err)
	}
	return k, nil
}
