package elab

import (
	"vlower/internal/hir"
	"vlower/internal/konst"
	"vlower/internal/source"
	"vlower/internal/ty"
)

// Builder assembles designs programmatically. Every node gets a distinct
// synthetic span in file 1 so diagnostics can be told apart.
type Builder struct {
	d      *Design
	offset uint32
}

func NewBuilder() *Builder {
	return &Builder{d: NewDesign()}
}

// Design returns the design built so far.
func (b *Builder) Design() *Design { return b.d }

// Types exposes the type table for adding types directly.
func (b *Builder) Types() *ty.Table { return b.d.Table }

func (b *Builder) span() source.Span {
	start := b.offset
	b.offset += 10
	return source.Span{File: 1, Start: start, End: start + 9}
}

// Enum declares an enumeration type with the given literals. Literals of
// the form 'x' become character literals.
func (b *Builder) Enum(name string, literals ...string) (hir.DeclRef, ty.TypeID) {
	sp := b.span()
	lits := make([]hir.EnumLit, 0, len(literals))
	for _, l := range literals {
		if len(l) == 3 && l[0] == '\'' && l[2] == '\'' {
			lits = append(lits, hir.EnumLit{Char: rune(l[1])})
			continue
		}
		lits = append(lits, hir.EnumLit{Name: hir.NewIdent(l, sp)})
	}
	ref := b.d.Arena.AddTypeDecl(&hir.TypeDecl{
		Name: hir.NewIdent(name, sp),
		Span: sp,
		Data: &hir.TypeData{Kind: hir.TypeDataEnum, Literals: lits},
	})
	return ref, b.d.Table.Enum(name, ref.ID)
}

// IncompleteType declares a type without definition, as in `type t;`.
func (b *Builder) IncompleteType(name string) hir.DeclRef {
	sp := b.span()
	return b.d.Arena.AddTypeDecl(&hir.TypeDecl{Name: hir.NewIdent(name, sp), Span: sp})
}

// Signal declares a signal of type t, initialized by init when non-nil.
func (b *Builder) Signal(name string, t ty.TypeID, init *konst.Const) hir.DeclRef {
	sp := b.span()
	decl := &hir.SignalDecl{Name: hir.NewIdent(name, sp), Span: sp}
	if init != nil {
		decl.Init = b.Expr(*init)
	}
	ref := b.d.Arena.AddSignal(decl)
	b.d.SetTypeOf(ref.ID, t)
	return ref
}

// Expr allocates a static expression node folding to k.
func (b *Builder) Expr(k konst.Const) hir.NodeID {
	id := b.d.Arena.NewNode(b.span())
	b.d.SetConst(id, k)
	return id
}

// Decl allocates a declaration node without payload.
func (b *Builder) Decl(kind hir.DeclKind) hir.DeclRef {
	return hir.DeclRef{Kind: kind, ID: b.d.Arena.NewNode(b.span())}
}

// Conc allocates a concurrent statement node without payload.
func (b *Builder) Conc(kind hir.ConcStmtKind) hir.ConcStmtRef {
	return hir.ConcStmtRef{Kind: kind, ID: b.d.Arena.NewNode(b.span())}
}

// Seq allocates a sequential statement node without payload.
func (b *Builder) Seq(kind hir.SeqStmtKind) hir.SeqStmtRef {
	return hir.SeqStmtRef{Kind: kind, ID: b.d.Arena.NewNode(b.span())}
}

// Process adds a process statement; an empty label leaves it unlabelled.
func (b *Builder) Process(label string, decls []hir.DeclRef, stmts ...hir.SeqStmtRef) hir.ConcStmtRef {
	sp := b.span()
	p := &hir.ProcessStmt{Span: sp, Decls: decls, Stmts: stmts}
	if label != "" {
		id := hir.NewIdent(label, sp)
		p.Label = &id
	}
	return b.d.Arena.AddProcess(p)
}

// Unit adds an architecture of entity to the design.
func (b *Builder) Unit(entity, arch string, decls []hir.DeclRef, stmts ...hir.ConcStmtRef) *hir.DesignUnit {
	sp := b.span()
	u := &hir.DesignUnit{
		Entity: hir.NewIdent(entity, sp),
		Arch:   hir.NewIdent(arch, sp),
		Span:   sp,
		Decls:  decls,
		Stmts:  stmts,
	}
	b.d.Units = append(b.d.Units, u)
	return u
}

