package codegen

import (
	"vlower/internal/hir"
	"vlower/internal/llhd"
)

// LowerConcStmt lowers a concurrent statement of an architecture body.
func (c *Context) LowerConcStmt(ref hir.ConcStmtRef, b *llhd.UnitBuilder) error {
	switch ref.Kind {
	case hir.ConcProcess:
		return c.lowerProcess(ref.ID, b)
	case hir.ConcBlock, hir.ConcProcCall, hir.ConcAssert, hir.ConcSigAssign,
		hir.ConcCompInst, hir.ConcForGen, hir.ConcIfGen, hir.ConcCaseGen:
		return c.unimplemented(ref.Kind.String(), c.scope.Span(ref.ID))
	}
	return c.defect(c.scope.Span(ref.ID), "unknown concurrent statement kind %d", ref.Kind)
}

// LowerSeqStmt lowers a sequential statement of a process body.
func (c *Context) LowerSeqStmt(ref hir.SeqStmtRef, b *llhd.UnitBuilder) error {
	switch ref.Kind {
	case hir.SeqNull:
		return nil
	case hir.SeqWait, hir.SeqAssert, hir.SeqReport, hir.SeqSigAssign, hir.SeqVarAssign,
		hir.SeqProcCall, hir.SeqIf, hir.SeqCase, hir.SeqLoop, hir.SeqNext, hir.SeqExit, hir.SeqReturn:
		return c.unimplemented(ref.Kind.String(), c.scope.Span(ref.ID))
	}
	return c.defect(c.scope.Span(ref.ID), "unknown sequential statement kind %d", ref.Kind)
}
