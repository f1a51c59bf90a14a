package codegen_test

import (
	"errors"
	"testing"

	"vlower/internal/codegen"
	"vlower/internal/diag"
	"vlower/internal/hir"
)

func TestLowerConcStmtKinds(t *testing.T) {
	for _, kind := range hir.AllConcStmtKinds() {
		if kind == hir.ConcProcess {
			continue
		}
		t.Run(kind.String(), func(t *testing.T) {
			f := newFixture()
			b := entity("top")
			err := f.ctx.LowerConcStmt(f.b.Conc(kind), b)
			if !errors.Is(err, codegen.ErrNotImplemented) {
				t.Fatalf("expected ErrNotImplemented, got %v", err)
			}
			f.expectDiag(t, diag.SevBug, diag.CgNotImplemented, "code generation for `"+kind.String()+"` not implemented")
			if b.Unit().InstCount() != 0 || f.module.Len() != 0 {
				t.Fatal("unimplemented statement must not emit anything")
			}
		})
	}
}

func TestLowerSeqStmtKinds(t *testing.T) {
	for _, kind := range hir.AllSeqStmtKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			f := newFixture()
			b := entity("top")
			err := f.ctx.LowerSeqStmt(f.b.Seq(kind), b)
			if kind == hir.SeqNull {
				if err != nil {
					t.Fatalf("null statement: %v", err)
				}
				f.expectNoDiags(t)
				return
			}
			if !errors.Is(err, codegen.ErrNotImplemented) {
				t.Fatalf("expected ErrNotImplemented, got %v", err)
			}
			f.expectDiag(t, diag.SevBug, diag.CgNotImplemented, "`"+kind.String()+"`")
		})
	}
}

func TestLowerUnknownKindIsDefect(t *testing.T) {
	f := newFixture()
	err := f.ctx.LowerConcStmt(hir.ConcStmtRef{Kind: hir.ConcStmtKind(200), ID: f.b.Conc(hir.ConcBlock).ID}, entity("top"))
	var defect *codegen.DefectError
	if !errors.As(err, &defect) {
		t.Fatalf("expected defect, got %v", err)
	}
}
