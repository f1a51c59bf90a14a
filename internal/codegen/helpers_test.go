package codegen_test

import (
	"strings"
	"testing"

	"vlower/internal/codegen"
	"vlower/internal/diag"
	"vlower/internal/elab"
	"vlower/internal/llhd"
)

type fixture struct {
	b      *elab.Builder
	bag    *diag.Bag
	module *llhd.Module
	ctx    *codegen.Context
}

func newFixture() *fixture {
	f := &fixture{
		b:      elab.NewBuilder(),
		bag:    diag.NewBag(100),
		module: llhd.NewModule(),
	}
	f.ctx = codegen.NewContext(f.b.Design(), f.module, diag.BagReporter{Bag: f.bag}, codegen.Options{})
	return f
}

// entity returns a builder positioned at the entry block of a fresh entity.
func entity(name string) *llhd.UnitBuilder {
	b := llhd.NewUnitBuilder(llhd.NewUnitData(llhd.UnitEntity, llhd.GlobalName(name), llhd.NewSignature()))
	b.AppendTo(b.NamedBlock("entry"))
	return b
}

func (f *fixture) expectDiag(t *testing.T, sev diag.Severity, code diag.Code, substr string) {
	t.Helper()
	items := f.bag.Items()
	if len(items) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d: %v", len(items), items)
	}
	d := items[0]
	if d.Severity != sev || d.Code != code || !strings.Contains(d.Message, substr) {
		t.Fatalf("unexpected diagnostic %s %s %q, want %s %s containing %q",
			d.Severity, d.Code.ID(), d.Message, sev, code.ID(), substr)
	}
}

func (f *fixture) expectNoDiags(t *testing.T) {
	t.Helper()
	if f.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", f.bag.Items())
	}
}

func dump(t *testing.T, u *llhd.UnitData) string {
	t.Helper()
	var sb strings.Builder
	if err := llhd.DumpUnit(&sb, u); err != nil {
		t.Fatal(err)
	}
	return sb.String()
}
