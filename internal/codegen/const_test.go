package codegen_test

import (
	"errors"
	"math/big"
	"testing"

	"vlower/internal/codegen"
	"vlower/internal/diag"
	"vlower/internal/konst"
	"vlower/internal/llhd"
	"vlower/internal/ty"
)

func TestMapConst(t *testing.T) {
	f := newFixture()
	tab := f.b.Types()
	_, state := f.b.Enum("state", "idle", "run", "done", "halt", "wait")
	stateDecl, _ := tab.Lookup(state)
	byte8 := tab.Int(0, ty.DirTo, 255)

	tests := []struct {
		name string
		k    konst.Const
		want string
	}{
		{"null", konst.Null(), "const i0 0"},
		{"int with subtype", konst.IntFrom(5, byte8), "const i8 5"},
		{"int via alias", konst.IntFrom(3, tab.Named("octet", byte8)), "const i8 3"},
		{"int without subtype", konst.IntFrom(5, ty.NoTypeID), "const i3 5"},
		{"zero without subtype", konst.IntFrom(0, ty.NoTypeID), "const i1 0"},
		{"enum", konst.Enum(stateDecl.Decl, 2), "const i5 2"},
		{"offset subtype low", konst.IntFrom(5, tab.Int(5, ty.DirTo, 10)), "const i3 0"},
		{"offset subtype high", konst.IntFrom(10, tab.Int(5, ty.DirTo, 10)), "const i3 5"},
		{"downto subtype left", konst.IntFrom(10, tab.Int(10, ty.DirDownto, 5)), "const i3 5"},
		{"downto subtype right", konst.IntFrom(5, tab.Int(10, ty.DirDownto, 5)), "const i3 0"},
		{"negative subtype", konst.IntFrom(4, tab.Int(-3, ty.DirTo, 4)), "const i3 7"},
		{"single value subtype", konst.IntFrom(9, tab.Int(9, ty.DirTo, 9)), "const i0 0"},
		{"negative without subtype", konst.IntFrom(-4, ty.NoTypeID), "const i3 -4"},
		{"minus one without subtype", konst.IntFrom(-1, ty.NoTypeID), "const i1 -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := entity("top")
			v, err := f.ctx.MapConst(b, tt.k)
			if err != nil {
				t.Fatal(err)
			}
			insts := b.Unit().BlockInsts(0)
			if len(insts) != 1 || insts[0].Opcode != llhd.OpConstInt || insts[0].Result != v {
				t.Fatalf("expected one const instruction producing %d, got %+v", v, insts)
			}
			if got := "const " + insts[0].Imm.String(); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			if !insts[0].Imm.Fits() {
				t.Fatalf("immediate %s does not fit its width", insts[0].Imm)
			}
		})
	}
	f.expectNoDiags(t)
}

func TestMapConstLargeValue(t *testing.T) {
	f := newFixture()
	wide := new(big.Int).Lsh(big.NewInt(1), 100)
	sub := f.b.Types().IntRange("", ty.Range{Left: new(big.Int), Right: wide})
	b := entity("top")
	if _, err := f.ctx.MapConst(b, konst.Int(wide, sub)); err != nil {
		t.Fatal(err)
	}
	imm := b.Unit().BlockInsts(0)[0].Imm
	if imm.Width != 101 || imm.Value.Cmp(wide) != 0 {
		t.Fatalf("got %s", imm)
	}
}

func TestMapConstDefects(t *testing.T) {
	tests := []struct {
		name string
		k    konst.Const
	}{
		{"float", konst.Float(1.5)},
		{"int range", konst.IntRange(ty.Range{Left: big.NewInt(0), Right: big.NewInt(3)})},
		{"float range", konst.FloatRange(ty.DirTo, 0, 1)},
		{"enum out of range", konst.Const{Kind: konst.KindEnum, Index: 7}},
		{"int above subtype", konst.IntFrom(11, ty.NoTypeID)},
		{"int in null subtype", konst.IntFrom(3, ty.NoTypeID)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			k := tt.k
			switch tt.name {
			case "enum out of range":
				decl, _ := f.b.Enum("bit", "'0'", "'1'")
				k.Decl = decl.ID
			case "int above subtype":
				k.Type = f.b.Types().Int(10, ty.DirDownto, 5)
			case "int in null subtype":
				k.Type = f.b.Types().Int(3, ty.DirTo, 0)
			}
			b := entity("top")
			v, err := f.ctx.MapConst(b, k)
			var defect *codegen.DefectError
			if !errors.As(err, &defect) || v != llhd.NoValue {
				t.Fatalf("expected defect, got %v (%d)", err, v)
			}
			if b.Unit().InstCount() != 0 {
				t.Fatal("a failed constant must not emit instructions")
			}
			if f.bag.Len() != 1 || f.bag.Items()[0].Severity != diag.SevBug {
				t.Fatalf("expected one bug diagnostic, got %v", f.bag.Items())
			}
		})
	}
}
