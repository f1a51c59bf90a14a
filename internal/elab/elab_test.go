package elab_test

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"vlower/internal/diag"
	"vlower/internal/elab"
	"vlower/internal/hir"
	"vlower/internal/konst"
	"vlower/internal/ty"
)

func sampleDesign() *elab.Design {
	b := elab.NewBuilder()
	tab := b.Types()
	bitDecl, bit := b.Enum("bit", "'0'", "'1'")
	word := tab.Int(0, ty.DirTo, 255)
	init := konst.IntFrom(42, word)
	clk := b.Signal("Clk", bit, nil)
	data := b.Signal("data", word, &init)
	p := b.Process("P0", nil, b.Seq(hir.SeqNull))
	b.Unit("Top", "rtl", []hir.DeclRef{bitDecl, clk, data}, p)
	return b.Design()
}

func TestBuilderQueries(t *testing.T) {
	d := sampleDesign()
	u, ok := d.Unit("TOP")
	if !ok {
		t.Fatal("unit lookup must fold case")
	}
	sig, err := d.Signal(u.Decls[1].ID)
	if err != nil || sig.Name.Value != "clk" {
		t.Fatalf("signal lookup: %v %v", sig, err)
	}
	if _, err := d.Process(u.Decls[1].ID); err == nil {
		t.Fatal("signal node must not resolve as process")
	}
	typ, err := d.TypeOf(u.Decls[1].ID)
	if err != nil {
		t.Fatal(err)
	}
	def, err := d.DefaultValue(typ)
	if err != nil || def.Kind != konst.KindEnum || def.Index != 0 {
		t.Fatalf("default value: %v %v", def, err)
	}
	dataSig, _ := d.Signal(u.Decls[2].ID)
	k, err := d.ConstValue(dataSig.Init)
	if err != nil || k.Value.Int64() != 42 {
		t.Fatalf("const value: %v %v", k, err)
	}
	if _, err := d.ConstValue(u.Decls[2].ID); err == nil {
		t.Fatal("declaration is not a static expression")
	}
}

func TestPackRoundTrip(t *testing.T) {
	d := sampleDesign()
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	d.Table.IntRange("huge", ty.Range{Dir: ty.DirDownto, Left: huge, Right: big.NewInt(0)})

	var buf bytes.Buffer
	if err := elab.Save(&buf, d); err != nil {
		t.Fatal(err)
	}
	got, err := elab.Load(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if got.Arena.Len() != d.Arena.Len() || got.Table.Len() != d.Table.Len() || len(got.Units) != 1 {
		t.Fatalf("shape mismatch: nodes %d/%d types %d/%d units %d",
			got.Arena.Len(), d.Arena.Len(), got.Table.Len(), d.Table.Len(), len(got.Units))
	}
	for i := 1; i <= d.Table.Len(); i++ {
		id := ty.TypeID(i)
		if got.Table.Display(id) != d.Table.Display(id) {
			t.Errorf("type #%d: got %q, want %q", i, got.Table.Display(id), d.Table.Display(id))
		}
	}
	u := got.Units[0]
	p, err := got.Process(u.Stmts[0].ID)
	if err != nil || p.Label == nil || p.Label.Value != "p0" || len(p.Stmts) != 1 {
		t.Fatalf("process lost: %+v %v", p, err)
	}
	td, err := got.TypeDecl(u.Decls[0].ID)
	if err != nil || td.Data == nil || len(td.Data.Literals) != 2 || td.Data.Literals[1].Char != '1' {
		t.Fatalf("enum literals lost: %+v %v", td, err)
	}
	sig, _ := got.Signal(u.Decls[2].ID)
	k, err := got.ConstValue(sig.Init)
	if err != nil || k.Value.Int64() != 42 || k.Type == ty.NoTypeID {
		t.Fatalf("initializer lost: %v %v", k, err)
	}
}

func encodeRaw(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(v); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func packCode(t *testing.T, err error) diag.Code {
	t.Helper()
	var pe *elab.PackError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PackError, got %v", err)
	}
	return pe.Code
}

func TestPackVersionGate(t *testing.T) {
	tests := []struct {
		version string
		want    diag.Code
	}{
		{"1.0.0", 0},
		{"1.4.2", 0},
		{"2.0.0", diag.PckBadVersion},
		{"0.9.0", diag.PckBadVersion},
		{"banana", diag.PckBadVersion},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			buf := encodeRaw(t, map[string]any{"format": elab.PackFormat, "version": tt.version})
			_, err := elab.Load(buf)
			if tt.want == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if got := packCode(t, err); got != tt.want {
				t.Fatalf("code = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPackRejectsForeignFormat(t *testing.T) {
	buf := encodeRaw(t, map[string]any{"format": "something-else", "version": "1.0.0"})
	_, err := elab.Load(buf)
	if got := packCode(t, err); got != diag.PckBadFormat {
		t.Fatalf("code = %v", got)
	}
	if _, err := elab.Load(bytes.NewReader([]byte{0xc1})); packCode(t, err) != diag.PckBadFormat {
		t.Fatal("garbage must be a format error")
	}
}

func TestPackRejectsDanglingReferences(t *testing.T) {
	buf := encodeRaw(t, map[string]any{
		"format":  elab.PackFormat,
		"version": "1.0.0",
		"units": []map[string]any{{
			"entity": "top",
			"arch":   "rtl",
			"stmts":  []map[string]any{{"Kind": uint8(hir.ConcProcess), "ID": uint32(7)}},
		}},
	})
	_, err := elab.Load(buf)
	if got := packCode(t, err); got != diag.PckDanglingNodeID {
		t.Fatalf("code = %v, err = %v", got, err)
	}
}
