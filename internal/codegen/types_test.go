package codegen_test

import (
	"errors"
	"math/big"
	"testing"

	"vlower/internal/codegen"
	"vlower/internal/diag"
	"vlower/internal/llhd"
	"vlower/internal/ty"
)

func TestMapScalarTypes(t *testing.T) {
	f := newFixture()
	tab := f.b.Types()
	_, state := f.b.Enum("state", "idle", "run", "done")
	i32 := tab.Int(-2147483648, ty.DirTo, 2147483647)

	tests := []struct {
		name string
		id   ty.TypeID
		want string
	}{
		{"null range", tab.Int(7, ty.DirTo, 0), "void"},    // Scenario A
		{"0 to 7", tab.Int(0, ty.DirTo, 7), "i3"},          // Scenario B: 7 needs 3 bits
		{"single value", tab.Int(5, ty.DirTo, 5), "i0"},    // diff 0
		{"downto", tab.Int(15, ty.DirDownto, 0), "i4"},     // 15 - 0
		{"null downto", tab.Int(0, ty.DirDownto, 1), "void"},
		{"integer", i32, "i32"},
		{"null", tab.Null(), "void"},
		{"enum", state, "n3"},
		{"named enum", tab.Named("state_t", tab.Named("alias", state)), "n3"},
		{"access", tab.Access(tab.Int(0, ty.DirTo, 1)), "i1*"},
		{"file", tab.File(i32), "i32"},
		{"record", tab.Record("pair", ty.Field{Name: "a", Type: state}, ty.Field{Name: "b", Type: i32}), "{n3, i32}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ctx.MapType(tt.id)
			if err != nil {
				t.Fatalf("MapType: %v", err)
			}
			if got.String() != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
	f.expectNoDiags(t)
}

func TestMapIntDirectionSwap(t *testing.T) {
	f := newFixture()
	tab := f.b.Types()
	bounds := [][2]int64{{0, 7}, {7, 0}, {-8, 7}, {3, 3}, {0, 1 << 20}, {-5, -100}}
	for _, lr := range bounds {
		up, err := f.ctx.MapType(tab.Int(lr[0], ty.DirTo, lr[1]))
		if err != nil {
			t.Fatal(err)
		}
		down, err := f.ctx.MapType(tab.Int(lr[1], ty.DirDownto, lr[0]))
		if err != nil {
			t.Fatal(err)
		}
		if !up.Equal(down) {
			t.Errorf("%d to %d maps to %s, %d downto %d maps to %s", lr[0], lr[1], up, lr[1], lr[0], down)
		}
	}
}

func TestMapTypeIsDeterministic(t *testing.T) {
	f := newFixture()
	tab := f.b.Types()
	_, bit := f.b.Enum("bit", "'0'", "'1'")
	arr := tab.Array(bit, ty.Constrained(tab.Int(0, ty.DirTo, 3)))
	first, err := f.ctx.MapType(arr)
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.ctx.MapType(arr)
	if err != nil {
		t.Fatal(err)
	}
	if !first.Equal(second) || first.String() != "[4 x n2]" {
		t.Fatalf("got %s and %s", first, second)
	}
}

func TestMapArrayScenarioC(t *testing.T) {
	f := newFixture()
	tab := f.b.Types()
	i32 := tab.Int(-2147483648, ty.DirTo, 2147483647)
	arr := tab.Array(i32,
		ty.Constrained(tab.Int(0, ty.DirTo, 3)),
		ty.Constrained(tab.Int(0, ty.DirTo, 7)),
	)
	got, err := f.ctx.MapType(arr)
	if err != nil {
		t.Fatal(err)
	}
	want := llhd.ArrayType(4, llhd.ArrayType(8, llhd.IntType(32)))
	if !got.Equal(want) {
		t.Fatalf("got %s, want %s", got, want)
	}
}

// Three or more indices mixing integer and enumeration bounds fold the same
// way as two: the last index is innermost.
func TestMapArrayFoldsMixedIndices(t *testing.T) {
	f := newFixture()
	tab := f.b.Types()
	_, color := f.b.Enum("color", "red", "green", "blue")
	_, bit := f.b.Enum("bit", "'0'", "'1'")
	elem := tab.Int(0, ty.DirTo, 255)

	indices := []ty.ArrayIndex{
		ty.Constrained(tab.Int(1, ty.DirTo, 5)),
		ty.Constrained(color),
		ty.Constrained(tab.Int(9, ty.DirDownto, 0)),
		ty.Constrained(tab.Named("bit_t", bit)),
	}
	sizes := []int{5, 3, 10, 2}

	got, err := f.ctx.MapType(tab.Array(elem, indices...))
	if err != nil {
		t.Fatal(err)
	}
	want, err := f.ctx.MapType(elem)
	if err != nil {
		t.Fatal(err)
	}
	for i := len(sizes) - 1; i >= 0; i-- {
		want = llhd.ArrayType(sizes[i], want)
	}
	if !got.Equal(want) || got.String() != "[5 x [3 x [10 x [2 x i8]]]]" {
		t.Fatalf("got %s, want %s", got, want)
	}

	// Folding is compositional: wrapping the map of the inner array by the
	// outer index gives the same result.
	inner, err := f.ctx.MapType(tab.Array(elem, indices[1:]...))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(llhd.ArrayType(sizes[0], inner)) {
		t.Fatalf("outer wrap of %s differs from %s", inner, got)
	}
}

func TestMapArrayNullIndexCollapsesToVoid(t *testing.T) {
	f := newFixture()
	tab := f.b.Types()
	arr := tab.Array(tab.Int(0, ty.DirTo, 7),
		ty.Constrained(tab.Int(0, ty.DirTo, 3)),
		ty.Constrained(tab.Int(5, ty.DirTo, 0)),
	)
	got, err := f.ctx.MapType(arr)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsVoid() {
		t.Fatalf("got %s, want void", got)
	}
}

func TestMapTypeUserErrors(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 70)
	tests := []struct {
		name   string
		build  func(tab *ty.Table) ty.TypeID
		code   diag.Code
		substr string
	}{
		{
			name: "physical", // Scenario E
			build: func(tab *ty.Table) ty.TypeID {
				return tab.Physical("time", ty.Range{Left: big.NewInt(0), Right: big.NewInt(1000)},
					ty.PhysicalUnit{Name: "fs", Scale: big.NewInt(1)})
			},
			code:   diag.CgPhysicalType,
			substr: "cannot generate code for physical type `time`",
		},
		{
			name: "unbounded",
			build: func(tab *ty.Table) ty.TypeID {
				return tab.Array(tab.Int(0, ty.DirTo, 1), ty.Unbounded(tab.IntRange("natural", ty.Range{Left: big.NewInt(0), Right: big.NewInt(2147483647)})))
			},
			code:   diag.CgUnboundedArray,
			substr: "is unbounded",
		},
		{
			name: "too large",
			build: func(tab *ty.Table) ty.TypeID {
				return tab.Array(tab.Int(0, ty.DirTo, 1), ty.Constrained(tab.IntRange("wide", ty.Range{Left: big.NewInt(0), Right: huge})))
			},
			code:   diag.CgArrayIndexTooLarge,
			substr: "array index `wide` is too large; " + new(big.Int).Add(huge, big.NewInt(1)).String() + " elements",
		},
		{
			name: "invalid index",
			build: func(tab *ty.Table) ty.TypeID {
				return tab.Array(tab.Int(0, ty.DirTo, 1), ty.Constrained(tab.Record("rec")))
			},
			code:   diag.CgInvalidArrayIndex,
			substr: "`rec` is an invalid array index type",
		},
		{
			name: "physical record field",
			build: func(tab *ty.Table) ty.TypeID {
				tm := tab.Physical("delay", ty.Range{Left: big.NewInt(0), Right: big.NewInt(10)})
				return tab.Record("r", ty.Field{Name: "a", Type: tab.Int(0, ty.DirTo, 1)}, ty.Field{Name: "d", Type: tm})
			},
			code:   diag.CgPhysicalType,
			substr: "`delay`",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.ctx.MapType(tt.build(f.b.Types()))
			if !errors.Is(err, codegen.ErrReported) {
				t.Fatalf("expected ErrReported, got %v", err)
			}
			f.expectDiag(t, diag.SevError, tt.code, tt.substr)
		})
	}
}

func TestMapTypeDefects(t *testing.T) {
	tests := []struct {
		name  string
		build func(f *fixture) ty.TypeID
	}{
		{"unbounded int", func(f *fixture) ty.TypeID { return f.b.Types().UnboundedInt() }},
		{"universal int", func(f *fixture) ty.TypeID { return f.b.Types().UniversalInt() }},
		{"alias cycle", func(f *fixture) ty.TypeID {
			tab := f.b.Types()
			id := tab.Named("a", ty.TypeID(tab.Len()+2))
			tab.Named("b", id)
			return id
		}},
		{"enum without literals", func(f *fixture) ty.TypeID {
			decl := f.b.IncompleteType("opaque")
			return f.b.Types().Enum("opaque", decl.ID)
		}},
		{"enum without declaration", func(f *fixture) ty.TypeID {
			return f.b.Types().Enum("ghost", 999)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.ctx.MapType(tt.build(f))
			var defect *codegen.DefectError
			if !errors.As(err, &defect) {
				t.Fatalf("expected *DefectError, got %v", err)
			}
			if !f.bag.HasBugs() || f.bag.Len() != 1 {
				t.Fatalf("expected one bug diagnostic, got %v", f.bag.Items())
			}
		})
	}
}

func TestMapSubprogNotImplemented(t *testing.T) {
	f := newFixture()
	_, err := f.ctx.MapType(f.b.Types().Subprog("f"))
	if !errors.Is(err, codegen.ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
	f.expectDiag(t, diag.SevBug, diag.CgNotImplemented, "code generation for `subprogram type` not implemented")
}
