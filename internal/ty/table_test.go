package ty

import (
	"errors"
	"math/big"
	"testing"
)

func TestRangeDiffAndLen(t *testing.T) {
	cases := []struct {
		left, right int64
		dir         Dir
		diff, len   int64
	}{
		{0, 7, DirTo, 7, 8},
		{7, 0, DirTo, -7, 0},
		{7, 0, DirDownto, 7, 8},
		{3, 3, DirTo, 0, 1},
		{0, 1, DirDownto, -1, 0},
	}
	for _, c := range cases {
		r := Range{Dir: c.dir, Left: big.NewInt(c.left), Right: big.NewInt(c.right)}
		if got := r.Diff().Int64(); got != c.diff {
			t.Errorf("%s: diff = %d, want %d", r, got, c.diff)
		}
		if got := r.Len().Int64(); got != c.len {
			t.Errorf("%s: len = %d, want %d", r, got, c.len)
		}
	}
}

func TestDerefFollowsNamedChain(t *testing.T) {
	tab := NewTable()
	base := tab.Int(0, DirTo, 255)
	byteT := tab.Named("byte", base)
	octet := tab.Named("octet", byteT)

	got, err := tab.Deref(octet)
	if err != nil {
		t.Fatalf("deref: %v", err)
	}
	if got != base {
		t.Fatalf("deref = %d, want %d", got, base)
	}
	if same, _ := tab.Deref(base); same != base {
		t.Fatal("structural types must deref to themselves")
	}
}

func TestDerefDetectsCycle(t *testing.T) {
	tab := NewTable()
	a := tab.Named("a", NoTypeID)
	b := tab.Named("b", a)
	tab.types[a].Target = b

	if _, err := tab.Deref(a); !errors.Is(err, ErrAliasCycle) {
		t.Fatalf("expected alias cycle, got %v", err)
	}
}

func TestDerefUnknown(t *testing.T) {
	tab := NewTable()
	if _, err := tab.Deref(TypeID(42)); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestDisplay(t *testing.T) {
	tab := NewTable()
	elem := tab.Int(0, DirTo, 7)
	idx := tab.Named("natural", tab.Int(0, DirTo, 1<<31-1))
	arr := tab.Array(elem, Unbounded(idx), Constrained(tab.Int(3, DirDownto, 0)))
	want := "array (natural range <>, 3 downto 0) of 0 to 7"
	if got := tab.Display(arr); got != want {
		t.Fatalf("Display = %q, want %q", got, want)
	}
	if got := tab.Display(tab.Access(elem)); got != "access 0 to 7" {
		t.Fatalf("unexpected access display %q", got)
	}
}
