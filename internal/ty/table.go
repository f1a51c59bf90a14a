package ty

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"fortio.org/safecast"

	"vlower/internal/hir"
)

// ErrAliasCycle is returned by Deref when named types refer to each other.
var ErrAliasCycle = errors.New("ty: cycle in named types")

// Table stores types. It is append-only; ids stay valid for its lifetime.
type Table struct {
	types []Type
}

// NewTable returns an empty table with id 0 reserved.
func NewTable() *Table {
	return &Table{types: []Type{{Kind: KindInvalid}}}
}

// Add appends a descriptor and returns its id.
func (t *Table) Add(tt Type) TypeID {
	n, err := safecast.Conv[uint32](len(t.types))
	if err != nil {
		panic(fmt.Errorf("ty: type table overflow: %w", err))
	}
	t.types = append(t.types, tt)
	return TypeID(n)
}

// Len returns the number of stored types, sentinel excluded.
func (t *Table) Len() int { return len(t.types) - 1 }

// Lookup returns the descriptor for id.
func (t *Table) Lookup(id TypeID) (*Type, bool) {
	if id == NoTypeID || int(id) >= len(t.types) {
		return nil, false
	}
	return &t.types[id], true
}

// Deref follows named types until it reaches a structural type. The walk is
// bounded by the table size, so a cycle yields ErrAliasCycle instead of
// looping.
func (t *Table) Deref(id TypeID) (TypeID, error) {
	return t.deref(id, 0)
}

func (t *Table) deref(id TypeID, depth int) (TypeID, error) {
	if depth > len(t.types) {
		return NoTypeID, fmt.Errorf("%w: through type %d", ErrAliasCycle, id)
	}
	tt, ok := t.Lookup(id)
	if !ok {
		return NoTypeID, fmt.Errorf("ty: unknown type id %d", id)
	}
	if tt.Kind != KindNamed {
		return id, nil
	}
	return t.deref(tt.Target, depth+1)
}

// Constructors ---------------------------------------------------------------

func (t *Table) Null() TypeID { return t.Add(Type{Kind: KindNull}) }

func (t *Table) Named(name string, target TypeID) TypeID {
	return t.Add(Type{Kind: KindNamed, Name: name, Target: target})
}

// Int adds an integer subtype with small bounds.
func (t *Table) Int(left int64, dir Dir, right int64) TypeID {
	return t.IntRange("", Range{Dir: dir, Left: big.NewInt(left), Right: big.NewInt(right)})
}

// IntRange adds an integer subtype, optionally named.
func (t *Table) IntRange(name string, r Range) TypeID {
	return t.Add(Type{Kind: KindInt, Name: name, Range: r})
}

func (t *Table) UnboundedInt() TypeID { return t.Add(Type{Kind: KindUnboundedInt}) }

func (t *Table) UniversalInt() TypeID { return t.Add(Type{Kind: KindUniversalInt}) }

// Enum adds an enumeration type whose literals live in the HIR type
// declaration decl.
func (t *Table) Enum(name string, decl hir.NodeID) TypeID {
	return t.Add(Type{Kind: KindEnum, Name: name, Decl: decl})
}

func (t *Table) Physical(name string, r Range, units ...PhysicalUnit) TypeID {
	return t.Add(Type{Kind: KindPhysical, Name: name, Range: r, Units: units})
}

func (t *Table) Access(target TypeID) TypeID {
	return t.Add(Type{Kind: KindAccess, Target: target})
}

func (t *Table) Array(elem TypeID, indices ...ArrayIndex) TypeID {
	return t.Add(Type{Kind: KindArray, Elem: elem, Indices: indices})
}

func (t *Table) File(elem TypeID) TypeID {
	return t.Add(Type{Kind: KindFile, Target: elem})
}

func (t *Table) Record(name string, fields ...Field) TypeID {
	return t.Add(Type{Kind: KindRecord, Name: name, Fields: fields})
}

func (t *Table) Subprog(name string) TypeID {
	return t.Add(Type{Kind: KindSubprog, Name: name})
}

// Constrained is shorthand for a constrained array index of type id.
func Constrained(id TypeID) ArrayIndex { return ArrayIndex{Type: id} }

// Unbounded is shorthand for a `range <>` index of subtype mark id.
func Unbounded(id TypeID) ArrayIndex { return ArrayIndex{Unbounded: true, Type: id} }

// Display ---------------------------------------------------------------------

// Display renders a type the way diagnostics quote it.
func (t *Table) Display(id TypeID) string {
	var sb strings.Builder
	t.display(&sb, id, 0)
	return sb.String()
}

func (t *Table) display(sb *strings.Builder, id TypeID, depth int) {
	tt, ok := t.Lookup(id)
	if !ok || depth > len(t.types) {
		sb.WriteString("?")
		return
	}
	if tt.Name != "" {
		sb.WriteString(tt.Name)
		return
	}
	switch tt.Kind {
	case KindNull:
		sb.WriteString("null")
	case KindInt:
		sb.WriteString(tt.Range.String())
	case KindUnboundedInt:
		sb.WriteString("{integer}")
	case KindUniversalInt:
		sb.WriteString("universal_integer")
	case KindAccess:
		sb.WriteString("access ")
		t.display(sb, tt.Target, depth+1)
	case KindFile:
		sb.WriteString("file of ")
		t.display(sb, tt.Target, depth+1)
	case KindArray:
		sb.WriteString("array (")
		for i, idx := range tt.Indices {
			if i > 0 {
				sb.WriteString(", ")
			}
			t.display(sb, idx.Type, depth+1)
			if idx.Unbounded {
				sb.WriteString(" range <>")
			}
		}
		sb.WriteString(") of ")
		t.display(sb, tt.Elem, depth+1)
	default:
		sb.WriteString(tt.Kind.String())
	}
}
