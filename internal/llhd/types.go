// Package llhd is the low-level hardware IR produced by code generation:
// a Module of named units, each holding basic blocks of typed instructions.
//
// Units are built through a UnitBuilder, which carries the insertion point.
// A finished unit is registered in a Module and never mutated afterwards;
// other units refer to it only through extern-unit handles.
package llhd

import (
	"fmt"
	"strings"
)

// TypeKind enumerates IR type shapes.
type TypeKind uint8

const (
	VoidKind TypeKind = iota
	IntKind
	EnumKind
	PointerKind
	SignalKind
	ArrayKind
	StructKind
)

// Type is an immutable IR type. Share freely; never modify after creation.
type Type struct {
	Kind TypeKind `msgpack:"k"`
	// Size is the bit width for IntKind, the literal count for EnumKind and
	// the element count for ArrayKind.
	Size   int     `msgpack:"n,omitempty"`
	Elem   *Type   `msgpack:"e,omitempty"`
	Fields []*Type `msgpack:"f,omitempty"`
}

var voidType = &Type{Kind: VoidKind}

func VoidType() *Type { return voidType }

func IntType(width int) *Type { return &Type{Kind: IntKind, Size: width} }

func EnumType(n int) *Type { return &Type{Kind: EnumKind, Size: n} }

func PointerType(elem *Type) *Type { return &Type{Kind: PointerKind, Elem: elem} }

func SignalType(elem *Type) *Type { return &Type{Kind: SignalKind, Elem: elem} }

func ArrayType(n int, elem *Type) *Type { return &Type{Kind: ArrayKind, Size: n, Elem: elem} }

func StructType(fields []*Type) *Type { return &Type{Kind: StructKind, Fields: fields} }

// IsVoid reports whether t is the void type.
func (t *Type) IsVoid() bool { return t == nil || t.Kind == VoidKind }

// Equal compares types structurally.
func (t *Type) Equal(o *Type) bool {
	if t.IsVoid() || o.IsVoid() {
		return t.IsVoid() && o.IsVoid()
	}
	if t.Kind != o.Kind || t.Size != o.Size || len(t.Fields) != len(o.Fields) {
		return false
	}
	if (t.Elem == nil) != (o.Elem == nil) {
		return false
	}
	if t.Elem != nil && !t.Elem.Equal(o.Elem) {
		return false
	}
	for i := range t.Fields {
		if !t.Fields[i].Equal(o.Fields[i]) {
			return false
		}
	}
	return true
}

func (t *Type) String() string {
	if t.IsVoid() {
		return "void"
	}
	switch t.Kind {
	case IntKind:
		return fmt.Sprintf("i%d", t.Size)
	case EnumKind:
		return fmt.Sprintf("n%d", t.Size)
	case PointerKind:
		return t.Elem.String() + "*"
	case SignalKind:
		return t.Elem.String() + "$"
	case ArrayKind:
		return fmt.Sprintf("[%d x %s]", t.Size, t.Elem)
	case StructKind:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprintf("TypeKind(%d)", t.Kind)
}
