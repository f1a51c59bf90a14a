// Package ty describes resolved VHDL types as seen by code generation.
//
// Types live in a Table and are addressed by TypeID. Named types (aliases and
// subtype marks) point at their target by id; Deref strips them.
package ty

import (
	"fmt"
	"math/big"

	"vlower/internal/hir"
)

// TypeID uniquely identifies a type inside a Table.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all type shapes.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNull
	KindNamed
	KindInt
	KindUnboundedInt
	KindUniversalInt
	KindEnum
	KindPhysical
	KindAccess
	KindArray
	KindFile
	KindRecord
	KindSubprog
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNull:
		return "null"
	case KindNamed:
		return "named"
	case KindInt:
		return "integer"
	case KindUnboundedInt:
		return "unbounded integer"
	case KindUniversalInt:
		return "universal integer"
	case KindEnum:
		return "enumeration"
	case KindPhysical:
		return "physical"
	case KindAccess:
		return "access"
	case KindArray:
		return "array"
	case KindFile:
		return "file"
	case KindRecord:
		return "record"
	case KindSubprog:
		return "subprogram"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Dir is the direction of a range.
type Dir uint8

const (
	DirTo Dir = iota
	DirDownto
)

func (d Dir) String() string {
	if d == DirDownto {
		return "downto"
	}
	return "to"
}

// Range is an integer range with arbitrary precision bounds.
type Range struct {
	Dir   Dir
	Left  *big.Int
	Right *big.Int
}

// Diff returns the signed distance from the low to the high end implied by
// the direction: Right-Left for `to`, Left-Right for `downto`. A negative
// result denotes a null range.
func (r Range) Diff() *big.Int {
	if r.Dir == DirDownto {
		return new(big.Int).Sub(r.Left, r.Right)
	}
	return new(big.Int).Sub(r.Right, r.Left)
}

// Low returns the smaller bound implied by the direction; for a null range it
// is the bound the range would start counting from.
func (r Range) Low() *big.Int {
	if r.Dir == DirDownto {
		return r.Right
	}
	return r.Left
}

// Contains reports whether v lies within a non-null range.
func (r Range) Contains(v *big.Int) bool {
	if r.Diff().Sign() < 0 {
		return false
	}
	lo, hi := r.Left, r.Right
	if r.Dir == DirDownto {
		lo, hi = r.Right, r.Left
	}
	return v.Cmp(lo) >= 0 && v.Cmp(hi) <= 0
}

// Len returns the number of values in the range, never negative.
func (r Range) Len() *big.Int {
	n := r.Diff()
	n.Add(n, big.NewInt(1))
	if n.Sign() < 0 {
		n.SetInt64(0)
	}
	return n
}

func (r Range) String() string {
	return fmt.Sprintf("%s %s %s", r.Left, r.Dir, r.Right)
}

// ArrayIndex is one dimension of an array type. Unbounded indices (`range <>`)
// keep the index subtype mark in Type.
type ArrayIndex struct {
	Unbounded bool
	Type      TypeID
}

// Field is a record element.
type Field struct {
	Name string
	Type TypeID
}

// PhysicalUnit is a unit of a physical type with its scale relative to the
// primary unit.
type PhysicalUnit struct {
	Name  string
	Scale *big.Int
}

// Type is a compact descriptor for any resolved type. Which fields matter
// depends on Kind:
//
//	Named            Name, Target
//	Int              Name (optional), Range
//	Enum             Name, Decl
//	Physical         Name, Range, Units
//	Access, File     Target
//	Array            Indices, Elem
//	Record           Name, Fields
//	Subprog          Name
type Type struct {
	Kind    Kind
	Name    string
	Target  TypeID
	Range   Range
	Decl    hir.NodeID
	Units   []PhysicalUnit
	Indices []ArrayIndex
	Elem    TypeID
	Fields  []Field
}
