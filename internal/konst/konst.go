// Package konst models folded constant values produced by constant
// evaluation.
package konst

import (
	"fmt"
	"math/big"

	"vlower/internal/hir"
	"vlower/internal/ty"
)

// Kind tags the Const variant.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindEnum
	KindFloat
	KindIntRange
	KindFloatRange
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindEnum:
		return "enum"
	case KindFloat:
		return "float"
	case KindIntRange:
		return "int range"
	case KindFloatRange:
		return "float range"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Const is a folded constant. Fields by kind:
//
//	Int         Value, Type (integer subtype, NoTypeID if unknown)
//	Enum        Decl, Index
//	Float       Float
//	IntRange    Range
//	FloatRange  Dir, FloatLeft, FloatRight
type Const struct {
	Kind  Kind
	Value *big.Int
	Type  ty.TypeID

	Decl  hir.NodeID
	Index int

	Float float64

	Range      ty.Range
	Dir        ty.Dir
	FloatLeft  float64
	FloatRight float64
}

func Null() Const { return Const{Kind: KindNull} }

// Int builds an integer constant of the given subtype.
func Int(v *big.Int, subtype ty.TypeID) Const {
	return Const{Kind: KindInt, Value: new(big.Int).Set(v), Type: subtype}
}

// IntFrom is Int for small values.
func IntFrom(v int64, subtype ty.TypeID) Const {
	return Const{Kind: KindInt, Value: big.NewInt(v), Type: subtype}
}

// Enum builds the literal at position index of the enumeration declared by decl.
func Enum(decl hir.NodeID, index int) Const {
	return Const{Kind: KindEnum, Decl: decl, Index: index}
}

func Float(v float64) Const { return Const{Kind: KindFloat, Float: v} }

func IntRange(r ty.Range) Const { return Const{Kind: KindIntRange, Range: r} }

func FloatRange(dir ty.Dir, left, right float64) Const {
	return Const{Kind: KindFloatRange, Dir: dir, FloatLeft: left, FloatRight: right}
}

func (c Const) String() string {
	switch c.Kind {
	case KindNull:
		return "null"
	case KindInt:
		return c.Value.String()
	case KindEnum:
		return fmt.Sprintf("enum#%d[%d]", c.Decl, c.Index)
	case KindFloat:
		return fmt.Sprintf("%g", c.Float)
	case KindIntRange:
		return c.Range.String()
	case KindFloatRange:
		return fmt.Sprintf("%g %s %g", c.FloatLeft, c.Dir, c.FloatRight)
	}
	return c.Kind.String()
}
