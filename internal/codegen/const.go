package codegen

import (
	"math/big"

	"vlower/internal/konst"
	"vlower/internal/llhd"
	"vlower/internal/source"
	"vlower/internal/ty"
)

// MapConst emits a constant instruction for k at the builder's position and
// returns its value.
func (c *Context) MapConst(b *llhd.UnitBuilder, k konst.Const) (llhd.Value, error) {
	switch k.Kind {
	case konst.KindNull:
		return b.Ins().ConstInt(llhd.NewIntValue(0, new(big.Int))), nil
	case konst.KindInt:
		imm, err := c.intImmediate(k)
		if err != nil {
			return llhd.NoValue, err
		}
		return b.Ins().ConstInt(imm), nil
	case konst.KindEnum:
		n, err := c.enumLen(k.Decl)
		if err != nil {
			return llhd.NoValue, err
		}
		if k.Index < 0 || k.Index >= n {
			return llhd.NoValue, c.defect(c.scope.Span(k.Decl), "enumeration literal index %d out of range 0..%d", k.Index, n)
		}
		return b.Ins().ConstInt(llhd.NewIntValue(n, big.NewInt(int64(k.Index)))), nil
	case konst.KindFloat:
		return llhd.NoValue, c.defect(source.NoSpan, "float constant %s reached code generation", k)
	case konst.KindIntRange, konst.KindFloatRange:
		return llhd.NoValue, c.defect(source.NoSpan, "range constant %s reached code generation", k)
	default:
		return llhd.NoValue, c.defect(source.NoSpan, "unexpected constant kind %s", k.Kind)
	}
}

// intImmediate encodes an integer constant. With an integer subtype the
// value is stored as its offset from the subtype's low bound, the encoding
// the distance-sized iN of MapType implies. Constants without an integer
// subtype keep their value in the smallest width that holds it.
func (c *Context) intImmediate(k konst.Const) (llhd.IntValue, error) {
	if k.Type != ty.NoTypeID {
		resolved, err := c.scope.Deref(k.Type)
		if err != nil {
			return llhd.IntValue{}, c.defect(source.NoSpan, "cannot resolve constant subtype #%d: %v", k.Type, err)
		}
		if tt, ok := c.scope.Types().Lookup(resolved); ok && tt.Kind == ty.KindInt {
			if !tt.Range.Contains(k.Value) {
				return llhd.IntValue{}, c.defect(source.NoSpan, "constant %s lies outside its subtype %s", k.Value, tt.Range)
			}
			w, _ := intWidth(tt.Range)
			return llhd.NewIntValue(w, new(big.Int).Sub(k.Value, tt.Range.Low())), nil
		}
	}
	return llhd.NewIntValue(minWidth(k.Value), k.Value), nil
}

// minWidth is the narrowest width, at least 1, holding v: unsigned for
// non-negative values, two's complement otherwise.
func minWidth(v *big.Int) int {
	if v.Sign() >= 0 {
		return max(1, v.BitLen())
	}
	return new(big.Int).Not(v).BitLen() + 1
}
