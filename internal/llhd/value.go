package llhd

import (
	"fmt"
	"math/big"

	"github.com/vmihailenco/msgpack/v5"
)

type Value int32
type Inst int32
type Block int32
type ExtUnit int32

const (
	NoValue   Value   = -1
	NoInst    Inst    = -1
	NoBlock   Block   = -1
	NoExtUnit ExtUnit = -1
)

// IntValue is a fixed-width integer immediate.
type IntValue struct {
	Width int
	Value *big.Int
}

// NewIntValue copies v.
func NewIntValue(width int, v *big.Int) IntValue {
	return IntValue{Width: width, Value: new(big.Int).Set(v)}
}

func (iv IntValue) Type() *Type { return IntType(iv.Width) }

// Fits reports whether Value has a Width-bit encoding, read either unsigned
// or as two's complement. i0 holds only 0.
func (iv IntValue) Fits() bool {
	if iv.Width < 0 {
		return false
	}
	v := iv.Value
	if v == nil || v.Sign() == 0 {
		return true
	}
	if v.Sign() > 0 {
		return v.BitLen() <= iv.Width
	}
	// -2^(w-1) <= v
	return new(big.Int).Not(v).BitLen() < iv.Width
}

func (iv IntValue) String() string {
	v := iv.Value
	if v == nil {
		v = new(big.Int)
	}
	return fmt.Sprintf("i%d %s", iv.Width, v)
}

// EncodeMsgpack stores the value in decimal so arbitrary widths survive.
func (iv IntValue) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeInt(int64(iv.Width)); err != nil {
		return err
	}
	v := iv.Value
	if v == nil {
		v = new(big.Int)
	}
	return enc.EncodeString(v.String())
}

func (iv *IntValue) DecodeMsgpack(dec *msgpack.Decoder) error {
	w, err := dec.DecodeInt()
	if err != nil {
		return err
	}
	s, err := dec.DecodeString()
	if err != nil {
		return err
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return fmt.Errorf("llhd: bad integer immediate %q", s)
	}
	iv.Width = w
	iv.Value = v
	return nil
}
