package llhd

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"
)

// UnitBuilder appends to a unit at a single insertion point. It is the
// cursor lowering passes hand down to nested calls: whoever holds it may
// advance it, and nobody else touches the unit meanwhile.
type UnitBuilder struct {
	unit  *UnitData
	pos   Block
	names map[string]struct{}
}

// NewUnitBuilder wraps u; the builder has no insertion point until AppendTo.
func NewUnitBuilder(u *UnitData) *UnitBuilder {
	b := &UnitBuilder{unit: u, pos: NoBlock, names: make(map[string]struct{})}
	for i := range u.Values {
		if n := u.Values[i].Name; n != "" {
			b.names[n] = struct{}{}
		}
	}
	return b
}

// Unit returns the unit being built.
func (b *UnitBuilder) Unit() *UnitData { return b.unit }

func (b *UnitBuilder) Name() UnitName { return b.unit.Name }

func (b *UnitBuilder) Sig() Signature { return b.unit.Sig.clone() }

// NamedBlock adds an empty block at the end of the unit.
func (b *UnitBuilder) NamedBlock(name string) Block {
	b.unit.Blocks = append(b.unit.Blocks, BlockData{Name: name})
	return Block(mustIndex(len(b.unit.Blocks) - 1))
}

// AppendTo moves the insertion point to the end of bb.
func (b *UnitBuilder) AppendTo(bb Block) {
	if bb < 0 || int(bb) >= len(b.unit.Blocks) {
		panic(fmt.Errorf("llhd: block %d does not exist in %s", bb, b.unit.Name))
	}
	b.pos = bb
}

// Position returns the current insertion block.
func (b *UnitBuilder) Position() Block { return b.pos }

// AddExtern declares a reference to another unit. Declaring the same name
// twice returns the existing handle.
func (b *UnitBuilder) AddExtern(name UnitName, sig Signature) ExtUnit {
	for i := range b.unit.ExtUnits {
		if b.unit.ExtUnits[i].Name == name {
			return ExtUnit(mustIndex(i))
		}
	}
	b.unit.ExtUnits = append(b.unit.ExtUnits, ExtUnitData{Name: name, Sig: sig.clone()})
	return ExtUnit(mustIndex(len(b.unit.ExtUnits) - 1))
}

// SetName attaches a printable name to v, suffixing it if already taken.
func (b *UnitBuilder) SetName(v Value, name string) {
	if name == "" {
		return
	}
	unique := name
	for i := 1; ; i++ {
		if _, taken := b.names[unique]; !taken {
			break
		}
		unique = name + "." + strconv.Itoa(i)
	}
	b.names[unique] = struct{}{}
	b.unit.Values[v].Name = unique
}

// ValueType returns the type of v.
func (b *UnitBuilder) ValueType(v Value) *Type { return b.unit.Values[v].Type }

// Ins returns an instruction builder appending at the insertion point.
func (b *UnitBuilder) Ins() InstBuilder { return InstBuilder{b: b} }

// InstBuilder creates instructions at its UnitBuilder's insertion point.
type InstBuilder struct {
	b *UnitBuilder
}

// ConstInt emits `const iN v`.
func (ib InstBuilder) ConstInt(iv IntValue) Value {
	imm := NewIntValue(iv.Width, iv.Value)
	_, v := ib.b.push(InstData{Opcode: OpConstInt, Imm: &imm, Ext: NoExtUnit}, iv.Type())
	return v
}

// Sig emits `sig T init` declaring a signal of init's type.
func (ib InstBuilder) Sig(init Value) Value {
	_, v := ib.b.push(InstData{Opcode: OpSig, Args: []Value{init}, Ext: NoExtUnit}, SignalType(ib.b.ValueType(init)))
	return v
}

// Inst emits an instantiation of ext with the given port connections.
func (ib InstBuilder) Inst(ext ExtUnit, inputs, outputs []Value) Inst {
	id, _ := ib.b.push(InstData{
		Opcode:  OpInst,
		Ext:     ext,
		Inputs:  append([]Value(nil), inputs...),
		Outputs: append([]Value(nil), outputs...),
	}, nil)
	return id
}

func (b *UnitBuilder) push(data InstData, result *Type) (Inst, Value) {
	if b.pos == NoBlock {
		panic(fmt.Errorf("llhd: no insertion block in %s", b.unit.Name))
	}
	id := Inst(mustIndex(len(b.unit.Insts)))
	data.Result = NoValue
	if result != nil {
		data.Result = Value(mustIndex(len(b.unit.Values)))
		b.unit.Values = append(b.unit.Values, ValueData{Type: result, Inst: id})
	}
	b.unit.Insts = append(b.unit.Insts, data)
	bb := &b.unit.Blocks[b.pos]
	bb.Insts = append(bb.Insts, id)
	return id, data.Result
}

func mustIndex(n int) int32 {
	v, err := safecast.Conv[int32](n)
	if err != nil {
		panic(fmt.Errorf("llhd: unit too large: %w", err))
	}
	return v
}
