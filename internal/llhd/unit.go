package llhd

import (
	"fmt"
	"strings"
)

// UnitKind distinguishes the three unit flavours.
type UnitKind uint8

const (
	UnitFunction UnitKind = iota
	UnitProcess
	UnitEntity
)

func (k UnitKind) String() string {
	switch k {
	case UnitFunction:
		return "func"
	case UnitProcess:
		return "proc"
	case UnitEntity:
		return "entity"
	}
	return fmt.Sprintf("UnitKind(%d)", k)
}

// UnitNameKind tells whether a name is visible across the module.
type UnitNameKind uint8

const (
	NameGlobal UnitNameKind = iota
	NameLocal
	NameAnonymous
)

// UnitName names a unit. Anonymous units are numbered instead.
type UnitName struct {
	Kind  UnitNameKind `msgpack:"k"`
	Name  string       `msgpack:"n,omitempty"`
	Index int          `msgpack:"i,omitempty"`
}

func GlobalName(name string) UnitName { return UnitName{Kind: NameGlobal, Name: name} }

func LocalName(name string) UnitName { return UnitName{Kind: NameLocal, Name: name} }

func (n UnitName) String() string {
	switch n.Kind {
	case NameLocal:
		return "%" + n.Name
	case NameAnonymous:
		return fmt.Sprintf("%%%d", n.Index)
	}
	return "@" + n.Name
}

// Signature lists input and output port types.
type Signature struct {
	Inputs  []*Type `msgpack:"in,omitempty"`
	Outputs []*Type `msgpack:"out,omitempty"`
}

// NewSignature returns a signature without ports.
func NewSignature() Signature { return Signature{} }

func (s Signature) Equal(o Signature) bool {
	if len(s.Inputs) != len(o.Inputs) || len(s.Outputs) != len(o.Outputs) {
		return false
	}
	for i := range s.Inputs {
		if !s.Inputs[i].Equal(o.Inputs[i]) {
			return false
		}
	}
	for i := range s.Outputs {
		if !s.Outputs[i].Equal(o.Outputs[i]) {
			return false
		}
	}
	return true
}

func (s Signature) String() string {
	return "(" + joinTypes(s.Inputs) + ") -> (" + joinTypes(s.Outputs) + ")"
}

func (s Signature) clone() Signature {
	return Signature{
		Inputs:  append([]*Type(nil), s.Inputs...),
		Outputs: append([]*Type(nil), s.Outputs...),
	}
}

func joinTypes(ts []*Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

// ExtUnitData is a reference to a unit defined elsewhere in the module.
type ExtUnitData struct {
	Name UnitName  `msgpack:"name"`
	Sig  Signature `msgpack:"sig"`
}

// BlockData is an ordered, append-only list of instructions.
type BlockData struct {
	Name  string `msgpack:"name,omitempty"`
	Insts []Inst `msgpack:"insts,omitempty"`
}

// ValueData records the type and optional name of an SSA value.
type ValueData struct {
	Type *Type  `msgpack:"ty"`
	Name string `msgpack:"name,omitempty"`
	Inst Inst   `msgpack:"inst"`
}

// UnitData is a unit under construction or, once registered, a finished one.
type UnitData struct {
	Kind     UnitKind      `msgpack:"kind"`
	Name     UnitName      `msgpack:"name"`
	Sig      Signature     `msgpack:"sig"`
	Blocks   []BlockData   `msgpack:"blocks"`
	Insts    []InstData    `msgpack:"insts"`
	Values   []ValueData   `msgpack:"values"`
	ExtUnits []ExtUnitData `msgpack:"ext"`
}

// NewUnitData creates an empty unit without blocks.
func NewUnitData(kind UnitKind, name UnitName, sig Signature) *UnitData {
	return &UnitData{Kind: kind, Name: name, Sig: sig.clone()}
}

// Inst returns the instruction data for id.
func (u *UnitData) Inst(id Inst) *InstData {
	return &u.Insts[id]
}

// Value returns the value data for id.
func (u *UnitData) Value(id Value) *ValueData {
	return &u.Values[id]
}

// ExtUnit returns the extern unit data for id.
func (u *UnitData) ExtUnit(id ExtUnit) *ExtUnitData {
	return &u.ExtUnits[id]
}

// BlockInsts returns the instructions of the block at index b.
func (u *UnitData) BlockInsts(b Block) []*InstData {
	ids := u.Blocks[b].Insts
	out := make([]*InstData, len(ids))
	for i, id := range ids {
		out[i] = &u.Insts[id]
	}
	return out
}

// InstCount returns the number of instructions across all blocks.
func (u *UnitData) InstCount() int {
	n := 0
	for i := range u.Blocks {
		n += len(u.Blocks[i].Insts)
	}
	return n
}
