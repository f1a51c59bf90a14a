package llhd

import "fmt"

// Opcode enumerates instruction kinds.
type Opcode uint8

const (
	// OpConstInt materializes an integer immediate.
	OpConstInt Opcode = iota
	// OpSig declares a signal initialized with its single argument.
	OpSig
	// OpInst instantiates an extern unit, wiring input and output signals.
	OpInst
)

func (op Opcode) String() string {
	switch op {
	case OpConstInt:
		return "const"
	case OpSig:
		return "sig"
	case OpInst:
		return "inst"
	}
	return fmt.Sprintf("Opcode(%d)", op)
}

// InstData is one instruction. Result is NoValue for instructions that do not
// produce a value.
type InstData struct {
	Opcode  Opcode    `msgpack:"op"`
	Result  Value     `msgpack:"res"`
	Imm     *IntValue `msgpack:"imm,omitempty"`
	Args    []Value   `msgpack:"args,omitempty"`
	Ext     ExtUnit   `msgpack:"ext"`
	Inputs  []Value   `msgpack:"in,omitempty"`
	Outputs []Value   `msgpack:"out,omitempty"`
}
