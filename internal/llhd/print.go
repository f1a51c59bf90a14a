package llhd

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes every unit of m in registration order, separated by blank lines.
func Dump(w io.Writer, m *Module) error {
	if w == nil || m == nil {
		return nil
	}
	for i, u := range m.units {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := DumpUnit(w, u); err != nil {
			return err
		}
	}
	return nil
}

// DumpUnit writes one unit in assembly form:
//
//	entity @top () -> () {
//	entry:
//	    %0 = const i1 0
//	    %clk = sig i1 %0
//	    inst @top_p0 () -> ()
//	}
func DumpUnit(w io.Writer, u *UnitData) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s %s {\n", u.Kind, u.Name, u.Sig)
	for i := range u.Blocks {
		bb := &u.Blocks[i]
		name := bb.Name
		if name == "" {
			name = fmt.Sprintf("bb%d", i)
		}
		fmt.Fprintf(&sb, "%s:\n", name)
		for _, id := range bb.Insts {
			sb.WriteString("    ")
			sb.WriteString(formatInst(u, &u.Insts[id]))
			sb.WriteByte('\n')
		}
	}
	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func formatValue(u *UnitData, v Value) string {
	if v < 0 || int(v) >= len(u.Values) {
		return "%<invalid>"
	}
	if n := u.Values[v].Name; n != "" {
		return "%" + n
	}
	return fmt.Sprintf("%%%d", v)
}

func formatValues(u *UnitData, vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatValue(u, v)
	}
	return strings.Join(parts, ", ")
}

func formatInst(u *UnitData, ins *InstData) string {
	switch ins.Opcode {
	case OpConstInt:
		return fmt.Sprintf("%s = const %s", formatValue(u, ins.Result), ins.Imm)
	case OpSig:
		elem := "?"
		if len(ins.Args) == 1 && ins.Args[0] >= 0 && int(ins.Args[0]) < len(u.Values) {
			elem = u.Values[ins.Args[0]].Type.String()
		}
		return fmt.Sprintf("%s = sig %s %s", formatValue(u, ins.Result), elem, formatValues(u, ins.Args))
	case OpInst:
		callee := "<invalid>"
		if ins.Ext >= 0 && int(ins.Ext) < len(u.ExtUnits) {
			callee = u.ExtUnits[ins.Ext].Name.String()
		}
		return fmt.Sprintf("inst %s (%s) -> (%s)", callee, formatValues(u, ins.Inputs), formatValues(u, ins.Outputs))
	}
	return fmt.Sprintf("<%s?>", ins.Opcode)
}
