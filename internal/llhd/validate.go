package llhd

import (
	"errors"
	"fmt"
)

// Validate checks module invariants:
//
//  1. every unit has at least one block, the first one being the entry
//  2. instruction operands are defined before use
//  3. constant immediates fit their width
//  4. every instantiation names an extern unit registered in m with a
//     matching signature
func Validate(m *Module) error {
	if m == nil {
		return nil
	}
	var errs []error
	for _, u := range m.units {
		if err := validateUnit(m, u); err != nil {
			errs = append(errs, fmt.Errorf("unit %s: %w", u.Name, err))
		}
	}
	return errors.Join(errs...)
}

func validateUnit(m *Module, u *UnitData) error {
	var errs []error
	if len(u.Blocks) == 0 {
		errs = append(errs, errors.New("no entry block"))
	}

	defined := make([]bool, len(u.Values))
	use := func(where string, v Value) {
		if v < 0 || int(v) >= len(defined) || !defined[v] {
			errs = append(errs, fmt.Errorf("%s: use of undefined value %d", where, v))
		}
	}

	for bi := range u.Blocks {
		for _, id := range u.Blocks[bi].Insts {
			ins := &u.Insts[id]
			where := fmt.Sprintf("bb%d: %s", bi, ins.Opcode)
			for _, a := range ins.Args {
				use(where, a)
			}
			for _, a := range ins.Inputs {
				use(where, a)
			}
			for _, a := range ins.Outputs {
				use(where, a)
			}
			if ins.Opcode == OpConstInt {
				switch {
				case ins.Imm == nil:
					errs = append(errs, fmt.Errorf("%s: missing immediate", where))
				case !ins.Imm.Fits():
					errs = append(errs, fmt.Errorf("%s: immediate %s does not fit its width %d", where, ins.Imm.Value, ins.Imm.Width))
				}
			}
			if ins.Opcode == OpInst {
				errs = append(errs, validateInstTarget(m, u, ins, where)...)
			}
			if ins.Result != NoValue {
				if ins.Result < 0 || int(ins.Result) >= len(defined) {
					errs = append(errs, fmt.Errorf("%s: result %d out of range", where, ins.Result))
					continue
				}
				defined[ins.Result] = true
			}
		}
	}
	return errors.Join(errs...)
}

func validateInstTarget(m *Module, u *UnitData, ins *InstData, where string) []error {
	if ins.Ext < 0 || int(ins.Ext) >= len(u.ExtUnits) {
		return []error{fmt.Errorf("%s: extern unit %d does not exist", where, ins.Ext)}
	}
	ext := &u.ExtUnits[ins.Ext]
	target, ok := m.Unit(ext.Name)
	if !ok {
		return []error{fmt.Errorf("%s: instantiated unit %s is not registered", where, ext.Name)}
	}
	if !target.Sig.Equal(ext.Sig) {
		return []error{fmt.Errorf("%s: signature of %s is %s, extern declares %s", where, ext.Name, target.Sig, ext.Sig)}
	}
	return nil
}
