package codegen

import (
	"fmt"
	"strconv"

	"vlower/internal/diag"
	"vlower/internal/hir"
	"vlower/internal/llhd"
)

// ProcessUnitName names the unit of a process nested in parent:
// `<parent>_<label>`, or `<parent>_proc` for unlabelled processes.
func ProcessUnitName(parent llhd.UnitName, label *hir.Ident) llhd.UnitName {
	base := parent.Name
	if parent.Kind == llhd.NameAnonymous {
		base = strconv.Itoa(parent.Index)
	}
	if label != nil {
		return llhd.GlobalName(base + "_" + label.Value)
	}
	return llhd.GlobalName(base + "_proc")
}

// lowerProcess builds the process as a unit of its own and instantiates it
// at the caller's position. The unit is registered before the instantiation
// is emitted; on failure neither happens.
func (c *Context) lowerProcess(id hir.NodeID, b *llhd.UnitBuilder) error {
	proc, err := c.scope.Process(id)
	if err != nil {
		return c.defect(c.scope.Span(id), "process statement #%d: %v", id, err)
	}

	name := ProcessUnitName(b.Name(), proc.Label)
	if c.unitDefined(name) {
		rb := diag.ReportError(c.reporter, diag.CgUnitRedefined, proc.Span, fmt.Sprintf("unit `%s` is already defined", name))
		if proc.Label == nil {
			rb.WithNote(proc.Span, "unlabelled processes share one unit name; add a label to this process")
		}
		rb.Emit()
		return ErrReported
	}
	c.point("process", name.String())

	unit := llhd.NewUnitData(llhd.UnitProcess, name, llhd.NewSignature())
	pb := llhd.NewUnitBuilder(unit)
	pb.AppendTo(pb.NamedBlock("entry"))

	for _, d := range proc.Decls {
		if err := c.LowerDecl(d, pb); err != nil {
			return err
		}
	}
	for _, s := range proc.Stmts {
		if err := c.LowerSeqStmt(s, pb); err != nil {
			return err
		}
	}

	if err := c.module.AddUnit(unit); err != nil {
		return c.defect(proc.Span, "registering %s: %v", name, err)
	}
	ext := b.AddExtern(unit.Name, unit.Sig)
	b.Ins().Inst(ext, nil, nil)
	return nil
}
