package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"vlower/internal/elab"
	"vlower/internal/hir"
)

var dumpHIRCmd = &cobra.Command{
	Use:   "dump-hir <pack.hirpack>",
	Short: "Print the design units of a HIR pack",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := elab.LoadFile(args[0])
		if err != nil {
			return err
		}
		return dumpDesign(cmd.OutOrStdout(), d)
	},
}

// dumpDesign prints each design unit with its items, nesting process bodies:
//
//	architecture rtl of counter
//	  signal declaration #3 clk : bit
//	  process statement #7 tick
//	    null statement #6
func dumpDesign(w io.Writer, d *elab.Design) error {
	var sb strings.Builder
	for _, u := range d.Units {
		fmt.Fprintf(&sb, "architecture %s of %s\n", u.Arch, u.Entity)
		for _, r := range u.Decls {
			dumpDecl(&sb, d, r, 1)
		}
		for _, r := range u.Stmts {
			dumpConc(&sb, d, r)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func dumpDecl(sb *strings.Builder, d *elab.Design, r hir.DeclRef, depth int) {
	indent := strings.Repeat("  ", depth)
	switch r.Kind {
	case hir.DeclSignal:
		if s, err := d.Signal(r.ID); err == nil {
			typ := "?"
			if t, err := d.TypeOf(r.ID); err == nil {
				typ = d.Table.Display(t)
			}
			fmt.Fprintf(sb, "%s%s %s : %s\n", indent, r, s.Name, typ)
			return
		}
	case hir.DeclType:
		if td, err := d.TypeDecl(r.ID); err == nil {
			fmt.Fprintf(sb, "%s%s %s\n", indent, r, td.Name)
			return
		}
	}
	fmt.Fprintf(sb, "%s%s\n", indent, r)
}

func dumpConc(sb *strings.Builder, d *elab.Design, r hir.ConcStmtRef) {
	if r.Kind != hir.ConcProcess {
		fmt.Fprintf(sb, "  %s\n", r)
		return
	}
	p, err := d.Process(r.ID)
	if err != nil {
		fmt.Fprintf(sb, "  %s <missing>\n", r)
		return
	}
	label := "<unlabelled>"
	if p.Label != nil {
		label = p.Label.Value
	}
	fmt.Fprintf(sb, "  %s %s\n", r, label)
	for _, dr := range p.Decls {
		dumpDecl(sb, d, dr, 2)
	}
	for _, sr := range p.Stmts {
		fmt.Fprintf(sb, "    %s\n", sr)
	}
}
