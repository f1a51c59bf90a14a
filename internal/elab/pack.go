package elab

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/vmihailenco/msgpack/v5"

	"vlower/internal/diag"
	"vlower/internal/hir"
	"vlower/internal/konst"
	"vlower/internal/source"
	"vlower/internal/ty"
)

const (
	// PackFormat identifies HIR pack files.
	PackFormat = "vlower-hir"
	// PackVersion is the version written by Save.
	PackVersion = "1.0.0"
	// PackConstraint selects the pack versions Load understands.
	PackConstraint = "^1.0.0"
)

// PackError describes why a HIR pack was rejected.
type PackError struct {
	Code diag.Code
	Msg  string
}

func (e *PackError) Error() string { return "elab: " + e.Msg }

func packErr(code diag.Code, format string, args ...any) error {
	return &PackError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

type packFile struct {
	Format  string     `msgpack:"format"`
	Version string     `msgpack:"version"`
	Nodes   []packNode `msgpack:"nodes"`
	Types   []packType `msgpack:"types"`
	Units   []packUnit `msgpack:"units"`
}

type packNode struct {
	ID       hir.NodeID    `msgpack:"id"`
	Span     source.Span   `msgpack:"span"`
	Signal   *packSignal   `msgpack:"signal,omitempty"`
	Process  *packProcess  `msgpack:"process,omitempty"`
	TypeDecl *packTypeDecl `msgpack:"type_decl,omitempty"`
	TypeOf   ty.TypeID     `msgpack:"type_of,omitempty"`
	Const    *packConst    `msgpack:"const,omitempty"`
}

type packSignal struct {
	Name string         `msgpack:"name"`
	Kind hir.SignalKind `msgpack:"kind,omitempty"`
	Init hir.NodeID     `msgpack:"init,omitempty"`
}

type packProcess struct {
	Label       string           `msgpack:"label,omitempty"`
	Postponed   bool             `msgpack:"postponed,omitempty"`
	Sensitivity []hir.NodeID     `msgpack:"sensitivity,omitempty"`
	Decls       []hir.DeclRef    `msgpack:"decls,omitempty"`
	Stmts       []hir.SeqStmtRef `msgpack:"stmts,omitempty"`
}

type packLit struct {
	Name string `msgpack:"name,omitempty"`
	Char rune   `msgpack:"char,omitempty"`
}

type packTypeDecl struct {
	Name     string           `msgpack:"name"`
	Defined  bool             `msgpack:"defined"`
	Kind     hir.TypeDataKind `msgpack:"kind,omitempty"`
	Literals []packLit        `msgpack:"literals,omitempty"`
}

type packScale struct {
	Name  string `msgpack:"name"`
	Scale string `msgpack:"scale"`
}

type packType struct {
	Kind    ty.Kind         `msgpack:"kind"`
	Name    string          `msgpack:"name,omitempty"`
	Target  ty.TypeID       `msgpack:"target,omitempty"`
	Dir     ty.Dir          `msgpack:"dir,omitempty"`
	Left    string          `msgpack:"left,omitempty"`
	Right   string          `msgpack:"right,omitempty"`
	Decl    hir.NodeID      `msgpack:"decl,omitempty"`
	Units   []packScale     `msgpack:"units,omitempty"`
	Indices []ty.ArrayIndex `msgpack:"indices,omitempty"`
	Elem    ty.TypeID       `msgpack:"elem,omitempty"`
	Fields  []ty.Field      `msgpack:"fields,omitempty"`
}

type packConst struct {
	Kind       konst.Kind `msgpack:"kind"`
	Value      string     `msgpack:"value,omitempty"`
	Type       ty.TypeID  `msgpack:"type,omitempty"`
	Decl       hir.NodeID `msgpack:"decl,omitempty"`
	Index      int        `msgpack:"index,omitempty"`
	Float      float64    `msgpack:"float,omitempty"`
	Dir        ty.Dir     `msgpack:"dir,omitempty"`
	Left       string     `msgpack:"left,omitempty"`
	Right      string     `msgpack:"right,omitempty"`
	FloatLeft  float64    `msgpack:"float_left,omitempty"`
	FloatRight float64    `msgpack:"float_right,omitempty"`
}

type packUnit struct {
	Entity string            `msgpack:"entity"`
	Arch   string            `msgpack:"arch"`
	Span   source.Span       `msgpack:"span"`
	Decls  []hir.DeclRef     `msgpack:"decls,omitempty"`
	Stmts  []hir.ConcStmtRef `msgpack:"stmts,omitempty"`
}

// LoadFile reads a HIR pack from disk.
func LoadFile(path string) (*Design, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("elab: open pack: %w", err)
	}
	defer f.Close()
	return Load(bufio.NewReader(f))
}

// Load decodes a HIR pack. Packs of another format or of a version outside
// PackConstraint are rejected with a *PackError.
func Load(r io.Reader) (*Design, error) {
	var pf packFile
	if err := msgpack.NewDecoder(r).Decode(&pf); err != nil {
		return nil, packErr(diag.PckBadFormat, "malformed pack: %v", err)
	}
	if pf.Format != PackFormat {
		return nil, packErr(diag.PckBadFormat, "unexpected pack format %q", pf.Format)
	}
	if err := checkVersion(pf.Version); err != nil {
		return nil, err
	}

	d := NewDesign()
	for i := range pf.Types {
		id, err := d.addPackType(&pf.Types[i])
		if err != nil {
			return nil, err
		}
		if want := i + 1; int(id) != want {
			return nil, packErr(diag.PckBadFormat, "type #%d allocated as #%d", want, id)
		}
	}
	for i := range pf.Nodes {
		n := &pf.Nodes[i]
		if want := i + 1; int(n.ID) != want {
			return nil, packErr(diag.PckBadFormat, "node #%d listed at position %d", n.ID, want)
		}
		if err := d.addPackNode(n); err != nil {
			return nil, err
		}
	}
	for _, u := range pf.Units {
		d.Units = append(d.Units, &hir.DesignUnit{
			Entity: hir.NewIdent(u.Entity, u.Span),
			Arch:   hir.NewIdent(u.Arch, u.Span),
			Span:   u.Span,
			Decls:  u.Decls,
			Stmts:  u.Stmts,
		})
	}
	if err := d.checkRefs(); err != nil {
		return nil, err
	}
	return d, nil
}

func checkVersion(v string) error {
	c, err := semver.NewConstraint(PackConstraint)
	if err != nil {
		return fmt.Errorf("elab: bad pack constraint: %w", err)
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return packErr(diag.PckBadVersion, "invalid pack version %q: %v", v, err)
	}
	if !c.Check(ver) {
		return packErr(diag.PckBadVersion, "pack version %s is not supported (want %s)", ver, PackConstraint)
	}
	return nil
}

func parseInt(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, packErr(diag.PckBadFormat, "invalid integer %q", s)
	}
	return v, nil
}

func (d *Design) addPackType(pt *packType) (ty.TypeID, error) {
	t := ty.Type{
		Kind:    pt.Kind,
		Name:    pt.Name,
		Target:  pt.Target,
		Decl:    pt.Decl,
		Indices: pt.Indices,
		Elem:    pt.Elem,
		Fields:  pt.Fields,
	}
	if pt.Kind == ty.KindInt || pt.Kind == ty.KindPhysical {
		left, err := parseInt(pt.Left)
		if err != nil {
			return ty.NoTypeID, err
		}
		right, err := parseInt(pt.Right)
		if err != nil {
			return ty.NoTypeID, err
		}
		t.Range = ty.Range{Dir: pt.Dir, Left: left, Right: right}
	}
	for _, u := range pt.Units {
		scale, err := parseInt(u.Scale)
		if err != nil {
			return ty.NoTypeID, err
		}
		t.Units = append(t.Units, ty.PhysicalUnit{Name: u.Name, Scale: scale})
	}
	return d.Table.Add(t), nil
}

func (d *Design) addPackNode(n *packNode) error {
	var id hir.NodeID
	switch {
	case n.Signal != nil:
		id = d.Arena.AddSignal(&hir.SignalDecl{
			Name: hir.Ident{Value: n.Signal.Name, Span: n.Span},
			Span: n.Span,
			Kind: n.Signal.Kind,
			Init: n.Signal.Init,
		}).ID
	case n.Process != nil:
		p := &hir.ProcessStmt{
			Span:        n.Span,
			Postponed:   n.Process.Postponed,
			Sensitivity: n.Process.Sensitivity,
			Decls:       n.Process.Decls,
			Stmts:       n.Process.Stmts,
		}
		if n.Process.Label != "" {
			p.Label = &hir.Ident{Value: n.Process.Label, Span: n.Span}
		}
		id = d.Arena.AddProcess(p).ID
	case n.TypeDecl != nil:
		td := &hir.TypeDecl{Name: hir.Ident{Value: n.TypeDecl.Name, Span: n.Span}, Span: n.Span}
		if n.TypeDecl.Defined {
			td.Data = &hir.TypeData{Kind: n.TypeDecl.Kind}
			for _, l := range n.TypeDecl.Literals {
				td.Data.Literals = append(td.Data.Literals, hir.EnumLit{
					Name: hir.Ident{Value: l.Name, Span: n.Span},
					Char: l.Char,
				})
			}
		}
		id = d.Arena.AddTypeDecl(td).ID
	default:
		id = d.Arena.NewNode(n.Span)
	}
	if id != n.ID {
		return packErr(diag.PckBadFormat, "node #%d allocated as #%d", n.ID, id)
	}
	if n.TypeOf != ty.NoTypeID {
		d.SetTypeOf(id, n.TypeOf)
	}
	if n.Const != nil {
		k, err := unpackConst(n.Const)
		if err != nil {
			return err
		}
		d.SetConst(id, k)
	}
	return nil
}

func unpackConst(pc *packConst) (konst.Const, error) {
	switch pc.Kind {
	case konst.KindNull:
		return konst.Null(), nil
	case konst.KindInt:
		v, err := parseInt(pc.Value)
		if err != nil {
			return konst.Const{}, err
		}
		return konst.Int(v, pc.Type), nil
	case konst.KindEnum:
		return konst.Enum(pc.Decl, pc.Index), nil
	case konst.KindFloat:
		return konst.Float(pc.Float), nil
	case konst.KindIntRange:
		left, err := parseInt(pc.Left)
		if err != nil {
			return konst.Const{}, err
		}
		right, err := parseInt(pc.Right)
		if err != nil {
			return konst.Const{}, err
		}
		return konst.IntRange(ty.Range{Dir: pc.Dir, Left: left, Right: right}), nil
	case konst.KindFloatRange:
		return konst.FloatRange(pc.Dir, pc.FloatLeft, pc.FloatRight), nil
	}
	return konst.Const{}, packErr(diag.PckBadFormat, "unknown constant kind %d", pc.Kind)
}

// checkRefs rejects references to nodes or types the pack does not define.
func (d *Design) checkRefs() error {
	var errs []error
	node := func(id hir.NodeID, where string) {
		if id.IsValid() && !d.Arena.Has(id) {
			errs = append(errs, packErr(diag.PckDanglingNodeID, "%s refers to unknown node #%d", where, id))
		}
	}
	typ := func(id ty.TypeID, where string) {
		if _, ok := d.Table.Lookup(id); id != ty.NoTypeID && !ok {
			errs = append(errs, packErr(diag.PckBadFormat, "%s refers to unknown type #%d", where, id))
		}
	}
	for _, u := range d.Units {
		where := "design unit " + u.Entity.Value
		for _, r := range u.Decls {
			node(r.ID, where)
		}
		for _, r := range u.Stmts {
			node(r.ID, where)
		}
	}
	d.Arena.Each(func(id hir.NodeID, _ source.Span) {
		where := fmt.Sprintf("node #%d", id)
		if s, ok := d.Arena.Signal(id); ok {
			node(s.Init, where)
		}
		if p, ok := d.Arena.Process(id); ok {
			for _, r := range p.Decls {
				node(r.ID, where)
			}
			for _, r := range p.Stmts {
				node(r.ID, where)
			}
		}
	})
	for id, t := range d.typevals {
		typ(t, fmt.Sprintf("type of node #%d", id))
	}
	for i := 1; i <= d.Table.Len(); i++ {
		tt, _ := d.Table.Lookup(ty.TypeID(i)) //nolint:gosec // bounded by Len
		if tt.Kind == ty.KindEnum {
			node(tt.Decl, fmt.Sprintf("type #%d", i))
		}
	}
	return errors.Join(errs...)
}

// SaveFile writes d as a HIR pack.
func SaveFile(path string, d *Design) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("elab: create pack: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	if err := Save(w, d); err != nil {
		return err
	}
	return w.Flush()
}

// Save encodes d as a HIR pack.
func Save(w io.Writer, d *Design) error {
	pf := packFile{Format: PackFormat, Version: PackVersion}
	for i := 1; i <= d.Table.Len(); i++ {
		tt, _ := d.Table.Lookup(ty.TypeID(i)) //nolint:gosec // bounded by Len
		pf.Types = append(pf.Types, packTypeOf(tt))
	}
	d.Arena.Each(func(id hir.NodeID, sp source.Span) {
		pf.Nodes = append(pf.Nodes, d.packNodeOf(id, sp))
	})
	for _, u := range d.Units {
		pf.Units = append(pf.Units, packUnit{
			Entity: u.Entity.Value,
			Arch:   u.Arch.Value,
			Span:   u.Span,
			Decls:  u.Decls,
			Stmts:  u.Stmts,
		})
	}
	if err := msgpack.NewEncoder(w).Encode(&pf); err != nil {
		return fmt.Errorf("elab: encode pack: %w", err)
	}
	return nil
}

func bigString(v *big.Int) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func packTypeOf(tt *ty.Type) packType {
	pt := packType{
		Kind:    tt.Kind,
		Name:    tt.Name,
		Target:  tt.Target,
		Dir:     tt.Range.Dir,
		Left:    bigString(tt.Range.Left),
		Right:   bigString(tt.Range.Right),
		Decl:    tt.Decl,
		Indices: tt.Indices,
		Elem:    tt.Elem,
		Fields:  tt.Fields,
	}
	for _, u := range tt.Units {
		pt.Units = append(pt.Units, packScale{Name: u.Name, Scale: bigString(u.Scale)})
	}
	return pt
}

func (d *Design) packNodeOf(id hir.NodeID, sp source.Span) packNode {
	n := packNode{ID: id, Span: sp, TypeOf: d.typevals[id]}
	if s, ok := d.Arena.Signal(id); ok {
		n.Signal = &packSignal{Name: s.Name.Value, Kind: s.Kind, Init: s.Init}
	}
	if p, ok := d.Arena.Process(id); ok {
		pp := &packProcess{
			Postponed:   p.Postponed,
			Sensitivity: p.Sensitivity,
			Decls:       p.Decls,
			Stmts:       p.Stmts,
		}
		if p.Label != nil {
			pp.Label = p.Label.Value
		}
		n.Process = pp
	}
	if td, ok := d.Arena.TypeDecl(id); ok {
		pd := &packTypeDecl{Name: td.Name.Value, Defined: td.Data != nil}
		if td.Data != nil {
			pd.Kind = td.Data.Kind
			for _, l := range td.Data.Literals {
				pd.Literals = append(pd.Literals, packLit{Name: l.Name.Value, Char: l.Char})
			}
		}
		n.TypeDecl = pd
	}
	if k, ok := d.consts[id]; ok {
		n.Const = &packConst{
			Kind:       k.Kind,
			Value:      bigString(k.Value),
			Type:       k.Type,
			Decl:       k.Decl,
			Index:      k.Index,
			Float:      k.Float,
			Dir:        k.Range.Dir,
			Left:       bigString(k.Range.Left),
			Right:      bigString(k.Range.Right),
			FloatLeft:  k.FloatLeft,
			FloatRight: k.FloatRight,
		}
		if k.Kind == konst.KindFloatRange {
			n.Const.Dir = k.Dir
		}
	}
	return n
}
