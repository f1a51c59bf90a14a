package hir

import "fmt"

// DeclKind enumerates declarations that may appear in a block's declarative
// part (architecture, block statement, process).
type DeclKind uint8

const (
	DeclSubprog DeclKind = iota
	DeclSubprogBody
	DeclSubprogInst
	DeclPkg
	DeclPkgBody
	DeclPkgInst
	DeclType
	DeclSubtype
	DeclConst
	DeclSignal
	DeclVar
	DeclFile
	DeclAlias
	DeclComp
	DeclAttr
	DeclAttrSpec
	DeclCfgSpec
	DeclDiscon
	DeclGroupTemp
	DeclGroup

	declKindCount
)

var declKindNames = [...]string{
	DeclSubprog:     "subprogram declaration",
	DeclSubprogBody: "subprogram body",
	DeclSubprogInst: "subprogram instantiation",
	DeclPkg:         "package declaration",
	DeclPkgBody:     "package body",
	DeclPkgInst:     "package instantiation",
	DeclType:        "type declaration",
	DeclSubtype:     "subtype declaration",
	DeclConst:       "constant declaration",
	DeclSignal:      "signal declaration",
	DeclVar:         "variable declaration",
	DeclFile:        "file declaration",
	DeclAlias:       "alias declaration",
	DeclComp:        "component declaration",
	DeclAttr:        "attribute declaration",
	DeclAttrSpec:    "attribute specification",
	DeclCfgSpec:     "configuration specification",
	DeclDiscon:      "disconnection specification",
	DeclGroupTemp:   "group template declaration",
	DeclGroup:       "group declaration",
}

func (k DeclKind) String() string {
	if k < declKindCount {
		return declKindNames[k]
	}
	return fmt.Sprintf("DeclKind(%d)", k)
}

// AllDeclKinds lists every declaration kind in declaration order.
func AllDeclKinds() []DeclKind {
	out := make([]DeclKind, 0, declKindCount)
	for k := DeclKind(0); k < declKindCount; k++ {
		out = append(out, k)
	}
	return out
}

// DeclRef points at a declaration of a known kind.
type DeclRef struct {
	Kind DeclKind
	ID   NodeID
}

func (r DeclRef) String() string { return fmt.Sprintf("%s #%d", r.Kind, r.ID) }

// ConcStmtKind enumerates concurrent statements.
type ConcStmtKind uint8

const (
	ConcBlock ConcStmtKind = iota
	ConcProcess
	ConcProcCall
	ConcAssert
	ConcSigAssign
	ConcCompInst
	ConcForGen
	ConcIfGen
	ConcCaseGen

	concStmtKindCount
)

var concStmtKindNames = [...]string{
	ConcBlock:     "block statement",
	ConcProcess:   "process statement",
	ConcProcCall:  "concurrent procedure call",
	ConcAssert:    "concurrent assertion",
	ConcSigAssign: "concurrent signal assignment",
	ConcCompInst:  "component instantiation",
	ConcForGen:    "for generate statement",
	ConcIfGen:     "if generate statement",
	ConcCaseGen:   "case generate statement",
}

func (k ConcStmtKind) String() string {
	if k < concStmtKindCount {
		return concStmtKindNames[k]
	}
	return fmt.Sprintf("ConcStmtKind(%d)", k)
}

// AllConcStmtKinds lists every concurrent statement kind.
func AllConcStmtKinds() []ConcStmtKind {
	out := make([]ConcStmtKind, 0, concStmtKindCount)
	for k := ConcStmtKind(0); k < concStmtKindCount; k++ {
		out = append(out, k)
	}
	return out
}

// ConcStmtRef points at a concurrent statement of a known kind.
type ConcStmtRef struct {
	Kind ConcStmtKind
	ID   NodeID
}

func (r ConcStmtRef) String() string { return fmt.Sprintf("%s #%d", r.Kind, r.ID) }

// SeqStmtKind enumerates sequential statements.
type SeqStmtKind uint8

const (
	SeqWait SeqStmtKind = iota
	SeqAssert
	SeqReport
	SeqSigAssign
	SeqVarAssign
	SeqProcCall
	SeqIf
	SeqCase
	SeqLoop
	SeqNext
	SeqExit
	SeqReturn
	SeqNull

	seqStmtKindCount
)

var seqStmtKindNames = [...]string{
	SeqWait:      "wait statement",
	SeqAssert:    "assertion statement",
	SeqReport:    "report statement",
	SeqSigAssign: "signal assignment",
	SeqVarAssign: "variable assignment",
	SeqProcCall:  "procedure call",
	SeqIf:        "if statement",
	SeqCase:      "case statement",
	SeqLoop:      "loop statement",
	SeqNext:      "next statement",
	SeqExit:      "exit statement",
	SeqReturn:    "return statement",
	SeqNull:      "null statement",
}

func (k SeqStmtKind) String() string {
	if k < seqStmtKindCount {
		return seqStmtKindNames[k]
	}
	return fmt.Sprintf("SeqStmtKind(%d)", k)
}

// AllSeqStmtKinds lists every sequential statement kind.
func AllSeqStmtKinds() []SeqStmtKind {
	out := make([]SeqStmtKind, 0, seqStmtKindCount)
	for k := SeqStmtKind(0); k < seqStmtKindCount; k++ {
		out = append(out, k)
	}
	return out
}

// SeqStmtRef points at a sequential statement of a known kind.
type SeqStmtRef struct {
	Kind SeqStmtKind
	ID   NodeID
}

func (r SeqStmtRef) String() string { return fmt.Sprintf("%s #%d", r.Kind, r.ID) }
