package hir

import "vlower/internal/source"

// SignalKind distinguishes guarded signal declarations.
type SignalKind uint8

const (
	SignalNormal SignalKind = iota
	SignalRegister
	SignalBus
)

// SignalDecl is an elaborated `signal` declaration. Each declared name gets
// its own node.
type SignalDecl struct {
	Name Ident
	Span source.Span
	Kind SignalKind
	// Init is the initializer expression, NoNodeID when absent.
	Init NodeID
}

// ProcessStmt is an elaborated `process` statement.
type ProcessStmt struct {
	Label       *Ident
	Span        source.Span
	Postponed   bool
	Sensitivity []NodeID
	Decls       []DeclRef
	Stmts       []SeqStmtRef
}

// TypeDataKind enumerates the shapes a type declaration's definition takes.
type TypeDataKind uint8

const (
	TypeDataIncomplete TypeDataKind = iota
	TypeDataEnum
	TypeDataRange
	TypeDataPhysical
	TypeDataArray
	TypeDataRecord
	TypeDataAccess
	TypeDataFile
)

// EnumLit is an enumeration literal: an identifier or a character literal.
type EnumLit struct {
	Name Ident
	Char rune
}

// TypeData is the definition part of a type declaration.
type TypeData struct {
	Kind     TypeDataKind
	Literals []EnumLit
}

// TypeDecl is an elaborated `type` declaration. Data is nil for incomplete
// type declarations.
type TypeDecl struct {
	Name Ident
	Span source.Span
	Data *TypeData
}

// DesignUnit is an architecture body bound to its entity: the top-level
// granule code generation runs on.
type DesignUnit struct {
	Entity Ident
	Arch   Ident
	Span   source.Span
	Decls  []DeclRef
	Stmts  []ConcStmtRef
}
