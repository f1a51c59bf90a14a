package hir

import (
	"strings"

	"golang.org/x/text/cases"

	"vlower/internal/source"
)

// Ident is a VHDL identifier as it should appear in generated names.
type Ident struct {
	Value string
	Span  source.Span
}

// NewIdent normalises a source identifier. Basic identifiers are case
// insensitive and get folded; extended identifiers (\Like This\) keep their
// spelling.
func NewIdent(raw string, span source.Span) Ident {
	if IsExtendedIdent(raw) {
		return Ident{Value: raw, Span: span}
	}
	// Casers carry state, so each call gets its own.
	return Ident{Value: cases.Fold().String(raw), Span: span}
}

// IsExtendedIdent reports whether raw is written as an extended identifier.
func IsExtendedIdent(raw string) bool {
	return len(raw) >= 2 && strings.HasPrefix(raw, `\`) && strings.HasSuffix(raw, `\`)
}

func (id Ident) String() string { return id.Value }
