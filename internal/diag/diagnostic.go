package diag

import (
	"fmt"

	"vlower/internal/source"
)

// Note is a secondary location attached to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: SevError, Code: code, Primary: primary, Message: msg}
}

func NewBug(code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: SevBug, Code: code, Primary: primary, Message: msg}
}

// Fatal reports whether d stops the design unit it was raised for.
func (d Diagnostic) Fatal() bool { return d.Severity >= SevError }

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s %s %s", d.Severity, d.Code.ID(), d.Primary, sanitizeMessage(d.Message))
}
