package codegen

import (
	"errors"
	"fmt"

	"vlower/internal/diag"
	"vlower/internal/source"
)

var (
	// ErrReported marks a failure whose user-facing diagnostic has already
	// been emitted.
	ErrReported = errors.New("codegen: failed with reported diagnostic")
	// ErrNotImplemented marks a construct lowering does not handle yet.
	ErrNotImplemented = errors.New("codegen: not implemented")
)

// DefectError is an internal inconsistency: an input that earlier stages
// should have ruled out.
type DefectError struct {
	Msg string
}

func (e *DefectError) Error() string { return "codegen: internal defect: " + e.Msg }

func (c *Context) userError(code diag.Code, sp source.Span, msg string) error {
	diag.ReportError(c.reporter, code, sp, msg).Emit()
	return ErrReported
}

func (c *Context) unimplemented(what string, sp source.Span) error {
	diag.ReportBug(c.reporter, diag.CgNotImplemented, sp,
		fmt.Sprintf("code generation for `%s` not implemented", what)).Emit()
	return fmt.Errorf("%w: %s", ErrNotImplemented, what)
}

func (c *Context) defect(sp source.Span, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	diag.ReportBug(c.reporter, diag.CgInternalDefect, sp, msg).Emit()
	return &DefectError{Msg: msg}
}

// queryFailed reports an elaboration query that could not produce a result.
func (c *Context) queryFailed(sp source.Span, what string, err error) error {
	diag.ReportError(c.reporter, diag.CgElabQuery, sp, fmt.Sprintf("cannot evaluate %s: %v", what, err)).Emit()
	return fmt.Errorf("%w: %w", ErrReported, err)
}
