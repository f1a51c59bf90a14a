// Package diag defines the diagnostic model shared by HIR pack loading and
// code generation.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning, Error or Bug. Bug marks internal defects and
//     constructs code generation does not handle yet; Error marks legitimate
//     but unsupported or invalid source constructs.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the source.Span pointing to the issue, possibly empty.
//   - Notes – optional secondary spans/messages for additional context.
//
// # Emitting diagnostics
//
// Phases report through a Reporter. Reporting never aborts: the producer
// still returns its own failure after emitting. BagReporter aggregates into a
// Bag, which supports sorting, deduplication and counting by severity.
// DedupReporter filters identical records before forwarding them.
//
// Rendering beyond FormatShort lives in the CLI.
package diag
