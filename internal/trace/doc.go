// Package trace provides structured tracing for the lowering pipeline.
//
// # Usage
//
//	vlower lower --trace=- --trace-level=detail design.hirpack
//
// # Tracers
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: writes each event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events in memory for post-mortem dumps
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// Events carry a scope; the level decides which scopes are emitted:
//
//   - LevelPhase: ScopeDriver and ScopePass (load, lower, validate, emit)
//   - LevelDetail: adds ScopeUnit (one span per design unit)
//   - LevelDebug: adds ScopeNode (signals, processes)
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//	span := trace.Begin(t, trace.ScopePass, "lower", 0)
//	defer span.End("")
package trace
