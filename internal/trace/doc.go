// Package trace records what the stlex driver does: which files were loaded,
// how long each scan took, which cache entries were hit.
//
// # Usage
//
//	stlex tokenize --trace=- --trace-level=detail ./plc
//
// # Tracers
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: writes each event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events in memory, dumped on failure
//   - MultiTracer: fans out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: nothing streamed; the ring is dumped when a command fails
//   - LevelPhase: command boundaries
//   - LevelDetail: per-file events
//   - LevelDebug: everything, including cache lookups
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "lex", parentID)
//	defer span.End("")
package trace
