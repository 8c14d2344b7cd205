// Package observability defines the lightweight tracing and logging hooks
// used across the genai module. An [Observer] and a [Span] travel through
// context.Context; provider adapters and the HTTP helpers emit events through
// them without depending on any concrete backend. The slogobs sub-package
// provides a log/slog-backed implementation.
//
// Everything here is optional: a nil observer or span in the context means
// the instrumentation points are no-ops.
package observability
