// Package client is the high-level entry point of the library. A Client is
// built from a validated Config, binds one provider adapter, and exposes the
// capability surface: text, chat and vision completions, streaming variants,
// guided JSON output with post-validation, and bounded-concurrency batch
// execution.
//
// Construction performs configuration validation only; no network traffic
// happens until a completion method is called.
package client
