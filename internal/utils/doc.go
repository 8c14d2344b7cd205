// Package utils contains the shared plumbing behind the provider adapters:
// JSON-over-HTTP helpers that translate failures into the common error
// taxonomy at the transport boundary, an SSE scanner for streaming replies,
// tolerant string-to-value parsing, and image encoding for vision requests.
package utils
