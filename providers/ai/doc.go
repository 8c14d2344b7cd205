// Package ai defines the provider-agnostic types and interfaces shared by
// every generation backend (OpenAI-compatible endpoints, Azure OpenAI,
// Google Gemini, AWS Bedrock). Each provider's conversion layer maps these
// types to its own wire format, keeping callers decoupled from
// provider-specific details.
//
// The two central interfaces are [Provider] for synchronous completions and
// [StreamProvider] for incremental token delivery. Request data flows through
// [Request] and responses come back as [Response]. Streaming responses are
// consumed through [Stream], a lazy forward-only sequence of [StreamEvent]
// values. Failures cross the adapter boundary only as [*Error] values
// carrying a [Kind] from the common taxonomy.
package ai
