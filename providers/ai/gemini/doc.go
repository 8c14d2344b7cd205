// Package gemini implements the provider interfaces for Google's Gemini
// API. Requests use the generateContent and streamGenerateContent (alt=sse)
// endpoints with the x-goog-api-key header.
//
// Role mapping differs from OpenAI-style APIs: the assistant role becomes
// "model" and the system prompt travels in a dedicated systemInstruction
// field. Images are embedded as base64 inlineData parts. Guided JSON output
// uses the native responseSchema generation config, and n > 1 maps to
// candidateCount.
//
// Gemini streaming events each carry the full accumulated candidate text
// rather than a delta, so the stream iterator tracks the previously seen
// length and yields only the new suffix.
package gemini
