// Package openai implements the provider adapter for OpenAI-compatible
// endpoints (OpenAI itself, vLLM, OpenRouter, Ollama and friends). Free-text
// requests use /completions, conversations use /chat/completions, vision
// requests attach base64 data URLs as image_url parts, and streaming decodes
// the token-delta JSON lines wire format terminated by the [DONE] sentinel.
// Guided output is forwarded as the vLLM-style guided_json extra body.
package openai
