package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Kind classifies a failure into the provider-agnostic taxonomy. Adapters
// map their native failures into these kinds rather than leaking
// provider-specific error shapes.
type Kind string

const (
	KindAuthentication        Kind = "authentication"
	KindConfiguration         Kind = "configuration"
	KindRateLimit             Kind = "rate_limit"
	KindTimeout               Kind = "timeout"
	KindContextLength         Kind = "context_length"
	KindSchemaViolation       Kind = "schema_violation"
	KindUnsupportedCapability Kind = "unsupported_capability"
	KindStreamDecode          Kind = "stream_decode"
	KindTransport             Kind = "transport"
	// KindProvider is the catch-all for provider-reported failures; the raw
	// status and message are preserved on the error.
	KindProvider Kind = "provider"
)

// Error is the typed failure surfaced by every call in this module. It
// carries a human-readable message, an actionable suggestion, and the
// provider status code when one exists. Use errors.As to recover it and
// [IsKind] for quick classification checks.
type Error struct {
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`

	cause error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Suggestion != "" {
		b.WriteString(". ")
		b.WriteString(e.Suggestion)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports kind equality, so errors.Is(err, &Error{Kind: KindTimeout})
// works without comparing messages.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// NewError builds a taxonomy error with the default suggestion for its kind.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Suggestion: defaultSuggestion(kind)}
}

// Errorf builds a taxonomy error from a format string.
func Errorf(kind Kind, format string, args ...any) *Error {
	return NewError(kind, fmt.Sprintf(format, args...))
}

// WrapError builds a taxonomy error that wraps cause for errors.Is/As chains.
func WrapError(kind Kind, cause error, message string) *Error {
	err := NewError(kind, message)
	err.cause = cause
	return err
}

// WithSuggestion overrides the default suggestion.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// IsKind reports whether err carries the given taxonomy kind.
func IsKind(err error, kind Kind) bool {
	var typed *Error
	return errors.As(err, &typed) && typed.Kind == kind
}

// AsError coerces any failure into a taxonomy error. Typed errors pass
// through untouched; everything else goes through the transport translator.
// Translation is pure: it never retries and has no side effects.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return FromTransport(err)
}

// FromTransport translates a transport-level failure (dial errors, deadline
// expiry, cancellation) into the taxonomy.
func FromTransport(err error) *Error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return WrapError(KindTimeout, err, "request timed out")
	case errors.Is(err, context.Canceled):
		return WrapError(KindTransport, err, "request canceled")
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return WrapError(KindTimeout, err, "request timed out")
	}

	return WrapError(KindTransport, err, err.Error())
}

// FromHTTPStatus translates a non-2xx provider reply into the taxonomy,
// preserving the raw status code and body. The mapping mirrors the common
// meaning of each code; bodies that mention an exhausted context window are
// promoted from bad-request to the context-length kind.
func FromHTTPStatus(statusCode int, body string) *Error {
	kind := KindProvider

	switch {
	case statusCode == 400:
		if mentionsContextLength(body) {
			kind = KindContextLength
		}
	case statusCode == 401 || statusCode == 403:
		kind = KindAuthentication
	case statusCode == 404:
		kind = KindConfiguration
	case statusCode == 408 || statusCode == 504:
		kind = KindTimeout
	case statusCode == 429:
		kind = KindRateLimit
	}

	err := Errorf(kind, "provider returned %d: %s", statusCode, truncate(body, 500))
	err.StatusCode = statusCode
	if kind == KindProvider {
		err.Suggestion = statusSuggestion(statusCode)
	}
	return err
}

// mentionsContextLength sniffs provider 400 bodies for the phrases the
// supported backends use when the prompt exceeds the model's window.
func mentionsContextLength(body string) bool {
	lowered := strings.ToLower(body)
	for _, marker := range []string{
		"context length",
		"context_length_exceeded",
		"maximum context",
		"too many tokens",
		"input is too long",
	} {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

func defaultSuggestion(kind Kind) string {
	switch kind {
	case KindAuthentication:
		return "Verify your API key and permissions"
	case KindConfiguration:
		return "Check the request parameters and client configuration"
	case KindRateLimit:
		return "Wait before sending more requests or lower the batch concurrency"
	case KindTimeout:
		return "Increase the request timeout or try again later"
	case KindContextLength:
		return "Reduce prompt length or switch to a model with a larger context window"
	case KindSchemaViolation:
		return "Relax the guided output schema or raise max_tokens so the reply is not truncated"
	case KindUnsupportedCapability:
		return "Use a provider or model that supports this capability"
	case KindStreamDecode:
		return "Check that the endpoint speaks the expected streaming wire format"
	case KindTransport:
		return "Check your network connection and API endpoint URL"
	default:
		return ""
	}
}

func statusSuggestion(statusCode int) string {
	switch {
	case statusCode == 400:
		return "Check the request parameters and payload format"
	case statusCode >= 500:
		return "Try again later or contact the API provider"
	default:
		return "Check API documentation and request format"
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
