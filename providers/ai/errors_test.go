package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestFromHTTPStatus(t *testing.T) {
	cases := []struct {
		status int
		body   string
		kind   Kind
	}{
		{401, "invalid api key", KindAuthentication},
		{403, "forbidden", KindAuthentication},
		{404, "model not found", KindConfiguration},
		{429, "rate limit exceeded", KindRateLimit},
		{408, "request timeout", KindTimeout},
		{504, "gateway timeout", KindTimeout},
		{400, "this model's maximum context length is 8192 tokens", KindContextLength},
		{400, "invalid parameter foo", KindProvider},
		{500, "internal server error", KindProvider},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d", tc.status), func(t *testing.T) {
			err := FromHTTPStatus(tc.status, tc.body)
			if err.Kind != tc.kind {
				t.Errorf("status %d body %q: got kind %s, want %s", tc.status, tc.body, err.Kind, tc.kind)
			}
			if err.StatusCode != tc.status {
				t.Errorf("status code not preserved: got %d", err.StatusCode)
			}
			if err.Suggestion == "" {
				t.Error("every translated error must carry a suggestion")
			}
			if !strings.Contains(err.Message, tc.body) {
				t.Errorf("raw body not preserved in message %q", err.Message)
			}
		})
	}
}

func TestFromTransport(t *testing.T) {
	if err := FromTransport(context.DeadlineExceeded); err.Kind != KindTimeout {
		t.Errorf("deadline exceeded: got %s, want %s", err.Kind, KindTimeout)
	}
	if err := FromTransport(context.Canceled); err.Kind != KindTransport {
		t.Errorf("canceled: got %s, want %s", err.Kind, KindTransport)
	}
	if err := FromTransport(errors.New("connection refused")); err.Kind != KindTransport {
		t.Errorf("generic: got %s, want %s", err.Kind, KindTransport)
	}
}

func TestFromTransportWrapsDeadline(t *testing.T) {
	wrapped := fmt.Errorf("sending request: %w", context.DeadlineExceeded)
	err := FromTransport(wrapped)
	if err.Kind != KindTimeout {
		t.Errorf("wrapped deadline: got %s, want %s", err.Kind, KindTimeout)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("cause chain broken: errors.Is should still see DeadlineExceeded")
	}
}

func TestAsErrorPassesTypedThrough(t *testing.T) {
	original := NewError(KindSchemaViolation, "x is not a number")
	wrapped := fmt.Errorf("adapter: %w", original)

	translated := AsError(wrapped)
	if translated.Kind != KindSchemaViolation {
		t.Errorf("typed error not passed through: got %s", translated.Kind)
	}
	if AsError(nil) != nil {
		t.Error("AsError(nil) should be nil")
	}
}

func TestIsKindAndErrorsIs(t *testing.T) {
	err := Errorf(KindRateLimit, "too fast")
	if !IsKind(err, KindRateLimit) {
		t.Error("IsKind should match")
	}
	if IsKind(err, KindTimeout) {
		t.Error("IsKind should not match a different kind")
	}
	if !errors.Is(fmt.Errorf("outer: %w", err), &Error{Kind: KindRateLimit}) {
		t.Error("errors.Is should match by kind through wrapping")
	}
}

func TestErrorStringIncludesSuggestionAndStatus(t *testing.T) {
	err := FromHTTPStatus(429, "slow down")
	text := err.Error()
	if !strings.Contains(text, "429") || !strings.Contains(text, err.Suggestion) {
		t.Errorf("unexpected error string: %q", text)
	}
}
