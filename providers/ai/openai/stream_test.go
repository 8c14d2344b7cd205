package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leofalp/genai/providers/ai"
)

func sseServer(t *testing.T, frames []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if accept := r.Header.Get("Accept"); accept != "text/event-stream" {
			t.Errorf("unexpected accept header %q", accept)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, frame := range frames {
			fmt.Fprintf(w, "data: %s\n\n", frame)
			flusher.Flush()
		}
	}))
}

func TestStreamChatFragmentOrder(t *testing.T) {
	server := sseServer(t, []string{
		`{"choices":[{"delta":{"content":"The"}}]}`,
		`{"choices":[{"delta":{"content":" quick"}}]}`,
		`{"choices":[{"delta":{"content":" brown"}}]}`,
		`{"choices":[{"delta":{"content":" fox"}}]}`,
		`{"choices":[{"delta":{"content":" jumps"},"finish_reason":"stop"}]}`,
		`{"choices":[],"usage":{"prompt_tokens":4,"completion_tokens":5,"total_tokens":9}}`,
		"[DONE]",
	})
	defer server.Close()

	provider := New("test-key", server.URL, nil)

	stream, err := provider.StreamChat(context.Background(), ai.Request{
		Model:    "test-model",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "go"}},
	}.WithDefaults())
	if err != nil {
		t.Fatalf("StreamChat: %v", err)
	}

	var fragments []string
	var usage *ai.Usage
	var finishReason string
	for event, err := range stream.Iter() {
		if err != nil {
			t.Fatalf("unexpected stream error: %v", err)
		}
		switch event.Type {
		case ai.StreamEventContent:
			fragments = append(fragments, event.Content)
		case ai.StreamEventUsage:
			usage = event.Usage
		case ai.StreamEventDone:
			finishReason = event.FinishReason
		}
	}

	want := []string{"The", " quick", " brown", " fox", " jumps"}
	if len(fragments) != len(want) {
		t.Fatalf("expected %d fragments, got %d: %v", len(want), len(fragments), fragments)
	}
	for i := range want {
		if fragments[i] != want[i] {
			t.Errorf("fragment %d: got %q, want %q", i, fragments[i], want[i])
		}
	}
	if usage == nil || usage.TotalTokens != 9 {
		t.Errorf("unexpected usage %+v", usage)
	}
	if finishReason != "stop" {
		t.Errorf("unexpected finish reason %q", finishReason)
	}
}

func TestStreamChatCollect(t *testing.T) {
	server := sseServer(t, []string{
		`{"choices":[{"delta":{"content":"Hello"}}]}`,
		`{"choices":[{"delta":{"content":", world"},"finish_reason":"stop"}]}`,
		"[DONE]",
	})
	defer server.Close()

	provider := New("test-key", server.URL, nil)

	stream, err := provider.StreamChat(context.Background(), ai.Request{
		Model:    "test-model",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	}.WithDefaults())
	if err != nil {
		t.Fatalf("StreamChat: %v", err)
	}

	response, err := stream.Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if response.Text != "Hello, world" {
		t.Errorf("unexpected text %q", response.Text)
	}
}

func TestStreamChatMalformedChunk(t *testing.T) {
	server := sseServer(t, []string{
		`{"choices":[{"delta":{"content":"ok"}}]}`,
		`{"choices": not json`,
	})
	defer server.Close()

	provider := New("test-key", server.URL, nil)

	stream, err := provider.StreamChat(context.Background(), ai.Request{
		Model:    "test-model",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	}.WithDefaults())
	if err != nil {
		t.Fatalf("StreamChat: %v", err)
	}

	response, err := stream.Collect()
	if !ai.IsKind(err, ai.KindStreamDecode) {
		t.Fatalf("expected stream decode error, got %v", err)
	}
	// Fragments before the failure stay with the caller.
	if response.Text != "ok" {
		t.Errorf("unexpected partial text %q", response.Text)
	}
}

func TestStreamChatErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "slow down"}}`))
	}))
	defer server.Close()

	provider := New("test-key", server.URL, nil)

	_, err := provider.StreamChat(context.Background(), ai.Request{
		Model:    "test-model",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	}.WithDefaults())
	if !ai.IsKind(err, ai.KindRateLimit) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
}

func TestStreamTextDeltas(t *testing.T) {
	server := sseServer(t, []string{
		`{"choices":[{"text":"alpha"}]}`,
		`{"choices":[{"text":" beta","finish_reason":"length"}]}`,
		"[DONE]",
	})
	defer server.Close()

	provider := New("test-key", server.URL, nil)

	stream, err := provider.StreamText(context.Background(), ai.Request{
		Model:  "test-model",
		Prompt: "go",
	}.WithDefaults())
	if err != nil {
		t.Fatalf("StreamText: %v", err)
	}

	response, err := stream.Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if response.Text != "alpha beta" {
		t.Errorf("unexpected text %q", response.Text)
	}
	if response.FinishReason != "length" {
		t.Errorf("unexpected finish reason %q", response.FinishReason)
	}
}

func TestStreamTextDoneWithoutFinishReason(t *testing.T) {
	// Some servers close the stream without a terminal finish_reason; the
	// stream still ends with an explicit done event.
	server := sseServer(t, []string{
		`{"choices":[{"text":"partial"}]}`,
	})
	defer server.Close()

	provider := New("test-key", server.URL, nil)

	stream, err := provider.StreamText(context.Background(), ai.Request{
		Model:  "test-model",
		Prompt: "go",
	}.WithDefaults())
	if err != nil {
		t.Fatalf("StreamText: %v", err)
	}

	sawDone := false
	for event, err := range stream.Iter() {
		if err != nil {
			t.Fatalf("unexpected stream error: %v", err)
		}
		if event.Type == ai.StreamEventDone {
			sawDone = true
		}
	}
	if !sawDone {
		t.Error("expected an explicit done event at end of stream")
	}
}
