package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leofalp/genai/internal/jsonschema"
	"github.com/leofalp/genai/providers/ai"
)

func TestCompleteTextAsSingleUserChat(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantPath := "/openai/deployments/gpt-test/chat/completions"
		if r.URL.Path != wantPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if version := r.URL.Query().Get("api-version"); version != "2024-06-01" {
			t.Errorf("unexpected api-version %q", version)
		}
		if key := r.Header.Get("api-key"); key != "test-key" {
			t.Errorf("unexpected api-key header %q", key)
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("unexpected authorization header %q", auth)
		}

		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"model": "gpt-test",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello!"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 3, "completion_tokens": 2, "total_tokens": 5}
		}`))
	}))
	defer server.Close()

	provider := New("test-key", server.URL, "gpt-test", "", nil)

	response, err := provider.CompleteText(context.Background(), ai.Request{Model: "ignored", Prompt: "Say hello"}.WithDefaults())
	if err != nil {
		t.Fatalf("CompleteText: %v", err)
	}
	if response.Text != "Hello!" {
		t.Errorf("unexpected text %q", response.Text)
	}

	if len(captured.Messages) != 1 {
		t.Fatalf("expected one message, got %d", len(captured.Messages))
	}
	if captured.Messages[0].Role != "user" || captured.Messages[0].Content != "Say hello" {
		t.Errorf("unexpected message %+v", captured.Messages[0])
	}
}

func TestGuidedSchemaAppendedToSystemPrompt(t *testing.T) {
	schema, err := jsonschema.FromMap(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"city": map[string]any{"type": "string"},
		},
	})
	if err != nil {
		t.Fatalf("building schema: %v", err)
	}

	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-2",
			"model": "gpt-test",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"city\":\"Oslo\"}"}, "finish_reason": "stop"}]
		}`))
	}))
	defer server.Close()

	provider := New("test-key", server.URL, "gpt-test", "", nil)

	_, err = provider.CompleteChat(context.Background(), ai.Request{
		SystemPrompt: "be brief",
		Messages:     []ai.Message{{Role: ai.RoleUser, Content: "Where?"}},
		GuidedSchema: schema,
	}.WithDefaults())
	if err != nil {
		t.Fatalf("CompleteChat: %v", err)
	}

	if captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_object" {
		t.Errorf("expected response_format json_object, got %+v", captured.ResponseFormat)
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(captured.Messages))
	}
	systemContent, ok := captured.Messages[0].Content.(string)
	if !ok {
		t.Fatalf("system content should be a string, got %T", captured.Messages[0].Content)
	}
	if !strings.Contains(systemContent, "be brief") {
		t.Error("original system prompt should be preserved")
	}
	if !strings.Contains(systemContent, `"city"`) {
		t.Error("schema should be embedded in the system prompt")
	}
}

func TestMissingConfiguration(t *testing.T) {
	tests := []struct {
		name     string
		provider *Provider
		kind     ai.Kind
	}{
		{"missing api key", New("", "https://example.openai.azure.com", "gpt-test", "", nil), ai.KindAuthentication},
		{"missing endpoint", New("key", "", "gpt-test", "", nil), ai.KindConfiguration},
		{"missing deployment", New("key", "https://example.openai.azure.com", "", "", nil), ai.KindConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.provider.CompleteChat(context.Background(), ai.Request{
				Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
			}.WithDefaults())
			if !ai.IsKind(err, tt.kind) {
				t.Fatalf("expected %s error, got %v", tt.kind, err)
			}
		})
	}
}

func TestStreamChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		frames := []string{
			`{"choices":[{"delta":{"content":"Hei"}}]}`,
			`{"choices":[{"delta":{"content":" verden"},"finish_reason":"stop"}]}`,
			`{"choices":[],"usage":{"prompt_tokens":2,"completion_tokens":2,"total_tokens":4}}`,
			"[DONE]",
		}
		for _, frame := range frames {
			fmt.Fprintf(w, "data: %s\n\n", frame)
			flusher.Flush()
		}
	}))
	defer server.Close()

	provider := New("test-key", server.URL, "gpt-test", "", nil)

	stream, err := provider.StreamChat(context.Background(), ai.Request{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	}.WithDefaults())
	if err != nil {
		t.Fatalf("StreamChat: %v", err)
	}

	response, err := stream.Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if response.Text != "Hei verden" {
		t.Errorf("unexpected text %q", response.Text)
	}
	if response.Usage == nil || response.Usage.TotalTokens != 4 {
		t.Errorf("unexpected usage %+v", response.Usage)
	}
	if response.FinishReason != "stop" {
		t.Errorf("unexpected finish reason %q", response.FinishReason)
	}
}

func TestContextLengthErrorFromBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"code": "context_length_exceeded", "message": "This model's maximum context length is 8192 tokens"}}`))
	}))
	defer server.Close()

	provider := New("test-key", server.URL, "gpt-test", "", nil)

	_, err := provider.CompleteChat(context.Background(), ai.Request{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	}.WithDefaults())
	if !ai.IsKind(err, ai.KindContextLength) {
		t.Fatalf("expected context length error, got %v", err)
	}
}
