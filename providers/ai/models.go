package ai

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/leofalp/genai/internal/jsonschema"
)

// Default generation parameters, applied by [Request.WithDefaults].
const (
	DefaultMaxTokens   = 256
	DefaultTemperature = 0
	DefaultTopP        = 1
	DefaultN           = 1
	DefaultTimeout     = 30 * time.Second

	// DefaultBatchTimeout is the per-item timeout used by batch calls
	// when the request does not set its own.
	DefaultBatchTimeout = 60 * time.Second
)

/*
	##### PROVIDER INPUT #####
*/

// Request represents a single generation request, uniform across providers.
// Zero-valued tuning fields mean "use the default"; call [Request.WithDefaults]
// before dispatch. A Request is owned by one call and never mutated by
// adapters — all conversation context must be supplied on every call.
type Request struct {
	Model        string    `json:"model,omitempty"`         // Model identifier; falls back to the client's configured model
	Prompt       string    `json:"prompt,omitempty"`        // Free-text completion input (text calls)
	Messages     []Message `json:"messages,omitempty"`      // Conversation history in caller order (chat calls)
	SystemPrompt string    `json:"system_prompt,omitempty"` // Optional system instructions

	MaxTokens   int           `json:"max_tokens,omitempty"`  // Maximum tokens to generate (default 256)
	Temperature float32       `json:"temperature,omitempty"` // Sampling temperature [0..2] (default 0)
	TopP        float32       `json:"top_p,omitempty"`       // Nucleus sampling [0..1] (default 1)
	N           int           `json:"n,omitempty"`           // Number of completions to generate (default 1)
	Timeout     time.Duration `json:"timeout,omitempty"`     // Per-request deadline (default 30s; 60s in batch)

	// GuidedSchema constrains the output to a JSON document conforming to
	// the schema. Providers with native enforcement use it directly; the
	// rest receive schema-constraining instructions, and the reply is
	// validated either way.
	GuidedSchema *jsonschema.Schema `json:"guided_schema,omitempty"`

	// Images are attached to the final user message for vision calls.
	Images []ImageRef `json:"images,omitempty"`
}

// WithDefaults returns a copy of the request with unset tuning fields filled
// in. A TopP of 0 is indistinguishable from unset, so 0 always means the
// default of 1; Temperature's default is already the zero value.
func (r Request) WithDefaults() Request {
	if r.MaxTokens == 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	if r.TopP == 0 {
		r.TopP = DefaultTopP
	}
	if r.N == 0 {
		r.N = DefaultN
	}
	if r.Timeout == 0 {
		r.Timeout = DefaultTimeout
	}
	return r
}

// Validate checks the tuning fields after defaults have been applied.
// Violations come back as a configuration error naming the field.
func (r Request) Validate() error {
	switch {
	case r.MaxTokens < 1:
		return Errorf(KindConfiguration, "max_tokens must be >= 1, got %d", r.MaxTokens)
	case r.Temperature < 0 || r.Temperature > 2:
		return Errorf(KindConfiguration, "temperature must be in [0, 2], got %g", r.Temperature)
	case r.TopP < 0 || r.TopP > 1:
		return Errorf(KindConfiguration, "top_p must be in [0, 1], got %g", r.TopP)
	case r.N < 1:
		return Errorf(KindConfiguration, "n must be >= 1, got %d", r.N)
	case r.Timeout <= 0:
		return Errorf(KindConfiguration, "timeout must be positive, got %s", r.Timeout)
	}
	return nil
}

// MessageRole identifies the author of a message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is a single turn in a conversation. Content carries plain text;
// Parts, when non-empty, carries an ordered sequence of typed parts and takes
// precedence over Content. Ordering within Parts is caller-significant and
// preserved verbatim by every adapter.
type Message struct {
	Role    MessageRole   `json:"role"`
	Content string        `json:"content,omitempty"`
	Parts   []ContentPart `json:"parts,omitempty"`
}

// ContentType discriminates the payload of a ContentPart.
type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
)

// ContentPart is one typed element of a multimodal message.
type ContentPart struct {
	Type  ContentType `json:"type"`
	Text  string      `json:"text,omitempty"`
	Image *ImageRef   `json:"image,omitempty"`
}

// TextPart builds a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: ContentTypeText, Text: text}
}

// ImagePart builds an image content part.
func ImagePart(image ImageRef) ContentPart {
	return ContentPart{Type: ContentTypeImage, Image: &image}
}

// ImageRef references an image by local path, in-memory bytes, or URL.
// Exactly one of Path, Data or URL should be set; MIME is optional for
// Data and sniffed when absent.
type ImageRef struct {
	Path string `json:"path,omitempty"`
	URL  string `json:"url,omitempty"`
	Data []byte `json:"data,omitempty"`
	MIME string `json:"mime,omitempty"`
}

/*
	##### PROVIDER OUTPUT #####
*/

// Usage reports token consumption as counted by the provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// Response is the normalized result of a generation call. It is immutable
// once produced; Raw preserves the provider's own reply verbatim for callers
// that need provider-specific metadata.
type Response struct {
	ID           string `json:"id,omitempty"`
	Model        string `json:"model,omitempty"`
	Text         string `json:"text"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        *Usage `json:"usage,omitempty"`

	// Texts holds every completion when the request asked for n > 1.
	// Text always equals Texts[0] in that case.
	Texts []string `json:"texts,omitempty"`

	// Raw is the untouched provider response body.
	Raw json.RawMessage `json:"raw,omitempty"`
}

// StructuredResponse pairs a Response with its payload parsed into T.
type StructuredResponse[T any] struct {
	Response
	Data *T `json:"data"`
}

// LastUserIndex returns the index of the final user message, or -1 when the
// conversation has none. Vision adapters use it to attach images the way the
// callers expect: to the most recent user turn.
func LastUserIndex(messages []Message) int {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return i
		}
	}
	return -1
}

func (r MessageRole) String() string { return string(r) }

func (u *Usage) String() string {
	if u == nil {
		return "usage unknown"
	}
	return fmt.Sprintf("prompt=%d completion=%d total=%d", u.PromptTokens, u.CompletionTokens, u.TotalTokens)
}
