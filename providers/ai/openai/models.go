package openai

import (
	"github.com/leofalp/genai/internal/jsonschema"
	"github.com/leofalp/genai/providers/ai"
)

// extraBody carries vLLM-style extensions to the OpenAI wire format.
type extraBody struct {
	GuidedJSON *jsonschema.Schema `json:"guided_json,omitempty"`
}

type streamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func (u *usage) toGeneric() *ai.Usage {
	if u == nil {
		return nil
	}
	return &ai.Usage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}

/*
	##### /completions #####
*/

type completionRequest struct {
	Model         string         `json:"model"`
	Prompt        string         `json:"prompt"`
	MaxTokens     int            `json:"max_tokens"`
	Temperature   float32        `json:"temperature"`
	TopP          float32        `json:"top_p"`
	N             int            `json:"n"`
	Stream        bool           `json:"stream,omitempty"`
	StreamOptions *streamOptions `json:"stream_options,omitempty"`
	ExtraBody     *extraBody     `json:"extra_body,omitempty"`
}

type completionChoice struct {
	Text         string `json:"text"`
	Index        int    `json:"index"`
	FinishReason string `json:"finish_reason"`
}

type completionResponse struct {
	ID      string             `json:"id"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []completionChoice `json:"choices"`
	Usage   *usage             `json:"usage"`
}

/*
	##### /chat/completions #####
*/

// chatMessage.Content is either a plain string or a []contentPart for
// multimodal messages, matching the wire format's union type.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model         string         `json:"model"`
	Messages      []chatMessage  `json:"messages"`
	MaxTokens     int            `json:"max_tokens"`
	Temperature   float32        `json:"temperature"`
	TopP          float32        `json:"top_p"`
	N             int            `json:"n"`
	Stream        bool           `json:"stream,omitempty"`
	StreamOptions *streamOptions `json:"stream_options,omitempty"`
	ExtraBody     *extraBody     `json:"extra_body,omitempty"`
}

type chatResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatChoice struct {
	Index        int                 `json:"index"`
	Message      chatResponseMessage `json:"message"`
	FinishReason string              `json:"finish_reason"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   *usage       `json:"usage"`
}

/*
	##### streaming chunks #####
*/

type completionChunkChoice struct {
	Text         string  `json:"text"`
	FinishReason *string `json:"finish_reason"`
}

type completionChunk struct {
	Choices []completionChunkChoice `json:"choices"`
	Usage   *usage                  `json:"usage"`
}

type chatDelta struct {
	Content *string `json:"content"`
}

type chatChunkChoice struct {
	Delta        chatDelta `json:"delta"`
	FinishReason *string   `json:"finish_reason"`
}

type chatChunk struct {
	Choices []chatChunkChoice `json:"choices"`
	Usage   *usage            `json:"usage"`
}
