package client

import (
	"context"

	"github.com/leofalp/genai/core/tokens"
	"github.com/leofalp/genai/internal/jsonschema"
	"github.com/leofalp/genai/providers/ai"
)

// Client binds one provider adapter and applies the cross-provider
// behaviors: request defaults and validation, per-call deadlines, guided
// output post-validation, and the streaming fallback for providers without
// native streaming. It is stateless between calls and safe for concurrent
// use.
type Client struct {
	provider  ai.Provider
	config    Config
	estimator *tokens.Estimator
}

// Provider exposes the bound adapter.
func (c *Client) Provider() ai.Provider {
	return c.provider
}

// CompleteText generates a completion for a plain prompt.
func (c *Client) CompleteText(ctx context.Context, request ai.Request) (*ai.Response, error) {
	return c.complete(ctx, request, c.provider.CompleteText)
}

// CompleteChat generates a completion for a conversation.
func (c *Client) CompleteChat(ctx context.Context, request ai.Request) (*ai.Response, error) {
	return c.complete(ctx, request, c.provider.CompleteChat)
}

// CompleteVision generates a completion for a conversation with images.
func (c *Client) CompleteVision(ctx context.Context, request ai.Request) (*ai.Response, error) {
	return c.complete(ctx, request, c.provider.CompleteVision)
}

func (c *Client) complete(ctx context.Context, request ai.Request, call func(context.Context, ai.Request) (*ai.Response, error)) (*ai.Response, error) {
	request, err := c.prepare(request)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, request.Timeout)
	defer cancel()

	response, err := call(ctx, request)
	if err != nil {
		return nil, ai.AsError(err)
	}

	if err := validateGuided(request.GuidedSchema, response); err != nil {
		return nil, err
	}
	return response, nil
}

// StreamText streams a completion for a plain prompt. Providers without
// native streaming fall back to a synchronous call wrapped as a
// single-event stream.
func (c *Client) StreamText(ctx context.Context, request ai.Request) (*ai.Stream, error) {
	return c.stream(ctx, request, func(streamProvider ai.StreamProvider) streamFunc {
		return streamProvider.StreamText
	}, c.provider.CompleteText)
}

// StreamChat streams a completion for a conversation.
func (c *Client) StreamChat(ctx context.Context, request ai.Request) (*ai.Stream, error) {
	return c.stream(ctx, request, func(streamProvider ai.StreamProvider) streamFunc {
		return streamProvider.StreamChat
	}, c.provider.CompleteChat)
}

type streamFunc func(context.Context, ai.Request) (*ai.Stream, error)

func (c *Client) stream(ctx context.Context, request ai.Request, pick func(ai.StreamProvider) streamFunc, fallback func(context.Context, ai.Request) (*ai.Response, error)) (*ai.Stream, error) {
	request, err := c.prepare(request)
	if err != nil {
		return nil, err
	}
	if request.N > 1 {
		return nil, ai.NewError(ai.KindUnsupportedCapability, "streaming does not support n > 1; request completions one at a time or drop streaming")
	}

	// The cancel func travels with the stream: it fires when the iterator
	// completes, fails, or is abandoned, so the deadline covers the whole
	// stream lifetime rather than just the first byte.
	ctx, cancel := context.WithTimeout(ctx, request.Timeout)

	streamProvider, ok := c.provider.(ai.StreamProvider)
	if !ok {
		response, err := fallback(ctx, request)
		cancel()
		if err != nil {
			return nil, ai.AsError(err)
		}
		return ai.NewSingleEventStream(response), nil
	}

	stream, err := pick(streamProvider)(ctx, request)
	if err != nil {
		cancel()
		return nil, ai.AsError(err)
	}

	return wrapStreamWithCancel(stream, cancel), nil
}

// wrapStreamWithCancel returns a stream whose iterator calls cancel once the
// sequence finishes, errors, or the caller breaks out of the loop.
func wrapStreamWithCancel(stream *ai.Stream, cancel context.CancelFunc) *ai.Stream {
	return ai.NewStream(func(yield func(ai.StreamEvent, error) bool) {
		defer cancel()

		for event, err := range stream.Iter() {
			if !yield(event, err) {
				return
			}
			if err != nil {
				return
			}
		}
	})
}

// prepare applies the config-level model default, fills request defaults and
// validates the result.
func (c *Client) prepare(request ai.Request) (ai.Request, error) {
	if request.Model == "" {
		request.Model = c.config.Model
	}
	request = request.WithDefaults()
	if err := request.Validate(); err != nil {
		return ai.Request{}, err
	}
	if err := c.checkContextBudget(request); err != nil {
		return ai.Request{}, err
	}
	return request, nil
}

// checkContextBudget rejects requests whose estimated prompt size plus the
// reserved completion tokens exceed the configured context window, before any
// network call is made. Only active when Config.MaxContextTokens is set.
func (c *Client) checkContextBudget(request ai.Request) error {
	if c.estimator == nil {
		return nil
	}

	estimated := c.estimator.CountMessages(request.Messages)
	estimated += c.estimator.Count(request.Prompt)
	estimated += c.estimator.Count(request.SystemPrompt)
	if estimated+request.MaxTokens <= c.config.MaxContextTokens {
		return nil
	}

	return ai.Errorf(ai.KindContextLength,
		"estimated %d prompt tokens plus %d completion tokens exceed the %d token context limit",
		estimated, request.MaxTokens, c.config.MaxContextTokens).
		WithSuggestion("shorten the conversation, summarize earlier turns, or lower max_tokens")
}

// validateGuided checks every returned completion against the guided schema.
// Validation lives here rather than in the adapters so the guarantee holds
// uniformly, whether the provider enforced the schema natively or only via
// prompt instructions.
func validateGuided(schema *jsonschema.Schema, response *ai.Response) error {
	if schema == nil || response == nil {
		return nil
	}

	texts := response.Texts
	if len(texts) == 0 {
		texts = []string{response.Text}
	}
	for _, text := range texts {
		if err := jsonschema.Validate(schema, text); err != nil {
			return ai.WrapError(ai.KindSchemaViolation, err, "guided output failed schema validation")
		}
	}
	return nil
}
