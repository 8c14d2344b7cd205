package azure

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/leofalp/genai/internal/utils"
	"github.com/leofalp/genai/providers/ai"
)

// StreamText implements ai.StreamProvider. Azure deployments stream only
// chat completions, so the prompt goes out as a single user message.
func (p *Provider) StreamText(ctx context.Context, request ai.Request) (*ai.Stream, error) {
	return p.stream(ctx, request)
}

// StreamChat implements ai.StreamProvider.
func (p *Provider) StreamChat(ctx context.Context, request ai.Request) (*ai.Stream, error) {
	return p.stream(ctx, request)
}

func (p *Provider) stream(ctx context.Context, request ai.Request) (*ai.Stream, error) {
	if err := p.check(); err != nil {
		return nil, err
	}

	p.traceRequest(ctx, request)

	wireRequest, err := requestToChat(request)
	if err != nil {
		return nil, err
	}
	wireRequest.Stream = true
	wireRequest.StreamOptions = &streamOptions{IncludeUsage: true}

	httpResponse, err := utils.DoPostStream(ctx, p.client, p.chatURL(), "", wireRequest,
		utils.HeaderOption{Key: "api-key", Value: p.apiKey})
	if err != nil {
		return nil, err
	}

	return ai.NewStream(func(yield func(ai.StreamEvent, error) bool) {
		defer utils.CloseWithLog(httpResponse.Body)

		scanner := utils.NewSSEScanner(httpResponse.Body)
		doneSent := false

		for {
			if ctx.Err() != nil {
				yield(ai.StreamEvent{}, ai.FromTransport(ctx.Err()))
				return
			}

			data, err := scanner.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				yield(ai.StreamEvent{}, err)
				return
			}

			var chunk chatChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				yield(ai.StreamEvent{}, ai.WrapError(ai.KindStreamDecode, err, "malformed stream chunk: "+utils.TruncateString(data, 200)))
				return
			}

			for _, choice := range chunk.Choices {
				if choice.Delta.Content != nil && *choice.Delta.Content != "" {
					if !yield(ai.StreamEvent{Type: ai.StreamEventContent, Content: *choice.Delta.Content}, nil) {
						return
					}
				}
				if choice.FinishReason != nil && *choice.FinishReason != "" {
					if !yield(ai.StreamEvent{Type: ai.StreamEventDone, FinishReason: *choice.FinishReason}, nil) {
						return
					}
					doneSent = true
				}
			}

			if chunk.Usage != nil {
				if !yield(ai.StreamEvent{Type: ai.StreamEventUsage, Usage: chunk.Usage.toGeneric()}, nil) {
					return
				}
			}
		}

		if !doneSent {
			yield(ai.StreamEvent{Type: ai.StreamEventDone}, nil)
		}
	}), nil
}
