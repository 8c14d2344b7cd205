package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/leofalp/genai/internal/utils"
	"github.com/leofalp/genai/providers/ai"
)

// StreamText implements ai.StreamProvider via streamGenerateContent.
func (p *Provider) StreamText(ctx context.Context, request ai.Request) (*ai.Stream, error) {
	return p.stream(ctx, request)
}

// StreamChat implements ai.StreamProvider via streamGenerateContent.
func (p *Provider) StreamChat(ctx context.Context, request ai.Request) (*ai.Stream, error) {
	return p.stream(ctx, request)
}

func (p *Provider) stream(ctx context.Context, request ai.Request) (*ai.Stream, error) {
	if p.apiKey == "" {
		return nil, ai.NewError(ai.KindAuthentication, "API key is not set")
	}

	p.traceRequest(ctx, request)

	streamURL := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", p.baseURL, request.Model)

	wireRequest, err := requestToGemini(request)
	if err != nil {
		return nil, err
	}

	httpResponse, err := utils.DoPostStream(ctx, p.client, streamURL, "", wireRequest,
		utils.HeaderOption{Key: "x-goog-api-key", Value: p.apiKey})
	if err != nil {
		return nil, err
	}

	return ai.NewStream(func(yield func(ai.StreamEvent, error) bool) {
		defer utils.CloseWithLog(httpResponse.Body)

		scanner := utils.NewSSEScanner(httpResponse.Body)

		// Each SSE event carries the candidate's full text so far; only the
		// suffix beyond previousLength is new.
		previousLength := 0
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

			var chunk generateContentResponse
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				yield(ai.StreamEvent{}, ai.WrapError(ai.KindStreamDecode, err, "malformed stream chunk: "+utils.TruncateString(data, 200)))
				return
			}

			if len(chunk.Candidates) > 0 {
				c := chunk.Candidates[0]

				fullText := candidateText(c)
				if len(fullText) > previousLength {
					delta := fullText[previousLength:]
					previousLength = len(fullText)
					if !yield(ai.StreamEvent{Type: ai.StreamEventContent, Content: delta}, nil) {
						return
					}
				}

				if c.FinishReason != "" {
					if chunk.UsageMetadata != nil {
						if !yield(ai.StreamEvent{Type: ai.StreamEventUsage, Usage: chunk.UsageMetadata.toGeneric()}, nil) {
							return
						}
					}
					if !yield(ai.StreamEvent{Type: ai.StreamEventDone, FinishReason: mapFinishReason(c.FinishReason)}, nil) {
						return
					}
					doneSent = true
				}
			}
		}

		if !doneSent {
			yield(ai.StreamEvent{Type: ai.StreamEventDone}, nil)
		}
	}), nil
}
