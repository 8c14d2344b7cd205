package bedrock

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/leofalp/genai/internal/utils"
	"github.com/leofalp/genai/providers/ai"
)

// StreamText implements ai.StreamProvider via ConverseStream.
func (p *Provider) StreamText(ctx context.Context, request ai.Request) (*ai.Stream, error) {
	return p.converseStream(ctx, request)
}

// StreamChat implements ai.StreamProvider via ConverseStream.
func (p *Provider) StreamChat(ctx context.Context, request ai.Request) (*ai.Stream, error) {
	return p.converseStream(ctx, request)
}

func (p *Provider) converseStream(ctx context.Context, request ai.Request) (*ai.Stream, error) {
	if request.N > 1 {
		return nil, ai.NewError(ai.KindUnsupportedCapability, "bedrock Converse returns a single candidate; n > 1 is not supported")
	}

	p.traceRequest(ctx, request)

	input, err := requestToConverse(request)
	if err != nil {
		return nil, err
	}

	streamInput := &bedrockruntime.ConverseStreamInput{
		ModelId:         input.ModelId,
		Messages:        input.Messages,
		System:          input.System,
		InferenceConfig: input.InferenceConfig,
	}

	output, err := p.client.ConverseStream(ctx, streamInput)
	if err != nil {
		return nil, translateError(err)
	}

	eventStream := output.GetStream()

	return ai.NewStream(func(yield func(ai.StreamEvent, error) bool) {
		defer utils.CloseWithLog(eventStream)

		doneSent := false

		for event := range eventStream.Events() {
			if ctx.Err() != nil {
				yield(ai.StreamEvent{}, ai.FromTransport(ctx.Err()))
				return
			}

			switch typed := event.(type) {
			case *types.ConverseStreamOutputMemberContentBlockDelta:
				if delta, ok := typed.Value.Delta.(*types.ContentBlockDeltaMemberText); ok && delta.Value != "" {
					if !yield(ai.StreamEvent{Type: ai.StreamEventContent, Content: delta.Value}, nil) {
						return
					}
				}

			case *types.ConverseStreamOutputMemberMessageStop:
				if !yield(ai.StreamEvent{Type: ai.StreamEventDone, FinishReason: mapStopReason(typed.Value.StopReason)}, nil) {
					return
				}
				doneSent = true

			case *types.ConverseStreamOutputMemberMetadata:
				if typed.Value.Usage != nil {
					usage := &ai.Usage{
						PromptTokens:     int(aws.ToInt32(typed.Value.Usage.InputTokens)),
						CompletionTokens: int(aws.ToInt32(typed.Value.Usage.OutputTokens)),
						TotalTokens:      int(aws.ToInt32(typed.Value.Usage.TotalTokens)),
					}
					if !yield(ai.StreamEvent{Type: ai.StreamEventUsage, Usage: usage}, nil) {
						return
					}
				}
			}
		}

		if err := eventStream.Err(); err != nil {
			yield(ai.StreamEvent{}, ai.WrapError(ai.KindStreamDecode, translateError(err), "event stream failed"))
			return
		}

		if !doneSent {
			yield(ai.StreamEvent{Type: ai.StreamEventDone}, nil)
		}
	}), nil
}
