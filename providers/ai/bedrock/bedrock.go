package bedrock

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/leofalp/genai/providers/ai"
	"github.com/leofalp/genai/providers/observability"
)

// converseAPI is the slice of the bedrockruntime client the provider uses.
// Tests substitute a fake.
type converseAPI interface {
	Converse(ctx context.Context, input *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
	ConverseStream(ctx context.Context, input *bedrockruntime.ConverseStreamInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseStreamOutput, error)
}

// Provider implements ai.Provider and ai.StreamProvider for AWS Bedrock.
type Provider struct {
	client converseAPI
	region string
}

// New creates a Bedrock provider with static credentials. The session token
// may be empty for long-lived credentials.
func New(accessKey, secretKey, sessionToken, region string) *Provider {
	cfg := aws.Config{
		Region:      region,
		Credentials: credentials.NewStaticCredentialsProvider(accessKey, secretKey, sessionToken),
	}
	return &Provider{
		client: bedrockruntime.NewFromConfig(cfg),
		region: region,
	}
}

var (
	_ ai.Provider       = (*Provider)(nil)
	_ ai.StreamProvider = (*Provider)(nil)
)

// CompleteText implements ai.Provider. The prompt travels as a single user
// message since Converse is Bedrock's only chat-shaped API.
func (p *Provider) CompleteText(ctx context.Context, request ai.Request) (*ai.Response, error) {
	return p.converse(ctx, request)
}

// CompleteChat implements ai.Provider.
func (p *Provider) CompleteChat(ctx context.Context, request ai.Request) (*ai.Response, error) {
	return p.converse(ctx, request)
}

// CompleteVision implements ai.Provider. Images ride as image content
// blocks on the last user message.
func (p *Provider) CompleteVision(ctx context.Context, request ai.Request) (*ai.Response, error) {
	if len(request.Images) == 0 && !hasImageParts(request.Messages) {
		return nil, ai.NewError(ai.KindConfiguration, "vision request carries no image references")
	}
	return p.converse(ctx, request)
}

func (p *Provider) converse(ctx context.Context, request ai.Request) (*ai.Response, error) {
	if request.N > 1 {
		return nil, ai.NewError(ai.KindUnsupportedCapability, "bedrock Converse returns a single candidate; n > 1 is not supported")
	}

	p.traceRequest(ctx, request)

	input, err := requestToConverse(request)
	if err != nil {
		return nil, err
	}

	output, err := p.client.Converse(ctx, input)
	if err != nil {
		return nil, translateError(err)
	}

	return converseToGeneric(request.Model, output)
}

func hasImageParts(messages []ai.Message) bool {
	for _, message := range messages {
		for _, part := range message.Parts {
			if part.Type == ai.ContentTypeImage {
				return true
			}
		}
	}
	return false
}

func (p *Provider) traceRequest(ctx context.Context, request ai.Request) {
	observer := observability.ObserverFromContext(ctx)
	if observer == nil {
		return
	}
	observer.Trace(ctx, "bedrock provider preparing request",
		observability.String(observability.AttrLLMProvider, "bedrock"),
		observability.String("aws.region", p.region),
		observability.String(observability.AttrLLMModel, request.Model),
		observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
		observability.Int(observability.AttrRequestImagesCount, len(request.Images)),
	)
}

func converseToGeneric(model string, output *bedrockruntime.ConverseOutput) (*ai.Response, error) {
	message, ok := output.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return nil, ai.NewError(ai.KindProvider, "unexpected converse output shape")
	}

	var text string
	for _, block := range message.Value.Content {
		if textBlock, ok := block.(*types.ContentBlockMemberText); ok {
			text += textBlock.Value
		}
	}

	response := &ai.Response{
		Model:        model,
		Text:         text,
		FinishReason: mapStopReason(output.StopReason),
	}
	if output.Usage != nil {
		response.Usage = &ai.Usage{
			PromptTokens:     int(aws.ToInt32(output.Usage.InputTokens)),
			CompletionTokens: int(aws.ToInt32(output.Usage.OutputTokens)),
			TotalTokens:      int(aws.ToInt32(output.Usage.TotalTokens)),
		}
	}
	return response, nil
}

func mapStopReason(reason types.StopReason) string {
	switch reason {
	case types.StopReasonEndTurn, types.StopReasonStopSequence:
		return "stop"
	case types.StopReasonMaxTokens:
		return "length"
	case types.StopReasonContentFiltered, types.StopReasonGuardrailIntervened:
		return "content_filter"
	default:
		return string(reason)
	}
}
