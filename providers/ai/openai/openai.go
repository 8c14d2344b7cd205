package openai

import (
	"context"
	"net/http"

	"github.com/leofalp/genai/internal/utils"
	"github.com/leofalp/genai/providers/ai"
	"github.com/leofalp/genai/providers/observability"
)

const (
	defaultBaseURL          = "https://api.openai.com/v1"
	completionsEndpoint     = "/completions"
	chatCompletionsEndpoint = "/chat/completions"
)

// Provider implements ai.Provider and ai.StreamProvider for any
// OpenAI-compatible endpoint. It holds only connection configuration; no
// conversation state survives a call.
type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates an OpenAI-compatible provider. An empty baseURL targets the
// public OpenAI API; a nil httpClient falls back to a default client.
func New(apiKey, baseURL string, httpClient *http.Client) *Provider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Provider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  httpClient,
	}
}

var (
	_ ai.Provider       = (*Provider)(nil)
	_ ai.StreamProvider = (*Provider)(nil)
)

// CompleteText implements ai.Provider using the /completions endpoint.
func (p *Provider) CompleteText(ctx context.Context, request ai.Request) (*ai.Response, error) {
	if err := p.checkAuth(); err != nil {
		return nil, err
	}

	p.traceRequest(ctx, request, completionsEndpoint)

	raw, response, err := utils.DoPostSync[completionResponse](ctx, p.client, p.baseURL+completionsEndpoint, p.apiKey, requestToCompletion(request))
	if err != nil {
		return nil, err
	}
	if len(response.Choices) == 0 {
		return nil, ai.NewError(ai.KindProvider, "provider returned no choices")
	}

	return completionToGeneric(raw, *response), nil
}

// CompleteChat implements ai.Provider using the /chat/completions endpoint.
func (p *Provider) CompleteChat(ctx context.Context, request ai.Request) (*ai.Response, error) {
	if err := p.checkAuth(); err != nil {
		return nil, err
	}

	p.traceRequest(ctx, request, chatCompletionsEndpoint)

	wireRequest, err := requestToChat(request)
	if err != nil {
		return nil, err
	}

	raw, response, err := utils.DoPostSync[chatResponse](ctx, p.client, p.baseURL+chatCompletionsEndpoint, p.apiKey, wireRequest)
	if err != nil {
		return nil, err
	}
	if len(response.Choices) == 0 {
		return nil, ai.NewError(ai.KindProvider, "provider returned no choices")
	}

	return chatToGeneric(raw, *response), nil
}

// CompleteVision implements ai.Provider. Images ride as image_url parts on
// the last user message of a /chat/completions request.
func (p *Provider) CompleteVision(ctx context.Context, request ai.Request) (*ai.Response, error) {
	if len(request.Images) == 0 && !hasImageParts(request.Messages) {
		return nil, ai.NewError(ai.KindConfiguration, "vision request carries no image references")
	}
	return p.CompleteChat(ctx, request)
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

func (p *Provider) checkAuth() error {
	if p.apiKey == "" {
		return ai.NewError(ai.KindAuthentication, "API key is not set")
	}
	return nil
}

func (p *Provider) traceRequest(ctx context.Context, request ai.Request, endpoint string) {
	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventLLMRequestStart,
			observability.String(observability.AttrLLMProvider, "openai"),
			observability.String(observability.AttrLLMEndpoint, p.baseURL+endpoint),
			observability.String(observability.AttrLLMModel, request.Model),
		)
	}

	observer := observability.ObserverFromContext(ctx)
	if observer != nil {
		observer.Trace(ctx, "openai provider preparing request",
			observability.String(observability.AttrLLMProvider, "openai"),
			observability.String(observability.AttrLLMEndpoint, p.baseURL+endpoint),
			observability.String(observability.AttrLLMModel, request.Model),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
			observability.Int(observability.AttrRequestImagesCount, len(request.Images)),
		)
	}
}
