package gemini

import (
	"context"
	"fmt"
	"net/http"

	"github.com/leofalp/genai/internal/utils"
	"github.com/leofalp/genai/providers/ai"
	"github.com/leofalp/genai/providers/observability"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Provider implements ai.Provider and ai.StreamProvider for the Gemini API.
type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a Gemini provider. An empty baseURL targets Google's public
// endpoint; a nil httpClient falls back to a default client.
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

// CompleteText implements ai.Provider. The prompt is sent as a single user
// content since Gemini has no standalone completion endpoint.
func (p *Provider) CompleteText(ctx context.Context, request ai.Request) (*ai.Response, error) {
	return p.generate(ctx, request)
}

// CompleteChat implements ai.Provider.
func (p *Provider) CompleteChat(ctx context.Context, request ai.Request) (*ai.Response, error) {
	return p.generate(ctx, request)
}

// CompleteVision implements ai.Provider. Images ride as inlineData parts on
// the last user content.
func (p *Provider) CompleteVision(ctx context.Context, request ai.Request) (*ai.Response, error) {
	if len(request.Images) == 0 && !hasImageParts(request.Messages) {
		return nil, ai.NewError(ai.KindConfiguration, "vision request carries no image references")
	}
	return p.generate(ctx, request)
}

func (p *Provider) generate(ctx context.Context, request ai.Request) (*ai.Response, error) {
	if p.apiKey == "" {
		return nil, ai.NewError(ai.KindAuthentication, "API key is not set")
	}

	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventLLMRequestStart,
			observability.String(observability.AttrLLMProvider, "gemini"),
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.String(observability.AttrLLMModel, request.Model),
		)
		defer span.AddEvent(observability.EventLLMRequestEnd)
	}

	p.traceRequest(ctx, request)

	url := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, request.Model)

	wireRequest, err := requestToGemini(request)
	if err != nil {
		return nil, err
	}

	raw, response, err := utils.DoPostSync[generateContentResponse](ctx, p.client, url, "", wireRequest,
		utils.HeaderOption{Key: "x-goog-api-key", Value: p.apiKey})
	if err != nil {
		return nil, err
	}

	if len(response.Candidates) == 0 {
		if response.PromptFeedback != nil && response.PromptFeedback.BlockReason != "" {
			return nil, ai.Errorf(ai.KindProvider, "prompt blocked: %s", response.PromptFeedback.BlockReason)
		}
		return nil, ai.NewError(ai.KindProvider, "provider returned no candidates")
	}

	result := geminiToGeneric(raw, *response)
	if result.Model == "" {
		result.Model = request.Model
	}

	if span != nil && result.Usage != nil {
		span.AddEvent(observability.EventTokensReceived,
			observability.Int(observability.AttrLLMTokensTotal, result.Usage.TotalTokens),
		)
	}

	return result, nil
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
	observer.Trace(ctx, "gemini provider preparing request",
		observability.String(observability.AttrLLMProvider, "gemini"),
		observability.String(observability.AttrLLMEndpoint, p.baseURL),
		observability.String(observability.AttrLLMModel, request.Model),
		observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
		observability.Int(observability.AttrRequestImagesCount, len(request.Images)),
	)
}
