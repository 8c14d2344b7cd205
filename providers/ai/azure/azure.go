package azure

import (
	"context"
	"net/http"
	"strings"

	"github.com/leofalp/genai/internal/utils"
	"github.com/leofalp/genai/providers/ai"
	"github.com/leofalp/genai/providers/observability"
)

const defaultAPIVersion = "2024-06-01"

// Provider implements ai.Provider and ai.StreamProvider for an Azure OpenAI
// deployment. The deployment name takes the place of the model on the wire;
// the Model field of a request is ignored by the service.
type Provider struct {
	apiKey     string
	endpoint   string
	deployment string
	apiVersion string
	client     *http.Client
}

// New creates an Azure OpenAI provider for one deployment. An empty
// apiVersion selects a current stable default; a nil httpClient falls back
// to a default client.
func New(apiKey, endpoint, deployment, apiVersion string, httpClient *http.Client) *Provider {
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Provider{
		apiKey:     apiKey,
		endpoint:   strings.TrimRight(endpoint, "/"),
		deployment: deployment,
		apiVersion: apiVersion,
		client:     httpClient,
	}
}

var (
	_ ai.Provider       = (*Provider)(nil)
	_ ai.StreamProvider = (*Provider)(nil)
)

func (p *Provider) chatURL() string {
	return p.endpoint + "/openai/deployments/" + p.deployment + "/chat/completions?api-version=" + p.apiVersion
}

func (p *Provider) check() error {
	if p.apiKey == "" {
		return ai.NewError(ai.KindAuthentication, "API key is not set")
	}
	if p.endpoint == "" {
		return ai.NewError(ai.KindConfiguration, "endpoint is not set")
	}
	if p.deployment == "" {
		return ai.NewError(ai.KindConfiguration, "deployment is not set")
	}
	return nil
}

// CompleteText implements ai.Provider. The prompt travels as a single user
// message since Azure exposes no text-completion endpoint.
func (p *Provider) CompleteText(ctx context.Context, request ai.Request) (*ai.Response, error) {
	return p.complete(ctx, request)
}

// CompleteChat implements ai.Provider.
func (p *Provider) CompleteChat(ctx context.Context, request ai.Request) (*ai.Response, error) {
	return p.complete(ctx, request)
}

// CompleteVision implements ai.Provider. Images ride as image_url parts on
// the last user message.
func (p *Provider) CompleteVision(ctx context.Context, request ai.Request) (*ai.Response, error) {
	if len(request.Images) == 0 && !hasImageParts(request.Messages) {
		return nil, ai.NewError(ai.KindConfiguration, "vision request carries no image references")
	}
	return p.complete(ctx, request)
}

func (p *Provider) complete(ctx context.Context, request ai.Request) (*ai.Response, error) {
	if err := p.check(); err != nil {
		return nil, err
	}

	p.traceRequest(ctx, request)

	wireRequest, err := requestToChat(request)
	if err != nil {
		return nil, err
	}

	raw, response, err := utils.DoPostSync[chatResponse](ctx, p.client, p.chatURL(), "", wireRequest,
		utils.HeaderOption{Key: "api-key", Value: p.apiKey})
	if err != nil {
		return nil, err
	}
	if len(response.Choices) == 0 {
		return nil, ai.NewError(ai.KindProvider, "provider returned no choices")
	}

	return chatToGeneric(raw, *response), nil
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
	observer.Trace(ctx, "azure provider preparing request",
		observability.String(observability.AttrLLMProvider, "azure"),
		observability.String(observability.AttrLLMEndpoint, p.chatURL()),
		observability.String(observability.AttrLLMModel, p.deployment),
		observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
		observability.Int(observability.AttrRequestImagesCount, len(request.Images)),
	)
}
