package client

import (
	"net/http"

	"github.com/leofalp/genai/core/tokens"
	"github.com/leofalp/genai/providers/ai"
	"github.com/leofalp/genai/providers/ai/azure"
	"github.com/leofalp/genai/providers/ai/bedrock"
	"github.com/leofalp/genai/providers/ai/gemini"
	"github.com/leofalp/genai/providers/ai/openai"
)

// ProviderKind selects which adapter a Client binds.
type ProviderKind string

const (
	ProviderOpenAI  ProviderKind = "openai"
	ProviderAzure   ProviderKind = "azure"
	ProviderGemini  ProviderKind = "gemini"
	ProviderBedrock ProviderKind = "bedrock"
)

// SupportedProviders lists every ProviderKind New accepts.
var SupportedProviders = []ProviderKind{ProviderOpenAI, ProviderAzure, ProviderGemini, ProviderBedrock}

// Config holds everything needed to construct a Client. Which fields are
// required depends on the provider:
//
//	openai:  APIKey (Endpoint optional, defaults to the public API)
//	azure:   APIKey, Endpoint, Deployment (APIVersion optional)
//	gemini:  APIKey (Endpoint optional)
//	bedrock: APIKey (access key id), SecretKey, Region (SessionToken optional)
type Config struct {
	Provider ProviderKind `json:"provider" yaml:"provider"`

	APIKey       string `json:"api_key" yaml:"api_key"`
	SecretKey    string `json:"secret_key" yaml:"secret_key"`
	SessionToken string `json:"session_token" yaml:"session_token"`

	Endpoint   string `json:"endpoint" yaml:"endpoint"`
	Region     string `json:"region" yaml:"region"`
	Deployment string `json:"deployment" yaml:"deployment"`
	APIVersion string `json:"api_version" yaml:"api_version"`

	// Model is the default model for requests that do not name one.
	Model string `json:"model" yaml:"model"`

	// MaxContextTokens, when positive, enables a local preflight: requests
	// whose estimated prompt tokens plus max_tokens exceed this limit are
	// rejected with a context-length error before any network call.
	MaxContextTokens int `json:"max_context_tokens" yaml:"max_context_tokens"`

	// HTTPClient overrides the adapter's HTTP client. Ignored by bedrock,
	// which speaks through the AWS SDK.
	HTTPClient *http.Client `json:"-" yaml:"-"`
}

// New validates the configuration and builds a Client bound to the selected
// provider adapter. It never touches the network: a bad API key surfaces on
// the first completion call, not here.
func New(config Config) (*Client, error) {
	if err := validate(config); err != nil {
		return nil, err
	}

	var provider ai.Provider
	switch config.Provider {
	case ProviderOpenAI:
		provider = openai.New(config.APIKey, config.Endpoint, config.HTTPClient)
	case ProviderAzure:
		provider = azure.New(config.APIKey, config.Endpoint, config.Deployment, config.APIVersion, config.HTTPClient)
	case ProviderGemini:
		provider = gemini.New(config.APIKey, config.Endpoint, config.HTTPClient)
	case ProviderBedrock:
		provider = bedrock.New(config.APIKey, config.SecretKey, config.SessionToken, config.Region)
	}

	return newClient(provider, config), nil
}

// FromProvider builds a Client around an already-constructed adapter. Useful
// in tests and for custom provider implementations.
func FromProvider(provider ai.Provider, config Config) *Client {
	return newClient(provider, config)
}

func newClient(provider ai.Provider, config Config) *Client {
	c := &Client{provider: provider, config: config}
	if config.MaxContextTokens > 0 {
		c.estimator = tokens.NewEstimator("")
	}
	return c
}

func validate(config Config) error {
	switch config.Provider {
	case ProviderOpenAI, ProviderGemini:
		if config.APIKey == "" {
			return ai.Errorf(ai.KindConfiguration, "%s provider requires api_key", config.Provider)
		}
	case ProviderAzure:
		var missing []string
		if config.APIKey == "" {
			missing = append(missing, "api_key")
		}
		if config.Endpoint == "" {
			missing = append(missing, "endpoint")
		}
		if config.Deployment == "" {
			missing = append(missing, "deployment")
		}
		if len(missing) > 0 {
			return ai.Errorf(ai.KindConfiguration, "azure provider requires %s", joinAnd(missing))
		}
	case ProviderBedrock:
		var missing []string
		if config.APIKey == "" {
			missing = append(missing, "api_key")
		}
		if config.SecretKey == "" {
			missing = append(missing, "secret_key")
		}
		if config.Region == "" {
			missing = append(missing, "region")
		}
		if len(missing) > 0 {
			return ai.Errorf(ai.KindConfiguration, "bedrock provider requires %s", joinAnd(missing))
		}
	case "":
		return ai.NewError(ai.KindConfiguration, "provider is not set")
	default:
		return ai.Errorf(ai.KindConfiguration, "unsupported provider %q (supported: openai, azure, gemini, bedrock)", config.Provider)
	}
	return nil
}

func joinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	result := items[0]
	for _, item := range items[1 : len(items)-1] {
		result += ", " + item
	}
	return result + " and " + items[len(items)-1]
}
