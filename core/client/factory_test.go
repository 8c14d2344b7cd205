package client

import (
	"strings"
	"testing"

	"github.com/leofalp/genai/providers/ai"
)

func TestNewValidConfigs(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"openai", Config{Provider: ProviderOpenAI, APIKey: "k", Model: "gpt-test"}},
		{"openai compatible endpoint", Config{Provider: ProviderOpenAI, APIKey: "k", Endpoint: "http://localhost:8000/v1"}},
		{"azure", Config{Provider: ProviderAzure, APIKey: "k", Endpoint: "https://x.openai.azure.com", Deployment: "d"}},
		{"gemini", Config{Provider: ProviderGemini, APIKey: "k"}},
		{"bedrock", Config{Provider: ProviderBedrock, APIKey: "AKIA...", SecretKey: "s", Region: "us-east-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Construction validates configuration only; bogus credentials
			// must not fail until a call is made.
			c, err := New(tt.config)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if c.Provider() == nil {
				t.Fatal("expected a bound provider")
			}
		})
	}
}

func TestNewMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		mention []string
	}{
		{"openai without key", Config{Provider: ProviderOpenAI}, []string{"api_key"}},
		{"azure without anything", Config{Provider: ProviderAzure}, []string{"api_key", "endpoint", "deployment"}},
		{"azure without deployment", Config{Provider: ProviderAzure, APIKey: "k", Endpoint: "e"}, []string{"deployment"}},
		{"bedrock without secret", Config{Provider: ProviderBedrock, APIKey: "k", Region: "r"}, []string{"secret_key"}},
		{"gemini without key", Config{Provider: ProviderGemini}, []string{"api_key"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config)
			if !ai.IsKind(err, ai.KindConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
			for _, field := range tt.mention {
				if !strings.Contains(err.Error(), field) {
					t.Errorf("error should name %q, got %q", field, err.Error())
				}
			}
		})
	}
}

func TestNewUnsupportedProvider(t *testing.T) {
	_, err := New(Config{Provider: "watsonx", APIKey: "k"})
	if !ai.IsKind(err, ai.KindConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "watsonx") {
		t.Errorf("error should name the rejected provider, got %q", err.Error())
	}
	for _, supported := range []string{"openai", "azure", "gemini", "bedrock"} {
		if !strings.Contains(err.Error(), supported) {
			t.Errorf("error should list supported provider %q, got %q", supported, err.Error())
		}
	}
}

func TestNewEmptyProvider(t *testing.T) {
	_, err := New(Config{APIKey: "k"})
	if !ai.IsKind(err, ai.KindConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
