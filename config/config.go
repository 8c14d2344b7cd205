// Package config loads client configuration from YAML files and the
// environment. Environment variables override file values, and a .env file
// in the working directory is folded into the environment when present.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/leofalp/genai/core/client"
	"github.com/leofalp/genai/providers/ai"
)

// Environment variable names recognized by Load.
const (
	EnvProvider     = "GENAI_PROVIDER"
	EnvAPIKey       = "GENAI_API_KEY"
	EnvSecretKey    = "GENAI_SECRET_KEY"
	EnvSessionToken = "GENAI_SESSION_TOKEN"
	EnvEndpoint     = "GENAI_ENDPOINT"
	EnvRegion       = "GENAI_REGION"
	EnvModel        = "GENAI_MODEL"
	EnvDeployment   = "GENAI_DEPLOYMENT"
	EnvAPIVersion   = "GENAI_API_VERSION"
)

// Load builds a client.Config from an optional YAML file path plus the
// environment. An empty path skips the file entirely. The result is not
// validated here; client.New performs the per-provider checks.
func Load(path string) (client.Config, error) {
	// Best effort: a missing .env file is not an error.
	_ = godotenv.Load()

	var config client.Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return client.Config{}, ai.WrapError(ai.KindConfiguration, err, "error reading config file")
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return client.Config{}, ai.WrapError(ai.KindConfiguration, err, "error parsing config file")
		}
	}

	applyEnv(&config)
	return config, nil
}

func applyEnv(config *client.Config) {
	if value := os.Getenv(EnvProvider); value != "" {
		config.Provider = client.ProviderKind(value)
	}
	setIfPresent(EnvAPIKey, &config.APIKey)
	setIfPresent(EnvSecretKey, &config.SecretKey)
	setIfPresent(EnvSessionToken, &config.SessionToken)
	setIfPresent(EnvEndpoint, &config.Endpoint)
	setIfPresent(EnvRegion, &config.Region)
	setIfPresent(EnvModel, &config.Model)
	setIfPresent(EnvDeployment, &config.Deployment)
	setIfPresent(EnvAPIVersion, &config.APIVersion)
}

func setIfPresent(name string, target *string) {
	if value := os.Getenv(name); value != "" {
		*target = value
	}
}
