// Package azure implements the provider interfaces for Azure OpenAI
// deployments. Requests target
// {endpoint}/openai/deployments/{deployment}/chat/completions with an
// api-version query parameter and authenticate with an api-key header
// rather than a bearer token.
//
// The service has no standalone text-completion endpoint, so plain text
// requests are sent as a single-user-message chat. Guided JSON output is
// enforced by appending schema instructions to the system prompt and
// requesting response_format json_object; callers validate the returned
// document against the schema.
package azure
