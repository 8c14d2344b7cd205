package client

import (
	"context"

	"github.com/leofalp/genai/internal/jsonschema"
	"github.com/leofalp/genai/internal/utils"
	"github.com/leofalp/genai/providers/ai"
)

// StructuredClient wraps a Client with type-safe structured output. The JSON
// schema for T is generated once at construction and attached to every
// request as its guided schema, so the provider steers generation toward the
// shape and the client validates the result before parsing.
type StructuredClient[T any] struct {
	client *Client
	schema *jsonschema.Schema
}

// NewStructured builds a StructuredClient[T] from a validated Config.
func NewStructured[T any](config Config) (*StructuredClient[T], error) {
	base, err := New(config)
	if err != nil {
		return nil, err
	}
	return FromClient[T](base), nil
}

// FromClient wraps an existing Client.
func FromClient[T any](base *Client) *StructuredClient[T] {
	return &StructuredClient[T]{
		client: base,
		schema: jsonschema.Generate[T](),
	}
}

// Schema returns the generated JSON schema for T.
func (sc *StructuredClient[T]) Schema() *jsonschema.Schema {
	return sc.schema
}

// CompleteText sends a plain prompt and parses the completion into T.
func (sc *StructuredClient[T]) CompleteText(ctx context.Context, request ai.Request) (*ai.StructuredResponse[T], error) {
	request.GuidedSchema = sc.schema
	response, err := sc.client.CompleteText(ctx, request)
	if err != nil {
		return nil, err
	}
	return parseStructured[T](response)
}

// CompleteChat sends a conversation and parses the completion into T.
func (sc *StructuredClient[T]) CompleteChat(ctx context.Context, request ai.Request) (*ai.StructuredResponse[T], error) {
	request.GuidedSchema = sc.schema
	response, err := sc.client.CompleteChat(ctx, request)
	if err != nil {
		return nil, err
	}
	return parseStructured[T](response)
}

func parseStructured[T any](response *ai.Response) (*ai.StructuredResponse[T], error) {
	data, err := utils.ParseStringAs[T](response.Text)
	if err != nil {
		return nil, ai.WrapError(ai.KindSchemaViolation, err, "error parsing structured output")
	}
	return &ai.StructuredResponse[T]{
		Response: *response,
		Data:     &data,
	}, nil
}
