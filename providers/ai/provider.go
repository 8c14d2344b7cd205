package ai

import "context"

// Provider is the capability interface every generation backend must satisfy.
// All three methods have identical external semantics regardless of provider:
// defaults applied by the caller, failures translated into the common error
// taxonomy before they cross this boundary, and no conversation state
// retained between calls.
type Provider interface {
	// CompleteText generates a free-text completion from Request.Prompt.
	CompleteText(ctx context.Context, request Request) (*Response, error)

	// CompleteChat generates a completion over Request.Messages.
	CompleteChat(ctx context.Context, request Request) (*Response, error)

	// CompleteVision generates a completion over Request.Messages with
	// Request.Images attached to the last user message. Providers or models
	// that cannot accept images fail with an unsupported-capability error.
	CompleteVision(ctx context.Context, request Request) (*Response, error)
}

// StreamProvider is implemented by providers that support incremental token
// delivery. Pre-stream errors (auth, bad request, network) are returned as a
// normal error; mid-stream errors are yielded through the stream iterator.
type StreamProvider interface {
	Provider

	// StreamText is the streaming counterpart of CompleteText.
	StreamText(ctx context.Context, request Request) (*Stream, error)

	// StreamChat is the streaming counterpart of CompleteChat.
	StreamChat(ctx context.Context, request Request) (*Stream, error)
}
