package observability

// Semantic conventions for attribute names used across the module.

// --- LLM provider attributes ---

const (
	// AttrLLMProvider is the provider kind (e.g. "openai", "bedrock").
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier.
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL.
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMResponseID is the response identifier returned by the provider.
	AttrLLMResponseID = "llm.response.id"

	// AttrLLMFinishReason is the reason generation finished.
	AttrLLMFinishReason = "llm.finish_reason"

	// AttrLLMTokensTotal is the total token count reported by the provider.
	AttrLLMTokensTotal = "llm.tokens.total" // #nosec G101 -- refers to LLM tokens, not a credential
)

// --- Request attributes ---

const (
	// AttrRequestMessagesCount is the number of messages in the request.
	AttrRequestMessagesCount = "request.messages.count"

	// AttrRequestImagesCount is the number of image references in the request.
	AttrRequestImagesCount = "request.images.count"
)

// --- Batch attributes ---

const (
	// AttrBatchSize is the number of items in a batch call.
	AttrBatchSize = "batch.size"

	// AttrBatchMaxConcurrent is the concurrency ceiling of a batch call.
	AttrBatchMaxConcurrent = "batch.max_concurrent"

	// AttrBatchItemIndex is the original index of a batch item.
	AttrBatchItemIndex = "batch.item.index"

	// AttrBatchItemID is the correlation id assigned to a batch item.
	AttrBatchItemID = "batch.item.id"
)

// --- HTTP attributes ---

const (
	// AttrHTTPMethod is the HTTP request method.
	AttrHTTPMethod = "http.method"

	// AttrHTTPURL is the full request URL.
	AttrHTTPURL = "http.url"

	// AttrHTTPStatusCode is the response status code.
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPRequestBodySize is the request body size in bytes.
	AttrHTTPRequestBodySize = "http.request.body.size"

	// AttrHTTPResponseBodySize is the response body size in bytes.
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- Event names ---

const (
	// EventLLMRequestStart marks the beginning of a provider call.
	EventLLMRequestStart = "llm.request.start"

	// EventLLMRequestEnd marks the completion of a provider call.
	EventLLMRequestEnd = "llm.request.end"

	// EventTokensReceived is emitted when usage metadata arrives.
	EventTokensReceived = "llm.tokens.received"
)
