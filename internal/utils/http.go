package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/leofalp/genai/providers/ai"
	"github.com/leofalp/genai/providers/observability"
)

// HeaderOption adds or overrides a header on an outbound request. Providers
// that do not use Bearer auth (Gemini, Azure) pass their own auth header this
// way and leave apiKey empty.
type HeaderOption struct {
	Key   string
	Value string
}

// maxResponseBodySize caps response body reads (10 MB) so a rogue endpoint
// cannot force unbounded allocation.
const maxResponseBodySize int64 = 10 * 1024 * 1024

// DoPostSync performs a synchronous JSON POST and decodes the reply into
// OutputStruct. The raw body is returned alongside the decoded value so
// adapters can preserve the provider's reply verbatim.
//
// Every failure leaves this function as a taxonomy error: network and
// deadline failures through ai.FromTransport, non-2xx replies through
// ai.FromHTTPStatus, and undecodable bodies as provider errors. The response
// body is always closed before returning.
func DoPostSync[OutputStruct any](ctx context.Context, client *http.Client, url string, apiKey string, body any, headers ...HeaderOption) ([]byte, *OutputStruct, error) {
	span := observability.SpanFromContext(ctx)

	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, nil, ai.WrapError(ai.KindConfiguration, err, "error encoding request body")
	}

	if span != nil {
		span.AddEvent("http.request.prepared",
			observability.String(observability.AttrHTTPMethod, "POST"),
			observability.String(observability.AttrHTTPURL, url),
			observability.Int(observability.AttrHTTPRequestBodySize, len(jsonBody)),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, nil, ai.WrapError(ai.KindConfiguration, err, "error creating request")
	}

	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	for _, header := range headers {
		req.Header.Set(header.Key, header.Value)
	}

	requestStart := time.Now()
	res, err := httpClient.Do(req)
	requestDuration := time.Since(requestStart)

	if err != nil {
		if span != nil {
			span.AddEvent("http.request.error",
				observability.Error(err),
				observability.Duration("http.request.duration", requestDuration),
			)
		}
		return nil, nil, ai.FromTransport(err)
	}
	defer CloseWithLog(res.Body)

	respBody, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBodySize))
	if err != nil {
		return nil, nil, ai.FromTransport(err)
	}

	if span != nil {
		span.AddEvent("http.response.received",
			observability.Int(observability.AttrHTTPStatusCode, res.StatusCode),
			observability.Int(observability.AttrHTTPResponseBodySize, len(respBody)),
			observability.Duration("http.request.duration", requestDuration),
		)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, nil, ai.FromHTTPStatus(res.StatusCode, string(respBody))
	}

	var resStruct OutputStruct
	if err = json.Unmarshal(respBody, &resStruct); err != nil {
		translated := ai.WrapError(ai.KindProvider, err, "error decoding provider response: "+TruncateString(string(respBody), 500))
		translated.StatusCode = res.StatusCode
		return respBody, nil, translated
	}

	return respBody, &resStruct, nil
}

// CloseWithLog closes the closer and logs (but does not propagate) the error.
// Used for response bodies where a close failure must not override the
// primary result.
func CloseWithLog(closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}
