package utils

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/leofalp/genai/providers/ai"
	"github.com/leofalp/genai/providers/observability"
)

// DoPostStream performs a JSON POST and returns the response with its body
// left open for incremental reading. The caller owns the body and must close
// it when done (typically via a defer inside the stream iterator, so the
// connection is released whether the stream is exhausted, abandoned, or
// failed). On error paths the body is drained and closed before returning.
func DoPostStream(ctx context.Context, client *http.Client, url string, apiKey string, body any, headers ...HeaderOption) (*http.Response, error) {
	span := observability.SpanFromContext(ctx)

	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, ai.WrapError(ai.KindConfiguration, err, "error encoding request body")
	}

	if span != nil {
		span.AddEvent("http.stream_request.prepared",
			observability.String(observability.AttrHTTPMethod, "POST"),
			observability.String(observability.AttrHTTPURL, url),
			observability.Int(observability.AttrHTTPRequestBodySize, len(jsonBody)),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, ai.WrapError(ai.KindConfiguration, err, "error creating request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	for _, header := range headers {
		req.Header.Set(header.Key, header.Value)
	}

	requestStart := time.Now()
	response, err := httpClient.Do(req)
	requestDuration := time.Since(requestStart)

	if err != nil {
		if span != nil {
			span.AddEvent("http.stream_request.error",
				observability.Error(err),
				observability.Duration("http.request.duration", requestDuration),
			)
		}
		return nil, ai.FromTransport(err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		defer CloseWithLog(response.Body)
		errorBody, readErr := io.ReadAll(io.LimitReader(response.Body, maxResponseBodySize))
		if readErr != nil {
			translated := ai.FromHTTPStatus(response.StatusCode, "")
			translated.Message += " (failed to read body: " + readErr.Error() + ")"
			return nil, translated
		}
		return nil, ai.FromHTTPStatus(response.StatusCode, string(errorBody))
	}

	if span != nil {
		span.AddEvent("http.stream_response.started",
			observability.Int(observability.AttrHTTPStatusCode, response.StatusCode),
			observability.Duration("http.request.duration", requestDuration),
		)
	}

	return response, nil
}

// maxSSELineSize is the maximum size of a single SSE line (1 MB). The
// default bufio.Scanner limit of 64 KiB is too small for long completions.
const maxSSELineSize = 1 * 1024 * 1024

// SSEScanner reads Server-Sent Events from a reader. It assembles multi-line
// data fields into one payload, skips comments and empty lines, and detects
// the [DONE] sentinel used by OpenAI-compatible APIs.
type SSEScanner struct {
	scanner *bufio.Scanner
}

// NewSSEScanner creates a scanner over the given reader. Individual lines up
// to maxSSELineSize are supported; longer lines surface as a stream decode
// error from Next.
func NewSSEScanner(reader io.Reader) *SSEScanner {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSSELineSize)
	return &SSEScanner{scanner: scanner}
}

// Next returns the next SSE data payload. Consecutive "data:" lines of one
// event are joined with newlines. It returns io.EOF when the reader is
// exhausted or the [DONE] sentinel arrives, and a stream decode error when
// the underlying read fails.
func (s *SSEScanner) Next() (string, error) {
	var dataLines []string

	for s.scanner.Scan() {
		line := s.scanner.Text()

		// Blank line ends the current event; flush accumulated data.
		if line == "" {
			if len(dataLines) > 0 {
				return strings.Join(dataLines, "\n"), nil
			}
			continue
		}

		// SSE comment
		if strings.HasPrefix(line, ":") {
			continue
		}

		if strings.HasPrefix(line, "data:") {
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))

			if data == "[DONE]" {
				return "", io.EOF
			}

			dataLines = append(dataLines, data)
			continue
		}

		// Other SSE fields (event:, id:, retry:) are ignored.
	}

	if err := s.scanner.Err(); err != nil {
		return "", ai.WrapError(ai.KindStreamDecode, err, "error reading event stream")
	}

	if len(dataLines) > 0 {
		return strings.Join(dataLines, "\n"), nil
	}

	return "", io.EOF
}
