package bedrock

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"

	"github.com/leofalp/genai/providers/ai"
)

// translateError maps SDK and smithy API errors onto the generic taxonomy.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var translated *ai.Error
	if errors.As(err, &translated) {
		return translated
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		message := apiErr.ErrorMessage()
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "TooManyRequestsException":
			return ai.WrapError(ai.KindRateLimit, err, "request was throttled")
		case "AccessDeniedException", "UnrecognizedClientException", "InvalidSignatureException", "ExpiredTokenException":
			return ai.WrapError(ai.KindAuthentication, err, "AWS credentials were rejected")
		case "ResourceNotFoundException":
			return ai.WrapError(ai.KindConfiguration, err, "model or resource not found")
		case "ModelTimeoutException":
			return ai.WrapError(ai.KindTimeout, err, "model invocation timed out")
		case "ModelNotReadyException", "ServiceUnavailableException", "InternalServerException":
			return ai.WrapError(ai.KindProvider, err, "bedrock service error")
		case "ValidationException":
			if mentionsContextLength(message) {
				return ai.WrapError(ai.KindContextLength, err, "input exceeds the model context window")
			}
			return ai.WrapError(ai.KindConfiguration, err, "request rejected by bedrock validation")
		}
		return ai.WrapError(ai.KindProvider, err, "bedrock API error")
	}

	return ai.FromTransport(err)
}

func mentionsContextLength(message string) bool {
	lowered := strings.ToLower(message)
	for _, marker := range []string{"context length", "too many tokens", "input is too long", "maximum context"} {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
