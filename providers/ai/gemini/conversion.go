package gemini

import (
	"encoding/base64"
	"encoding/json"

	"github.com/leofalp/genai/internal/utils"
	"github.com/leofalp/genai/providers/ai"
)

// requestToGemini converts a generic request into the generateContent wire
// format. A plain Prompt becomes a single user content; a guided schema maps
// to the native responseSchema config with an application/json MIME type.
func requestToGemini(request ai.Request) (generateContentRequest, error) {
	wireRequest := generateContentRequest{}

	if request.SystemPrompt != "" {
		wireRequest.SystemInstruction = &systemInstruction{
			Parts: []part{{Text: request.SystemPrompt}},
		}
	}

	contents, err := buildContents(request)
	if err != nil {
		return generateContentRequest{}, err
	}
	wireRequest.Contents = contents

	config := &generationConfig{
		MaxOutputTokens: &request.MaxTokens,
		Temperature:     &request.Temperature,
		TopP:            &request.TopP,
	}
	if request.N > 1 {
		config.CandidateCount = &request.N
	}
	if request.GuidedSchema != nil {
		schemaJSON, err := request.GuidedSchema.JSON()
		if err != nil {
			return generateContentRequest{}, ai.WrapError(ai.KindConfiguration, err, "error encoding guided schema")
		}
		config.ResponseMimeType = "application/json"
		config.ResponseSchema = json.RawMessage(schemaJSON)
	}
	wireRequest.GenerationConfig = config

	return wireRequest, nil
}

// buildContents maps the conversation to Gemini contents. Role mapping:
// user -> user, assistant -> model, system -> user (the system prompt proper
// travels in systemInstruction). Request-level images attach to the last
// user content.
func buildContents(request ai.Request) ([]content, error) {
	var contents []content

	for _, message := range request.Messages {
		converted, err := convertMessage(message)
		if err != nil {
			return nil, err
		}
		contents = append(contents, converted)
	}

	if request.Prompt != "" {
		contents = append(contents, content{Role: "user", Parts: []part{{Text: request.Prompt}}})
	}

	if len(request.Images) == 0 {
		return contents, nil
	}

	lastUser := -1
	for i := len(contents) - 1; i >= 0; i-- {
		if contents[i].Role == "user" {
			lastUser = i
			break
		}
	}
	if lastUser == -1 {
		contents = append(contents, content{Role: "user"})
		lastUser = len(contents) - 1
	}

	for _, image := range request.Images {
		imagePart, err := imageToPart(image)
		if err != nil {
			return nil, err
		}
		contents[lastUser].Parts = append(contents[lastUser].Parts, imagePart)
	}

	return contents, nil
}

func convertMessage(message ai.Message) (content, error) {
	role := "user"
	if message.Role == ai.RoleAssistant {
		role = "model"
	}

	converted := content{Role: role}

	if len(message.Parts) == 0 {
		converted.Parts = []part{{Text: message.Content}}
		return converted, nil
	}

	for _, contentPart := range message.Parts {
		switch contentPart.Type {
		case ai.ContentTypeText:
			converted.Parts = append(converted.Parts, part{Text: contentPart.Text})
		case ai.ContentTypeImage:
			if contentPart.Image == nil {
				return content{}, ai.NewError(ai.KindConfiguration, "image content part has no image reference")
			}
			imagePart, err := imageToPart(*contentPart.Image)
			if err != nil {
				return content{}, err
			}
			converted.Parts = append(converted.Parts, imagePart)
		default:
			return content{}, ai.Errorf(ai.KindConfiguration, "unknown content part type %q", contentPart.Type)
		}
	}

	return converted, nil
}

func imageToPart(image ai.ImageRef) (part, error) {
	data, mimeType, err := utils.ImageBytes(image)
	if err != nil {
		return part{}, err
	}
	return part{InlineData: &inlineData{
		MimeType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(data),
	}}, nil
}

// mapFinishReason normalizes Gemini finish reasons to the generic vocabulary.
func mapFinishReason(reason string) string {
	switch reason {
	case "STOP":
		return "stop"
	case "MAX_TOKENS":
		return "length"
	case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT":
		return "content_filter"
	default:
		return reason
	}
}

func candidateText(c candidate) string {
	if c.Content == nil {
		return ""
	}
	var text string
	for _, p := range c.Content.Parts {
		text += p.Text
	}
	return text
}

func geminiToGeneric(raw []byte, response generateContentResponse) *ai.Response {
	result := &ai.Response{
		ID:    response.ResponseID,
		Model: response.ModelVersion,
		Usage: response.UsageMetadata.toGeneric(),
		Raw:   json.RawMessage(raw),
	}
	if len(response.Candidates) > 0 {
		result.Text = candidateText(response.Candidates[0])
		result.FinishReason = mapFinishReason(response.Candidates[0].FinishReason)
	}
	if len(response.Candidates) > 1 {
		for _, c := range response.Candidates {
			result.Texts = append(result.Texts, candidateText(c))
		}
	}
	return result
}
