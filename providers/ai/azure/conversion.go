package azure

import (
	"encoding/json"

	"github.com/leofalp/genai/internal/utils"
	"github.com/leofalp/genai/providers/ai"
)

const schemaInstructionPrefix = "Respond only with a JSON object that conforms to this JSON Schema:\n"

// requestToChat converts a generic request into Azure's chat wire format.
// Plain text requests become a single user message. A guided schema is
// enforced via system-prompt instructions plus response_format json_object,
// since Azure deployments expose no guided decoding parameter.
func requestToChat(request ai.Request) (chatRequest, error) {
	messages, err := buildChatMessages(request)
	if err != nil {
		return chatRequest{}, err
	}

	wireRequest := chatRequest{
		Messages:    messages,
		MaxTokens:   request.MaxTokens,
		Temperature: request.Temperature,
		TopP:        request.TopP,
		N:           request.N,
	}
	if request.GuidedSchema != nil {
		wireRequest.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	return wireRequest, nil
}

func buildChatMessages(request ai.Request) ([]chatMessage, error) {
	systemPrompt := request.SystemPrompt
	if request.GuidedSchema != nil {
		schemaJSON, err := request.GuidedSchema.JSON()
		if err != nil {
			return nil, ai.WrapError(ai.KindConfiguration, err, "error encoding guided schema")
		}
		if systemPrompt != "" {
			systemPrompt += "\n\n"
		}
		systemPrompt += schemaInstructionPrefix + string(schemaJSON)
	}

	var messages []chatMessage
	if systemPrompt != "" {
		messages = append(messages, chatMessage{Role: string(ai.RoleSystem), Content: systemPrompt})
	}

	for _, message := range request.Messages {
		converted, err := convertMessage(message)
		if err != nil {
			return nil, err
		}
		messages = append(messages, converted)
	}

	if request.Prompt != "" {
		messages = append(messages, chatMessage{Role: string(ai.RoleUser), Content: request.Prompt})
	}

	if len(request.Images) == 0 {
		return messages, nil
	}

	lastUser := -1
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == string(ai.RoleUser) {
			lastUser = i
			break
		}
	}
	if lastUser == -1 {
		messages = append(messages, chatMessage{Role: string(ai.RoleUser), Content: ""})
		lastUser = len(messages) - 1
	}

	parts := contentToParts(messages[lastUser].Content)
	for _, image := range request.Images {
		encoded, err := utils.EncodeImageDataURL(image)
		if err != nil {
			return nil, err
		}
		parts = append(parts, contentPart{Type: "image_url", ImageURL: &imageURL{URL: encoded}})
	}
	messages[lastUser].Content = parts

	return messages, nil
}

func convertMessage(message ai.Message) (chatMessage, error) {
	converted := chatMessage{Role: string(message.Role)}

	if len(message.Parts) == 0 {
		converted.Content = message.Content
		return converted, nil
	}

	parts := make([]contentPart, 0, len(message.Parts))
	for _, part := range message.Parts {
		switch part.Type {
		case ai.ContentTypeText:
			parts = append(parts, contentPart{Type: "text", Text: part.Text})
		case ai.ContentTypeImage:
			if part.Image == nil {
				return chatMessage{}, ai.NewError(ai.KindConfiguration, "image content part has no image reference")
			}
			encoded, err := utils.EncodeImageDataURL(*part.Image)
			if err != nil {
				return chatMessage{}, err
			}
			parts = append(parts, contentPart{Type: "image_url", ImageURL: &imageURL{URL: encoded}})
		default:
			return chatMessage{}, ai.Errorf(ai.KindConfiguration, "unknown content part type %q", part.Type)
		}
	}
	converted.Content = parts
	return converted, nil
}

func contentToParts(content any) []contentPart {
	switch value := content.(type) {
	case string:
		if value == "" {
			return nil
		}
		return []contentPart{{Type: "text", Text: value}}
	case []contentPart:
		return value
	default:
		return nil
	}
}

func chatToGeneric(raw []byte, response chatResponse) *ai.Response {
	result := &ai.Response{
		ID:    response.ID,
		Model: response.Model,
		Usage: response.Usage.toGeneric(),
		Raw:   json.RawMessage(raw),
	}
	if len(response.Choices) > 0 {
		result.Text = response.Choices[0].Message.Content
		result.FinishReason = response.Choices[0].FinishReason
	}
	if len(response.Choices) > 1 {
		for _, choice := range response.Choices {
			result.Texts = append(result.Texts, choice.Message.Content)
		}
	}
	return result
}
