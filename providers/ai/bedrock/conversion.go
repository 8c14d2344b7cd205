package bedrock

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/leofalp/genai/internal/utils"
	"github.com/leofalp/genai/providers/ai"
)

const schemaInstructionPrefix = "Respond only with a JSON object that conforms to this JSON Schema:\n"

// requestToConverse converts a generic request into a Converse input. The
// system prompt and any guided-schema instructions travel as system content
// blocks; Bedrock has no guided decoding parameter of its own.
func requestToConverse(request ai.Request) (*bedrockruntime.ConverseInput, error) {
	messages, err := buildMessages(request)
	if err != nil {
		return nil, err
	}

	input := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(request.Model),
		Messages: messages,
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(int32(request.MaxTokens)),
			Temperature: aws.Float32(request.Temperature),
			TopP:        aws.Float32(request.TopP),
		},
	}

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
	if systemPrompt != "" {
		input.System = []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: systemPrompt},
		}
	}

	return input, nil
}

func buildMessages(request ai.Request) ([]types.Message, error) {
	var messages []types.Message

	for _, message := range request.Messages {
		converted, err := convertMessage(message)
		if err != nil {
			return nil, err
		}
		messages = append(messages, converted)
	}

	if request.Prompt != "" {
		messages = append(messages, types.Message{
			Role:    types.ConversationRoleUser,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: request.Prompt}},
		})
	}

	if len(request.Images) == 0 {
		return messages, nil
	}

	lastUser := -1
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == types.ConversationRoleUser {
			lastUser = i
			break
		}
	}
	if lastUser == -1 {
		messages = append(messages, types.Message{Role: types.ConversationRoleUser})
		lastUser = len(messages) - 1
	}

	for _, image := range request.Images {
		block, err := imageToBlock(image)
		if err != nil {
			return nil, err
		}
		messages[lastUser].Content = append(messages[lastUser].Content, block)
	}

	return messages, nil
}

func convertMessage(message ai.Message) (types.Message, error) {
	role := types.ConversationRoleUser
	if message.Role == ai.RoleAssistant {
		role = types.ConversationRoleAssistant
	}

	converted := types.Message{Role: role}

	if len(message.Parts) == 0 {
		converted.Content = []types.ContentBlock{&types.ContentBlockMemberText{Value: message.Content}}
		return converted, nil
	}

	for _, part := range message.Parts {
		switch part.Type {
		case ai.ContentTypeText:
			converted.Content = append(converted.Content, &types.ContentBlockMemberText{Value: part.Text})
		case ai.ContentTypeImage:
			if part.Image == nil {
				return types.Message{}, ai.NewError(ai.KindConfiguration, "image content part has no image reference")
			}
			block, err := imageToBlock(*part.Image)
			if err != nil {
				return types.Message{}, err
			}
			converted.Content = append(converted.Content, block)
		default:
			return types.Message{}, ai.Errorf(ai.KindConfiguration, "unknown content part type %q", part.Type)
		}
	}

	return converted, nil
}

func imageToBlock(image ai.ImageRef) (types.ContentBlock, error) {
	data, mimeType, err := utils.ImageBytes(image)
	if err != nil {
		return nil, err
	}

	format, err := imageFormat(mimeType)
	if err != nil {
		return nil, err
	}

	return &types.ContentBlockMemberImage{
		Value: types.ImageBlock{
			Format: format,
			Source: &types.ImageSourceMemberBytes{Value: data},
		},
	}, nil
}

func imageFormat(mimeType string) (types.ImageFormat, error) {
	switch strings.ToLower(mimeType) {
	case "image/png":
		return types.ImageFormatPng, nil
	case "image/jpeg", "image/jpg":
		return types.ImageFormatJpeg, nil
	case "image/gif":
		return types.ImageFormatGif, nil
	case "image/webp":
		return types.ImageFormatWebp, nil
	default:
		return "", ai.Errorf(ai.KindConfiguration, "unsupported image MIME type %q", mimeType)
	}
}
