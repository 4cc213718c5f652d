package models

import (
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go/v3"
	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/easeaico/project-yeri/internal/utils"
)

const responseSchemaName = "evaluation"

// buildChatParams converts an adk request into chat completion parameters.
func buildChatParams(req *model.LLMRequest, modelName string) (openai.ChatCompletionNewParams, error) {
	params := openai.ChatCompletionNewParams{
		Model: req.Model,
	}
	if params.Model == "" {
		params.Model = modelName
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if req.Config != nil {
		if system := utils.ExtractContentText(req.Config.SystemInstruction); system != "" {
			messages = append(messages, openai.SystemMessage(system))
		}
	}
	for _, c := range req.Contents {
		text := utils.ExtractContentText(c)
		if text == "" {
			continue
		}
		if c.Role == genai.RoleModel {
			messages = append(messages, openai.AssistantMessage(text))
		} else {
			messages = append(messages, openai.UserMessage(text))
		}
	}
	if len(messages) == 0 {
		return params, fmt.Errorf("request has no text content")
	}
	params.Messages = messages

	if req.Config == nil {
		return params, nil
	}
	if req.Config.Temperature != nil {
		params.Temperature = openai.Float(float64(*req.Config.Temperature))
	}
	if req.Config.MaxOutputTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.Config.MaxOutputTokens))
	}
	if req.Config.ResponseJsonSchema != nil {
		schema, err := schemaMap(req.Config.ResponseJsonSchema)
		if err != nil {
			return params, err
		}
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   responseSchemaName,
					Schema: schema,
				},
			},
		}
	} else if req.Config.ResponseMIMEType == "application/json" {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}
	return params, nil
}

// schemaMap turns a *jsonschema.Schema (or anything JSON-marshalable) into a plain map.
func schemaMap(schema any) (map[string]any, error) {
	if m, ok := schema.(map[string]any); ok {
		return m, nil
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response schema: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response schema: %w", err)
	}
	return out, nil
}
