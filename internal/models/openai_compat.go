// Package models provides adk model.LLM adapters for the evaluation backends.
package models

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// compatModel talks to any OpenAI-compatible chat endpoint, such as Ollama serving EEVE.
type compatModel struct {
	client *openai.Client
	name   string
}

// NewOpenAICompatModel returns a non-streaming text model against baseURL.
// A zero timeout leaves the client default.
func NewOpenAICompatModel(ctx context.Context, modelName, baseURL, apiKey string, timeout time.Duration) (model.LLM, error) {
	if strings.TrimSpace(modelName) == "" {
		return nil, fmt.Errorf("model name cannot be empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if apiKey == "" {
		// Ollama ignores the key but the client insists on one.
		apiKey = "ollama"
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(strings.TrimRight(baseURL, "/") + "/"),
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	client := openai.NewClient(opts...)

	return &compatModel{
		client: &client,
		name:   modelName,
	}, nil
}

func (m *compatModel) Name() string {
	return m.name
}

// GenerateContent ignores stream and always yields one complete response.
func (m *compatModel) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		resp, err := m.generate(ctx, req)
		yield(resp, err)
	}
}

func (m *compatModel) generate(ctx context.Context, req *model.LLMRequest) (*model.LLMResponse, error) {
	params, err := buildChatParams(req, m.name)
	if err != nil {
		return nil, err
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		slog.Error("failed to call chat completion API", "model", m.name, "error", err.Error())
		return nil, fmt.Errorf("failed to call chat completion API: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return &model.LLMResponse{}, nil
	}

	choice := resp.Choices[0]
	return &model.LLMResponse{
		Content:      genai.NewContentFromText(choice.Message.Content, genai.RoleModel),
		TurnComplete: true,
	}, nil
}
