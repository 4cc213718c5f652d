package models

import (
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

func TestBuildChatParamsMessages(t *testing.T) {
	req := &model.LLMRequest{
		Contents: []*genai.Content{
			genai.NewContentFromText("머리 잘랐어?", genai.RoleUser),
			genai.NewContentFromText("응~", genai.RoleModel),
		},
		Config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText("너는 예리야", genai.RoleUser),
			Temperature:       genai.Ptr[float32](0.2),
		},
	}
	params, err := buildChatParams(req, "eeve")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if params.Model != "eeve" {
		t.Fatalf("expected model fallback, got %q", params.Model)
	}
	if len(params.Messages) != 3 {
		t.Fatalf("expected system + 2 messages, got %d", len(params.Messages))
	}
	if params.Messages[0].OfSystem == nil || params.Messages[2].OfAssistant == nil {
		t.Fatalf("unexpected message roles: %#v", params.Messages)
	}
}

func TestBuildChatParamsSchema(t *testing.T) {
	type out struct {
		Score float64 `json:"score"`
	}
	schema, err := jsonschema.For[out](nil)
	if err != nil {
		t.Fatalf("expected schema, got %v", err)
	}
	req := &model.LLMRequest{
		Contents: []*genai.Content{genai.NewContentFromText("hi", genai.RoleUser)},
		Config: &genai.GenerateContentConfig{
			ResponseMIMEType:   "application/json",
			ResponseJsonSchema: schema,
		},
	}
	params, err := buildChatParams(req, "eeve")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	js := params.ResponseFormat.OfJSONSchema
	if js == nil {
		t.Fatalf("expected json schema response format")
	}
	props, ok := js.JSONSchema.Schema.(map[string]any)["properties"].(map[string]any)
	if !ok || props["score"] == nil {
		t.Fatalf("expected score property in schema, got %#v", js.JSONSchema.Schema)
	}
}

func TestBuildChatParamsEmpty(t *testing.T) {
	if _, err := buildChatParams(&model.LLMRequest{}, "eeve"); err == nil {
		t.Fatalf("expected error for empty request")
	}
}
