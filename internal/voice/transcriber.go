// Package voice holds the speech-to-text and text-to-speech collaborators.
package voice

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// PlaceholderText stands in for audio answers when no transcriber is configured.
const PlaceholderText = "[음성 입력]"

// PlaceholderTranscriber returns PlaceholderText for any payload.
type PlaceholderTranscriber struct{}

// Transcribe implements game.Transcriber.
func (PlaceholderTranscriber) Transcribe(ctx context.Context, payload string) (string, error) {
	return PlaceholderText, nil
}

// WhisperTranscriber sends base64 audio payloads to an OpenAI transcription model.
type WhisperTranscriber struct {
	client   *openai.Client
	model    string
	language string
}

// NewWhisperTranscriber returns a transcriber for modelName. baseURL may be empty.
func NewWhisperTranscriber(apiKey, baseURL, modelName string) (*WhisperTranscriber, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if modelName == "" {
		modelName = string(openai.AudioModelWhisper1)
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	return &WhisperTranscriber{
		client:   &client,
		model:    modelName,
		language: "ko",
	}, nil
}

// Transcribe implements game.Transcriber.
func (w *WhisperTranscriber) Transcribe(ctx context.Context, payload string) (string, error) {
	audio, err := decodeAudio(payload)
	if err != nil {
		return "", err
	}
	resp, err := w.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:     openai.File(bytes.NewReader(audio), "answer"+extensionFor(audio), http.DetectContentType(audio)),
		Model:    openai.AudioModel(w.model),
		Language: openai.String(w.language),
	})
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return PlaceholderText, nil
	}
	return text, nil
}

// decodeAudio accepts raw base64 or a data URL.
func decodeAudio(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if i := strings.Index(payload, ","); strings.HasPrefix(payload, "data:") && i >= 0 {
		payload = payload[i+1:]
	}
	if payload == "" {
		return nil, fmt.Errorf("audio payload is empty")
	}
	audio, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio payload: %w", err)
	}
	return audio, nil
}

func extensionFor(audio []byte) string {
	switch ctype := http.DetectContentType(audio); {
	case strings.Contains(ctype, "wav"):
		return ".wav"
	case strings.Contains(ctype, "ogg"):
		return ".ogg"
	case strings.Contains(ctype, "webm"):
		return ".webm"
	case strings.Contains(ctype, "mpeg"):
		return ".mp3"
	default:
		return ".wav"
	}
}
