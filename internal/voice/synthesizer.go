package voice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/singleflight"

	"github.com/easeaico/project-yeri/internal/emotion"
)

// NoopSynthesizer never produces audio.
type NoopSynthesizer struct{}

// Synthesize implements game.Synthesizer.
func (NoopSynthesizer) Synthesize(ctx context.Context, text string, stage emotion.Stage) (*string, error) {
	return nil, nil
}

// SpeechConfig configures SpeechSynthesizer.
type SpeechConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Voice    string
	CacheDir string
	// PublicPrefix is the URL prefix the cache directory is served under.
	PublicPrefix string
}

// SpeechSynthesizer renders lines through an OpenAI-compatible speech endpoint
// and serves the files from a local cache.
type SpeechSynthesizer struct {
	client *openai.Client
	cfg    SpeechConfig

	// inflight collapses concurrent requests for the same cache file.
	inflight singleflight.Group
}

// NewSpeechSynthesizer returns a SpeechSynthesizer and creates the cache directory.
func NewSpeechSynthesizer(cfg SpeechConfig) (*SpeechSynthesizer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.CacheDir == "" {
		return nil, fmt.Errorf("tts cache dir is required")
	}
	if cfg.Model == "" {
		cfg.Model = string(openai.SpeechModelTTS1)
	}
	if cfg.Voice == "" {
		cfg.Voice = "nova"
	}
	if cfg.PublicPrefix == "" {
		cfg.PublicPrefix = "/static/tts"
	}
	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create tts cache dir: %w", err)
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)
	return &SpeechSynthesizer{client: &client, cfg: cfg}, nil
}

// Synthesize implements game.Synthesizer.
func (s *SpeechSynthesizer) Synthesize(ctx context.Context, text string, stage emotion.Stage) (*string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	name := CacheKey(text, stage) + ".mp3"
	path := filepath.Join(s.cfg.CacheDir, name)
	url := strings.TrimRight(s.cfg.PublicPrefix, "/") + "/" + name

	if _, err := os.Stat(path); err == nil {
		return &url, nil
	}

	_, err, shared := s.inflight.Do(name, func() (any, error) {
		if _, err := os.Stat(path); err == nil {
			return nil, nil
		}
		return nil, s.render(ctx, text, stage, path)
	})
	if err != nil {
		return nil, err
	}
	slog.Debug("speech ready", "stage", stage, "file", name, "shared", shared)
	return &url, nil
}

// render writes the audio of text to path through a temp file and rename.
func (s *SpeechSynthesizer) render(ctx context.Context, text string, stage emotion.Stage, path string) error {
	resp, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(s.cfg.Model),
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoice(s.cfg.Voice),
		Instructions:   openai.String(emotion.ToneInstruction(stage)),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return fmt.Errorf("failed to synthesize speech: %w", err)
	}
	defer resp.Body.Close()

	tmp, err := os.CreateTemp(s.cfg.CacheDir, "tts-*.part")
	if err != nil {
		return fmt.Errorf("failed to create tts temp file: %w", err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write speech audio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close speech audio: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to store speech audio: %w", err)
	}
	return nil
}

// CacheKey identifies the audio of a line spoken at a stage.
func CacheKey(text string, stage emotion.Stage) string {
	sum := sha256.Sum256([]byte(string(stage) + "\x00" + text))
	return hex.EncodeToString(sum[:12])
}
