package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/easeaico/project-yeri/internal/config"
	"github.com/easeaico/project-yeri/internal/emotion"
	"github.com/easeaico/project-yeri/internal/game"
	"github.com/easeaico/project-yeri/internal/imagepair"
	"github.com/easeaico/project-yeri/internal/judge"
	"github.com/easeaico/project-yeri/internal/models"
	"github.com/easeaico/project-yeri/internal/prompt"
	"github.com/easeaico/project-yeri/internal/registry"
	"github.com/easeaico/project-yeri/internal/storage"
	"github.com/easeaico/project-yeri/internal/voice"
)

// Infra holds the built engine and what must be closed with it.
type Infra struct {
	Engine *game.Engine
	Store  *storage.Store
}

// Close releases the database handle, if any.
func (i *Infra) Close() error {
	if i.Store != nil {
		i.Store.Close()
	}
	return nil
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	infra := &Infra{}

	var pairs game.PairProvider = imagepair.NewStatic(cfg.ImageCDNURL)
	if cfg.DatabaseURL != "" {
		store, err := storage.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		infra.Store = store
		pairs = imagepair.NewChain(store.Pairs, pairs)
		slog.Info("database ready")
	}

	evaluator, err := newEvaluator(ctx, cfg)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}
	judgeImpl, err := newJudge(ctx, cfg, infra.Store)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}
	transcriber, err := newTranscriber(cfg)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}
	synth, err := newSynthesizer(cfg)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}

	engine, err := game.NewEngine(cfg.Rules(), registry.New[game.Session](), game.Options{
		Pairs:       pairs,
		Transcriber: transcriber,
		Evaluator:   evaluator,
		Synthesizer: synth,
		Judge:       judgeImpl,
		Dialogue:    emotion.DefaultDialogue,
	})
	if err != nil {
		_ = infra.Close()
		return nil, err
	}
	infra.Engine = engine
	return infra, nil
}

func newEvaluator(ctx context.Context, cfg config.Config) (emotion.Evaluator, error) {
	switch cfg.Evaluator {
	case config.EvaluatorEEVE:
		m, err := models.NewOpenAICompatModel(ctx, cfg.EEVEModelName, cfg.EEVEBaseURL(), "", cfg.EEVETimeout())
		if err != nil {
			return nil, fmt.Errorf("failed to create eeve model: %w", err)
		}
		slog.Info("emotion evaluator ready", "backend", "eeve", "endpoint", cfg.EEVEBaseURL(), "model", cfg.EEVEModelName)
		return emotion.NewLLMEvaluator(m, prompt.NewBuilder(0))
	case config.EvaluatorGemini:
		m, err := models.NewGeminiModel(ctx, cfg.GeminiModel, cfg.GoogleAPIKey)
		if err != nil {
			return nil, err
		}
		slog.Info("emotion evaluator ready", "backend", "gemini", "model", cfg.GeminiModel)
		return emotion.NewLLMEvaluator(m, prompt.NewBuilder(0))
	default:
		slog.Info("emotion evaluator ready", "backend", "rule")
		return emotion.NewRuleEvaluator(), nil
	}
}

func newJudge(ctx context.Context, cfg config.Config, store *storage.Store) (game.Judge, error) {
	switch cfg.Judge {
	case config.JudgeKeyword:
		return judge.NewKeyword(), nil
	case config.JudgeVector:
		if store == nil {
			return nil, fmt.Errorf("vector judge requires DATABASE_URL")
		}
		embedder, err := judge.NewGenAIEmbedder(ctx, cfg.GoogleAPIKey, cfg.EmbeddingModel)
		if err != nil {
			return nil, err
		}
		return judge.NewVector(embedder, store.Differences, cfg.SimilarityThreshold)
	default:
		return game.PlaceholderJudge{}, nil
	}
}

func newTranscriber(cfg config.Config) (game.Transcriber, error) {
	if cfg.OpenAIAPIKey == "" {
		return voice.PlaceholderTranscriber{}, nil
	}
	return voice.NewWhisperTranscriber(cfg.OpenAIAPIKey, "", cfg.WhisperModel)
}

func newSynthesizer(cfg config.Config) (game.Synthesizer, error) {
	key := cfg.TTSAPIKey
	if key == "" {
		key = cfg.OpenAIAPIKey
	}
	if key == "" {
		return voice.NoopSynthesizer{}, nil
	}
	return voice.NewSpeechSynthesizer(voice.SpeechConfig{
		APIKey:       key,
		BaseURL:      cfg.TTSEndpoint,
		Model:        cfg.TTSModel,
		Voice:        cfg.TTSVoice,
		CacheDir:     cfg.TTSCacheDir,
		PublicPrefix: ttsPrefix(cfg),
	})
}
