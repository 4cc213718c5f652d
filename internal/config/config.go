// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/easeaico/project-yeri/internal/emotion"
	"github.com/easeaico/project-yeri/internal/game"
	"github.com/easeaico/project-yeri/internal/scoring"
)

// Evaluator backends.
const (
	EvaluatorRule   = "rule"
	EvaluatorEEVE   = "eeve"
	EvaluatorGemini = "gemini"
)

// Judge backends.
const (
	JudgePlaceholder = "placeholder"
	JudgeKeyword     = "keyword"
	JudgeVector      = "vector"
)

// Config holds runtime settings.
type Config struct {
	AppName     string `env:"APP_NAME" envDefault:"Yeri Game Backend"`
	AppVersion  string `env:"APP_VERSION" envDefault:"0.1.0"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Debug       bool   `env:"DEBUG" envDefault:"false"`

	Host           string   `env:"HOST" envDefault:"0.0.0.0"`
	Port           int      `env:"PORT" envDefault:"8000"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://localhost:3001" envSeparator:","`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	Evaluator      string `env:"EVALUATOR" envDefault:"rule"`
	EEVEEndpoint   string `env:"EEVE_ENDPOINT" envDefault:"http://localhost:11434"`
	EEVEModelName  string `env:"EEVE_MODEL_NAME" envDefault:"eeve"`
	EEVETimeoutSec int    `env:"EEVE_TIMEOUT" envDefault:"30"`
	GeminiModel    string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	GoogleAPIKey   string `env:"GOOGLE_API_KEY"`

	Judge               string  `env:"JUDGE" envDefault:"placeholder"`
	EmbeddingModel      string  `env:"EMBEDDING_MODEL" envDefault:"text-embedding-004"`
	SimilarityThreshold float64 `env:"SIMILARITY_THRESHOLD" envDefault:"0.75"`

	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	WhisperModel string `env:"WHISPER_MODEL" envDefault:"whisper-1"`
	TTSEndpoint  string `env:"TTS_ENDPOINT"`
	TTSAPIKey    string `env:"TTS_API_KEY"`
	TTSModel     string `env:"TTS_MODEL" envDefault:"gpt-4o-mini-tts"`
	TTSVoice     string `env:"TTS_VOICE" envDefault:"nova"`
	TTSCacheDir  string `env:"TTS_CACHE_DIR" envDefault:"./assets/tts"`

	ImageStoragePath string `env:"IMAGE_STORAGE_PATH" envDefault:"./assets"`
	ImageCDNURL      string `env:"IMAGE_CDN_URL" envDefault:"http://localhost:8000/static"`
	DatabaseURL      string `env:"DATABASE_URL"`

	SessionTimeoutSec    int           `env:"SESSION_TIMEOUT" envDefault:"600"`
	SessionRetention     time.Duration `env:"SESSION_RETENTION" envDefault:"10m"`
	SweepInterval        time.Duration `env:"SWEEP_INTERVAL" envDefault:"30s"`
	MaxSessionsPerPlayer int           `env:"MAX_SESSIONS_PER_USER" envDefault:"5"`
	AnswerTickSec        int           `env:"ANSWER_TICK_SEC" envDefault:"5"`

	EmotionSenseWeight float64 `env:"EMOTION_SENSE_WEIGHT" envDefault:"0.6"`
	ObservationWeight  float64 `env:"OBSERVATION_WEIGHT" envDefault:"0.25"`
	ReflexWeight       float64 `env:"REFLEX_WEIGHT" envDefault:"0.15"`
	Combo1Bonus        float64 `env:"COMBO_1_BONUS" envDefault:"2"`
	Combo2Bonus        float64 `env:"COMBO_2_BONUS" envDefault:"4"`
	Combo3Bonus        float64 `env:"COMBO_3_BONUS" envDefault:"6"`
	AffectionateMin    float64 `env:"ENDING_AFFECTIONATE_MIN" envDefault:"80"`
	MildlyUpsetMin     float64 `env:"ENDING_MILDLY_UPSET_MIN" envDefault:"50"`
}

// Parse reads the environment and validates the result.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load is Parse that exits the process on error.
func Load() Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func (c *Config) normalize() {
	c.Evaluator = strings.ToLower(strings.TrimSpace(c.Evaluator))
	c.Judge = strings.ToLower(strings.TrimSpace(c.Judge))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	origins := c.AllowedOrigins[:0]
	for _, o := range c.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.AllowedOrigins = origins
}

// Validate checks cross-field requirements.
func (c Config) Validate() error {
	switch c.Evaluator {
	case EvaluatorRule, EvaluatorEEVE:
	case EvaluatorGemini:
		if c.GoogleAPIKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY is required when EVALUATOR=gemini")
		}
	default:
		return fmt.Errorf("EVALUATOR must be one of rule, eeve, gemini, got %q", c.Evaluator)
	}
	switch c.Judge {
	case JudgePlaceholder, JudgeKeyword:
	case JudgeVector:
		if c.GoogleAPIKey == "" || c.DatabaseURL == "" {
			return fmt.Errorf("GOOGLE_API_KEY and DATABASE_URL are required when JUDGE=vector")
		}
	default:
		return fmt.Errorf("JUDGE must be one of placeholder, keyword, vector, got %q", c.Judge)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.SessionTimeoutSec <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}
	return c.Rules().Validate()
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// EEVEBaseURL is the OpenAI-compatible base of the Ollama endpoint.
func (c Config) EEVEBaseURL() string {
	base := strings.TrimRight(c.EEVEEndpoint, "/")
	if strings.HasSuffix(base, "/v1") {
		return base
	}
	return base + "/v1"
}

// EEVETimeout is the evaluation request timeout.
func (c Config) EEVETimeout() time.Duration {
	return time.Duration(c.EEVETimeoutSec) * time.Second
}

// Rules derives the game rules.
func (c Config) Rules() game.Rules {
	endings := emotion.DefaultEndingRules()
	endings.AffectionateMin = c.AffectionateMin
	endings.MildlyUpsetMin = c.MildlyUpsetMin
	return game.Rules{
		TickSec: c.AnswerTickSec,
		Weights: scoring.Weights{
			Sense:       c.EmotionSenseWeight,
			Observation: c.ObservationWeight,
			Reflex:      c.ReflexWeight,
		},
		Bonuses:              scoring.Bonuses{0, c.Combo1Bonus, c.Combo2Bonus, c.Combo3Bonus},
		Endings:              endings,
		MaxSessionsPerPlayer: c.MaxSessionsPerPlayer,
		SessionTimeout:       time.Duration(c.SessionTimeoutSec) * time.Second,
		SessionRetention:     c.SessionRetention,
	}
}
