package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/easeaico/project-yeri/internal/config"
	"github.com/easeaico/project-yeri/internal/handler"
)

func setupHTTP(cfg config.Config, infra *Infra) (*gin.Engine, error) {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handler.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handler.NewHandler(infra.Engine, handler.Info{
		AppName:     cfg.AppName,
		Version:     cfg.AppVersion,
		Environment: cfg.Environment,
		Debug:       cfg.Debug,
		Evaluator:   cfg.Evaluator,
		Judge:       cfg.Judge,
		Rules:       infra.Engine.Rules(),
	}).RegisterRoutes(router)

	// Images and cached speech.
	if info, err := os.Stat(cfg.ImageStoragePath); err == nil && info.IsDir() {
		router.Static("/static", cfg.ImageStoragePath)
	}
	if prefix := ttsPrefix(cfg); prefix == "/tts" {
		if err := os.MkdirAll(cfg.TTSCacheDir, 0o755); err != nil {
			return nil, err
		}
		router.Static(prefix, cfg.TTSCacheDir)
	}

	return router, nil
}

// ttsPrefix is the URL prefix of the speech cache: under /static when the
// cache lives inside the image directory, /tts otherwise.
func ttsPrefix(cfg config.Config) string {
	rel, err := filepath.Rel(cfg.ImageStoragePath, cfg.TTSCacheDir)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "/tts"
	}
	return "/static/" + filepath.ToSlash(rel)
}
