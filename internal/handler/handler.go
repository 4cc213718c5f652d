// Package handler exposes the game engine over HTTP.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/easeaico/project-yeri/internal/game"
)

// Sessions is the engine surface the handlers use.
type Sessions interface {
	Start(ctx context.Context, req game.StartRequest) (game.StartResult, error)
	SubmitAnswer(ctx context.Context, req game.AnswerRequest) (game.AnswerResult, error)
	Finish(ctx context.Context, id string) (game.Result, error)
	Get(ctx context.Context, id string) (game.Session, error)
}

// Info describes the running service for the health and config endpoints.
type Info struct {
	AppName     string
	Version     string
	Environment string
	Debug       bool
	Evaluator   string
	Judge       string
	Rules       game.Rules
}

// Handler serves the session API.
type Handler struct {
	sessions Sessions
	info     Info
}

// NewHandler returns a Handler over sessions.
func NewHandler(sessions Sessions, info Info) *Handler {
	return &Handler{sessions: sessions, info: info}
}

// RegisterRoutes mounts the root and the API under /api.
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/", h.Root)

	api := router.Group("/api")
	api.GET("/health", h.Health)
	api.GET("/config", h.Config)

	session := api.Group("/session")
	session.POST("/start", h.Start)
	session.POST("/answer", h.Answer)
	session.POST("/finish", h.Finish)
	session.GET("/:id", h.Get)
}

// Root handles GET /.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "예리는 못 말려 Backend API",
		"version": h.info.Version,
		"health":  "/api/health",
	})
}

// Health handles GET /api/health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"app_name":    h.info.AppName,
		"version":     h.info.Version,
		"environment": h.info.Environment,
		"timestamp":   time.Now().Format(time.RFC3339),
	})
}

// Config handles GET /api/config. It reports only non-secret settings.
func (h *Handler) Config(c *gin.Context) {
	rules := h.info.Rules
	c.JSON(http.StatusOK, gin.H{
		"app_name":        h.info.AppName,
		"version":         h.info.Version,
		"environment":     h.info.Environment,
		"debug":           h.info.Debug,
		"evaluator":       h.info.Evaluator,
		"judge":           h.info.Judge,
		"scoring_weights": rules.Weights,
		"combo_bonuses":   rules.Bonuses,
		"answer_tick_sec": rules.TickSec,
		"ending_thresholds": gin.H{
			"affectionate": rules.Endings.AffectionateMin,
			"mildly_upset": rules.Endings.MildlyUpsetMin,
		},
	})
}
