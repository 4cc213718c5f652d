package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/easeaico/project-yeri/internal/game"
)

type errorBody struct {
	Kind    game.Kind `json:"kind"`
	Message string    `json:"message"`
}

func statusFor(kind game.Kind) int {
	switch kind {
	case game.KindNotFound:
		return http.StatusNotFound
	case game.KindInvalidState:
		return http.StatusConflict
	case game.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps an engine error to its status and the stable error body.
// Internal causes are logged, never returned.
func writeError(c *gin.Context, err error) {
	kind := game.KindOf(err)
	status := statusFor(kind)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "path", c.FullPath(), "error", err.Error())
		kind = game.KindInternal
		message = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": errorBody{Kind: kind, Message: message}})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errorBody{Kind: game.KindValidation, Message: message}})
}
