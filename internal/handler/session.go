package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/easeaico/project-yeri/internal/emotion"
	"github.com/easeaico/project-yeri/internal/game"
	"github.com/easeaico/project-yeri/internal/scoring"
	"github.com/easeaico/project-yeri/internal/types"
)

type startRequest struct {
	PlayerID   string `json:"player_id"`
	Difficulty string `json:"difficulty"`
}

type startResponse struct {
	SessionID           string          `json:"session_id"`
	ImagePair           types.ImagePair `json:"image_pair"`
	CurrentTurn         int             `json:"current_turn"`
	EmotionStage        emotion.Stage   `json:"emotion_stage"`
	ExpressionFile      string          `json:"expression_file"`
	TimeLimitSec        int             `json:"time_limit_sec"`
	YeriOpeningText     string          `json:"yeri_opening_text"`
	YeriOpeningVoiceURL *string         `json:"yeri_opening_voice_url"`
}

// Start handles POST /api/session/start.
func (h *Handler) Start(c *gin.Context) {
	var req startRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	res, err := h.sessions.Start(c.Request.Context(), game.StartRequest{
		PlayerID:   req.PlayerID,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, startResponse{
		SessionID:           res.Session.ID,
		ImagePair:           res.Session.Pair,
		CurrentTurn:         res.Session.CurrentTurn,
		EmotionStage:        res.Stage.Stage,
		ExpressionFile:      res.Stage.ExpressionFile,
		TimeLimitSec:        res.TimeLimitSec,
		YeriOpeningText:     res.OpeningLine,
		YeriOpeningVoiceURL: res.OpeningVoiceURL,
	})
}

type answerRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	TurnIndex int    `json:"turn_index"`
	InputType string `json:"input_type"`
	Content   string `json:"content"`
}

type updatedScores struct {
	Combo      int     `json:"combo"`
	ComboBonus float64 `json:"combo_bonus"`
	TurnScore  float64 `json:"turn_score"`
}

type answerResponse struct {
	YeriText       string             `json:"yeri_text"`
	YeriVoiceURL   *string            `json:"yeri_voice_url"`
	EmotionStage   emotion.Stage      `json:"emotion_stage"`
	EmotionName    string             `json:"emotion_name"`
	ExpressionFile string             `json:"expression_file"`
	Evaluation     emotion.Evaluation `json:"evaluation"`
	IsCorrect      bool               `json:"is_correct"`
	Transcript     string             `json:"transcript,omitempty"`
	UpdatedScores  updatedScores      `json:"updated_scores"`
	RemainingSec   int                `json:"remaining_sec"`
	ComboCount     int                `json:"combo_count"`
	IsTurnFinished bool               `json:"is_turn_finished"`
	TurnIndex      int                `json:"turn_index"`
	CurrentTurn    int                `json:"current_turn"`
	TimeLimitSec   int                `json:"time_limit_sec,omitempty"`
}

// Answer handles POST /api/session/answer.
func (h *Handler) Answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "session_id is required")
		return
	}
	if req.InputType == "" {
		req.InputType = game.InputText
	}

	res, err := h.sessions.SubmitAnswer(c.Request.Context(), game.AnswerRequest{
		SessionID: req.SessionID,
		TurnIndex: req.TurnIndex,
		InputType: req.InputType,
		Content:   req.Content,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	scores := updatedScores{Combo: res.Combo, ComboBonus: res.ComboBonus, TurnScore: res.TurnScore}

	c.JSON(http.StatusOK, answerResponse{
		YeriText:       res.ReplyText,
		YeriVoiceURL:   res.VoiceURL,
		EmotionStage:   res.Stage.Stage,
		EmotionName:    res.Stage.EmotionName,
		ExpressionFile: res.Stage.ExpressionFile,
		Evaluation:     res.Evaluation,
		IsCorrect:      res.Correct,
		Transcript:     res.Transcript,
		UpdatedScores:  scores,
		RemainingSec:   res.RemainingSec,
		ComboCount:     res.Combo,
		IsTurnFinished: res.TurnFinished,
		TurnIndex:      res.TurnIndex,
		CurrentTurn:    res.CurrentTurn,
		TimeLimitSec:   res.NextTimeLimitSec,
	})
}

type finishRequest struct {
	SessionID string `json:"session_id"`
}

type finishResponse struct {
	SessionID          string             `json:"session_id"`
	FinalScore         float64            `json:"final_score"`
	EndingType         emotion.Ending     `json:"ending_type"`
	EndingStage        emotion.Stage      `json:"ending_stage"`
	YeriEndingText     string             `json:"yeri_ending_text"`
	YeriEndingVoiceURL *string            `json:"yeri_ending_voice_url"`
	CanRetry           bool               `json:"can_retry"`
	ScoreBreakdown     map[string]float64 `json:"score_breakdown"`
	TurnScores         []scoring.Snapshot `json:"turn_scores"`
}

// Finish handles POST /api/session/finish. The id comes from the session_id
// query parameter or the JSON body.
func (h *Handler) Finish(c *gin.Context) {
	id := strings.TrimSpace(c.Query("session_id"))
	if id == "" {
		var req finishRequest
		if err := bindOptionalJSON(c, &req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		id = strings.TrimSpace(req.SessionID)
	}
	if id == "" {
		badRequest(c, "session_id is required")
		return
	}

	res, err := h.sessions.Finish(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, finishResponse{
		SessionID:          res.SessionID,
		FinalScore:         res.FinalScore,
		EndingType:         res.Ending,
		EndingStage:        res.EndingStage,
		YeriEndingText:     res.EndingText,
		YeriEndingVoiceURL: res.EndingVoiceURL,
		CanRetry:           res.CanRetry,
		ScoreBreakdown:     res.Breakdown,
		TurnScores:         res.TurnScores,
	})
}

// bindOptionalJSON decodes the body into target. An empty body is not an error.
func bindOptionalJSON(c *gin.Context, target any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(target); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Get handles GET /api/session/:id.
func (h *Handler) Get(c *gin.Context) {
	s, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
