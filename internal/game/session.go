package game

import (
	"maps"
	"time"

	"github.com/easeaico/project-yeri/internal/emotion"
	"github.com/easeaico/project-yeri/internal/scoring"
	"github.com/easeaico/project-yeri/internal/types"
)

// Status is the lifecycle status of a session.
type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
	StatusTimedOut Status = "timed-out"
	StatusErrored  Status = "errored"
)

// Terminal reports whether no further answers are accepted.
func (s Status) Terminal() bool {
	return s != StatusActive
}

// Result is the outcome of a finished session.
type Result struct {
	SessionID      string             `json:"session_id"`
	FinalScore     float64            `json:"final_score"`
	Ending         emotion.Ending     `json:"ending_type"`
	EndingText     string             `json:"ending_text"`
	EndingStage    emotion.Stage      `json:"ending_stage"`
	EndingVoiceURL *string            `json:"ending_voice_url"`
	CanRetry       bool               `json:"can_retry"`
	Breakdown      map[string]float64 `json:"score_breakdown"`
	TurnScores     []scoring.Snapshot `json:"turn_scores"`
	FinishedAt     time.Time          `json:"finished_at"`
}

// Clone returns a deep copy of r.
func (r Result) Clone() Result {
	r.Breakdown = maps.Clone(r.Breakdown)
	r.TurnScores = append([]scoring.Snapshot{}, r.TurnScores...)
	if r.EndingVoiceURL != nil {
		url := *r.EndingVoiceURL
		r.EndingVoiceURL = &url
	}
	return r
}

// Session is one play-through of three turns.
type Session struct {
	ID          string          `json:"session_id"`
	PlayerID    string          `json:"user_id,omitempty"`
	Pair        types.ImagePair `json:"image_pair"`
	Turns       []Turn          `json:"turns"`
	CurrentTurn int             `json:"current_turn"`
	Stage       emotion.Stage   `json:"current_stage"`
	Status      Status          `json:"status"`
	Result      *Result         `json:"result,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func newSession(id, playerID string, pair types.ImagePair, now time.Time) Session {
	turns := make([]Turn, TurnCount)
	for i := range turns {
		turns[i] = newTurn(i + 1)
	}
	turns[0].activate(now)
	return Session{
		ID:          id,
		PlayerID:    playerID,
		Pair:        pair.Clone(),
		Turns:       turns,
		CurrentTurn: 1,
		Stage:       emotion.StageNeutral,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Turn returns the turn with the 1-based index, or nil.
func (s *Session) Turn(index int) *Turn {
	if index < 1 || index > len(s.Turns) {
		return nil
	}
	return &s.Turns[index-1]
}

// Active returns the turn accepting answers, or nil once the last turn finished.
func (s *Session) Active() *Turn {
	t := s.Turn(s.CurrentTurn)
	if t == nil || t.Phase != PhaseActive {
		return nil
	}
	return t
}

// advance moves to the next turn when the current one finished. It never
// skips a turn and never goes past the last one.
func (s *Session) advance(now time.Time) bool {
	cur := s.Turn(s.CurrentTurn)
	if cur == nil || !cur.IsFinished() || s.CurrentTurn >= len(s.Turns) {
		return false
	}
	s.CurrentTurn++
	s.Turns[s.CurrentTurn-1].activate(now)
	return true
}

// Clone returns a deep copy safe to hand outside the registry.
func (s Session) Clone() Session {
	s.Pair = s.Pair.Clone()
	turns := make([]Turn, len(s.Turns))
	for i, t := range s.Turns {
		turns[i] = t.clone()
	}
	s.Turns = turns
	if s.Result != nil {
		result := s.Result.Clone()
		s.Result = &result
	}
	return s
}
