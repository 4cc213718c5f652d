// Package game runs the session and turn state machines of the Yeri game.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/easeaico/project-yeri/internal/emotion"
	"github.com/easeaico/project-yeri/internal/registry"
	"github.com/easeaico/project-yeri/internal/scoring"
	"github.com/easeaico/project-yeri/internal/types"
	"github.com/easeaico/project-yeri/internal/voice"
)

// Input types accepted by SubmitAnswer.
const (
	InputText  = "text"
	InputAudio = "audio"
)

// PairProvider selects the image pair of a new session.
type PairProvider interface {
	Select(ctx context.Context, difficulty types.Difficulty) (types.ImagePair, error)
}

// Transcriber turns an audio payload into answer text.
type Transcriber interface {
	Transcribe(ctx context.Context, payload string) (string, error)
}

// Synthesizer renders a line as speech. A nil URL means no audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, stage emotion.Stage) (*string, error)
}

// JudgeInput is what a Judge sees of an answer.
type JudgeInput struct {
	Answer    string
	TurnIndex int
	// Prior is the number of answers already recorded on the turn.
	Prior int
	// Found lists the differences already credited on the turn.
	Found []string
	Pair  types.ImagePair
}

// Verdict is a Judge decision. Label names the matched difference, if any.
type Verdict struct {
	Correct bool
	Label   string
}

// Judge decides whether an answer names a real difference. A difference in
// JudgeInput.Found must not be credited again.
type Judge interface {
	Judge(ctx context.Context, in JudgeInput) (Verdict, error)
}

// PlaceholderJudge accepts the first two answers of every turn.
type PlaceholderJudge struct{}

// Judge implements Judge.
func (PlaceholderJudge) Judge(ctx context.Context, in JudgeInput) (Verdict, error) {
	return Verdict{Correct: in.Prior < 2}, nil
}

// Options are the Engine collaborators. Nil fields get the stub implementations.
type Options struct {
	Pairs       PairProvider
	Transcriber Transcriber
	Evaluator   emotion.Evaluator
	Synthesizer Synthesizer
	Judge       Judge
	Dialogue    emotion.Dialogue
	Clock       func() time.Time
}

// Engine drives sessions stored in a registry.
type Engine struct {
	rules       Rules
	calc        *scoring.Calculator
	sessions    *registry.Registry[Session]
	pairs       PairProvider
	transcriber Transcriber
	evaluator   emotion.Evaluator
	synth       Synthesizer
	judge       Judge
	dialogue    emotion.Dialogue
	now         func() time.Time

	// playersMu guards players, the count of active sessions per player id.
	// It is never held while waiting on a session lock.
	playersMu sync.Mutex
	players   map[string]int
}

// NewEngine returns an Engine over sessions.
func NewEngine(rules Rules, sessions *registry.Registry[Session], opts Options) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game rules: %w", err)
	}
	if sessions == nil {
		return nil, fmt.Errorf("session registry is nil")
	}
	if opts.Pairs == nil {
		return nil, fmt.Errorf("image pair provider is nil")
	}
	e := &Engine{
		rules:       rules,
		calc:        scoring.NewCalculator(rules.Weights),
		sessions:    sessions,
		pairs:       opts.Pairs,
		transcriber: opts.Transcriber,
		evaluator:   opts.Evaluator,
		synth:       opts.Synthesizer,
		judge:       opts.Judge,
		dialogue:    opts.Dialogue,
		now:         opts.Clock,
		players:     make(map[string]int),
	}
	if e.transcriber == nil {
		e.transcriber = voice.PlaceholderTranscriber{}
	}
	if e.evaluator == nil {
		e.evaluator = emotion.NewRuleEvaluator()
	}
	if e.synth == nil {
		e.synth = voice.NoopSynthesizer{}
	}
	if e.judge == nil {
		e.judge = PlaceholderJudge{}
	}
	if e.dialogue == nil {
		e.dialogue = emotion.DefaultDialogue
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e, nil
}

// Rules returns the engine's rules.
func (e *Engine) Rules() Rules {
	return e.rules
}

// StartRequest starts a session.
type StartRequest struct {
	PlayerID   string
	Difficulty string
}

// StartResult is the state a new session opens with.
type StartResult struct {
	Session         Session
	OpeningLine     string
	OpeningVoiceURL *string
	TimeLimitSec    int
	Stage           emotion.StageInfo
}

// Start creates a session with three turns, turn 1 active and stage S0.
func (e *Engine) Start(ctx context.Context, req StartRequest) (StartResult, error) {
	difficulty, ok := types.ParseDifficulty(req.Difficulty)
	if !ok {
		return StartResult{}, validation("unknown difficulty %q", req.Difficulty)
	}
	playerID := strings.TrimSpace(req.PlayerID)

	pair, err := e.pairs.Select(ctx, difficulty)
	if err != nil {
		return StartResult{}, internal(err, "failed to select image pair")
	}
	if pair.Difficulty == "" {
		pair.Difficulty = difficulty
	}

	session, err := e.register(playerID, pair)
	if err != nil {
		return StartResult{}, err
	}
	slog.Info("session started", "session_id", session.ID, "user_id", playerID, "difficulty", difficulty, "pair_id", pair.PairID)

	return StartResult{
		Session:         session.Clone(),
		OpeningLine:     emotion.OpeningLine,
		OpeningVoiceURL: e.synthesize(ctx, session.ID, emotion.OpeningLine, session.Stage),
		TimeLimitSec:    session.Turns[0].TimeLimitSec,
		Stage:           emotion.Lookup(session.Stage),
	}, nil
}

func (e *Engine) register(playerID string, pair types.ImagePair) (Session, error) {
	e.playersMu.Lock()
	defer e.playersMu.Unlock()

	if playerID != "" && e.rules.MaxSessionsPerPlayer > 0 {
		if n := e.players[playerID]; n >= e.rules.MaxSessionsPerPlayer {
			return Session{}, invalidState("player %s already has %d active sessions", playerID, n)
		}
	}

	session := newSession(uuid.NewString(), playerID, pair, e.now())
	if err := e.sessions.Create(session.ID, session); err != nil {
		return Session{}, internal(err, "failed to register session")
	}
	if playerID != "" {
		e.players[playerID]++
	}
	return session, nil
}

// release drops an active session from its player's count.
func (e *Engine) release(playerID string) {
	if playerID == "" {
		return
	}
	e.playersMu.Lock()
	defer e.playersMu.Unlock()
	if e.players[playerID] <= 1 {
		delete(e.players, playerID)
		return
	}
	e.players[playerID]--
}

// ActiveSessions returns the number of active sessions of playerID.
func (e *Engine) ActiveSessions(playerID string) int {
	e.playersMu.Lock()
	defer e.playersMu.Unlock()
	return e.players[playerID]
}

// AnswerRequest submits one answer.
type AnswerRequest struct {
	SessionID string
	TurnIndex int
	InputType string
	Content   string
}

// AnswerResult is the reaction to one answer.
type AnswerResult struct {
	SessionID    string
	TurnIndex    int
	Transcript   string
	Correct      bool
	Evaluation   emotion.Evaluation
	Stage        emotion.StageInfo
	ReplyText    string
	VoiceURL     *string
	Combo        int
	ComboBonus   float64
	RemainingSec int
	// TurnScore is the score of the turn once it finished.
	TurnScore    float64
	TurnFinished bool
	CurrentTurn  int
	// NextTimeLimitSec is set when the session advanced to a new turn.
	NextTimeLimitSec int
}

// SubmitAnswer applies an answer to the current turn of the session.
func (e *Engine) SubmitAnswer(ctx context.Context, req AnswerRequest) (AnswerResult, error) {
	if req.TurnIndex < 1 || req.TurnIndex > TurnCount {
		return AnswerResult{}, validation("turn_index must be between 1 and %d, got %d", TurnCount, req.TurnIndex)
	}
	inputType := strings.ToLower(strings.TrimSpace(req.InputType))
	if inputType != InputText && inputType != InputAudio {
		return AnswerResult{}, validation("input_type must be %q or %q, got %q", InputText, InputAudio, req.InputType)
	}
	if inputType == InputText && strings.TrimSpace(req.Content) == "" {
		return AnswerResult{}, validation("content cannot be empty")
	}

	if err := e.checkAnswerable(req.SessionID); err != nil {
		return AnswerResult{}, err
	}

	text := strings.TrimSpace(req.Content)
	if inputType == InputAudio {
		transcript, err := e.transcriber.Transcribe(ctx, req.Content)
		if err != nil {
			return AnswerResult{}, internal(err, "failed to transcribe audio")
		}
		text = strings.TrimSpace(transcript)
	}

	var out AnswerResult
	err := e.sessions.Update(req.SessionID, func(s *Session) error {
		if s.Status.Terminal() {
			return invalidState("session %s is %s", s.ID, s.Status)
		}
		cur := s.Active()
		if cur == nil {
			return invalidState("session %s has no current turn", s.ID)
		}
		if req.TurnIndex != cur.Index {
			slog.Warn("answer turn index does not match current turn, applying to current",
				"session_id", s.ID, "turn_index", req.TurnIndex, "current_turn", cur.Index)
		}

		verdict, err := e.judge.Judge(ctx, JudgeInput{
			Answer:    text,
			TurnIndex: cur.Index,
			Prior:     len(cur.Answers),
			Found:     append([]string(nil), cur.Found...),
			Pair:      s.Pair,
		})
		if err != nil {
			return internal(err, "failed to judge answer")
		}
		correct := verdict.Correct

		combo := cur.Combo
		streak := combo.Record(correct)
		timedOut := cur.RemainingSec <= e.rules.TickSec
		ev, err := e.evaluator.Evaluate(ctx, emotion.EvaluationInput{
			Answer:       text,
			TurnIndex:    cur.Index,
			Correct:      correct,
			Streak:       streak,
			TimedOut:     timedOut,
			CurrentStage: s.Stage,
			Differences:  s.Pair.Differences,
		})
		if err != nil {
			return internal(err, "failed to evaluate answer")
		}
		if !ev.Stage.Valid() {
			ev.Stage = emotion.Next(s.Stage, emotion.Signal{
				Correct:  correct,
				Streak:   streak,
				Empathy:  ev.EmpathyScore,
				TimedOut: timedOut,
			})
		}

		progress, err := cur.Submit(text, correct, ev, e.rules)
		if err != nil {
			return err
		}
		if correct && verdict.Label != "" {
			cur.Found = append(cur.Found, verdict.Label)
		}
		s.Stage = ev.Stage

		now := e.now()
		out = AnswerResult{
			SessionID:    s.ID,
			TurnIndex:    cur.Index,
			Correct:      correct,
			Evaluation:   ev,
			Combo:        progress.Streak,
			ComboBonus:   progress.Bonus,
			RemainingSec: cur.RemainingSec,
			TurnFinished: progress.Finished,
		}
		if progress.Finished {
			score := cur.snapshot(e.calc, e.rules, s.Stage)
			cur.Score = &score
			out.TurnScore = score.TurnScore
			slog.Info("turn finished", "session_id", s.ID, "turn", cur.Index, "turn_score", score.TurnScore)
			if s.advance(now) {
				out.NextTimeLimitSec = s.Turns[s.CurrentTurn-1].TimeLimitSec
			}
		}
		s.UpdatedAt = now

		out.CurrentTurn = s.CurrentTurn
		out.Stage = emotion.Lookup(s.Stage)
		out.ReplyText = e.dialogue.Line(s.Stage)
		return nil
	})
	if err != nil {
		return AnswerResult{}, e.translate(req.SessionID, err)
	}
	if inputType == InputAudio {
		out.Transcript = text
	}

	out.VoiceURL = e.synthesize(ctx, req.SessionID, out.ReplyText, out.Stage.Stage)
	return out, nil
}

// checkAnswerable rejects unknown or closed sessions before any collaborator I/O.
func (e *Engine) checkAnswerable(id string) error {
	var err error
	viewErr := e.sessions.View(id, func(s *Session) {
		switch {
		case s.Status.Terminal():
			err = invalidState("session %s is %s", s.ID, s.Status)
		case s.Active() == nil:
			err = invalidState("session %s has no current turn", s.ID)
		}
	})
	if viewErr != nil {
		return e.translate(id, viewErr)
	}
	return err
}

// Finish closes the session and resolves the ending. Repeated calls return
// the stored result unchanged.
func (e *Engine) Finish(ctx context.Context, id string) (Result, error) {
	var (
		result   Result
		computed bool
	)
	err := e.sessions.Update(id, func(s *Session) error {
		if s.Result != nil {
			result = s.Result.Clone()
			return nil
		}

		now := e.now()
		snapshots := make([]scoring.Snapshot, 0, len(s.Turns))
		for i := range s.Turns {
			t := &s.Turns[i]
			if t.Phase == PhaseActive {
				t.finish()
			}
			if t.Score == nil {
				score := t.snapshot(e.calc, e.rules, s.Stage)
				t.Score = &score
			}
			snapshots = append(snapshots, *t.Score)
		}

		total := e.calc.FinalScore(snapshots)
		ending, text := e.rules.Endings.Resolve(total)
		r := Result{
			SessionID:   s.ID,
			FinalScore:  total,
			Ending:      ending,
			EndingText:  text,
			EndingStage: emotion.EndingStage(ending),
			CanRetry:    true,
			Breakdown:   scoring.Breakdown(snapshots),
			TurnScores:  snapshots,
			FinishedAt:  now,
		}
		s.Result = &r
		if s.Status == StatusActive {
			s.Status = StatusFinished
			e.release(s.PlayerID)
		}
		s.UpdatedAt = now
		result = r.Clone()
		computed = true
		slog.Info("session finished", "session_id", s.ID, "final_score", total, "ending", ending)
		return nil
	})
	if err != nil {
		return Result{}, e.translate(id, err)
	}
	if !computed {
		return result, nil
	}

	url := e.synthesize(ctx, id, result.EndingText, result.EndingStage)
	if url == nil {
		return result, nil
	}
	err = e.sessions.Update(id, func(s *Session) error {
		if s.Result != nil && s.Result.EndingVoiceURL == nil {
			s.Result.EndingVoiceURL = url
		}
		if s.Result != nil {
			result = s.Result.Clone()
		}
		return nil
	})
	if err != nil && !errors.Is(err, registry.ErrNotFound) {
		return Result{}, e.translate(id, err)
	}
	return result, nil
}

// Get returns a snapshot of the session.
func (e *Engine) Get(ctx context.Context, id string) (Session, error) {
	var out Session
	if err := e.sessions.View(id, func(s *Session) { out = s.Clone() }); err != nil {
		return Session{}, e.translate(id, err)
	}
	return out, nil
}

// Sweep times out idle active sessions and reports whether a session is kept.
// Terminal sessions are dropped once their retention elapsed.
func (e *Engine) Sweep(id string, s *Session, now time.Time) bool {
	idle := now.Sub(s.UpdatedAt)
	if s.Status == StatusActive {
		if e.rules.SessionTimeout > 0 && idle > e.rules.SessionTimeout {
			s.Status = StatusTimedOut
			s.UpdatedAt = now
			e.release(s.PlayerID)
			slog.Info("session timed out", "session_id", id, "idle", idle.String())
		}
		return true
	}
	return idle <= e.rules.SessionRetention
}

// RunJanitor sweeps the registry every interval until ctx is done.
func (e *Engine) RunJanitor(ctx context.Context, interval time.Duration) {
	e.sessions.RunJanitor(ctx, interval, e.Sweep)
}

func (e *Engine) synthesize(ctx context.Context, sessionID, text string, stage emotion.Stage) *string {
	url, err := e.synth.Synthesize(ctx, text, stage)
	if err != nil {
		slog.Warn("failed to synthesize voice", "session_id", sessionID, "error", err.Error())
		return nil
	}
	return url
}

func (e *Engine) translate(id string, err error) error {
	if errors.Is(err, registry.ErrNotFound) {
		return notFound("session %s not found", id)
	}
	var gameErr *Error
	if errors.As(err, &gameErr) {
		return err
	}
	return internal(err, "session %s operation failed", id)
}
