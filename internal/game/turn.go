package game

import (
	"time"

	"github.com/easeaico/project-yeri/internal/emotion"
	"github.com/easeaico/project-yeri/internal/scoring"
)

// Phase is the lifecycle position of a turn.
type Phase string

const (
	PhasePending  Phase = "pending"
	PhaseActive   Phase = "active"
	PhaseFinished Phase = "finished"
)

// Turn is one bounded question/answer round.
type Turn struct {
	Index        int                  `json:"turn_index"`
	TimeLimitSec int                  `json:"time_limit_sec"`
	RemainingSec int                  `json:"remaining_sec"`
	Phase        Phase                `json:"phase"`
	Answers      []string             `json:"answers"`
	Evaluations  []emotion.Evaluation `json:"evaluations"`
	CorrectCount int                  `json:"correct_count"`
	Combo        scoring.Combo        `json:"combo"`
	Found        []string             `json:"found_differences"`
	StartedAt    *time.Time           `json:"started_at,omitempty"`
	Score        *scoring.Snapshot    `json:"score,omitempty"`
}

// Progress reports what a submission did to a turn.
type Progress struct {
	Streak   int
	Bonus    float64
	Finished bool
}

func newTurn(index int) Turn {
	limit := TimeLimit(index)
	return Turn{
		Index:        index,
		TimeLimitSec: limit,
		RemainingSec: limit,
		Phase:        PhasePending,
		Answers:      []string{},
		Evaluations:  []emotion.Evaluation{},
		Found:        []string{},
	}
}

// IsFinished reports whether the turn reached its terminal phase.
func (t *Turn) IsFinished() bool {
	return t.Phase == PhaseFinished
}

func (t *Turn) activate(now time.Time) {
	if t.Phase != PhasePending {
		return
	}
	t.Phase = PhaseActive
	t.RemainingSec = t.TimeLimitSec
	started := now
	t.StartedAt = &started
}

// Submit records an answer on an active turn and deducts one tick from the
// remaining time. The turn finishes once time hits zero or the answer cap is
// reached, whichever comes first.
func (t *Turn) Submit(text string, correct bool, ev emotion.Evaluation, rules Rules) (Progress, error) {
	if t.Phase != PhaseActive {
		return Progress{}, invalidState("turn %d is %s", t.Index, t.Phase)
	}

	t.Answers = append(t.Answers, text)
	t.Evaluations = append(t.Evaluations, ev)
	if correct {
		t.CorrectCount++
	}
	streak := t.Combo.Record(correct)

	t.RemainingSec -= rules.TickSec
	if t.RemainingSec < 0 {
		t.RemainingSec = 0
	}
	if t.RemainingSec == 0 || len(t.Answers) >= MaxAnswersPerTurn {
		t.Phase = PhaseFinished
	}

	return Progress{
		Streak:   streak,
		Bonus:    rules.Bonuses.For(streak),
		Finished: t.Phase == PhaseFinished,
	}, nil
}

func (t *Turn) finish() {
	t.Phase = PhaseFinished
}

// snapshot scores the turn as it stands. An unreached turn scores zero.
func (t *Turn) snapshot(calc *scoring.Calculator, rules Rules, stage emotion.Stage) scoring.Snapshot {
	if t.Phase == PhasePending || len(t.Answers) == 0 {
		return calc.Snapshot(t.Index, 0, 0, 0, 1.0, 0)
	}

	var sense float64
	for _, ev := range t.Evaluations {
		sense += ev.SenseScore
	}
	sense = sense / float64(len(t.Evaluations)) * scoring.MaxSubScore
	observation := float64(t.CorrectCount) / MaxAnswersPerTurn * scoring.MaxSubScore
	reflex := float64(len(t.Answers)) / float64(rules.allowedAnswers(t.Index)) * scoring.MaxSubScore

	return calc.Snapshot(
		t.Index,
		sense,
		observation,
		reflex,
		emotion.Lookup(stage).Multiplier,
		rules.Bonuses.For(t.Combo.Current),
	)
}

func (t Turn) clone() Turn {
	t.Answers = append([]string{}, t.Answers...)
	t.Evaluations = append([]emotion.Evaluation{}, t.Evaluations...)
	t.Found = append([]string{}, t.Found...)
	if t.StartedAt != nil {
		started := *t.StartedAt
		t.StartedAt = &started
	}
	if t.Score != nil {
		score := *t.Score
		t.Score = &score
	}
	return t
}
