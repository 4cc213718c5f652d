package emotion

import "context"

// Evaluation is the emotion reading of a single answer. Scores are in [0,1].
type Evaluation struct {
	EmotionDepth float64 `json:"emotion_depth"`
	EmpathyScore float64 `json:"empathy_score"`
	SenseScore   float64 `json:"sense_score"`
	Stage        Stage   `json:"overall_stage"`
}

// EvaluationInput is what an evaluator sees of an answer.
type EvaluationInput struct {
	Answer       string
	TurnIndex    int
	Correct      bool
	Streak       int
	// TimedOut is set when this answer drains the rest of the turn's time.
	TimedOut     bool
	CurrentStage Stage
	Differences  []string
}

// Evaluator judges the emotional quality of an answer.
type Evaluator interface {
	Evaluate(ctx context.Context, in EvaluationInput) (Evaluation, error)
}

// RuleEvaluator derives the stage from the transition table and assigns fixed scores
// by correctness. It needs no model and never fails.
type RuleEvaluator struct {
	Hit  Evaluation
	Miss Evaluation
}

// NewRuleEvaluator returns a RuleEvaluator with the default fixed scores.
func NewRuleEvaluator() *RuleEvaluator {
	return &RuleEvaluator{
		Hit:  Evaluation{EmotionDepth: 0.5, EmpathyScore: 0.6, SenseScore: 0.7},
		Miss: Evaluation{EmotionDepth: 0.3, EmpathyScore: 0.3, SenseScore: 0.3},
	}
}

// Evaluate implements Evaluator.
func (e *RuleEvaluator) Evaluate(ctx context.Context, in EvaluationInput) (Evaluation, error) {
	out := e.Miss
	if in.Correct {
		out = e.Hit
	}
	out.Stage = Next(in.CurrentStage, Signal{
		Correct: in.Correct,
		Streak:   in.Streak,
		Empathy:  out.EmpathyScore,
		TimedOut: in.TimedOut,
	})
	return out, nil
}

// ClampScore bounds an evaluation score to [0,1].
func ClampScore(score float64) float64 {
	switch {
	case score != score || score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}
