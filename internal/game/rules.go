package game

import (
	"fmt"
	"time"

	"github.com/easeaico/project-yeri/internal/emotion"
	"github.com/easeaico/project-yeri/internal/scoring"
)

// TurnCount is the number of turns in a session.
const TurnCount = 3

// MaxAnswersPerTurn finishes a turn once reached.
const MaxAnswersPerTurn = 3

// TimeLimit returns the time budget in seconds for a turn number. The budgets
// shrink on purpose: 3s, 10s, 30s. Unknown numbers get 30s.
func TimeLimit(turn int) int {
	switch turn {
	case 1:
		return 3
	case 2:
		return 10
	case 3:
		return 30
	default:
		return 30
	}
}

// Rules is the tunable game configuration passed into the Engine.
type Rules struct {
	// TickSec is deducted from a turn's remaining time on every answer.
	TickSec              int
	Weights              scoring.Weights
	Bonuses              scoring.Bonuses
	Endings              emotion.EndingRules
	MaxSessionsPerPlayer int
	SessionTimeout       time.Duration
	SessionRetention     time.Duration
}

// DefaultRules returns the stock configuration.
func DefaultRules() Rules {
	return Rules{
		TickSec:              5,
		Weights:              scoring.DefaultWeights(),
		Bonuses:              scoring.DefaultBonuses,
		Endings:              emotion.DefaultEndingRules(),
		MaxSessionsPerPlayer: 5,
		SessionTimeout:       600 * time.Second,
		SessionRetention:     10 * time.Minute,
	}
}

// Validate reports rules the engine cannot run with.
func (r Rules) Validate() error {
	if r.TickSec <= 0 {
		return fmt.Errorf("answer tick must be positive, got %d", r.TickSec)
	}
	if r.Endings.MildlyUpsetMin > r.Endings.AffectionateMin {
		return fmt.Errorf("mildly-upset threshold %.2f exceeds affectionate threshold %.2f",
			r.Endings.MildlyUpsetMin, r.Endings.AffectionateMin)
	}
	if r.MaxSessionsPerPlayer < 0 {
		return fmt.Errorf("max sessions per player cannot be negative")
	}
	return nil
}

// allowedAnswers is how many answers fit in a turn's budget at the configured tick.
func (r Rules) allowedAnswers(turn int) int {
	tick := r.TickSec
	if tick <= 0 {
		tick = 1
	}
	n := (TimeLimit(turn) + tick - 1) / tick
	if n > MaxAnswersPerTurn {
		n = MaxAnswersPerTurn
	}
	if n < 1 {
		n = 1
	}
	return n
}
