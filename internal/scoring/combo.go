// Package scoring implements combo tracking and turn/final score computation.
package scoring

// MaxStreak caps the consecutive-correct streak.
const MaxStreak = 3

// Bonuses maps a streak (index) to its bonus score.
type Bonuses [MaxStreak + 1]float64

// DefaultBonuses is the {0:0, 1:2, 2:4, 3:6} table.
var DefaultBonuses = Bonuses{0, 2, 4, 6}

// For returns the bonus for streak. Streaks outside 0..MaxStreak are clamped.
func (b Bonuses) For(streak int) float64 {
	return b[clampStreak(streak)]
}

// BonusFor looks up streak in DefaultBonuses.
func BonusFor(streak int) float64 {
	return DefaultBonuses.For(streak)
}

// Combo is the streak state of a single turn.
type Combo struct {
	Current           int  `json:"current_combo"`
	Max               int  `json:"max_combo"`
	LastAnswerCorrect bool `json:"last_answer_correct"`
}

// Record applies one answer and returns the current streak.
func (c *Combo) Record(correct bool) int {
	if correct {
		c.Current = clampStreak(c.Current + 1)
		if c.Current > c.Max {
			c.Max = c.Current
		}
	} else {
		c.Current = 0
	}
	c.LastAnswerCorrect = correct
	return c.Current
}

func clampStreak(streak int) int {
	switch {
	case streak < 0:
		return 0
	case streak > MaxStreak:
		return MaxStreak
	default:
		return streak
	}
}
