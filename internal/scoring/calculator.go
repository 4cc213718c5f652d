package scoring

// Bounds of the values that make up a turn score.
const (
	MaxSubScore   = 100.0
	MinMultiplier = 0.8
	MaxMultiplier = 1.2
	MaxComboBonus = 6.0
	MaxTurnScore  = 120.0
)

// Weights are the sub-score weights of a turn. They are expected to sum to 1.
type Weights struct {
	Sense       float64 `json:"emotional_sense"`
	Observation float64 `json:"observation"`
	Reflex      float64 `json:"reflex"`
}

// DefaultWeights returns the 0.6/0.25/0.15 split.
func DefaultWeights() Weights {
	return Weights{Sense: 0.6, Observation: 0.25, Reflex: 0.15}
}

// Snapshot is the recorded score of one turn.
type Snapshot struct {
	TurnIndex         int     `json:"turn_index"`
	EmotionalSense    float64 `json:"emotional_sense"`
	Observation       float64 `json:"observation"`
	Reflex            float64 `json:"reflex"`
	EmotionMultiplier float64 `json:"emotion_multiplier"`
	ComboBonus        float64 `json:"combo_bonus"`
	TurnScore         float64 `json:"turn_score"`
}

// Calculator computes turn and final scores.
type Calculator struct {
	weights Weights
}

// NewCalculator returns a Calculator using w.
func NewCalculator(w Weights) *Calculator {
	return &Calculator{weights: w}
}

// Weights returns the configured weights.
func (c *Calculator) Weights() Weights {
	return c.weights
}

// TurnScore returns (sense*ws + observation*wo + reflex*wr) * multiplier + comboBonus.
// The result is not clamped.
func (c *Calculator) TurnScore(sense, observation, reflex, multiplier, comboBonus float64) float64 {
	base := sense*c.weights.Sense + observation*c.weights.Observation + reflex*c.weights.Reflex
	return base*multiplier + comboBonus
}

// Snapshot clamps the inputs to their declared bounds and records the turn score,
// capped at MaxTurnScore.
func (c *Calculator) Snapshot(turn int, sense, observation, reflex, multiplier, comboBonus float64) Snapshot {
	s := Snapshot{
		TurnIndex:         turn,
		EmotionalSense:    clamp(sense, 0, MaxSubScore),
		Observation:       clamp(observation, 0, MaxSubScore),
		Reflex:            clamp(reflex, 0, MaxSubScore),
		EmotionMultiplier: clamp(multiplier, MinMultiplier, MaxMultiplier),
		ComboBonus:        clamp(comboBonus, 0, MaxComboBonus),
	}
	score := c.TurnScore(s.EmotionalSense, s.Observation, s.Reflex, s.EmotionMultiplier, s.ComboBonus)
	s.TurnScore = clamp(score, 0, MaxTurnScore)
	return s
}

// FinalScore sums the turn scores.
func (c *Calculator) FinalScore(snapshots []Snapshot) float64 {
	total := 0.0
	for _, s := range snapshots {
		total += s.TurnScore
	}
	return total
}

// Breakdown averages each sub-score over the snapshots.
func Breakdown(snapshots []Snapshot) map[string]float64 {
	out := map[string]float64{"emotional_sense": 0, "observation": 0, "reflex": 0}
	if len(snapshots) == 0 {
		return out
	}
	n := float64(len(snapshots))
	for _, s := range snapshots {
		out["emotional_sense"] += s.EmotionalSense / n
		out["observation"] += s.Observation / n
		out["reflex"] += s.Reflex / n
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
