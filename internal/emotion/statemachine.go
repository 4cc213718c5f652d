package emotion

// Trigger names the event that moves Yeri between stages.
type Trigger string

const (
	TriggerEmpathy Trigger = "empathy"
	TriggerCombo   Trigger = "combo"
	TriggerTimeout Trigger = "timeout"
	TriggerCorrect Trigger = "correct"
	TriggerMiss    Trigger = "miss"
)

// Signal is what an answer tells the stage machine.
type Signal struct {
	Correct  bool
	Streak   int
	Empathy  float64
	TimedOut bool
}

// Transition is one row of the stage-transition table. An empty From matches any stage.
type Transition struct {
	From      []Stage `json:"from,omitempty"`
	To        Stage   `json:"to"`
	Trigger   Trigger `json:"trigger"`
	Condition string  `json:"condition"`

	match func(Signal) bool
}

const (
	empathyThreshold = 0.8
	comboThreshold   = 3
)

// Rows are checked in order; the first match wins.
var transitions = []Transition{
	{
		To:        StageAffectionate,
		Trigger:   TriggerEmpathy,
		Condition: "empathy_score >= 0.8",
		match:     func(s Signal) bool { return s.Empathy >= empathyThreshold },
	},
	{
		To:        StageAffectionate,
		Trigger:   TriggerCombo,
		Condition: "combo >= 3",
		match:     func(s Signal) bool { return s.Correct && s.Streak >= comboThreshold },
	},
	{
		To:        StageUpset,
		Trigger:   TriggerTimeout,
		Condition: "turn ran out of time",
		match:     func(s Signal) bool { return s.TimedOut && !s.Correct },
	},
	{
		From:      []Stage{StageNeutral, StageCurious, StageUpset},
		To:        StagePlayful,
		Trigger:   TriggerCorrect,
		Condition: "answer names a real difference",
		match:     func(s Signal) bool { return s.Correct },
	},
	{
		From:      []Stage{StageNeutral, StagePlayful, StageAffectionate},
		To:        StageCurious,
		Trigger:   TriggerMiss,
		Condition: "answer misses",
		match:     func(s Signal) bool { return !s.Correct },
	},
	{
		From:      []Stage{StageCurious},
		To:        StageUpset,
		Trigger:   TriggerMiss,
		Condition: "second miss in a row",
		match:     func(s Signal) bool { return !s.Correct },
	},
}

// Transitions returns a copy of the stage-transition table.
func Transitions() []Transition {
	out := make([]Transition, len(transitions))
	copy(out, transitions)
	for i := range out {
		out[i].From = append([]Stage(nil), transitions[i].From...)
	}
	return out
}

// Next returns the stage that follows current for signal. With no matching row the
// stage is unchanged.
func Next(current Stage, signal Signal) Stage {
	if !current.Valid() {
		current = StageNeutral
	}
	for _, t := range transitions {
		if !t.appliesTo(current) {
			continue
		}
		if t.match(signal) {
			return t.To
		}
	}
	return current
}

func (t Transition) appliesTo(stage Stage) bool {
	if len(t.From) == 0 {
		return true
	}
	for _, from := range t.From {
		if from == stage {
			return true
		}
	}
	return false
}
