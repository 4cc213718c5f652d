package scoring

import (
	"math"
	"testing"
)

func TestComboCapsAtThree(t *testing.T) {
	var c Combo
	var got []int
	for i := 0; i < 4; i++ {
		got = append(got, c.Record(true))
	}
	want := []int{1, 2, 3, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected streaks: %v", got)
		}
	}
	if c.Max != 3 {
		t.Fatalf("expected max 3, got %d", c.Max)
	}
}

func TestComboResetsOnIncorrect(t *testing.T) {
	var c Combo
	var got []int
	for _, correct := range []bool{true, true, false, true} {
		got = append(got, c.Record(correct))
	}
	want := []int{1, 2, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected streaks: %v", got)
		}
	}
	if c.Max != 2 {
		t.Fatalf("expected max 2, got %d", c.Max)
	}
	if !c.LastAnswerCorrect {
		t.Fatalf("expected last answer correct")
	}
}

func TestBonusFor(t *testing.T) {
	want := []float64{0, 2, 4, 6}
	for streak, bonus := range want {
		if got := BonusFor(streak); got != bonus {
			t.Fatalf("BonusFor(%d) = %v, want %v", streak, got, bonus)
		}
	}
	if got := BonusFor(-1); got != 0 {
		t.Fatalf("expected negative streak to clamp to 0, got %v", got)
	}
	if got := BonusFor(7); got != 6 {
		t.Fatalf("expected large streak to clamp to 6, got %v", got)
	}
}

func TestTurnScoreDefaultWeights(t *testing.T) {
	calc := NewCalculator(DefaultWeights())
	got := calc.TurnScore(100, 100, 100, 1.0, 6.0)
	if math.Abs(got-106.0) > 1e-9 {
		t.Fatalf("expected 106, got %v", got)
	}
}

func TestTurnScoreIsUnclamped(t *testing.T) {
	calc := NewCalculator(DefaultWeights())
	got := calc.TurnScore(100, 100, 100, 1.2, 6.0)
	if math.Abs(got-126.0) > 1e-9 {
		t.Fatalf("expected 126, got %v", got)
	}
}

func TestTurnScoreCustomWeights(t *testing.T) {
	calc := NewCalculator(Weights{Sense: 1, Observation: 0, Reflex: 0})
	if got := calc.TurnScore(50, 100, 100, 1.0, 0); got != 50 {
		t.Fatalf("expected 50, got %v", got)
	}
}

func TestSnapshotClampsToBounds(t *testing.T) {
	calc := NewCalculator(DefaultWeights())
	s := calc.Snapshot(2, 150, 100, 100, 2.0, 9)
	if s.EmotionalSense != 100 || s.EmotionMultiplier != 1.2 || s.ComboBonus != 6 {
		t.Fatalf("unexpected clamped snapshot: %#v", s)
	}
	if s.TurnScore != MaxTurnScore {
		t.Fatalf("expected turn score capped at %v, got %v", MaxTurnScore, s.TurnScore)
	}
	if s.TurnIndex != 2 {
		t.Fatalf("unexpected turn index: %d", s.TurnIndex)
	}

	low := calc.Snapshot(1, 0, -10, 0, 0.1, -3)
	if low.Observation != 0 || low.EmotionMultiplier != MinMultiplier || low.ComboBonus != 0 || low.TurnScore != 0 {
		t.Fatalf("unexpected low snapshot: %#v", low)
	}
}

func TestFinalScoreSums(t *testing.T) {
	calc := NewCalculator(DefaultWeights())
	scores := []Snapshot{{TurnScore: 10}, {TurnScore: 20.5}, {TurnScore: 30}}
	if got := calc.FinalScore(scores); got != 60.5 {
		t.Fatalf("expected 60.5, got %v", got)
	}
	if got := calc.FinalScore(nil); got != 0 {
		t.Fatalf("expected 0 for no turns, got %v", got)
	}
}

func TestBreakdownAverages(t *testing.T) {
	got := Breakdown([]Snapshot{
		{EmotionalSense: 60, Observation: 30, Reflex: 100},
		{EmotionalSense: 80, Observation: 70, Reflex: 50},
	})
	if got["emotional_sense"] != 70 || got["observation"] != 50 || got["reflex"] != 75 {
		t.Fatalf("unexpected breakdown: %#v", got)
	}
}
