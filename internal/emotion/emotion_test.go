package emotion

import (
	"context"
	"errors"
	"iter"
	"testing"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

func TestLookupKnownStages(t *testing.T) {
	want := map[Stage]float64{
		StageNeutral:      1.0,
		StagePlayful:      1.0,
		StageCurious:      0.95,
		StageUpset:        0.85,
		StageAffectionate: 1.2,
	}
	for stage, multiplier := range want {
		info := Lookup(stage)
		if info.Stage != stage || info.Multiplier != multiplier {
			t.Fatalf("unexpected info for %s: %#v", stage, info)
		}
		if info.Multiplier < 0.8 || info.Multiplier > 1.2 {
			t.Fatalf("multiplier out of range for %s: %v", stage, info.Multiplier)
		}
	}
}

func TestLookupUnknownFallsBackToNeutral(t *testing.T) {
	info := Lookup(Stage("S9"))
	if info.Stage != StageNeutral || info.ExpressionFile != "YERI_S0_default.png" {
		t.Fatalf("expected S0 fallback, got %#v", info)
	}
}

func TestNextTransitions(t *testing.T) {
	cases := []struct {
		name    string
		current Stage
		signal  Signal
		want    Stage
	}{
		{"correct from neutral", StageNeutral, Signal{Correct: true, Streak: 1}, StagePlayful},
		{"miss from neutral", StageNeutral, Signal{}, StageCurious},
		{"second miss", StageCurious, Signal{}, StageUpset},
		{"miss while upset stays", StageUpset, Signal{}, StageUpset},
		{"combo of three", StagePlayful, Signal{Correct: true, Streak: 3}, StageAffectionate},
		{"high empathy", StageUpset, Signal{Empathy: 0.9}, StageAffectionate},
		{"timeout", StagePlayful, Signal{TimedOut: true}, StageUpset},
		{"correct while affectionate stays", StageAffectionate, Signal{Correct: true, Streak: 1}, StageAffectionate},
		{"unknown stage treated as neutral", Stage("??"), Signal{Correct: true, Streak: 1}, StagePlayful},
	}
	for _, tc := range cases {
		if got := Next(tc.current, tc.signal); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestTransitionsReturnsCopy(t *testing.T) {
	table := Transitions()
	if len(table) == 0 {
		t.Fatalf("expected transition table")
	}
	table[0].To = StageUpset
	if Transitions()[0].To != StageAffectionate {
		t.Fatalf("expected table to be immutable from callers")
	}
}

func TestEndingThresholds(t *testing.T) {
	rules := DefaultEndingRules()
	cases := []struct {
		total float64
		want  Ending
	}{
		{100, EndingAffectionate},
		{80, EndingAffectionate},
		{79.999, EndingMildlyUpset},
		{50, EndingMildlyUpset},
		{49.999, EndingBreakup},
		{0, EndingBreakup},
	}
	for _, tc := range cases {
		got, msg := rules.Resolve(tc.total)
		if got != tc.want {
			t.Fatalf("Resolve(%v) = %s, want %s", tc.total, got, tc.want)
		}
		if msg == "" {
			t.Fatalf("expected message for %s", got)
		}
	}
}

func TestStaticDialogue(t *testing.T) {
	if got := DefaultDialogue.Line(StageAffectionate); got != "오빠, 역시 내 사람이야♡" {
		t.Fatalf("unexpected line: %s", got)
	}
	if got := DefaultDialogue.Line(Stage("S7")); got != fallbackLine {
		t.Fatalf("expected fallback line, got %s", got)
	}
}

func TestRuleEvaluator(t *testing.T) {
	e := NewRuleEvaluator()
	hit, err := e.Evaluate(context.Background(), EvaluationInput{Correct: true, Streak: 1, CurrentStage: StageNeutral})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if hit.Stage != StagePlayful || hit.SenseScore != 0.7 {
		t.Fatalf("unexpected hit evaluation: %#v", hit)
	}
	miss, _ := e.Evaluate(context.Background(), EvaluationInput{CurrentStage: StagePlayful})
	if miss.Stage != StageCurious || miss.SenseScore != 0.3 {
		t.Fatalf("unexpected miss evaluation: %#v", miss)
	}
}

func TestRuleEvaluatorTimedOutMiss(t *testing.T) {
	e := NewRuleEvaluator()
	got, _ := e.Evaluate(context.Background(), EvaluationInput{TimedOut: true, CurrentStage: StageNeutral})
	if got.Stage != StageUpset {
		t.Fatalf("expected out-of-time miss to upset, got %s", got.Stage)
	}
	hit, _ := e.Evaluate(context.Background(), EvaluationInput{Correct: true, Streak: 1, TimedOut: true, CurrentStage: StageNeutral})
	if hit.Stage != StagePlayful {
		t.Fatalf("expected a last-second hit to stay playful, got %s", hit.Stage)
	}
}

type fakeLLM struct {
	text string
	err  error
	last *model.LLMRequest
}

func (f *fakeLLM) Name() string {
	return "fake"
}

func (f *fakeLLM) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	f.last = req
	return func(yield func(*model.LLMResponse, error) bool) {
		if f.err != nil {
			yield(nil, f.err)
			return
		}
		yield(&model.LLMResponse{Content: genai.NewContentFromText(f.text, genai.RoleModel)}, nil)
	}
}

func TestLLMEvaluatorParsesOutput(t *testing.T) {
	llm := &fakeLLM{text: `{"emotion_depth":0.4,"empathy_score":0.9,"sense_score":1.5,"overall_stage":"s4"}`}
	e, err := NewLLMEvaluator(llm, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got, err := e.Evaluate(context.Background(), EvaluationInput{Answer: "머리 잘랐어?", TurnIndex: 1, CurrentStage: StageNeutral})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Stage != StageAffectionate || got.EmpathyScore != 0.9 || got.SenseScore != 1 {
		t.Fatalf("unexpected evaluation: %#v", got)
	}
	if llm.last == nil || llm.last.Config == nil || llm.last.Config.SystemInstruction == nil {
		t.Fatalf("expected system instruction in request")
	}
	if llm.last.Config.ResponseMIMEType != "application/json" {
		t.Fatalf("expected json response type, got %q", llm.last.Config.ResponseMIMEType)
	}
}

func TestLLMEvaluatorInvalidStageFallsBack(t *testing.T) {
	llm := &fakeLLM{text: `{"emotion_depth":0.1,"empathy_score":0.1,"sense_score":0.1,"overall_stage":"happy"}`}
	e, _ := NewLLMEvaluator(llm, nil)
	got, err := e.Evaluate(context.Background(), EvaluationInput{Answer: "몰라", CurrentStage: StageCurious})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Stage != StageUpset {
		t.Fatalf("expected transition-table fallback to S3, got %s", got.Stage)
	}
}

func TestLLMEvaluatorFallbackSeesTimeout(t *testing.T) {
	llm := &fakeLLM{text: `{"emotion_depth":0.1,"empathy_score":0.1,"sense_score":0.1,"overall_stage":""}`}
	e, _ := NewLLMEvaluator(llm, nil)
	got, err := e.Evaluate(context.Background(), EvaluationInput{Answer: "몰라", TimedOut: true, CurrentStage: StagePlayful})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Stage != StageUpset {
		t.Fatalf("expected timeout row in fallback, got %s", got.Stage)
	}
}

func TestLLMEvaluatorModelError(t *testing.T) {
	e, _ := NewLLMEvaluator(&fakeLLM{err: errors.New("boom")}, nil)
	if _, err := e.Evaluate(context.Background(), EvaluationInput{Answer: "귀걸이"}); err == nil {
		t.Fatalf("expected model error to surface")
	}
}

func TestNewLLMEvaluatorRequiresModel(t *testing.T) {
	if _, err := NewLLMEvaluator(nil, nil); err == nil {
		t.Fatalf("expected error for nil model")
	}
}
