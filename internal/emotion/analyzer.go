package emotion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/easeaico/project-yeri/internal/prompt"
	"github.com/easeaico/project-yeri/internal/utils"
)

// evaluationOutput is the structured reply expected from the model.
type evaluationOutput struct {
	EmotionDepth float64 `json:"emotion_depth" jsonschema:"strength of the emotional expression, 0.0 to 1.0"`
	EmpathyScore float64 `json:"empathy_score" jsonschema:"how well the player understands Yeri's feelings, 0.0 to 1.0"`
	SenseScore   float64 `json:"sense_score" jsonschema:"wit and charm of the wording, 0.0 to 1.0"`
	OverallStage string  `json:"overall_stage" jsonschema:"resulting emotion stage, one of S0 S1 S2 S3 S4"`
}

// LLMEvaluator scores answers with a language model.
type LLMEvaluator struct {
	model    model.LLM
	builder  *prompt.Builder
	schema   *jsonschema.Schema
	resolved *jsonschema.Resolved
}

// NewLLMEvaluator returns an LLMEvaluator backed by m.
func NewLLMEvaluator(m model.LLM, builder *prompt.Builder) (*LLMEvaluator, error) {
	if m == nil {
		return nil, fmt.Errorf("evaluation model is nil")
	}
	if builder == nil {
		builder = prompt.NewBuilder(0)
	}
	schema, err := evaluationSchema()
	if err != nil {
		return nil, err
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve evaluation schema: %w", err)
	}
	return &LLMEvaluator{
		model:    m,
		builder:  builder,
		schema:   schema,
		resolved: resolved,
	}, nil
}

func evaluationSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[evaluationOutput](nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build evaluation schema: %w", err)
	}
	lo, hi := 0.0, 1.0
	for _, key := range []string{"emotion_depth", "empathy_score", "sense_score"} {
		if p := schema.Properties[key]; p != nil {
			p.Minimum = &lo
			p.Maximum = &hi
		}
	}
	if p := schema.Properties["overall_stage"]; p != nil {
		for _, s := range Stages() {
			p.Enum = append(p.Enum, string(s))
		}
	}
	return schema, nil
}

// Evaluate implements Evaluator.
func (e *LLMEvaluator) Evaluate(ctx context.Context, in EvaluationInput) (Evaluation, error) {
	if e == nil || e.model == nil {
		return Evaluation{}, fmt.Errorf("emotion evaluator not configured")
	}

	info := Lookup(in.CurrentStage)
	system, contents, err := e.builder.Build(prompt.EvaluationContext{
		TurnIndex:        in.TurnIndex,
		Stage:            string(info.Stage),
		StageName:        info.EmotionName,
		StageDescription: info.Description,
		Tone:             ToneInstruction(info.Stage),
		Differences:      in.Differences,
		Correct:          in.Correct,
		Answer:           in.Answer,
	})
	if err != nil {
		return Evaluation{}, err
	}

	req := &model.LLMRequest{
		Contents: contents,
		Config: &genai.GenerateContentConfig{
			SystemInstruction:  system,
			Temperature:        genai.Ptr[float32](0.2),
			ResponseMIMEType:   "application/json",
			ResponseJsonSchema: e.schema,
		},
	}

	var sb strings.Builder
	for resp, err := range e.model.GenerateContent(ctx, req, false) {
		if err != nil {
			return Evaluation{}, fmt.Errorf("failed to call evaluation model: %w", err)
		}
		if resp == nil || resp.Partial {
			continue
		}
		sb.WriteString(utils.ExtractContentText(resp.Content))
	}

	var out evaluationOutput
	generic, err := utils.DecodeJSONObject(sb.String(), &out)
	if err != nil {
		return Evaluation{}, err
	}
	if err := e.resolved.Validate(generic); err != nil {
		slog.Warn("evaluation output does not match schema", "error", err.Error())
	}

	result := Evaluation{
		EmotionDepth: ClampScore(out.EmotionDepth),
		EmpathyScore: ClampScore(out.EmpathyScore),
		SenseScore:   ClampScore(out.SenseScore),
		Stage:        Stage(strings.ToUpper(strings.TrimSpace(out.OverallStage))),
	}
	if !result.Stage.Valid() {
		result.Stage = Next(in.CurrentStage, Signal{
			Correct:  in.Correct,
			Streak:   in.Streak,
			Empathy:  result.EmpathyScore,
			TimedOut: in.TimedOut,
		})
	}
	return result, nil
}
