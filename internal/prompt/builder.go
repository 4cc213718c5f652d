// Package prompt assembles the instructions sent to the emotion evaluation model.
package prompt

import (
	"bytes"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultCharacterName is the heroine's name.
const DefaultCharacterName = "예리"

// EvaluationContext contains all inputs for an evaluation prompt.
type EvaluationContext struct {
	CharacterName    string
	TurnIndex        int
	Stage            string
	StageName        string
	StageDescription string
	Tone             string
	Differences      []string
	Correct          bool
	Answer           string
}

// Builder assembles evaluation prompts.
type Builder struct {
	maxAnswerRunes int
}

// NewBuilder creates a Builder. Answers longer than maxAnswerRunes are truncated.
func NewBuilder(maxAnswerRunes int) *Builder {
	if maxAnswerRunes <= 0 {
		maxAnswerRunes = 200
	}
	return &Builder{maxAnswerRunes: maxAnswerRunes}
}

// Build returns the system instruction and the user content for one answer.
func (b *Builder) Build(ctx EvaluationContext) (*genai.Content, []*genai.Content, error) {
	answer := normalizeAnswer(ctx.Answer)
	if answer == "" {
		return nil, nil, fmt.Errorf("answer is required")
	}
	if runes := []rune(answer); len(runes) > b.maxAnswerRunes {
		answer = string(runes[:b.maxAnswerRunes])
	}
	if strings.TrimSpace(ctx.CharacterName) == "" {
		ctx.CharacterName = DefaultCharacterName
	}

	var buf bytes.Buffer
	if err := evaluationTemplate.Execute(&buf, ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	system := genai.NewContentFromText(buf.String(), "system")
	user := genai.NewContentFromText(answer, genai.RoleUser)
	return system, []*genai.Content{user}, nil
}
