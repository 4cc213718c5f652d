// Package judge decides whether an answer names one of a pair's differences.
package judge

import (
	"context"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/easeaico/project-yeri/internal/game"
)

// Keyword matches answers against difference labels after normalization.
type Keyword struct {
	// MinTokenRunes is the shortest label word that counts on its own.
	MinTokenRunes int
}

// NewKeyword returns a Keyword judge.
func NewKeyword() *Keyword {
	return &Keyword{MinTokenRunes: 2}
}

// Judge implements game.Judge. Naming a difference already found on the turn
// is a miss.
func (k *Keyword) Judge(ctx context.Context, in game.JudgeInput) (game.Verdict, error) {
	label, ok := k.Match(in.Answer, in.Pair.Differences)
	if !ok {
		return game.Verdict{}, nil
	}
	return credit(label, in.Found), nil
}

// credit accepts label unless it is already in found.
func credit(label string, found []string) game.Verdict {
	if slices.Contains(found, label) {
		return game.Verdict{Label: label}
	}
	return game.Verdict{Correct: true, Label: label}
}

// Match returns the first difference the answer names.
func (k *Keyword) Match(answer string, differences []string) (string, bool) {
	norm := normalize(answer)
	if norm == "" {
		return "", false
	}
	for _, label := range differences {
		whole := normalize(label)
		if whole != "" && strings.Contains(norm, whole) {
			return label, true
		}
	}
	for _, label := range differences {
		for _, word := range strings.Fields(label) {
			w := normalize(word)
			if utf8.RuneCountInString(w) >= k.MinTokenRunes && strings.Contains(norm, w) {
				return label, true
			}
		}
	}
	return "", false
}

// normalize lowercases s and drops everything but letters and digits.
func normalize(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
