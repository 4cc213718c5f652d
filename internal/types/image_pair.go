// Package types holds the data shapes shared between the engine and its collaborators.
package types

import "strings"

// Difficulty is the image-pair difficulty.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty normalizes s. An empty value means medium.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return DifficultyMedium, true
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, true
	default:
		return "", false
	}
}

// ImagePair is a Before/After image set of Yeri.
type ImagePair struct {
	PairID      string     `json:"pair_id"`
	BeforeURL   string     `json:"before_url"`
	AfterURL    string     `json:"after_url"`
	Differences []string   `json:"differences"`
	Difficulty  Difficulty `json:"difficulty"`
}

// Clone returns a deep copy of p.
func (p ImagePair) Clone() ImagePair {
	p.Differences = append([]string(nil), p.Differences...)
	return p
}
