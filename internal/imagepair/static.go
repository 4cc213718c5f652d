// Package imagepair provides the built-in Before/After image catalog.
package imagepair

import (
	"context"
	"strings"

	"github.com/easeaico/project-yeri/internal/types"
)

// SampleDifferences are the changes between the sample set01 images.
var SampleDifferences = []string{"헤어스타일", "립스틱 색상", "귀걸이", "네일아트", "목걸이"}

// Static serves one fixed pair from a CDN base URL, whatever the difficulty.
type Static struct {
	baseURL string
}

// NewStatic returns a Static provider rooted at cdnURL.
func NewStatic(cdnURL string) *Static {
	return &Static{baseURL: strings.TrimRight(cdnURL, "/")}
}

// Sample returns the set01 pair for the difficulty.
func (s *Static) Sample(difficulty types.Difficulty) types.ImagePair {
	return types.ImagePair{
		PairID:      "set01",
		BeforeURL:   s.baseURL + "/yeri/set01_before.png",
		AfterURL:    s.baseURL + "/yeri/set01_after.png",
		Differences: append([]string(nil), SampleDifferences...),
		Difficulty:  difficulty,
	}
}

// Select implements game.PairProvider.
func (s *Static) Select(ctx context.Context, difficulty types.Difficulty) (types.ImagePair, error) {
	if difficulty == "" {
		difficulty = types.DifficultyMedium
	}
	return s.Sample(difficulty), nil
}
