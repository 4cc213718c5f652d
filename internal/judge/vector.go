package judge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/easeaico/project-yeri/internal/game"
	"github.com/easeaico/project-yeri/internal/storage"
)

// Searcher finds the stored difference closest to an embedding.
type Searcher interface {
	Nearest(ctx context.Context, pairID string, embedding []float32) (*storage.Match, error)
}

// Vector accepts answers semantically close to a stored difference. Exact
// keyword hits short-circuit the embedding call.
type Vector struct {
	keyword   *Keyword
	embedder  Embedder
	searcher  Searcher
	threshold float64
}

// NewVector returns a Vector judge. threshold is the minimum cosine similarity.
func NewVector(embedder Embedder, searcher Searcher, threshold float64) (*Vector, error) {
	if embedder == nil || searcher == nil {
		return nil, fmt.Errorf("vector judge requires an embedder and a searcher")
	}
	if threshold <= 0 || threshold > 1 {
		threshold = 0.75
	}
	return &Vector{
		keyword:   NewKeyword(),
		embedder:  embedder,
		searcher:  searcher,
		threshold: threshold,
	}, nil
}

// Judge implements game.Judge.
func (v *Vector) Judge(ctx context.Context, in game.JudgeInput) (game.Verdict, error) {
	if label, ok := v.keyword.Match(in.Answer, in.Pair.Differences); ok {
		return credit(label, in.Found), nil
	}
	if in.Pair.PairID == "" || normalize(in.Answer) == "" {
		return game.Verdict{}, nil
	}

	embedding, err := v.embedder.EmbedQuery(ctx, in.Answer)
	if err != nil {
		return game.Verdict{}, fmt.Errorf("failed to embed answer: %w", err)
	}
	match, err := v.searcher.Nearest(ctx, in.Pair.PairID, embedding)
	if err != nil {
		return game.Verdict{}, err
	}
	if match == nil {
		return game.Verdict{}, nil
	}
	slog.Debug("nearest difference", "pair_id", in.Pair.PairID, "label", match.Label, "similarity", match.Similarity)
	if match.Similarity < v.threshold {
		return game.Verdict{}, nil
	}
	return credit(match.Label, in.Found), nil
}
