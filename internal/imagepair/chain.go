package imagepair

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/easeaico/project-yeri/internal/types"
)

// Provider selects a pair for a difficulty.
type Provider interface {
	Select(ctx context.Context, difficulty types.Difficulty) (types.ImagePair, error)
}

// Chain tries providers in order and returns the first pair found.
type Chain []Provider

// NewChain returns a Chain over providers.
func NewChain(providers ...Provider) Chain {
	return Chain(providers)
}

// Select implements game.PairProvider.
func (c Chain) Select(ctx context.Context, difficulty types.Difficulty) (types.ImagePair, error) {
	var errs []error
	for i, p := range c {
		pair, err := p.Select(ctx, difficulty)
		if err == nil {
			return pair, nil
		}
		slog.Warn("image pair provider failed, trying next", "provider", i, "difficulty", difficulty, "error", err.Error())
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return types.ImagePair{}, fmt.Errorf("no image pair providers configured")
	}
	return types.ImagePair{}, errors.Join(errs...)
}
