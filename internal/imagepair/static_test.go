package imagepair

import (
	"context"
	"errors"
	"testing"

	"github.com/easeaico/project-yeri/internal/types"
)

func TestStaticSelect(t *testing.T) {
	p := NewStatic("https://cdn.example.com/")
	pair, err := p.Select(context.Background(), types.DifficultyHard)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pair.BeforeURL != "https://cdn.example.com/yeri/set01_before.png" {
		t.Fatalf("unexpected before url: %s", pair.BeforeURL)
	}
	if pair.Difficulty != types.DifficultyHard || len(pair.Differences) != len(SampleDifferences) {
		t.Fatalf("unexpected pair: %#v", pair)
	}
	pair.Differences[0] = "changed"
	if SampleDifferences[0] != "헤어스타일" {
		t.Fatalf("expected sample differences to be copied")
	}
}

type failingProvider struct{}

func (failingProvider) Select(ctx context.Context, difficulty types.Difficulty) (types.ImagePair, error) {
	return types.ImagePair{}, errors.New("catalog empty")
}

func TestChainFallsBack(t *testing.T) {
	chain := NewChain(failingProvider{}, NewStatic("/cdn"))
	pair, err := chain.Select(context.Background(), types.DifficultyEasy)
	if err != nil || pair.PairID != "set01" {
		t.Fatalf("expected static fallback, got %#v (%v)", pair, err)
	}
	if _, err := NewChain(failingProvider{}).Select(context.Background(), types.DifficultyEasy); err == nil {
		t.Fatalf("expected error when every provider fails")
	}
	if _, err := NewChain().Select(context.Background(), types.DifficultyEasy); err == nil {
		t.Fatalf("expected error for empty chain")
	}
}
