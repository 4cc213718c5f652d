package judge

import (
	"context"
	"errors"
	"testing"

	"github.com/easeaico/project-yeri/internal/game"
	"github.com/easeaico/project-yeri/internal/storage"
	"github.com/easeaico/project-yeri/internal/types"
)

var samplePair = types.ImagePair{
	PairID:      "set01",
	Differences: []string{"헤어스타일", "립스틱 색상", "귀걸이", "네일아트", "목걸이"},
}

func TestKeywordMatch(t *testing.T) {
	k := NewKeyword()
	cases := []struct {
		answer string
		want   bool
	}{
		{"귀걸이 바꿨지?", true},
		{"립스틱 바꿨어?", true},
		{"헤어 스타일!", true},
		{"오늘 예쁘다", false},
		{"   ", false},
	}
	for _, tc := range cases {
		got, err := k.Judge(context.Background(), game.JudgeInput{Answer: tc.answer, Pair: samplePair})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.Correct != tc.want {
			t.Fatalf("Judge(%q) = %v, want %v", tc.answer, got.Correct, tc.want)
		}
	}
}

func TestKeywordRepeatIsMiss(t *testing.T) {
	k := NewKeyword()
	first, _ := k.Judge(context.Background(), game.JudgeInput{Answer: "귀걸이 바꿨지?", Pair: samplePair})
	if !first.Correct || first.Label != "귀걸이" {
		t.Fatalf("unexpected first verdict: %#v", first)
	}
	again, _ := k.Judge(context.Background(), game.JudgeInput{Answer: "귀걸이!", Pair: samplePair, Found: []string{first.Label}})
	if again.Correct {
		t.Fatalf("expected repeated difference to miss, got %#v", again)
	}
	other, _ := k.Judge(context.Background(), game.JudgeInput{Answer: "목걸이도?", Pair: samplePair, Found: []string{first.Label}})
	if !other.Correct || other.Label != "목걸이" {
		t.Fatalf("expected a new difference to count, got %#v", other)
	}
}

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	return []float32{1, 0}, f.err
}

func (f *fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, nil
}

type fakeSearcher struct {
	match *storage.Match
}

func (f *fakeSearcher) Nearest(ctx context.Context, pairID string, embedding []float32) (*storage.Match, error) {
	return f.match, nil
}

func TestVectorKeywordShortCircuit(t *testing.T) {
	emb := &fakeEmbedder{}
	v, _ := NewVector(emb, &fakeSearcher{}, 0.8)
	got, err := v.Judge(context.Background(), game.JudgeInput{Answer: "목걸이", Pair: samplePair})
	if err != nil || !got.Correct {
		t.Fatalf("expected keyword hit, got %#v (%v)", got, err)
	}
	if emb.calls != 0 {
		t.Fatalf("expected no embedding call on keyword hit")
	}
}

func TestVectorThreshold(t *testing.T) {
	searcher := &fakeSearcher{match: &storage.Match{Label: "네일아트", Similarity: 0.82}}
	v, _ := NewVector(&fakeEmbedder{}, searcher, 0.8)
	got, _ := v.Judge(context.Background(), game.JudgeInput{Answer: "손톱 색 바꿨네", Pair: samplePair})
	if !got.Correct || got.Label != "네일아트" {
		t.Fatalf("expected similarity above threshold to count, got %#v", got)
	}
	again, _ := v.Judge(context.Background(), game.JudgeInput{Answer: "손톱 색 바꿨네", Pair: samplePair, Found: []string{"네일아트"}})
	if again.Correct {
		t.Fatalf("expected an already found difference to miss")
	}
	searcher.match.Similarity = 0.5
	got, _ = v.Judge(context.Background(), game.JudgeInput{Answer: "손톱 색 바꿨네", Pair: samplePair})
	if got.Correct {
		t.Fatalf("expected similarity below threshold to miss")
	}
}

func TestVectorEmbedError(t *testing.T) {
	v, _ := NewVector(&fakeEmbedder{err: errors.New("quota")}, &fakeSearcher{}, 0.8)
	if _, err := v.Judge(context.Background(), game.JudgeInput{Answer: "손톱", Pair: samplePair}); err == nil {
		t.Fatalf("expected embed error")
	}
}
