package types

import "testing"

func TestParseDifficulty(t *testing.T) {
	cases := map[string]Difficulty{
		"":        DifficultyMedium,
		"easy":    DifficultyEasy,
		" HARD ":  DifficultyHard,
		"medium":  DifficultyMedium,
	}
	for in, want := range cases {
		got, ok := ParseDifficulty(in)
		if !ok || got != want {
			t.Fatalf("ParseDifficulty(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := ParseDifficulty("impossible"); ok {
		t.Fatalf("expected unknown difficulty to be rejected")
	}
}

func TestImagePairCloneIsDeep(t *testing.T) {
	p := ImagePair{Differences: []string{"귀걸이"}}
	c := p.Clone()
	c.Differences[0] = "목걸이"
	if p.Differences[0] != "귀걸이" {
		t.Fatalf("expected clone not to share differences")
	}
}
