package app

import (
	"testing"

	"github.com/easeaico/project-yeri/internal/config"
)

func TestTTSPrefix(t *testing.T) {
	cases := []struct {
		images, tts, want string
	}{
		{"./assets", "./assets/tts", "/static/tts"},
		{"./assets", "./assets/cache/tts", "/static/cache/tts"},
		{"./assets", "./tmp/tts", "/tts"},
		{"./assets", "./assets", "/tts"},
	}
	for _, tc := range cases {
		got := ttsPrefix(config.Config{ImageStoragePath: tc.images, TTSCacheDir: tc.tts})
		if got != tc.want {
			t.Fatalf("ttsPrefix(%s, %s) = %s, want %s", tc.images, tc.tts, got, tc.want)
		}
	}
}
