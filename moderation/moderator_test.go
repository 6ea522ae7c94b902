package moderation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Censor(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator([]string{"badger", "secret"}, '*')
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean text untouched", "hello world", "hello world"},
		{"single word masked", "the secret plan", "the ****** plan"},
		{"case insensitive", "SECRET", "******"},
		{"spaced-out variant caught", "s e c r e t", "* * * * * *"},
		{"interior punctuation preserved", "s.e-c.r-e.t!", "*.*-*.*-*.*!"},
		{"multiple words", "secret badger secret", "****** ****** ******"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, moderator.Censor(tt.input))
		})
	}
}

func Test_NewModeratorFromFile(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "words.txt")
	content := "# comment line\nsecret\n\nbadger\n"
	req.NoError(os.WriteFile(path, []byte(content), 0o600))

	moderator, err := NewModeratorFromFile(path, '#')
	req.NoError(err)
	req.Equal("the ###### plan", moderator.Censor("the secret plan"))

	_, err = NewModeratorFromFile(filepath.Join(t.TempDir(), "missing.txt"), '*')
	req.Error(err)
}

func Test_DetectLanguage(t *testing.T) {
	req := require.New(t)

	req.Equal("en", DetectLanguage("this is clearly an english sentence about the weather"))
	req.Empty(DetectLanguage(""))
}
