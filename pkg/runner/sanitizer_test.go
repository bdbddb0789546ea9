package runner

import (
	"strings"
	"testing"

	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput_SizeLimit(t *testing.T) {
	_, err := SanitizeInput(strings.Repeat("a", DefaultMaxInputSize))
	assert.NoError(t, err)

	_, err = SanitizeInput(strings.Repeat("a", DefaultMaxInputSize+1))
	assert.ErrorIs(t, err, ErrInputTooLarge)
}

func TestSanitizeInput_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "10")
	assert.Equal(t, 10, MaxInputSize())

	_, err := SanitizeInput("12345678901")
	assert.ErrorIs(t, err, ErrInputTooLarge)

	t.Setenv(EnvMaxInputSize, "zero")
	assert.Equal(t, DefaultMaxInputSize, MaxInputSize())
}

func TestSanitizeInput_ControlChars(t *testing.T) {
	tests := map[string]struct {
		input, want string
	}{
		"plain":         {"wooden toys", "wooden toys"},
		"safe controls": {"line1\nline2\ttab\r", "line1\nline2\ttab\r"},
		"ansi escape":   {"\x1b[31mred\x1b[0m", "[31mred[0m"},
		"null and bell": {"a\x00b\x07", "ab"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := SanitizeInput(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeInput_InvalidUTF8(t *testing.T) {
	_, err := SanitizeInput("\xbd\xb2\x3d\xbc")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestSanitizeEvent(t *testing.T) {
	ev, err := SanitizeEvent(domain.GenerateRequested{Prompt: "a cart\x1b"})
	require.NoError(t, err)
	assert.Equal(t, domain.GenerateRequested{Prompt: "a cart"}, ev)

	ev, err = SanitizeEvent(domain.FilesChosen{Files: []domain.UploadFile{{Name: "cart\x00.png", Data: []byte{0}}}})
	require.NoError(t, err)
	assert.Equal(t, "cart.png", ev.(domain.FilesChosen).Files[0].Name)
	assert.Equal(t, []byte{0}, ev.(domain.FilesChosen).Files[0].Data)

	ev, err = SanitizeEvent(domain.ImageToggled{URL: "https://cdn/1.jpg"})
	require.NoError(t, err)
	assert.Equal(t, domain.ImageToggled{URL: "https://cdn/1.jpg"}, ev)

	t.Setenv(EnvMaxInputSize, "3")
	_, err = SanitizeEvent(domain.TextSubmitted{Value: "toolong"})
	assert.ErrorIs(t, err, ErrInputTooLarge)
}
