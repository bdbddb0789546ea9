package runner

import (
	"bytes"
	"context"
	"testing"

	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageRequest() domain.Command {
	return domain.Command{Type: domain.CommandRequestInput, Payload: domain.InputRequest{
		StepID: "image_source",
		Type:   domain.InputImageSelect,
		Images: []string{"https://cdn/1.jpg", "https://cdn/2.jpg"},
		Models: []domain.ImageModel{{ID: "gemini"}, {ID: "chatgpt"}},
	}}
}

func TestTextHandler_Output(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewTextHandler(out, WithTextHandlerRenderer(func(s string) (string, error) {
		return "Rendered: " + s, nil
	}))

	err := h.Present(context.Background(),
		domain.Command{Type: domain.CommandShowMessage, Payload: domain.MessagePayload{Content: "Hello", Hint: "say hi"}},
		domain.Command{Type: domain.CommandShowPreview, Payload: domain.GeneratedContent{PageTitle: "Cart"}},
		domain.Command{Type: domain.CommandShowError, Payload: "boom"},
	)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "🤖 Hello")
	assert.Contains(t, text, "say hi")
	assert.Contains(t, text, "Rendered: # Cart")
	assert.Contains(t, text, "⚠ boom")
}

func TestTextHandler_ParseButtons(t *testing.T) {
	h := NewTextHandler(&bytes.Buffer{})
	ctx := context.Background()

	_, err := h.Parse(ctx, "2")
	assert.ErrorIs(t, err, ErrNoInputExpected)

	require.NoError(t, h.Present(ctx, domain.Command{Type: domain.CommandRequestInput, Payload: domain.InputRequest{
		Type:    domain.InputButtons,
		Options: []domain.Option{{Label: "Save"}, {Label: "Skip"}},
	}}))

	req, err := h.Parse(ctx, "1 My preset")
	require.NoError(t, err)
	assert.Equal(t, domain.ButtonChosen{Index: 0, Text: "My preset"}, req.Event)

	req, err = h.Parse(ctx, "skip")
	require.NoError(t, err)
	assert.Equal(t, domain.ButtonChosen{Index: 1}, req.Event)

	_, err = h.Parse(ctx, "maybe")
	assert.ErrorContains(t, err, "between 1 and 2")

	req, err = h.Parse(ctx, "/regenerate")
	require.NoError(t, err)
	assert.Equal(t, CommandRegenerate, req.Command)

	require.NoError(t, h.Present(ctx, domain.Command{Type: domain.CommandClearInput}))
	_, err = h.Parse(ctx, "1")
	assert.ErrorIs(t, err, ErrNoInputExpected)
}

func TestTextHandler_ParseImageCommands(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/tmp/a.png", []byte("A"), 0o644))

	h := NewTextHandler(&bytes.Buffer{}, WithTextHandlerFs(fs))
	ctx := context.Background()
	require.NoError(t, h.Present(ctx, imageRequest()))

	tests := []struct {
		line string
		want domain.Event
	}{
		{"source generate", domain.ImageSourceSwitched{Source: domain.SourceGenerate}},
		{"toggle 2", domain.ImageToggled{URL: "https://cdn/2.jpg"}},
		{"toggle https://elsewhere/x.jpg", domain.ImageToggled{URL: "https://elsewhere/x.jpg"}},
		{"main 1", domain.MainImageChosen{URL: "https://cdn/1.jpg"}},
		{"model 2", domain.ModelChosen{Model: "chatgpt"}},
		{"model gemini", domain.ModelChosen{Model: "gemini"}},
		{"generate a cart in a garden", domain.GenerateRequested{Prompt: "a cart in a garden"}},
		{"upload /tmp/a.png", domain.FilesChosen{Files: []domain.UploadFile{{Name: "a.png", Data: []byte("A")}}}},
		{"done", domain.ImagesConfirmed{}},
	}
	for _, tt := range tests {
		req, err := h.Parse(ctx, tt.line)
		require.NoError(t, err, tt.line)
		assert.Equal(t, tt.want, req.Event, tt.line)
	}

	_, err := h.Parse(ctx, "upload /tmp/missing.png")
	assert.ErrorContains(t, err, "failed to read /tmp/missing.png")

	_, err = h.Parse(ctx, "paint it")
	assert.ErrorContains(t, err, "unknown image command")
}
