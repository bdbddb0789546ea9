package runner_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/pagewizard/internal/runtime"
	"github.com/aretw0/pagewizard/internal/testutils"
	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/aretw0/pagewizard/pkg/flow"
	"github.com/aretw0/pagewizard/pkg/runner"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backend() *testutils.FakeBackend {
	return &testutils.FakeBackend{
		AnalyzeFunc: func(context.Context, string) (*domain.Product, error) {
			return &domain.Product{Name: "Wooden cart", Images: []string{"https://cdn/1.jpg", "https://cdn/2.jpg"}}, nil
		},
		UploadFunc: func(_ context.Context, f domain.UploadFile) (string, error) {
			return "uploads/" + f.Name, nil
		},
		GenerateContentFunc: func(_ context.Context, _ domain.Persona, p *domain.Product, _ domain.GenerateOptions) (*domain.GeneratedContent, error) {
			return &domain.GeneratedContent{PageTitle: p.Name, Sections: []domain.Section{{Title: "Intro", Text: "For little hands"}}}, nil
		},
		PublishFunc: func(context.Context, *domain.GeneratedContent, *domain.Product, []string) (*domain.PublishResult, error) {
			return &domain.PublishResult{PageURL: "https://shop/pages/7"}, nil
		},
	}
}

func newDriver(t *testing.T, presenter runner.IOHandler, be *testutils.FakeBackend) *runtime.Interpreter {
	t.Helper()
	f, err := flow.Default()
	require.NoError(t, err)

	cfg := runtime.DefaultConfig()
	cfg.MessageDelay, cfg.TypingDelay, cfg.ProductDelay = 0, 0, 0
	it, err := runtime.New(f.Graph, be, presenter, runtime.WithConfig(cfg))
	require.NoError(t, err)
	return it
}

func TestRunner_TextSession(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/photos/cart.png", []byte("png"), 0o644))

	out := &bytes.Buffer{}
	h := runner.NewTextHandler(out, runner.WithTextHandlerFs(fs))
	it := newDriver(t, h, backend())

	input := strings.Join([]string{
		"wooden toys",
		"parents",
		"Casual",
		"3",
		"2",
		"not a url",
		"https://shop.example.com/items/1",
		"1",
		"upload /photos/cart.png",
		"/publish",
		"",
	}, "\n")

	r := runner.NewRunner(runner.WithInputHandler(h), runner.WithInput(strings.NewReader(input)))
	require.NoError(t, r.Run(context.Background(), it))

	s := it.Session()
	assert.Equal(t, "preview", it.CurrentStep())
	assert.Equal(t, "wooden toys", s.Persona.Genre())
	assert.Equal(t, "casual", s.Persona["tone"])
	assert.Equal(t, []string{"uploads/cart.png"}, s.Images)
	require.NotNil(t, s.GeneratedContent)
	assert.Equal(t, "https://shop/pages/7", s.GeneratedContent.PageURL)

	text := out.String()
	assert.Contains(t, text, "1) Casual")
	assert.Contains(t, text, "Please enter a valid URL")
	assert.Contains(t, text, "# Wooden cart")
	assert.Contains(t, text, "https://shop/pages/7")
}

func TestRunner_ReportsUnexpectedInput(t *testing.T) {
	out := &bytes.Buffer{}
	h := runner.NewTextHandler(out)
	it := newDriver(t, h, backend())

	input := "/publish\n/dance\n/quit\nnever read\n"
	r := runner.NewRunner(runner.WithInputHandler(h), runner.WithInput(strings.NewReader(input)))
	require.NoError(t, r.Run(context.Background(), it))

	text := out.String()
	assert.Contains(t, text, "[System] "+domain.ErrNoGeneratedContent.Error())
	assert.Contains(t, text, "[System] unknown command /dance")
	assert.Equal(t, "genre", it.CurrentStep())
	assert.Empty(t, it.Session().Persona.Genre(), "lines after /quit are ignored")
}

func TestRunner_OversizedInput(t *testing.T) {
	t.Setenv("PAGEWIZARD_MAX_INPUT_SIZE", "8")

	out := &bytes.Buffer{}
	h := runner.NewTextHandler(out)
	it := newDriver(t, h, backend())

	r := runner.NewRunner(runner.WithInputHandler(h), runner.WithInput(strings.NewReader("far too long answer\ntoys\n")))
	require.NoError(t, r.Run(context.Background(), it))

	assert.Contains(t, out.String(), "input exceeds maximum allowed size")
	assert.Equal(t, "toys", it.Session().Persona.Genre())
}

func TestRunner_JSONSession(t *testing.T) {
	out := &bytes.Buffer{}
	h := runner.NewJSONHandler(out)

	input := strings.Join([]string{
		`{"event":"text_submitted","data":{"value":"toys"}}`,
		`{"event":"text_submitted","data":{"value":"parents"}}`,
		`{"event":"button_chosen","data":{"index":0}}`,
		`{"event":"button_chosen","data":{"index":0}}`,
		`{"event":"button_chosen","data":{"index":0,"text":"Toy shop"}}`,
		`{"event":"url_submitted","data":{"value":"https://shop.example.com/items/1"}}`,
		`{"event":"button_chosen","data":{"index":1}}`,
		`{"event":"image_toggled","data":{"url":"https://cdn/2.jpg"}}`,
		`{"event":"images_confirmed"}`,
		`{"command":"restart"}`,
		`not json`,
	}, "\n")

	be := backend()
	it := newDriver(t, h, be)
	r := runner.NewRunner(runner.WithInputHandler(h), runner.WithInput(strings.NewReader(input)))
	require.NoError(t, r.Run(context.Background(), it))

	assert.Contains(t, be.Calls(), "SavePersona")
	assert.Contains(t, be.Calls(), "GenerateContent")
	assert.Equal(t, "genre", it.CurrentStep(), "restart goes back to the first question")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Contains(t, lines[0], `"type":"PROGRESS"`)
	assert.Contains(t, out.String(), `"type":"SHOW_PREVIEW"`)
	assert.Contains(t, lines[len(lines)-1], `"type":"SYSTEM"`)
	assert.Contains(t, lines[len(lines)-1], "invalid input line")
}
