package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/pagewizard/internal/presentation/tui"
	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/spf13/afero"
)

// ErrNoInputExpected is returned by Parse when no widget is open.
var ErrNoInputExpected = errors.New("nothing to answer right now")

// TextHandler renders the conversation as terminal text and reads plain answers.
// Image selection uses short verbs: source, toggle, main, model, generate, upload, done.
type TextHandler struct {
	Writer   io.Writer
	Renderer ContentRenderer
	Fs       afero.Fs

	out *termenv.Output

	mu      sync.Mutex
	request *domain.InputRequest
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the markdown renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerFs sets the filesystem uploads are read from.
func WithTextHandlerFs(fs afero.Fs) TextHandlerOption {
	return func(h *TextHandler) {
		h.Fs = fs
	}
}

// NewTextHandler creates a handler for terminal IO.
func NewTextHandler(w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Writer: w,
		Fs:     afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.out = termenv.NewOutput(h.Writer)
	return h
}

// Present implements ports.Presenter.
func (h *TextHandler) Present(ctx context.Context, cmds ...domain.Command) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, cmd := range cmds {
		switch cmd.Type {
		case domain.CommandShowMessage:
			if m, ok := cmd.Payload.(domain.MessagePayload); ok {
				fmt.Fprintf(h.Writer, "\n🤖 %s\n", m.Content)
				if m.Hint != "" {
					fmt.Fprintln(h.Writer, h.out.String("   "+m.Hint).Faint())
				}
			}
		case domain.CommandEchoUser:
			fmt.Fprintln(h.Writer, h.out.String(fmt.Sprintf("   › %v", cmd.Payload)).Faint())
		case domain.CommandRequestInput:
			if req, ok := cmd.Payload.(domain.InputRequest); ok {
				h.request = &req
				h.writeRequest(req)
			}
		case domain.CommandClearInput:
			h.request = nil
		case domain.CommandShowProduct:
			if p, ok := cmd.Payload.(domain.Product); ok {
				h.writeMarkdown(tui.ProductMarkdown(&p))
			}
		case domain.CommandShowPreview:
			if c, ok := cmd.Payload.(domain.GeneratedContent); ok {
				h.writeMarkdown(tui.PreviewMarkdown(&c))
				fmt.Fprintln(h.Writer, h.out.String("   /publish to publish, /regenerate to try again").Faint())
			}
		case domain.CommandShowLoading:
			if l, ok := cmd.Payload.(domain.LoadingPayload); ok {
				if l.Progress >= 0 {
					fmt.Fprintf(h.Writer, "⏳ %s %d%%\n", l.Text, l.Progress)
				} else {
					fmt.Fprintf(h.Writer, "⏳ %s\n", l.Text)
				}
			}
		case domain.CommandShowError:
			fmt.Fprintln(h.Writer, h.out.String(fmt.Sprintf("⚠ %v", cmd.Payload)).Foreground(h.out.Color("1")).Bold())
		case domain.CommandProgress:
			fmt.Fprintln(h.Writer, h.out.String(fmt.Sprintf("[step %v/4]", cmd.Payload)).Faint())
		case domain.CommandImageSelection:
			if s, ok := cmd.Payload.(domain.ImageSelection); ok {
				h.writeSelection(s)
			}
		case domain.CommandCredits:
			fmt.Fprintln(h.Writer, h.out.String(fmt.Sprintf("Credits: %v", cmd.Payload)).Faint())
		}
	}
	return nil
}

func (h *TextHandler) writeMarkdown(md string) {
	output := md
	if h.Renderer != nil {
		if rendered, err := h.Renderer(md); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(h.Writer, strings.TrimRight(output, "\n"))
}

func (h *TextHandler) writeRequest(req domain.InputRequest) {
	switch req.Type {
	case domain.InputButtons:
		for n, opt := range req.Options {
			line := fmt.Sprintf("  %d) %s", n+1, opt.Label)
			if opt.Desc != "" {
				line += h.out.String(" - " + opt.Desc).Faint().String()
			}
			fmt.Fprintln(h.Writer, line)
		}
	case domain.InputImageSelect:
		for n, img := range req.Images {
			fmt.Fprintf(h.Writer, "  [%d] %s\n", n+1, img)
		}
		names := make([]string, 0, len(req.Models))
		for _, m := range req.Models {
			names = append(names, m.ID)
		}
		fmt.Fprintln(h.Writer, h.out.String("   source product|generate|upload · toggle N · main N · done").Faint())
		fmt.Fprintln(h.Writer, h.out.String("   model "+strings.Join(names, "|")+" · generate PROMPT · upload FILE...").Faint())
	}
}

func (h *TextHandler) writeSelection(s domain.ImageSelection) {
	line := fmt.Sprintf("   source=%s selected=%d", s.Source, len(s.Images))
	if s.Model != "" {
		line += " model=" + s.Model
	}
	if s.MainImage != "" {
		line += " main=" + s.MainImage
	}
	fmt.Fprintln(h.Writer, h.out.String(line).Faint())
}

// Parse implements IOHandler. Lines starting with "/" are wizard commands.
func (h *TextHandler) Parse(ctx context.Context, line string) (Request, error) {
	line = strings.TrimSpace(line)
	if name, ok := strings.CutPrefix(line, "/"); ok {
		if !isCommand(name) {
			return Request{}, fmt.Errorf("unknown command /%s", name)
		}
		return Request{Command: name}, nil
	}

	h.mu.Lock()
	req := h.request
	h.mu.Unlock()
	if req == nil {
		return Request{}, ErrNoInputExpected
	}

	ev, err := h.parseEvent(*req, line)
	if err != nil {
		return Request{}, err
	}
	return Request{Event: ev}, nil
}

func (h *TextHandler) parseEvent(req domain.InputRequest, line string) (domain.Event, error) {
	switch req.Type {
	case domain.InputText:
		return domain.TextSubmitted{Value: line}, nil
	case domain.InputURL:
		return domain.URLSubmitted{Value: line}, nil
	case domain.InputButtons:
		return parseButton(req, line)
	case domain.InputImageSelect:
		return h.parseImageCommand(req, line)
	}
	return nil, ErrNoInputExpected
}

// parseButton accepts "N" or "N extra text"; the extra text rides along for option actions.
func parseButton(req domain.InputRequest, line string) (domain.Event, error) {
	head, rest, _ := strings.Cut(line, " ")
	n, err := strconv.Atoi(head)
	if err != nil {
		for idx, opt := range req.Options {
			if strings.EqualFold(opt.Label, line) {
				return domain.ButtonChosen{Index: idx}, nil
			}
		}
		return nil, fmt.Errorf("pick an option between 1 and %d", len(req.Options))
	}
	return domain.ButtonChosen{Index: n - 1, Text: strings.TrimSpace(rest)}, nil
}

func (h *TextHandler) parseImageCommand(req domain.InputRequest, line string) (domain.Event, error) {
	verb, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(verb) {
	case "source":
		return domain.ImageSourceSwitched{Source: domain.ImageSource(arg)}, nil
	case "toggle":
		return domain.ImageToggled{URL: pickImage(req.Images, arg)}, nil
	case "main":
		return domain.MainImageChosen{URL: pickImage(req.Images, arg)}, nil
	case "model":
		if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(req.Models) {
			arg = req.Models[n-1].ID
		}
		return domain.ModelChosen{Model: arg}, nil
	case "generate":
		return domain.GenerateRequested{Prompt: arg}, nil
	case "upload":
		files, err := h.readFiles(strings.Fields(arg))
		if err != nil {
			return nil, err
		}
		return domain.FilesChosen{Files: files}, nil
	case "done", "confirm":
		return domain.ImagesConfirmed{}, nil
	}
	return nil, fmt.Errorf("unknown image command %q", verb)
}

// pickImage resolves a 1-based index into the offered images; anything else is taken as a URL.
func pickImage(images []string, arg string) string {
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(images) {
		return images[n-1]
	}
	return arg
}

func (h *TextHandler) readFiles(paths []string) ([]domain.UploadFile, error) {
	files := make([]domain.UploadFile, 0, len(paths))
	for _, p := range paths {
		data, err := afero.ReadFile(h.Fs, p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		files = append(files, domain.UploadFile{Name: filepath.Base(p), Data: data})
	}
	return files, nil
}

// SystemOutput writes a meta-message with a "[System]" prefix.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(h.Writer, "[System] %s\n", msg)
	return nil
}
