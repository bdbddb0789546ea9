package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/pagewizard/pkg/domain"
)

// JSONHandler implements IOHandler for structured JSON-Lines communication.
// Every command is written as one {"type", "payload"} line. Input lines are
// {"event": name, "data": {...}} or {"command": name}.
type JSONHandler struct {
	Writer io.Writer

	mu      sync.Mutex
	encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(w io.Writer) *JSONHandler {
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Writer:  w,
		encoder: json.NewEncoder(w),
	}
}

// Present implements ports.Presenter.
func (h *JSONHandler) Present(ctx context.Context, cmds ...domain.Command) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, cmd := range cmds {
		if err := h.encoder.Encode(cmd); err != nil {
			return err
		}
	}
	return nil
}

type jsonInput struct {
	domain.EventEnvelope
	Command string `json:"command,omitempty"`
}

// Parse implements IOHandler.
func (h *JSONHandler) Parse(ctx context.Context, line string) (Request, error) {
	var in jsonInput
	if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &in); err != nil {
		return Request{}, fmt.Errorf("invalid input line: %w", err)
	}

	if in.Command != "" {
		if !isCommand(in.Command) {
			return Request{}, fmt.Errorf("unknown command %q", in.Command)
		}
		return Request{Command: in.Command}, nil
	}

	ev, err := domain.DecodeEvent(in.Event, in.Data)
	if err != nil {
		return Request{}, err
	}
	return Request{Event: ev}, nil
}

// SystemOutput emits a {"type": "SYSTEM"} line.
func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.encoder.Encode(domain.Command{Type: "SYSTEM", Payload: msg})
}
