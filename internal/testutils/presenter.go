package testutils

import (
	"context"
	"sync"

	"github.com/aretw0/pagewizard/pkg/domain"
)

// RecordingPresenter keeps every command it receives.
type RecordingPresenter struct {
	mu   sync.Mutex
	cmds []domain.Command
}

// Present implements ports.Presenter.
func (p *RecordingPresenter) Present(_ context.Context, cmds ...domain.Command) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cmds = append(p.cmds, cmds...)
	return nil
}

// Commands returns everything presented so far.
func (p *RecordingPresenter) Commands() []domain.Command {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Command(nil), p.cmds...)
}

// OfType returns the presented commands of type t.
func (p *RecordingPresenter) OfType(t domain.CommandType) []domain.Command {
	var out []domain.Command
	for _, c := range p.Commands() {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// Errors returns the payloads of every SHOW_ERROR command.
func (p *RecordingPresenter) Errors() []string {
	var out []string
	for _, c := range p.OfType(domain.CommandShowError) {
		if s, ok := c.Payload.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// LastInput returns the latest input request, if any.
func (p *RecordingPresenter) LastInput() (domain.InputRequest, bool) {
	reqs := p.OfType(domain.CommandRequestInput)
	if len(reqs) == 0 {
		return domain.InputRequest{}, false
	}
	req, ok := reqs[len(reqs)-1].Payload.(domain.InputRequest)
	return req, ok
}

// Reset drops the recorded commands.
func (p *RecordingPresenter) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cmds = nil
}
