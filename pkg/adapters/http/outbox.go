package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/pagewizard/pkg/domain"
)

// DefaultOutboxSize is how many commands the outbox keeps for polling clients.
const DefaultOutboxSize = 512

// Entry is a render command with its position in the outbox.
type Entry struct {
	Seq int `json:"seq"`
	domain.Command
}

// Outbox is the presenter of a browser session. Commands are kept in order
// for polling and pushed to every stream subscriber.
type Outbox struct {
	mu      sync.Mutex
	entries []Entry
	seq     int
	limit   int
	streams *StreamManager
	logger  *slog.Logger
}

// OutboxOption configures an Outbox.
type OutboxOption func(*Outbox)

// WithOutboxLogger sets the logger used for encode and delivery failures.
func WithOutboxLogger(logger *slog.Logger) OutboxOption {
	return func(o *Outbox) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOutbox creates an outbox keeping the last limit commands (DefaultOutboxSize if <= 0).
func NewOutbox(limit int, opts ...OutboxOption) *Outbox {
	if limit <= 0 {
		limit = DefaultOutboxSize
	}
	o := &Outbox{limit: limit, logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	o.streams = NewStreamManager(o.logger)
	return o
}

// Present implements ports.Presenter.
func (o *Outbox) Present(ctx context.Context, cmds ...domain.Command) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, cmd := range cmds {
		o.seq++
		e := Entry{Seq: o.seq, Command: cmd}
		o.entries = append(o.entries, e)

		if msg, err := json.Marshal(e); err == nil {
			o.streams.Broadcast(string(msg))
		} else {
			o.logger.Warn("Outbox: failed to encode command", "type", cmd.Type, "error", err)
		}
	}
	if over := len(o.entries) - o.limit; over > 0 {
		o.entries = append([]Entry(nil), o.entries[over:]...)
	}
	return nil
}

// Since returns the commands after seq and the last sequence number handed out.
// Commands older than the retained window are gone; clients resync through /state.
func (o *Outbox) Since(seq int) ([]Entry, int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := []Entry{}
	for _, e := range o.entries {
		if e.Seq > seq {
			out = append(out, e)
		}
	}
	return out, o.seq
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan string]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates an empty subscriber set. A nil logger means slog.Default().
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamManager{
		subscribers: make(map[chan string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a buffered channel. Call the returned func to unsubscribe.
func (sm *StreamManager) Subscribe() (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 64)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Broadcast sends msg to every subscriber without blocking.
func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message")
		}
	}
}
