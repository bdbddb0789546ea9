// Package http exposes a wizard to a browser front-end.
//
// The browser drives the wizard with POST requests and receives render
// commands either by polling GET /commands?since=N or from the GET /stream
// server-sent events.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/pagewizard"
	"github.com/aretw0/pagewizard/internal/presentation/graph"
	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/aretw0/pagewizard/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const maxBodySize = 32 << 20

// Engine defines what the server needs from the wizard.
type Engine interface {
	runner.Driver
	Snapshot() pagewizard.Snapshot
	Graph() *domain.Graph
	Config() pagewizard.Config
}

// Server routes browser requests to the engine.
type Server struct {
	Engine  Engine
	Outbox  *Outbox
	Logger  *slog.Logger
	Metrics http.Handler
	Origin  string
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) ServerOption {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithAllowedOrigin sets the CORS origin (default "*").
func WithAllowedOrigin(origin string) ServerOption {
	return func(s *Server) {
		s.Origin = origin
	}
}

// NewHandler creates the HTTP handler. The outbox must be the engine's presenter.
func NewHandler(engine Engine, outbox *Outbox, opts ...ServerOption) http.Handler {
	s := &Server{
		Engine: engine,
		Outbox: outbox,
		Logger: slog.Default(),
		Origin: "*",
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/state", s.GetState)
	r.Get("/catalog", s.GetCatalog)
	r.Get("/graph", s.GetGraph)
	r.Post("/start", s.Start)
	r.Post("/events", s.PostEvent)
	r.Get("/commands", s.GetCommands)
	r.Post("/commands/{name}", s.PostCommand)
	r.Get("/stream", s.Stream)
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics)
	}
	return r
}

func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.Origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// flowContext keeps the wizard running when the browser drops a request mid-step.
func flowContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "pagewizard-http",
		"version": pagewizard.Version,
	})
}

// GetState handles the GET /state request.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Snapshot())
}

// GetCatalog handles the GET /catalog request.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Config().Catalog)
}

// GetGraph handles the GET /graph request with a Mermaid flowchart of the flow.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	snap := s.Engine.Snapshot()
	var overlay *graph.GraphOverlay
	if snap.StepID != "" {
		overlay = &graph.GraphOverlay{CurrentStep: snap.StepID}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(s.Engine.Graph(), s.Engine.Config().Entry, overlay))
}

// Start handles the POST /start request.
func (s *Server) Start(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.Start(flowContext(r)); err != nil {
		s.writeError(w, "Start", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.Engine.Snapshot())
}

// PostEvent handles the POST /events request. The body is {"event": name, "data": {...}}.
func (s *Server) PostEvent(w http.ResponseWriter, r *http.Request) {
	var body domain.EventEnvelope
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("PostEvent: Invalid request body", "error", err)
		return
	}

	ev, err := domain.DecodeEvent(body.Event, body.Data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if ev, err = runner.SanitizeEvent(ev); err != nil {
		http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
		s.Logger.Warn("PostEvent: Input rejected", "error", err)
		return
	}

	if err := s.Engine.Submit(flowContext(r), ev); err != nil {
		s.writeError(w, "PostEvent", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.Engine.Snapshot())
}

// GetCommands handles the GET /commands?since=N request.
func (s *Server) GetCommands(w http.ResponseWriter, r *http.Request) {
	since := 0
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "Invalid since parameter", http.StatusBadRequest)
			return
		}
		since = n
	}

	entries, last := s.Outbox.Since(since)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"commands": entries,
		"last":     last,
	})
}

// PostCommand handles POST /commands/{name}: publish, regenerate, retry, restart.
func (s *Server) PostCommand(w http.ResponseWriter, r *http.Request) {
	ctx := flowContext(r)
	name := chi.URLParam(r, "name")

	var err error
	var result any
	switch name {
	case runner.CommandPublish:
		result, err = s.Engine.Publish(ctx)
	case runner.CommandRegenerate:
		err = s.Engine.Regenerate(ctx)
	case runner.CommandRetry:
		err = s.Engine.Retry(ctx)
	case runner.CommandRestart:
		err = s.Engine.Start(ctx)
	default:
		http.Error(w, fmt.Sprintf("Unknown command %q", name), http.StatusNotFound)
		return
	}
	if err != nil {
		s.writeError(w, "PostCommand", err)
		return
	}
	if result == nil {
		result = s.Engine.Snapshot()
	}
	s.writeJSON(w, http.StatusOK, result)
}

// Stream handles the GET /stream request (SSE). Every command is one data line.
func (s *Server) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("Stream: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Outbox.streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	keepAlive := time.NewTicker(30 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Debug("SSE Client Disconnected")
			return
		case <-keepAlive.C:
			fmt.Fprintf(w, ": keep-alive\n\n")
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// writeError maps engine errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	var invalid *domain.ValidationError
	var failed *domain.ActionError
	switch {
	case errors.As(err, &invalid):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &failed):
		status = http.StatusBadGateway
	case errors.Is(err, domain.ErrNotStarted), errors.Is(err, domain.ErrNotAwaitingInput),
		errors.Is(err, domain.ErrBusy), errors.Is(err, domain.ErrNoGeneratedContent):
		status = http.StatusConflict
	default:
		s.Logger.Error(op+" failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}
