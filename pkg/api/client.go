// Package api is the client of the content backend.
//
// Every call goes through one envelope endpoint: the client POSTs
// {endpoint, method, data, token} as text/plain JSON and the backend answers
// {status: "success", ...fields} or {status: "error", message}.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/pagewizard/internal/dto"
	"github.com/aretw0/pagewizard/pkg/ports"
	"github.com/mitchellh/mapstructure"
)

const (
	defaultTimeout  = 60 * time.Second
	maxResponseSize = 32 << 20
)

// ErrMissingField is returned when a success response lacks a field the caller needs.
var ErrMissingField = errors.New("missing field in response")

// Error is a response whose status is not "success".
type Error struct {
	Endpoint string
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api %s: %s", e.Endpoint, e.Message)
}

// Client talks to the backend envelope endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	tokens     ports.TokenSource
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithTokenSource sets where the bearer token is read from on every request.
func WithTokenSource(ts ports.TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the envelope endpoint at url.
func New(url string, opts ...Option) *Client {
	c := &Client{
		endpoint:   url,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call sends one envelope request and returns the raw success payload.
// Transport failures, unparsable bodies and non-success statuses are errors.
func (c *Client) Call(ctx context.Context, endpoint, method string, data any) (map[string]any, error) {
	var token string
	if c.tokens != nil {
		t, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read token: %w", err)
		}
		token = t
	}

	body, err := json.Marshal(dto.Envelope{Endpoint: endpoint, Method: method, Data: data, Token: token})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to encode request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	// text/plain keeps the request "simple" for backends without CORS preflight support.
	req.Header.Set("Content-Type", "text/plain")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", endpoint, err)
	}
	c.logger.Debug("api call", "endpoint", endpoint, "method", method, "status", resp.StatusCode, "duration", time.Since(start))

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, &Error{Endpoint: endpoint, Message: fmt.Sprintf("http %d", resp.StatusCode)}
		}
		return nil, fmt.Errorf("%s: failed to parse response: %w", endpoint, err)
	}

	var status dto.Status
	if err := decode(result, &status); err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	switch status.Status {
	case "success":
		return result, nil
	case "error":
		msg := status.Message
		if msg == "" {
			msg = "request failed"
		}
		return nil, &Error{Endpoint: endpoint, Message: msg}
	default:
		return nil, &Error{Endpoint: endpoint, Message: fmt.Sprintf("unexpected status %q", status.Status)}
	}
}

// field returns result[key], failing when it is absent or null.
func field(endpoint string, result map[string]any, key string) (any, error) {
	v, ok := result[key]
	if !ok || v == nil {
		return nil, fmt.Errorf("%s: %w %q", endpoint, ErrMissingField, key)
	}
	return v, nil
}

// decode maps loosely typed JSON into out. Numbers sent as strings are accepted.
func decode(input, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
