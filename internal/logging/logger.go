// Package logging builds the application loggers used by the CLI.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Options configures a logger.
type Options struct {
	Level slog.Level
	// JSON selects slog's JSON handler instead of the text handler.
	JSON bool
	// Writer defaults to Stderr, keeping Stdout free for the wizard itself.
	Writer io.Writer
}

// redacted lists attribute keys whose values never reach the log.
var redacted = map[string]bool{
	"token":     true,
	"password":  true,
	"apiKey":    true,
	"imageData": true,
}

// New creates a configured application logger.
// The "error" key is shortened to "err" and credential attributes are masked.
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	ho := &slog.HandlerOptions{
		Level: opts.Level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			if redacted[a.Key] {
				a.Value = slog.StringValue("[redacted]")
			}
			return a
		},
	}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(w, ho))
	}
	return slog.New(slog.NewTextHandler(w, ho))
}
