package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Options{Level: slog.LevelDebug, JSON: true, Writer: buf})

	logger.Debug("login", "token", "tok-1", "user", "u1", "error", errors.New("boom"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "[redacted]", rec["token"])
	assert.Equal(t, "u1", rec["user"])
	assert.Equal(t, "boom", rec["err"])
	assert.NotContains(t, rec, "error")
}

func TestNew_LevelFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Options{Level: slog.LevelWarn, Writer: buf})

	logger.Info("hidden")
	logger.Warn("shown", "password", "hunter2")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.NotContains(t, buf.String(), "hunter2")
}
