package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriters_Fanout(t *testing.T) {
	var text, js bytes.Buffer
	logger := NewWithWriters(&text, &js, slog.LevelInfo)

	logger.Info("turn handled", "conversation_id", "c1", "error", "boom")
	logger.Debug("hidden")

	assert.Contains(t, text.String(), "conversation_id=c1")
	assert.Contains(t, text.String(), "err=boom")
	assert.NotContains(t, text.String(), "hidden")

	var record map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &record))
	assert.Equal(t, "turn handled", record["msg"])
	assert.Equal(t, "boom", record["err"])
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intake.log")
	logger, cleanup, err := NewWithFile(slog.LevelInfo, path)
	require.NoError(t, err)
	logger.Info("hello")
	require.NoError(t, cleanup())

	_, _, err = NewWithFile(slog.LevelInfo, filepath.Join(t.TempDir(), "missing", "x.log"))
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
