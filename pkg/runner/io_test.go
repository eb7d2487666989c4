package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextHandler_InputOutput(t *testing.T) {
	var out bytes.Buffer
	h := NewTextHandler(strings.NewReader("  blog \nlast line"), &out)
	ctx := context.Background()

	line, err := h.Input(ctx)
	require.NoError(t, err)
	assert.Equal(t, "blog", line)

	line, err = h.Input(ctx)
	require.NoError(t, err)
	assert.Equal(t, "last line", line, "final line without newline is returned")

	_, err = h.Input(ctx)
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, h.Output(ctx, "What kind of website?\n", []string{"Blog", "Portfolio"}))
	assert.Contains(t, out.String(), "What kind of website?\n  [Blog | Portfolio]\n")
	assert.Equal(t, 3, strings.Count(out.String(), "> "))
}

func TestTextHandler_Document(t *testing.T) {
	var out bytes.Buffer
	h := NewTextHandler(strings.NewReader(""), &out)
	h.Renderer = func(s string) (string, error) { return strings.ToUpper(s), nil }

	require.NoError(t, h.Document(context.Background(), "# title\n"))
	assert.Equal(t, "# TITLE\n", out.String())

	out.Reset()
	h.Renderer = func(s string) (string, error) { return "", errors.New("no tty") }
	require.NoError(t, h.Document(context.Background(), "plain"))
	assert.Equal(t, "plain\n", out.String(), "falls back to raw text")
}

func TestTextHandler_Canceled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	h := NewTextHandler(r, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.Input(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
