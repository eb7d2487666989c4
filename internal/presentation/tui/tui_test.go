package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner_PlainWriter(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "conversational intake")

	out := buf.String()
	assert.Contains(t, out, "conversational intake")
	assert.NotContains(t, out, "\x1b[", "a plain buffer gets no color codes")
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer(60)
	out, err := render("# Logo Design Proposal\n\n- **Budget:** 40000\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Logo Design Proposal")
	assert.True(t, strings.Contains(out, "40000"))
}
