package intake_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/intake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_CompletesDialogue(t *testing.T) {
	eng, _ := newEngine(t)
	var out bytes.Buffer

	r := &intake.Runner{
		Input:    strings.NewReader("minimal\n\n40k\nskip\n"),
		Output:   &out,
		Service:  "Logo Design",
		Headless: true,
		Renderer: func(s string) (string, error) { return "RENDERED\n" + s, nil },
	}
	reply, err := r.Run(context.Background(), eng)
	require.NoError(t, err)
	require.True(t, reply.Done)

	text := out.String()
	assert.Contains(t, text, "Which style fits your brand?\n  [Minimal | Vintage | Playful]\n")
	assert.Contains(t, text, "What budget do you have in mind?")
	assert.Contains(t, text, "RENDERED\n# Logo Design Proposal")
	assert.NotContains(t, text, "> ", "headless mode prints no prompt")
}

func TestRunner_ExitAndEOF(t *testing.T) {
	eng, _ := newEngine(t)

	var out bytes.Buffer
	r := &intake.Runner{Input: strings.NewReader("QUIT\n"), Output: &out, Service: "Logo Design"}
	reply, err := r.Run(context.Background(), eng)
	require.NoError(t, err)
	assert.False(t, reply.Done)
	assert.Contains(t, out.String(), "Bye!")

	r = &intake.Runner{Input: strings.NewReader("vintage\n"), Output: &out, Service: "Logo Design"}
	reply, err = r.Run(context.Background(), eng)
	require.NoError(t, err)
	assert.Equal(t, "budget", reply.Question, "input ends while waiting for the budget")
}

func TestRunner_RequiresIO(t *testing.T) {
	eng, _ := newEngine(t)
	_, err := (&intake.Runner{Service: "Logo Design"}).Run(context.Background(), eng)
	assert.Error(t, err)

	_, err = (&intake.Runner{Input: strings.NewReader(""), Output: &bytes.Buffer{}, Service: "Nope"}).Run(context.Background(), eng)
	assert.Error(t, err)
}
