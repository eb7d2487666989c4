package intake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/intake/pkg/runner"
)

// Runner drives one conversation from a line-based terminal.
// This allows for easy testing and integration with different frontends (CLI, TUI, etc).
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Renderer runner.ContentRenderer

	Service string

	// SessionID pins the shared context, so answers carry over between runs.
	SessionID string

	// Headless suppresses the prompt and banner (piped input).
	Headless bool
}

// Run executes the chat loop until the proposal is ready, the input ends or
// the user types exit/quit.
func (r *Runner) Run(ctx context.Context, engine *Engine) (*Reply, error) {
	if r.Input == nil {
		return nil, fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return nil, fmt.Errorf("output writer must be set (use os.Stdout)")
	}

	term := runner.NewTextHandler(r.Input, r.Output)
	term.Renderer = r.Renderer
	if r.Headless {
		term.Prompt = ""
	}

	reply, err := engine.Handle(ctx, Turn{Service: r.Service, SharedContextID: r.SessionID})
	if err != nil {
		return nil, err
	}

	for {
		if err := term.Output(ctx, reply.Message, reply.Suggestions); err != nil {
			return reply, err
		}
		if reply.Done {
			if reply.Proposal != nil {
				if err := term.Document(ctx, reply.Proposal.Text); err != nil {
					return reply, err
				}
			}
			return reply, nil
		}

		input, err := r.readLine(ctx, term)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return reply, nil
			}
			return reply, fmt.Errorf("input error: %w", err)
		}
		if input == "exit" || input == "quit" {
			fmt.Fprintln(r.Output, "Bye!")
			return reply, nil
		}

		next, err := engine.Handle(ctx, Turn{
			ConversationID:  reply.ConversationID,
			Message:         input,
			SharedContextID: r.SessionID,
		})
		if err != nil {
			return reply, err
		}
		reply = next
	}
}

// readLine skips blank lines and lowercases the exit words only.
func (r *Runner) readLine(ctx context.Context, term *runner.TextHandler) (string, error) {
	for {
		line, err := term.Input(ctx)
		if err != nil {
			return "", err
		}
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "exit", "quit":
			return strings.ToLower(line), nil
		}
		return line, nil
	}
}
