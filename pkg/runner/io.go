package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// ContentRenderer transforms markdown before it is printed (e.g. to ANSI).
type ContentRenderer func(string) (string, error)

// TextHandler implements line-based terminal I/O.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	// Prompt is printed before each read. Empty disables it (non-interactive input).
	Prompt string
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		Prompt: "> ",
	}
}

// Output prints an assistant message with its quick replies.
func (h *TextHandler) Output(ctx context.Context, message string, suggestions []string) error {
	if message != "" {
		if _, err := fmt.Fprintln(h.Writer, strings.TrimSpace(message)); err != nil {
			return err
		}
	}
	if len(suggestions) > 0 {
		if _, err := fmt.Fprintf(h.Writer, "  [%s]\n", strings.Join(suggestions, " | ")); err != nil {
			return err
		}
	}
	return nil
}

// Document prints markdown through the renderer, if any.
func (h *TextHandler) Document(ctx context.Context, markdown string) error {
	output := markdown
	if h.Renderer != nil {
		if rendered, err := h.Renderer(markdown); err == nil {
			output = rendered
		}
	}
	_, err := fmt.Fprintln(h.Writer, strings.TrimRight(output, "\n"))
	return err
}

// Input reads one line. It returns io.EOF when the input is exhausted and
// ctx.Err() if ctx is canceled while waiting.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	if h.Prompt != "" {
		fmt.Fprint(h.Writer, h.Prompt)
	}

	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := h.Reader.ReadString('\n')
		ch <- result{line, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.err != nil {
			if res.err == io.EOF && strings.TrimSpace(res.line) != "" {
				return strings.TrimSpace(res.line), nil
			}
			return "", res.err
		}
		return strings.TrimSpace(res.line), nil
	}
}
