package runtime

import (
	"fmt"
	"strings"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/match"
)

const completionMessage = "Thanks, that's everything I need. Here is your proposal."

var skipPhrases = map[string]bool{
	"skip":          true,
	"pass":          true,
	"not sure":      true,
	"n/a":           true,
	"na":            true,
	"none":          true,
	"nothing":       true,
	"no preference": true,
}

// IsSkip reports whether the message declines to answer an optional question.
func IsSkip(message string) bool {
	return skipPhrases[match.Normalize(message)]
}

type resolution struct {
	values  []string
	ok      bool
	skipped bool
}

// resolve turns a message into the value(s) for q.
func (e *Engine) resolve(q *domain.Question, msg string) resolution {
	if msg == "" {
		return resolution{}
	}

	if len(q.Suggestions) > 0 {
		if q.IsMulti() {
			if values := e.matcher.MatchOptions(q.Suggestions, msg); len(values) > 0 {
				return resolution{values: values, ok: true}
			}
		} else if opt, ok := e.matcher.MatchOption(q.Suggestions, msg); ok {
			return resolution{values: []string{opt}, ok: true}
		}
	}

	if !q.Required && IsSkip(msg) {
		return resolution{skipped: true}
	}
	if !q.IsSelect() || q.AllowCustom {
		return resolution{values: []string{msg}, ok: true}
	}
	return resolution{}
}

// prefill returns the shared context value for q when it may answer q silently.
func (e *Engine) prefill(q *domain.Question, shared map[string]any) ([]string, bool) {
	if !q.Prefillable() || shared == nil {
		return nil, false
	}
	values := domain.Answers(shared).Values(q.Key)
	if len(values) == 0 {
		return nil, false
	}
	if !q.IsSelect() || q.AllowCustom || len(q.Suggestions) == 0 {
		return values, true
	}

	// Select answers must still be valid options of this graph.
	var canonical []string
	for _, v := range values {
		if opt, ok := e.matcher.MatchOption(q.Suggestions, v); ok {
			canonical = append(canonical, opt)
		}
	}
	if len(canonical) == 0 || (!q.IsMulti() && len(canonical) > 1) {
		return nil, false
	}
	return canonical, true
}

func nudge(q *domain.Question) string {
	switch {
	case q.IsMulti() && len(q.Suggestions) > 0:
		return fmt.Sprintf("Sorry, I didn't catch that. Pick one or more of: %s.", strings.Join(q.Suggestions, ", "))
	case len(q.Suggestions) > 0 && q.IsSelect():
		return fmt.Sprintf("Sorry, I didn't catch that. Please choose one of: %s.", strings.Join(q.Suggestions, ", "))
	case q.Required:
		return "Sorry, I need an answer to this one before we continue."
	default:
		return "Sorry, I didn't catch that. You can also say \"skip\"."
	}
}
