package ports

import "github.com/aretw0/intake/pkg/domain"

// Matcher is the free-text matching strategy used by the dialogue engine.
// Implementations must be deterministic.
type Matcher interface {
	// MatchQuestion returns the index of the first candidate whose patterns
	// recognize the message.
	MatchQuestion(candidates []*domain.Question, message string) (int, bool)

	// MatchOption returns the canonical option picked by the message.
	MatchOption(options []string, message string) (string, bool)

	// MatchOptions returns every canonical option picked by a message that may
	// list several choices, in message order.
	MatchOptions(options []string, message string) []string
}
