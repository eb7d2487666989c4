// Package match implements the keyword and phrase matcher used to recognize
// free-text replies.
//
// Matching is purely lexical: messages and candidates are lowercased and
// whitespace-collapsed, then compared by equality or phrase containment.
// Every decision is deterministic, so replays of the same messages always
// resolve the same way.
package match

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/intake/pkg/domain"
)

// minFuzzyLen is the shortest reply allowed to match as a fragment of an option.
const minFuzzyLen = 3

var separators = regexp.MustCompile(`(?i)\s*(?:,|;|\n|&|/|\+|\band\b)\s*`)

var allPhrases = map[string]bool{
	"all":              true,
	"all of them":      true,
	"everything":       true,
	"all of the above": true,
}

// Keyword is the default ports.Matcher.
type Keyword struct{}

// New returns a keyword matcher.
func New() *Keyword {
	return &Keyword{}
}

// MatchQuestion returns the first candidate, in the given order, with a
// pattern contained in the message.
func (k *Keyword) MatchQuestion(candidates []*domain.Question, message string) (int, bool) {
	msg := Normalize(message)
	if msg == "" {
		return 0, false
	}
	for i, q := range candidates {
		for _, p := range q.Patterns {
			if ContainsPhrase(msg, Normalize(p)) {
				return i, true
			}
		}
	}
	return 0, false
}

// MatchOption resolves the message to one option. In order of preference:
// an exact match, the longest option mentioned in the message, then the first
// option containing the message.
func (k *Keyword) MatchOption(options []string, message string) (string, bool) {
	msg := Normalize(message)
	if msg == "" {
		return "", false
	}
	compactMsg := compact(msg)

	for _, opt := range options {
		norm := Normalize(opt)
		if norm == msg || (compactMsg != "" && compact(norm) == compactMsg) {
			return opt, true
		}
	}

	best, bestLen := "", 0
	for _, opt := range options {
		norm := Normalize(opt)
		if n := utf8.RuneCountInString(norm); n > bestLen && ContainsPhrase(msg, norm) {
			best, bestLen = opt, n
		}
	}
	if best != "" {
		return best, true
	}

	if utf8.RuneCountInString(compactMsg) >= minFuzzyLen {
		for _, opt := range options {
			if strings.Contains(compact(Normalize(opt)), compactMsg) {
				return opt, true
			}
		}
	}
	return "", false
}

// MatchOptions splits a message that may list several choices and resolves
// each part. Unrecognized parts are dropped. The result follows message order
// without duplicates.
func (k *Keyword) MatchOptions(options []string, message string) []string {
	msg := Normalize(message)
	if msg == "" {
		return nil
	}
	if allPhrases[msg] {
		return append([]string(nil), options...)
	}
	for _, opt := range options {
		if Normalize(opt) == msg {
			return []string{opt}
		}
	}

	var out []string
	seen := make(map[string]bool)
	for _, part := range separators.Split(message, -1) {
		opt, ok := k.MatchOption(options, part)
		if !ok || seen[opt] {
			continue
		}
		seen[opt] = true
		out = append(out, opt)
	}
	return out
}

// Normalize lowercases s, collapses whitespace and trims surrounding punctuation.
func Normalize(s string) string {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(".,!?;:\"'", r)
	})
}

// ContainsPhrase reports whether needle occurs in haystack on word boundaries.
// Boundaries are only enforced on sides where needle starts or ends with a
// letter or digit, so patterns like "$" or ".com" match anywhere.
func ContainsPhrase(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(needle)
	last, _ := utf8.DecodeLastRuneInString(needle)
	checkStart, checkEnd := isWord(first), isWord(last)

	for offset := 0; offset <= len(haystack)-len(needle); {
		idx := strings.Index(haystack[offset:], needle)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(needle)

		okStart := true
		if checkStart && start > 0 {
			prev, _ := utf8.DecodeLastRuneInString(haystack[:start])
			okStart = !isWord(prev)
		}
		okEnd := true
		if checkEnd && end < len(haystack) {
			next, _ := utf8.DecodeRuneInString(haystack[end:])
			okEnd = !isWord(next)
		}
		if okStart && okEnd {
			return true
		}
		_, size := utf8.DecodeRuneInString(haystack[start:])
		offset = start + size
	}
	return false
}

func isWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func compact(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isWord(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
