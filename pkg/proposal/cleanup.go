package proposal

import (
	"regexp"
	"strings"
	"unicode"
)

// placeholder matches "[Something]", optionally followed by a markdown link target.
var placeholder = regexp.MustCompile(`\[[\p{L}][^\[\]\n]*\](\([^)\n]*\))?`)

const separatorRunes = "-=*_~#─━═•·"

// Cleanup strips decorative separator lines, placeholder tokens, and lines
// saying a value was "not provided" or "not specified", then collapses runs
// of blank lines. Markdown links are kept. Cleanup(Cleanup(s)) == Cleanup(s).
func Cleanup(text string) string {
	out := text
	// Every changing pass deletes text, so the loop terminates.
	for {
		next := cleanupPass(out)
		if next == out {
			return out
		}
		out = next
	}
}

func cleanupPass(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = placeholder.ReplaceAllStringFunc(text, func(m string) string {
		if strings.HasSuffix(m, ")") {
			return m
		}
		return ""
	})

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if isSeparator(line) || mentionsMissing(line) {
			continue
		}
		if line == "" {
			if blank || len(kept) == 0 {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		kept = append(kept, line)
	}
	for len(kept) > 0 && kept[len(kept)-1] == "" {
		kept = kept[:len(kept)-1]
	}
	return strings.Join(kept, "\n")
}

func isSeparator(line string) bool {
	count := 0
	for _, r := range line {
		if unicode.IsSpace(r) {
			continue
		}
		if !strings.ContainsRune(separatorRunes, r) {
			return false
		}
		count++
	}
	return count >= 3
}

func mentionsMissing(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "not provided") || strings.Contains(lower, "not specified")
}
