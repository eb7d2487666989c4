package proposal

import (
	"regexp"
	"strings"
)

var timelineLabel = regexp.MustCompile(`(?im)^[\s*_>#-]*timeline[*_]*\s*:[*_]*\s*(.+?)\s*$`)

var qualifiers = regexp.MustCompile(`(?i)\s*\((?:with buffer|approx\.?|approximately|estimated|tentative)\)`)

// ExtractTimeline finds a "Timeline:" line in text. It returns the value with
// qualifiers like "(with buffer)" removed, and the value as written.
func ExtractTimeline(text string) (display, raw string, ok bool) {
	m := timelineLabel.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	raw = strings.TrimSpace(m[1])
	return StripQualifiers(raw), raw, true
}

// StripQualifiers removes boilerplate qualifiers from a timeline value.
func StripQualifiers(s string) string {
	return strings.TrimSpace(qualifiers.ReplaceAllString(s, ""))
}
