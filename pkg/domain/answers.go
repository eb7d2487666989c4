package domain

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Answers maps a canonical question key to its value.
// Values are a string for scalar answers or a []string for set answers.
type Answers map[string]any

// Has reports whether key holds a non-empty value.
func (a Answers) Has(key string) bool {
	return len(a.Values(key)) > 0
}

// String returns the value of key as display text. Sets are joined with ", ".
func (a Answers) String(key string) string {
	return strings.Join(a.Values(key), ", ")
}

// Values returns the value of key as a list of non-empty strings.
func (a Answers) Values(key string) []string {
	if a == nil {
		return nil
	}
	return toStrings(a[key])
}

// Set stores a scalar answer.
func (a Answers) Set(key, value string) {
	a[key] = value
}

// Accumulate unions values into the set stored at key, preserving insertion order.
func (a Answers) Accumulate(key string, values ...string) {
	existing := a.Values(key)
	seen := make(map[string]bool, len(existing)+len(values))
	merged := make([]string, 0, len(existing)+len(values))
	for _, v := range append(existing, values...) {
		norm := strings.ToLower(strings.TrimSpace(v))
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		merged = append(merged, v)
	}
	a[key] = merged
}

// Keys returns the answer keys in sorted order.
func (a Answers) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of the answers.
func (a Answers) Clone() Answers {
	if a == nil {
		return nil
	}
	return Answers(DeepCopyMap(a))
}

func toStrings(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil
		}
		return []string{val}
	case []string:
		out := make([]string, 0, len(val))
		for _, s := range val {
			if strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, toStrings(item)...)
		}
		return out
	default:
		return []string{fmt.Sprint(val)}
	}
}

// DeepCopyMap copies a JSON-like map so the result shares no mutable state with src.
func DeepCopyMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = deepCopyValue(v)
	}
	return dst
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return DeepCopyMap(val)
	case Answers:
		return Answers(DeepCopyMap(val))
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		return val
	}
}

// Humanize turns a canonical key like "target_audience" into "Target Audience".
func Humanize(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
