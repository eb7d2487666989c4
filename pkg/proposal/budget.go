package proposal

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var budgetPattern = regexp.MustCompile(`(?i)(?:rs\.?|inr|usd|\$|₹)?\s*([0-9][0-9,]*(?:\.[0-9]+)?)\s*(thousand|lakhs|lakh|lacs|lac|k|l)?\b`)

var budgetScale = map[string]float64{
	"k":        1_000,
	"thousand": 1_000,
	"l":        100_000,
	"lac":      100_000,
	"lacs":     100_000,
	"lakh":     100_000,
	"lakhs":    100_000,
}

// NormalizeBudget returns the first numeric quantity in raw as a plain number,
// applying a k/thousand or l/lac/lakh suffix. Currency markers and thousands
// separators are ignored. Text without a number is returned unchanged.
func NormalizeBudget(raw string) string {
	m := budgetPattern.FindStringSubmatch(raw)
	if m == nil {
		return raw
	}

	digits := strings.ReplaceAll(m[1], ",", "")
	suffix := strings.ToLower(m[2])
	if suffix == "" {
		return digits
	}

	value, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return raw
	}
	scaled := math.Round(value*budgetScale[suffix]*100) / 100
	return strconv.FormatFloat(scaled, 'f', -1, 64)
}
