package match_test

import (
	"testing"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/match"
	"github.com/stretchr/testify/assert"
)

func TestMatchOption(t *testing.T) {
	m := match.New()
	options := []string{"Business website", "E-commerce store", "Portfolio", "Google Ads", "Ads"}

	tests := []struct {
		message string
		want    string
		ok      bool
	}{
		{"portfolio", "Portfolio", true},
		{"  PORTFOLIO!  ", "Portfolio", true},
		{"ecommerce store", "E-commerce store", true},
		{"I want an e-commerce store please", "E-commerce store", true},
		{"mostly google ads", "Google Ads", true},
		{"ads", "Ads", true},
		{"business", "Business website", true},
		{"xy", "", false},
		{"", "", false},
		{"rocket ship", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got, ok := m.MatchOption(options, tt.message)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchOptions(t *testing.T) {
	m := match.New()
	options := []string{"Email", "LinkedIn", "Google Ads", "Meta Ads", "Modern and minimal"}

	tests := []struct {
		name    string
		message string
		want    []string
	}{
		{"comma list", "Email, LinkedIn", []string{"Email", "LinkedIn"}},
		{"and", "linkedin and email", []string{"LinkedIn", "Email"}},
		{"mixed separators", "email & google ads / meta ads", []string{"Email", "Google Ads", "Meta Ads"}},
		{"plus and newline", "Email +\nLinkedIn", []string{"Email", "LinkedIn"}},
		{"partial accepted", "email, carrier pigeon", []string{"Email"}},
		{"duplicates collapse", "email, EMAIL", []string{"Email"}},
		{"option containing and", "modern and minimal", []string{"Modern and minimal"}},
		{"all", "All of them", options},
		{"nothing", "carrier pigeon", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.MatchOptions(options, tt.message))
		})
	}
}

func TestMatchQuestion(t *testing.T) {
	m := match.New()
	candidates := []*domain.Question{
		{Key: "pages", Patterns: []string{"pages"}},
		{Key: "budget", Patterns: []string{"budget", "$", "lakh"}},
		{Key: "timeline", Patterns: []string{"weeks", "budget"}},
		{Key: "email", Patterns: []string{"@"}},
	}

	tests := []struct {
		message string
		want    int
		ok      bool
	}{
		{"Our budget is around $5000", 1, true},
		{"about 2 lakh", 1, true},
		{"within 6 weeks", 2, true},
		{"me@example.com", 3, true},
		{"10 pages and a budget of 40k", 0, true},
		{"webpages", 0, false},
		{"hello there", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got, ok := m.MatchQuestion(candidates, tt.message)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestContainsPhrase(t *testing.T) {
	assert.True(t, match.ContainsPhrase("need ios and android", "ios"))
	assert.False(t, match.ContainsPhrase("radios", "ios"))
	assert.True(t, match.ContainsPhrase("radios and ios", "ios"), "later occurrence on a boundary")
	assert.True(t, match.ContainsPhrase("site.com", ".com"))
	assert.False(t, match.ContainsPhrase("anything", ""))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "hello world", match.Normalize("  Hello\t  World!! "))
	assert.Equal(t, "", match.Normalize(" ... "))
}
