package proposal_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/dsl"
	"github.com/aretw0/intake/pkg/proposal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBudget(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"40k", "40000"},
		{"2.5 lakh", "250000"},
		{"75000", "75000"},
		{"flexible", "flexible"},
		{"", ""},
		{"40K", "40000"},
		{"$5,000", "5000"},
		{"Rs. 1,50,000", "150000"},
		{"₹3 lakhs", "300000"},
		{"INR 2 lac", "200000"},
		{"around 15 thousand", "15000"},
		{"1.15k", "1150"},
		{"5 l", "500000"},
		{"40 lots", "40"},
		{"20k-30k", "20000"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, proposal.NormalizeBudget(tt.in))
		})
	}
}

func TestExtractTimeline(t *testing.T) {
	display, raw, ok := proposal.ExtractTimeline("Pricing: 25k\nTimeline: 3-6 weeks (with buffer)\nSupport: 30 days")
	require.True(t, ok)
	assert.Equal(t, "3-6 weeks", display)
	assert.Equal(t, "3-6 weeks (with buffer)", raw)

	display, _, ok = proposal.ExtractTimeline("- **Timeline:** 3 months (estimated)")
	require.True(t, ok)
	assert.Equal(t, "3 months", display)

	_, _, ok = proposal.ExtractTimeline("Pricing only")
	assert.False(t, ok)
}

func TestStripQualifiers(t *testing.T) {
	assert.Equal(t, "2-3 weeks", proposal.StripQualifiers("2-3 weeks (approx.)"))
	assert.Equal(t, "Flexible", proposal.StripQualifiers("Flexible"))
}

func TestCleanup(t *testing.T) {
	in := strings.Join([]string{
		"# Proposal",
		"==========",
		"",
		"",
		"Dear [Client Name],   ",
		"- **Budget:** 40000",
		"- **Email:** not provided",
		"- **Phone:** Not specified",
		"- ─── ───",
		"See [our portfolio](https://example.com/work).",
		"",
		"",
		"",
		"Regards, [Your Name]",
		"",
	}, "\n")

	want := strings.Join([]string{
		"# Proposal",
		"",
		"Dear ,",
		"- **Budget:** 40000",
		"See [our portfolio](https://example.com/work).",
		"",
		"Regards,",
	}, "\n")

	got := proposal.Cleanup(in)
	assert.Equal(t, want, got)
	assert.Equal(t, got, proposal.Cleanup(got), "cleanup is idempotent")
}

func TestCleanup_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"[a[Nested]] token",
		"---\n\n\n---\n[x]\n",
		"Line one\r\n\r\n\r\nLine two  \n",
		"--- [Title] ---\nbody",
		strings.Repeat("[a", 10) + strings.Repeat("]", 10) + " tail",
	}
	for _, in := range inputs {
		once := proposal.Cleanup(in)
		assert.Equal(t, once, proposal.Cleanup(once), "input %q", in)
	}
}

func TestCleanup_DeeplyNestedPlaceholders(t *testing.T) {
	in := strings.Repeat("[a", 20) + strings.Repeat("]", 20) + " tail"
	assert.Equal(t, " tail", proposal.Cleanup(in))
}

func testGraph(t *testing.T) *domain.Graph {
	t.Helper()
	g, err := dsl.New("Website Development").
		Details("Pricing: from 25k\nTimeline: 3-6 weeks (with buffer)").
		Ask("project_type").Label("Project Type").SingleSelect("Blog", "E-commerce store").Say("Type?").
		Ask("payment_gateway").SingleSelect("Stripe").Say("Gateway?").
		When(domain.Equals("project_type", "E-commerce store")).
		Ask("budget").Say("Budget?").
		Ask("notes").Say("Notes?").
		Build()
	require.NoError(t, err)
	return &g
}

func TestAssemble(t *testing.T) {
	g := testGraph(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	answers := domain.Answers{
		"project_type":    "Blog",
		"payment_gateway": "Stripe", // stale answer from an earlier branch
		"budget":          "40k",
	}

	p := proposal.Assemble(g, answers, now)

	assert.Equal(t, "Website Development", p.Service)
	assert.Equal(t, "Website Development Proposal", p.Title)
	assert.Equal(t, "40000", p.Budget)
	assert.Equal(t, "40k", p.BudgetRaw)
	assert.Equal(t, "3-6 weeks", p.Timeline)
	assert.Equal(t, "3-6 weeks (with buffer)", p.TimelineRaw)
	assert.Equal(t, now, p.CreatedAt)

	require.Len(t, p.Sections, 2)
	assert.Equal(t, domain.Section{Key: "project_type", Label: "Project Type", Value: "Blog"}, p.Sections[0])
	assert.Equal(t, "Budget", p.Sections[1].Label)

	assert.Contains(t, p.Text, "# Website Development Proposal")
	assert.Contains(t, p.Text, "- **Budget:** 40000 (40k)")
	assert.Contains(t, p.Text, "- **Estimated Timeline:** 3-6 weeks")
	assert.Contains(t, p.Text, "Timeline: 3-6 weeks (with buffer)", "raw qualifier kept in details")
	assert.NotContains(t, p.Text, "Stripe")
	assert.Equal(t, p.Text, proposal.Cleanup(p.Text))
}

func TestAssemble_TimelineAnswerWins(t *testing.T) {
	g, err := dsl.New("Apps").
		Details("Timeline: 8 weeks").
		Ask("timeline").Say("When?").
		Ask("tags").MultiSelect("A", "B").Say("Tags?").
		Build()
	require.NoError(t, err)

	answers := domain.Answers{"timeline": "2 months (approx.)"}
	answers.Accumulate("tags", "A", "B")

	p := proposal.Assemble(&g, answers, time.Time{})
	assert.Equal(t, "2 months", p.Timeline)
	assert.Equal(t, "2 months (approx.)", p.TimelineRaw)
	assert.Empty(t, p.Budget)
	assert.Contains(t, p.Text, "- **Timeline:** 2 months")
	assert.Contains(t, p.Text, "- **Tags:** A, B")
	assert.NotContains(t, p.Text, "Estimated Timeline")
}
