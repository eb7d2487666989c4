package proposal

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/intake/pkg/domain"
)

// Keys with special handling in the assembled document.
const (
	BudgetKey   = "budget"
	TimelineKey = "timeline"
)

// Assemble builds the proposal for a completed answer map. Sections follow
// the graph path the answers select, so skipped questions never appear.
func Assemble(g *domain.Graph, answers domain.Answers, now time.Time) domain.Proposal {
	p := domain.Proposal{
		Service:   g.Service,
		Title:     g.Service + " Proposal",
		Details:   strings.TrimSpace(g.ServiceDetails),
		CreatedAt: now,
	}

	if raw := answers.String(BudgetKey); raw != "" {
		p.BudgetRaw = raw
		p.Budget = NormalizeBudget(raw)
	}

	if raw := answers.String(TimelineKey); raw != "" {
		p.TimelineRaw = raw
		p.Timeline = StripQualifiers(raw)
	} else if display, raw, ok := ExtractTimeline(g.ServiceDetails); ok {
		p.TimelineRaw = raw
		p.Timeline = display
	}

	for _, q := range g.Path(answers) {
		if !answers.Has(q.Key) {
			continue
		}
		p.Sections = append(p.Sections, domain.Section{
			Key:   q.Key,
			Label: q.DisplayLabel(),
			Value: answers.String(q.Key),
		})
	}

	p.Text = Cleanup(Render(p))
	return p
}

// Render formats the proposal as markdown.
func Render(p domain.Proposal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Title)
	b.WriteString("## Project Summary\n\n")
	fmt.Fprintf(&b, "- **Service:** %s\n", p.Service)

	for _, s := range p.Sections {
		value := s.Value
		switch s.Key {
		case BudgetKey:
			value = budgetLine(p)
		case TimelineKey:
			value = p.Timeline
		}
		fmt.Fprintf(&b, "- **%s:** %s\n", s.Label, value)
	}
	if p.Timeline != "" && !hasSection(p, TimelineKey) {
		fmt.Fprintf(&b, "- **Estimated Timeline:** %s\n", p.Timeline)
	}

	if p.Details != "" {
		b.WriteString("\n## Service Details\n\n")
		b.WriteString(p.Details)
		b.WriteString("\n")
	}

	b.WriteString("\n## Next Steps\n\n")
	b.WriteString("Our team will review these details and follow up with a detailed quote.\n")
	return b.String()
}

func budgetLine(p domain.Proposal) string {
	if p.Budget == "" || p.Budget == p.BudgetRaw {
		return p.BudgetRaw
	}
	return fmt.Sprintf("%s (%s)", p.Budget, p.BudgetRaw)
}

func hasSection(p domain.Proposal, key string) bool {
	for _, s := range p.Sections {
		if s.Key == key {
			return true
		}
	}
	return false
}
