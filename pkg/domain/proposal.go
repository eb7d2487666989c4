package domain

import "time"

// Section is one answered field of a proposal, in graph order.
type Section struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Proposal is the structured document assembled from a completed answer map.
type Proposal struct {
	Service string `json:"service"`
	Title   string `json:"title"`

	// Budget is normalized to a plain numeric string when parsable.
	Budget    string `json:"budget,omitempty"`
	BudgetRaw string `json:"budget_raw,omitempty"`

	// Timeline is the display form; TimelineRaw keeps qualifiers like "(with buffer)".
	Timeline    string `json:"timeline,omitempty"`
	TimelineRaw string `json:"timeline_raw,omitempty"`

	Sections []Section `json:"sections"`
	Details  string    `json:"details,omitempty"`

	// Text is the rendered, cleaned-up markdown document.
	Text string `json:"text"`

	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a copy with its own Sections slice.
func (p Proposal) Clone() Proposal {
	p.Sections = append([]Section(nil), p.Sections...)
	return p
}
