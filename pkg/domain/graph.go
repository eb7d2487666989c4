package domain

// Graph is the static question graph for one service offering.
// It is immutable once registered.
type Graph struct {
	Service        string `json:"service" yaml:"service"`
	OpeningMessage string `json:"opening_message,omitempty" yaml:"openingMessage,omitempty"`

	// ServiceDetails is pricing/timeline boilerplate injected into the proposal.
	ServiceDetails string `json:"service_details,omitempty" yaml:"serviceDetails,omitempty"`

	SkipIntro bool       `json:"skip_intro,omitempty" yaml:"skipIntro,omitempty"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Linked reports whether the graph uses explicit NextID links.
// In a linear graph successors follow declaration order.
func (g *Graph) Linked() bool {
	for i := range g.Questions {
		if g.Questions[i].NextID != "" {
			return true
		}
	}
	return false
}

// Entry returns the first declared question, or nil for an empty graph.
func (g *Graph) Entry() *Question {
	if len(g.Questions) == 0 {
		return nil
	}
	return &g.Questions[0]
}

// Question returns the question with the given ID.
func (g *Graph) Question(id string) (*Question, bool) {
	for i := range g.Questions {
		if g.Questions[i].ID == id {
			return &g.Questions[i], true
		}
	}
	return nil, false
}

// ByKey returns the question storing its answer under key.
func (g *Graph) ByKey(key string) (*Question, bool) {
	for i := range g.Questions {
		if g.Questions[i].Key == key {
			return &g.Questions[i], true
		}
	}
	return nil, false
}

// Successor returns the question following q in authoring order:
// q.NextID in a linked graph, the next declared question otherwise.
func (g *Graph) Successor(q *Question) *Question {
	if q == nil {
		return nil
	}
	if g.Linked() {
		if q.NextID == "" {
			return nil
		}
		next, _ := g.Question(q.NextID)
		return next
	}
	for i := range g.Questions {
		if g.Questions[i].ID == q.ID && i+1 < len(g.Questions) {
			return &g.Questions[i+1]
		}
	}
	return nil
}

// Path walks the graph from the entry question and returns the questions
// that apply to the given answers, in visiting order. Questions whose When
// evaluates false are treated as absent.
func (g *Graph) Path(answers Answers) []*Question {
	var path []*Question
	seen := make(map[string]bool, len(g.Questions))
	for q := g.Entry(); q != nil && !seen[q.ID]; q = g.Successor(q) {
		seen[q.ID] = true
		if q.Applies(answers) {
			path = append(path, q)
		}
	}
	return path
}
