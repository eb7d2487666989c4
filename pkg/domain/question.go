package domain

// AnswerType defines how a reply is resolved into a value.
type AnswerType string

const (
	// AnswerText stores the trimmed message verbatim.
	AnswerText AnswerType = "text"
	// AnswerSingleSelect resolves the message to exactly one suggestion.
	AnswerSingleSelect AnswerType = "single_select"
	// AnswerMultiSelect resolves the message to a set of suggestions.
	AnswerMultiSelect AnswerType = "multi_select"
)

// Valid reports whether the answer type is one of the known kinds.
func (t AnswerType) Valid() bool {
	switch t {
	case AnswerText, AnswerSingleSelect, AnswerMultiSelect:
		return true
	}
	return false
}

// Question is one node of a service's question graph.
type Question struct {
	// ID is the graph-local identifier. Linear graphs default it to Key.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Key is the canonical answer field name (e.g. "budget", "platform").
	Key string `json:"key" yaml:"key"`

	// Label is the human-readable name used in the proposal document.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	AnswerType AnswerType `json:"answer_type" yaml:"answerType"`
	Required   bool       `json:"required" yaml:"required"`

	// Patterns are keywords/phrases that recognize a reply to this question.
	Patterns []string `json:"patterns,omitempty" yaml:"patterns,omitempty"`

	// Templates are the phrasings used to ask the question.
	Templates []string `json:"templates" yaml:"templates"`

	// Suggestions are quick-reply options, or nil for free text.
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`

	// AllowCustom lets a select question accept free text when no suggestion matches.
	AllowCustom bool `json:"allow_custom,omitempty" yaml:"allowCustom,omitempty"`

	// NextID is the explicit successor. Empty in a linked graph means terminal.
	NextID string `json:"next_id,omitempty" yaml:"nextId,omitempty"`

	// When skips the question entirely if it evaluates false.
	When Predicate `json:"-" yaml:"-"`

	DisableSharedContext bool `json:"disable_shared_context,omitempty" yaml:"disableSharedContext,omitempty"`
	ForceAsk             bool `json:"force_ask,omitempty" yaml:"forceAsk,omitempty"`
	MultiSelect          bool `json:"multi_select,omitempty" yaml:"multiSelect,omitempty"`
}

// IsMulti reports whether answers accumulate into a set.
func (q *Question) IsMulti() bool {
	return q.MultiSelect || q.AnswerType == AnswerMultiSelect
}

// IsSelect reports whether the answer must come from the suggestions.
func (q *Question) IsSelect() bool {
	return q.AnswerType == AnswerSingleSelect || q.AnswerType == AnswerMultiSelect
}

// Applies evaluates the When predicate against the answers. A nil predicate applies.
func (q *Question) Applies(answers Answers) bool {
	if q.When == nil {
		return true
	}
	return q.When.Eval(answers)
}

// Prefillable reports whether shared context may answer this question silently.
func (q *Question) Prefillable() bool {
	return !q.ForceAsk && !q.DisableSharedContext
}

// Template returns the phrasing for the given attempt, rotating through Templates.
func (q *Question) Template(attempt int) string {
	if len(q.Templates) == 0 {
		return ""
	}
	if attempt < 0 {
		attempt = 0
	}
	return q.Templates[attempt%len(q.Templates)]
}

// DisplayLabel returns Label, or a title-cased form of Key.
func (q *Question) DisplayLabel() string {
	if q.Label != "" {
		return q.Label
	}
	return Humanize(q.Key)
}
