package dsl

import "github.com/aretw0/intake/pkg/domain"

// QuestionBuilder provides a fluent API for configuring a question.
type QuestionBuilder struct {
	question domain.Question
	builder  *Builder
}

// ID sets the graph-local identifier used by Next links.
func (q *QuestionBuilder) ID(id string) *QuestionBuilder {
	q.question.ID = id
	return q
}

// Label sets the proposal section title.
func (q *QuestionBuilder) Label(label string) *QuestionBuilder {
	q.question.Label = label
	return q
}

// Say adds phrasings used to ask the question. Retries rotate through them.
func (q *QuestionBuilder) Say(templates ...string) *QuestionBuilder {
	q.question.Templates = append(q.question.Templates, templates...)
	return q
}

// Text marks the question as free text, optionally with quick-reply suggestions.
func (q *QuestionBuilder) Text(suggestions ...string) *QuestionBuilder {
	q.question.AnswerType = domain.AnswerText
	q.question.Suggestions = suggestions
	return q
}

// SingleSelect requires the answer to be one of options.
func (q *QuestionBuilder) SingleSelect(options ...string) *QuestionBuilder {
	q.question.AnswerType = domain.AnswerSingleSelect
	q.question.Suggestions = options
	return q
}

// MultiSelect lets the answer accumulate several of options.
func (q *QuestionBuilder) MultiSelect(options ...string) *QuestionBuilder {
	q.question.AnswerType = domain.AnswerMultiSelect
	q.question.MultiSelect = true
	q.question.Suggestions = options
	return q
}

// Required makes the question re-ask until it gets a usable answer.
func (q *QuestionBuilder) Required() *QuestionBuilder {
	q.question.Required = true
	return q
}

// Patterns adds keywords recognizing an out-of-turn answer to this question.
func (q *QuestionBuilder) Patterns(patterns ...string) *QuestionBuilder {
	q.question.Patterns = append(q.question.Patterns, patterns...)
	return q
}

// AllowCustom accepts free text on a select question when no option matches.
func (q *QuestionBuilder) AllowCustom() *QuestionBuilder {
	q.question.AllowCustom = true
	return q
}

// When skips the question unless pred holds.
func (q *QuestionBuilder) When(pred domain.Predicate) *QuestionBuilder {
	q.question.When = pred
	return q
}

// Next links to the question with the given ID.
func (q *QuestionBuilder) Next(id string) *QuestionBuilder {
	q.question.NextID = id
	return q
}

// Terminal clears the explicit successor.
func (q *QuestionBuilder) Terminal() *QuestionBuilder {
	q.question.NextID = ""
	return q
}

// NoSharedContext prevents prefilling from shared context.
func (q *QuestionBuilder) NoSharedContext() *QuestionBuilder {
	q.question.DisableSharedContext = true
	return q
}

// ForceAsk always asks the question, even when shared context knows the answer.
func (q *QuestionBuilder) ForceAsk() *QuestionBuilder {
	q.question.ForceAsk = true
	return q
}

// Ask starts the next question. It is a shortcut for returning to the Builder.
func (q *QuestionBuilder) Ask(key string) *QuestionBuilder {
	return q.builder.Ask(key)
}

// Build finishes the graph.
func (q *QuestionBuilder) Build() (domain.Graph, error) {
	return q.builder.Build()
}

// MustBuild finishes the graph and panics on error.
func (q *QuestionBuilder) MustBuild() domain.Graph {
	return q.builder.MustBuild()
}

// Question returns the underlying domain.Question.
func (q *QuestionBuilder) Question() domain.Question {
	return q.question
}
