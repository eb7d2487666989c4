package dsl

import (
	"fmt"

	"github.com/aretw0/intake/pkg/domain"
)

// Builder manages the graph construction.
type Builder struct {
	graph     domain.Graph
	questions []*QuestionBuilder
	index     map[string]*QuestionBuilder
}

// New creates a new graph builder for service.
func New(service string) *Builder {
	return &Builder{
		graph: domain.Graph{Service: service},
		index: make(map[string]*QuestionBuilder),
	}
}

// Opening sets the message sent before the first question.
func (b *Builder) Opening(msg string) *Builder {
	b.graph.OpeningMessage = msg
	return b
}

// Details sets the pricing/timeline boilerplate copied into the proposal.
func (b *Builder) Details(text string) *Builder {
	b.graph.ServiceDetails = text
	return b
}

// SkipIntro suppresses the opening message.
func (b *Builder) SkipIntro() *Builder {
	b.graph.SkipIntro = true
	return b
}

// Ask appends a question storing its answer under key.
// If the key was already added, it returns the existing builder.
func (b *Builder) Ask(key string) *QuestionBuilder {
	if qb, ok := b.index[key]; ok {
		return qb
	}
	qb := &QuestionBuilder{
		question: domain.Question{
			Key:        key,
			AnswerType: domain.AnswerText,
		},
		builder: b,
	}
	b.questions = append(b.questions, qb)
	b.index[key] = qb
	return qb
}

// Build returns the graph. IDs default to keys.
func (b *Builder) Build() (domain.Graph, error) {
	g := b.graph
	g.Questions = make([]domain.Question, 0, len(b.questions))
	for _, qb := range b.questions {
		q := qb.question
		if q.ID == "" {
			q.ID = q.Key
		}
		g.Questions = append(g.Questions, q)
	}
	if len(g.Questions) == 0 {
		return domain.Graph{}, fmt.Errorf("%w: %s: no questions", domain.ErrInvalidGraph, g.Service)
	}
	return g, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() domain.Graph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}
