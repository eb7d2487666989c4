// Package registry holds the question graphs of every service offering.
//
// A Registry is built once at startup and is read-only afterwards, so
// it is safe for concurrent use without locking.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/intake/pkg/domain"
)

// Registry maps service names to validated question graphs.
type Registry struct {
	graphs map[string]*domain.Graph
	order  []string
}

// New validates the graphs and returns a registry holding them.
// A later graph with the same service name (case-insensitive) replaces an earlier one,
// which lets file-based graphs override built-ins.
func New(graphs ...domain.Graph) (*Registry, error) {
	r := &Registry{graphs: make(map[string]*domain.Graph, len(graphs))}
	for i := range graphs {
		g, err := normalize(graphs[i])
		if err != nil {
			return nil, err
		}
		if err := Validate(g); err != nil {
			return nil, err
		}
		name := canonical(g.Service)
		if _, exists := r.graphs[name]; !exists {
			r.order = append(r.order, name)
		}
		r.graphs[name] = g
	}
	return r, nil
}

// MustNew is like New but panics on invalid graphs. Intended for built-in catalogs.
func MustNew(graphs ...domain.Graph) *Registry {
	r, err := New(graphs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the graph for service, matching names case-insensitively.
func (r *Registry) Get(service string) (*domain.Graph, error) {
	g, ok := r.graphs[canonical(service)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownService, service)
	}
	return g, nil
}

// Services returns the registered service names in registration order.
func (r *Registry) Services() []string {
	names := make([]string, 0, len(r.order))
	for _, key := range r.order {
		names = append(names, r.graphs[key].Service)
	}
	return names
}

// Sorted returns the registered service names alphabetically.
func (r *Registry) Sorted() []string {
	names := r.Services()
	sort.Strings(names)
	return names
}

// Len returns the number of registered graphs.
func (r *Registry) Len() int {
	return len(r.graphs)
}

func canonical(service string) string {
	return strings.ToLower(strings.TrimSpace(service))
}

// normalize copies the graph so the registry owns it, and defaults the IDs of
// linear graphs to their keys.
func normalize(g domain.Graph) (*domain.Graph, error) {
	g.Service = strings.TrimSpace(g.Service)
	questions := make([]domain.Question, len(g.Questions))
	copy(questions, g.Questions)
	g.Questions = questions

	linked := g.Linked()
	for i := range g.Questions {
		q := &g.Questions[i]
		if q.ID == "" {
			if linked {
				return nil, fmt.Errorf("%w: %s: question %q needs an id in a linked graph", domain.ErrInvalidGraph, g.Service, q.Key)
			}
			q.ID = q.Key
		}
		if q.AnswerType == "" {
			q.AnswerType = domain.AnswerText
		}
		if q.MultiSelect && q.AnswerType == domain.AnswerSingleSelect {
			q.AnswerType = domain.AnswerMultiSelect
		}
		q.Patterns = append([]string(nil), q.Patterns...)
		q.Templates = append([]string(nil), q.Templates...)
		q.Suggestions = append([]string(nil), q.Suggestions...)
	}
	return &g, nil
}
