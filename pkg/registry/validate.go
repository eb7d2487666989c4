package registry

import (
	"fmt"
	"strings"

	"github.com/aretw0/intake/pkg/domain"
)

// Validate checks the structural rules of a question graph.
func Validate(g *domain.Graph) error {
	if strings.TrimSpace(g.Service) == "" {
		return fmt.Errorf("%w: service name is empty", domain.ErrInvalidGraph)
	}
	if len(g.Questions) == 0 {
		return fmt.Errorf("%w: %s: no questions", domain.ErrInvalidGraph, g.Service)
	}

	ids := make(map[string]bool, len(g.Questions))
	keys := make(map[string]bool, len(g.Questions))
	for i := range g.Questions {
		q := &g.Questions[i]
		if q.Key == "" {
			return fmt.Errorf("%w: %s: question %d has no key", domain.ErrInvalidGraph, g.Service, i)
		}
		if keys[q.Key] {
			return fmt.Errorf("%w: %s: duplicate key %q", domain.ErrInvalidGraph, g.Service, q.Key)
		}
		keys[q.Key] = true
		if ids[q.ID] {
			return fmt.Errorf("%w: %s: duplicate id %q", domain.ErrInvalidGraph, g.Service, q.ID)
		}
		ids[q.ID] = true

		if !q.AnswerType.Valid() {
			return fmt.Errorf("%w: %s: question %q has unknown answer type %q", domain.ErrInvalidGraph, g.Service, q.Key, q.AnswerType)
		}
		if len(q.Templates) == 0 {
			return fmt.Errorf("%w: %s: question %q has no templates", domain.ErrInvalidGraph, g.Service, q.Key)
		}
		if q.IsSelect() && len(q.Suggestions) == 0 && !q.AllowCustom {
			return fmt.Errorf("%w: %s: select question %q has no suggestions", domain.ErrInvalidGraph, g.Service, q.Key)
		}
	}

	for i := range g.Questions {
		q := &g.Questions[i]
		if q.NextID != "" && !ids[q.NextID] {
			return fmt.Errorf("%w: %s: question %q links to unknown id %q", domain.ErrInvalidGraph, g.Service, q.Key, q.NextID)
		}
	}
	return checkCycles(g)
}

// checkCycles follows NextID links from every question and fails on revisits.
func checkCycles(g *domain.Graph) error {
	if !g.Linked() {
		return nil
	}
	for i := range g.Questions {
		seen := map[string]bool{}
		for q := &g.Questions[i]; q != nil; q = g.Successor(q) {
			if seen[q.ID] {
				return fmt.Errorf("%w: %s: cycle through %q", domain.ErrInvalidGraph, g.Service, q.ID)
			}
			seen[q.ID] = true
		}
	}
	return nil
}
