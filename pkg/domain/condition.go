package domain

import "strings"

// Predicate is a pure boolean function over the answers collected so far.
// Implementations must be side-effect free so the same answers always
// produce the same path through a graph.
type Predicate interface {
	Eval(answers Answers) bool
}

// PredicateFunc adapts an ordinary function to the Predicate interface.
type PredicateFunc func(answers Answers) bool

// Eval calls f(answers).
func (f PredicateFunc) Eval(answers Answers) bool {
	return f(answers)
}

// Condition is the declarative predicate used by graph files.
// Leaf conditions test one answer key; All, Any and Not combine conditions.
// Comparisons are case-insensitive. Set-valued answers match when any member matches.
type Condition struct {
	Key       string   `json:"key,omitempty" yaml:"key,omitempty" mapstructure:"key"`
	Equals    string   `json:"equals,omitempty" yaml:"equals,omitempty" mapstructure:"equals"`
	NotEquals string   `json:"not_equals,omitempty" yaml:"notEquals,omitempty" mapstructure:"notEquals"`
	In        []string `json:"in,omitempty" yaml:"in,omitempty" mapstructure:"in"`
	Contains  string   `json:"contains,omitempty" yaml:"contains,omitempty" mapstructure:"contains"`
	Exists    *bool    `json:"exists,omitempty" yaml:"exists,omitempty" mapstructure:"exists"`

	All []Condition `json:"all,omitempty" yaml:"all,omitempty" mapstructure:"all"`
	Any []Condition `json:"any,omitempty" yaml:"any,omitempty" mapstructure:"any"`
	Not *Condition  `json:"not,omitempty" yaml:"not,omitempty" mapstructure:"not"`
}

// Eval implements Predicate.
func (c Condition) Eval(answers Answers) bool {
	for _, sub := range c.All {
		if !sub.Eval(answers) {
			return false
		}
	}
	if len(c.Any) > 0 {
		matched := false
		for _, sub := range c.Any {
			if sub.Eval(answers) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if c.Not != nil && c.Not.Eval(answers) {
		return false
	}
	if c.Key == "" {
		return true
	}
	return c.evalLeaf(answers)
}

func (c Condition) evalLeaf(answers Answers) bool {
	values := answers.Values(c.Key)
	present := len(values) > 0

	if c.Exists != nil && *c.Exists != present {
		return false
	}
	if c.Equals != "" && !anyEqual(values, c.Equals) {
		return false
	}
	if c.NotEquals != "" && anyEqual(values, c.NotEquals) {
		return false
	}
	if len(c.In) > 0 {
		matched := false
		for _, candidate := range c.In {
			if anyEqual(values, candidate) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if c.Contains != "" {
		needle := strings.ToLower(c.Contains)
		matched := false
		for _, v := range values {
			if strings.Contains(strings.ToLower(v), needle) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func anyEqual(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return true
		}
	}
	return false
}

// Equals returns a predicate that holds when key has the given value.
func Equals(key, value string) Predicate {
	return Condition{Key: key, Equals: value}
}

// OneOf returns a predicate that holds when key has any of the values.
func OneOf(key string, values ...string) Predicate {
	return Condition{Key: key, In: values}
}

// NotEquals returns a predicate that holds when key does not have the value.
func NotEquals(key, value string) Predicate {
	return Condition{Key: key, NotEquals: value}
}
