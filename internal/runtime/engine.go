// Package runtime implements the dialogue state machine that walks a question
// graph. It is pure over its inputs: persistence, locking and shared context
// storage belong to the caller.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/match"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/proposal"
)

// Engine is the core dialogue state machine.
type Engine struct {
	matcher ports.Matcher
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	now     func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithMatcher replaces the free-text matching strategy.
func WithMatcher(m ports.Matcher) EngineOption {
	return func(e *Engine) {
		if m != nil {
			e.matcher = m
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the time source used for events and proposals.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates a dialogue engine using the keyword matcher by default.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		matcher: match.New(),
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Input is everything one step of the dialogue needs.
type Input struct {
	ConversationID string
	Graph          *domain.Graph

	// State is the conversation's current assistant state, nil on first contact.
	State *domain.AssistantState

	Message string

	// Shared is the shared context snapshot used to prefill answers. May be nil.
	Shared map[string]any
}

// Output is the result of one step.
type Output struct {
	// State is the next assistant state. The input state is never modified.
	State *domain.AssistantState

	// Message is the assistant's reply text.
	Message string

	// Question is the question now awaiting an answer, nil once done.
	Question *domain.Question

	Retry bool
	Done  bool

	// Recorded lists keys answered this step, including prefilled ones.
	Recorded []string

	// Prefilled lists keys answered silently from shared context this step.
	Prefilled []string

	Proposal *domain.Proposal
}

// Step applies one inbound message to the conversation state.
func (e *Engine) Step(ctx context.Context, in Input) (*Output, error) {
	if in.Graph == nil {
		return nil, fmt.Errorf("%w: no graph", domain.ErrUnknownService)
	}

	state := in.State.Clone()
	if state == nil {
		state = domain.NewAssistantState()
	}
	out := &Output{State: state}
	logger := e.logger.With("conversation_id", in.ConversationID, "service", in.Graph.Service)

	if state.Done {
		out.Done = true
		out.Proposal = state.Proposal
		out.Message = completionMessage
		return out, nil
	}

	fresh := state.Cursor == ""
	msg := strings.TrimSpace(in.Message)

	target, atCursor := e.target(in.Graph, state, msg)
	if target != nil {
		res := e.resolve(target, msg)
		switch {
		case res.ok:
			e.record(target, state, res.values)
			out.Recorded = append(out.Recorded, target.Key)
			e.emit(ctx, e.hooks.OnAnswerRecorded, in, domain.EventAnswerRecorded, target.Key, domain.SourceUser, 0)
			logger.Debug("answer recorded", "question", target.Key, "values", res.values)
		case res.skipped:
			state.Settle(target)
			state.Attempts = 0
			e.emit(ctx, e.hooks.OnAnswerRecorded, in, domain.EventAnswerRecorded, target.Key, domain.SourceSkipped, 0)
			logger.Debug("question skipped", "question", target.Key)
		case atCursor:
			state.Attempts++
			e.emit(ctx, e.hooks.OnAnswerRetry, in, domain.EventAnswerRetry, target.Key, "", state.Attempts)
			logger.Debug("answer unresolved", "question", target.Key, "attempt", state.Attempts)

			out.Retry = true
			out.Question = target
			out.Message = nudge(target) + "\n\n" + target.Template(state.Attempts)
			return out, nil
		}
	}

	next := e.advance(ctx, in, state, out)
	// Pruning an off-path answer can bring an unanswered question back onto
	// the path, so the walk only ends once pruning settles. Prefill can undo
	// a prune, hence the bound.
	for round := 0; next == nil && round <= len(in.Graph.Questions); round++ {
		if !Prune(in.Graph, state) {
			break
		}
		next = e.advance(ctx, in, state, out)
	}
	if next == nil {
		e.finish(ctx, in, state, out)
		logger.Info("proposal ready", "answers", len(state.Answers))
		return out, nil
	}

	if state.Cursor != next.ID {
		state.Attempts = 0
	}
	state.Cursor = next.ID
	out.Question = next
	out.Message = next.Template(0)
	if fresh && !in.Graph.SkipIntro && in.Graph.OpeningMessage != "" {
		out.Message = in.Graph.OpeningMessage + "\n\n" + out.Message
	}
	e.emit(ctx, e.hooks.OnQuestionAsked, in, domain.EventQuestionAsked, next.Key, "", 0)
	logger.Debug("question asked", "question", next.Key)
	return out, nil
}

// target picks the question the message answers: the cursor when one is set,
// otherwise the first pending question whose patterns match.
func (e *Engine) target(g *domain.Graph, state *domain.AssistantState, msg string) (*domain.Question, bool) {
	if state.Cursor != "" {
		if q, ok := g.Question(state.Cursor); ok && q.Applies(state.Answers) && !state.IsSettled(q.ID) {
			return q, true
		}
		return nil, false
	}
	if msg == "" {
		return nil, false
	}
	pending := Pending(g, state)
	if i, ok := e.matcher.MatchQuestion(pending, msg); ok {
		return pending[i], false
	}
	return nil, false
}

// advance returns the next question to ask, silently settling any question
// shared context can answer on the way.
func (e *Engine) advance(ctx context.Context, in Input, state *domain.AssistantState, out *Output) *domain.Question {
	for {
		pending := Pending(in.Graph, state)
		if len(pending) == 0 {
			return nil
		}
		q := pending[0]
		values, ok := e.prefill(q, in.Shared)
		if !ok {
			return q
		}
		e.record(q, state, values)
		state.Prefilled = append(state.Prefilled, q.Key)
		out.Prefilled = append(out.Prefilled, q.Key)
		out.Recorded = append(out.Recorded, q.Key)
		e.emit(ctx, e.hooks.OnAnswerRecorded, in, domain.EventAnswerRecorded, q.Key, domain.SourceSharedContext, 0)
	}
}

func (e *Engine) finish(ctx context.Context, in Input, state *domain.AssistantState, out *Output) {
	Prune(in.Graph, state)
	p := proposal.Assemble(in.Graph, state.Answers, e.now())

	state.Done = true
	state.Cursor = ""
	state.Attempts = 0
	state.Proposal = &p

	out.Done = true
	out.Proposal = &p
	out.Message = completionMessage
	e.emit(ctx, e.hooks.OnProposalReady, in, domain.EventProposalReady, "", "", 0)
}

func (e *Engine) record(q *domain.Question, state *domain.AssistantState, values []string) {
	if q.IsMulti() {
		state.Answers.Accumulate(q.Key, values...)
	} else {
		state.Answers.Set(q.Key, strings.Join(values, ", "))
	}
	state.Settle(q)
	state.Attempts = 0
}

func (e *Engine) emit(ctx context.Context, hook func(context.Context, *domain.DialogueEvent), in Input, typ domain.EventType, key string, source domain.AnswerSource, attempt int) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.DialogueEvent{
		Timestamp:      e.now(),
		Type:           typ,
		ConversationID: in.ConversationID,
		Service:        in.Graph.Service,
		QuestionKey:    key,
		Source:         source,
		Attempt:        attempt,
	})
}

// Pending returns the questions on the current path that still need input, in order.
func Pending(g *domain.Graph, state *domain.AssistantState) []*domain.Question {
	var out []*domain.Question
	for _, q := range g.Path(state.Answers) {
		if !state.IsSettled(q.ID) {
			out = append(out, q)
		}
	}
	return out
}

// Prune removes answers to graph questions that are off the final path, so a
// question skipped by its predicate never contributes to the answer map.
// Removing an answer can change other predicates, so it runs to a fixpoint.
// Off-path questions are unsettled, so they are asked again if the path
// returns to them. It reports whether any answer was removed.
func Prune(g *domain.Graph, state *domain.AssistantState) bool {
	pruned := false
	for {
		onPath := make(map[string]bool, len(g.Questions))
		for _, q := range g.Path(state.Answers) {
			onPath[q.Key] = true
		}
		removed := false
		for i := range g.Questions {
			key := g.Questions[i].Key
			if _, ok := state.Answers[key]; ok && !onPath[key] {
				delete(state.Answers, key)
				removed = true
			}
		}
		if !removed {
			break
		}
		pruned = true
	}
	state.Visited = filterKeys(state.Visited, state.Answers, g)
	state.Prefilled = filterKeys(state.Prefilled, state.Answers, g)
	state.Settled = filterIDs(state.Settled, state.Answers, g)
	return pruned
}

func filterIDs(ids []string, answers domain.Answers, g *domain.Graph) []string {
	path := make(map[string]bool)
	for _, q := range g.Path(answers) {
		path[q.ID] = true
	}
	out := ids[:0]
	for _, id := range ids {
		if path[id] {
			out = append(out, id)
		}
	}
	return out
}

func filterKeys(keys []string, answers domain.Answers, g *domain.Graph) []string {
	path := make(map[string]bool)
	for _, q := range g.Path(answers) {
		path[q.Key] = true
	}
	out := keys[:0]
	for _, k := range keys {
		if path[k] {
			out = append(out, k)
		}
	}
	return out
}

// SharedSnapshot merges answers into a shared context snapshot, leaving out
// keys of questions that opt out of shared context.
func SharedSnapshot(g *domain.Graph, base map[string]any, answers domain.Answers) map[string]any {
	snapshot := domain.DeepCopyMap(base)
	if snapshot == nil {
		snapshot = make(map[string]any, len(answers))
	}
	for key, value := range answers {
		if q, ok := g.ByKey(key); ok && q.DisableSharedContext {
			continue
		}
		switch v := value.(type) {
		case []string:
			snapshot[key] = append([]string(nil), v...)
		default:
			snapshot[key] = v
		}
	}
	return snapshot
}
