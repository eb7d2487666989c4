package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/internal/runtime"
	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/catalog"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/proposal"
	"github.com/aretw0/intake/pkg/registry"
	"github.com/aretw0/intake/pkg/runner"
	"github.com/aretw0/intake/pkg/session"
)

// Engine is the high-level entry point of the intake library.
// It binds the dialogue state machine to a registry, stores and per-conversation locking.
type Engine struct {
	runtime  *runtime.Engine
	registry *registry.Registry
	store    ports.ConversationStore
	shared   ports.SharedContextStore
	sessions *session.Manager

	matcher      ports.Matcher
	locker       ports.DistributedLocker
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	now          func() time.Time
	maxInputSize int
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithRegistry sets the question graphs. Defaults to the built-in catalog.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithConversationStore replaces the in-memory conversation store.
func WithConversationStore(s ports.ConversationStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithSharedContextStore replaces the in-memory shared context store.
func WithSharedContextStore(s ports.SharedContextStore) Option {
	return func(e *Engine) {
		e.shared = s
	}
}

// WithMatcher replaces the keyword matcher.
func WithMatcher(m ports.Matcher) Option {
	return func(e *Engine) {
		e.matcher = m
	}
}

// WithLocker enables cross-replica serialization of turns.
func WithLocker(l ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithMaxInputSize sets the byte limit for inbound messages.
func WithMaxInputSize(n int) Option {
	return func(e *Engine) {
		e.maxInputSize = n
	}
}

// New initializes an Engine. Without options it serves the built-in catalog
// from in-memory stores.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		now:          time.Now,
		maxInputSize: runner.DefaultMaxInputSize,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.now == nil {
		eng.now = time.Now
	}
	if eng.registry == nil {
		reg, err := registry.New(catalog.Builtin()...)
		if err != nil {
			return nil, fmt.Errorf("failed to load built-in catalog: %w", err)
		}
		eng.registry = reg
	}
	if eng.store == nil {
		eng.store = memory.NewConversationStore(memory.WithClock(eng.now))
	}
	if eng.shared == nil {
		eng.shared = memory.NewSharedContextStore(memory.WithClock(eng.now))
	}

	sessionOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(eng.locker))
	}
	eng.sessions = session.NewManager(sessionOpts...)

	eng.runtime = runtime.NewEngine(
		runtime.WithMatcher(eng.matcher),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithClock(eng.now),
	)
	return eng, nil
}

// Turn is one inbound message from the request layer.
type Turn struct {
	// ConversationID is empty on first contact; a new conversation is created.
	ConversationID string `json:"conversation_id,omitempty"`

	// Service selects the question graph when a conversation is created.
	Service string `json:"service,omitempty"`

	Message string `json:"message"`

	SenderID   string `json:"sender_id,omitempty"`
	SenderName string `json:"sender_name,omitempty"`
	SenderRole string `json:"sender_role,omitempty"`

	// SharedContextID pins the shared context to a client session token.
	SharedContextID string `json:"shared_context_id,omitempty"`
}

// Reply is the assistant's answer to one Turn.
type Reply struct {
	ConversationID string   `json:"conversation_id"`
	Service        string   `json:"service"`
	Message        string   `json:"message"`
	Question       string   `json:"question,omitempty"`
	Suggestions    []string `json:"suggestions,omitempty"`
	Done           bool     `json:"done"`
	Retry          bool     `json:"retry,omitempty"`

	// Prefilled lists keys answered from shared context during this turn.
	Prefilled []string `json:"prefilled,omitempty"`

	Proposal *domain.Proposal `json:"proposal,omitempty"`
}

// Sender identifies a human posting on behalf of the assistant.
type Sender struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

// Handle applies one inbound message and returns the next assistant message.
// Structural problems are returned as errors wrapping domain.ErrInvalidTurn,
// domain.ErrUnknownService or domain.ErrConversationNotFound. A reply that
// cannot be resolved is never an error: the Reply re-asks with Retry set.
func (e *Engine) Handle(ctx context.Context, turn Turn) (*Reply, error) {
	msg, err := runner.SanitizeInputWithLimit(turn.Message, e.maxInputSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidTurn, err)
	}
	turn.Message = msg
	turn.ConversationID = strings.TrimSpace(turn.ConversationID)
	turn.Service = strings.TrimSpace(turn.Service)

	created := false
	if turn.ConversationID == "" {
		if turn.Service == "" {
			return nil, fmt.Errorf("%w: service is required to start a conversation", domain.ErrInvalidTurn)
		}
		// Resolve the graph first so an unknown service never creates a conversation.
		g, err := e.registry.Get(turn.Service)
		if err != nil {
			return nil, err
		}
		conv, err := e.store.EnsureConversation(ctx, domain.NewConversationParams{
			Service:     g.Service,
			CreatedByID: turn.SenderID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}
		e.logger.Info("conversation created", "conversation_id", conv.ID, "service", g.Service)
		turn.ConversationID = conv.ID
		created = true
	}

	var reply *Reply
	err = e.sessions.WithLock(ctx, turn.ConversationID, func(ctx context.Context) error {
		var err error
		reply, err = e.handleLocked(ctx, turn)
		return err
	})
	if err != nil {
		if created {
			e.discard(ctx, turn.ConversationID)
		}
		return nil, err
	}
	return reply, nil
}

// discard removes a conversation created for a turn that failed, so no
// empty conversation is left behind.
func (e *Engine) discard(ctx context.Context, id string) {
	if _, err := e.store.DeleteConversation(context.WithoutCancel(ctx), id); err != nil {
		e.logger.Warn("failed to discard conversation", "conversation_id", id, "err", err)
		return
	}
	e.logger.Debug("conversation discarded", "conversation_id", id)
}

func (e *Engine) handleLocked(ctx context.Context, turn Turn) (*Reply, error) {
	conv, err := e.store.GetConversation(ctx, turn.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("conversation %q: %w", turn.ConversationID, err)
	}

	service := conv.Service
	if service == "" {
		service = turn.Service
	}
	g, err := e.registry.Get(service)
	if err != nil {
		return nil, err
	}
	logger := e.logger.With("conversation_id", conv.ID, "service", g.Service)

	if turn.Message != "" {
		if _, err := e.store.AddMessage(ctx, domain.NewMessageParams{
			ConversationID: conv.ID,
			Role:           domain.RoleUser,
			Content:        turn.Message,
			SenderID:       turn.SenderID,
			SenderName:     turn.SenderName,
			SenderRole:     turn.SenderRole,
		}); err != nil {
			return nil, fmt.Errorf("failed to store user message: %w", err)
		}
	}

	sharedKey, hasShared := domain.SharedContextKey(domain.SharedContextIdentity{
		SharedContextID: turn.SharedContextID,
		SenderID:        turn.SenderID,
		ConversationID:  conv.ID,
	})
	var shared map[string]any
	if hasShared {
		shared, err = e.shared.Get(ctx, sharedKey)
		if err != nil {
			// Shared context only prefills; losing it never blocks the dialogue.
			logger.Warn("failed to read shared context", "key", sharedKey, "err", err)
			shared = nil
		}
	}

	wasDone := conv.State != nil && conv.State.Done
	out, err := e.runtime.Step(ctx, runtime.Input{
		ConversationID: conv.ID,
		Graph:          g,
		State:          conv.State,
		Message:        turn.Message,
		Shared:         shared,
	})
	if err != nil {
		return nil, err
	}

	if err := e.store.SaveState(ctx, conv.ID, out.State); err != nil {
		return nil, fmt.Errorf("failed to save assistant state: %w", err)
	}
	if _, err := e.store.AddMessage(ctx, domain.NewMessageParams{
		ConversationID: conv.ID,
		Role:           domain.RoleAssistant,
		Content:        out.Message,
	}); err != nil {
		return nil, fmt.Errorf("failed to store assistant message: %w", err)
	}

	if hasShared && (len(out.Recorded) > 0 || (out.Done && !wasDone)) {
		snapshot := runtime.SharedSnapshot(g, shared, out.State.Answers)
		if err := e.shared.Set(ctx, sharedKey, snapshot); err != nil {
			logger.Warn("failed to update shared context", "key", sharedKey, "err", err)
		}
	}

	reply := &Reply{
		ConversationID: conv.ID,
		Service:        g.Service,
		Message:        out.Message,
		Done:           out.Done,
		Retry:          out.Retry,
		Prefilled:      out.Prefilled,
		Proposal:       out.Proposal,
	}
	if out.Question != nil {
		reply.Question = out.Question.Key
		reply.Suggestions = append([]string(nil), out.Question.Suggestions...)
	}
	logger.Debug("turn handled", "question", reply.Question, "done", reply.Done, "retry", reply.Retry)
	return reply, nil
}

// Services returns the registered service names in registration order.
func (e *Engine) Services() []string {
	return e.registry.Services()
}

// Graph returns the question graph of a service.
func (e *Engine) Graph(service string) (*domain.Graph, error) {
	return e.registry.Get(service)
}

// Conversation returns a snapshot of a conversation.
func (e *Engine) Conversation(ctx context.Context, id string) (*domain.Conversation, error) {
	return e.store.GetConversation(ctx, id)
}

// Messages returns the most recent limit messages of a conversation, oldest first.
func (e *Engine) Messages(ctx context.Context, id string, limit int) ([]domain.Message, error) {
	return e.store.ListMessages(ctx, id, limit)
}

// PostAgentMessage stores a message from a human standing in for the assistant.
// It does not advance the dialogue.
func (e *Engine) PostAgentMessage(ctx context.Context, id, content string, sender Sender) (*domain.Message, error) {
	clean, err := runner.SanitizeInputWithLimit(content, e.maxInputSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidTurn, err)
	}
	if strings.TrimSpace(clean) == "" {
		return nil, fmt.Errorf("%w: empty message", domain.ErrInvalidTurn)
	}

	var msg *domain.Message
	err = e.sessions.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		msg, err = e.store.AddMessage(ctx, domain.NewMessageParams{
			ConversationID: id,
			Role:           domain.RoleAssistant,
			Content:        clean,
			SenderID:       sender.ID,
			SenderName:     sender.Name,
			SenderRole:     sender.Role,
		})
		return err
	})
	return msg, err
}

// Reset clears the assistant state so the next turn starts the dialogue over.
// Message history is kept.
func (e *Engine) Reset(ctx context.Context, id string) error {
	return e.sessions.WithLock(ctx, id, func(ctx context.Context) error {
		if _, err := e.store.GetConversation(ctx, id); err != nil {
			return err
		}
		if err := e.store.SaveState(ctx, id, domain.NewAssistantState()); err != nil {
			return err
		}
		e.logger.Info("conversation reset", "conversation_id", id)
		return nil
	})
}

// DeleteConversation removes a conversation and its history.
func (e *Engine) DeleteConversation(ctx context.Context, id string) error {
	return e.sessions.WithLock(ctx, id, func(ctx context.Context) error {
		ok, err := e.store.DeleteConversation(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("conversation %q: %w", id, domain.ErrConversationNotFound)
		}
		return nil
	})
}

// CleanupProposal tidies an assembled proposal text for display. It is idempotent.
func (e *Engine) CleanupProposal(text string) string {
	return proposal.Cleanup(text)
}

// IsClientError reports whether err was caused by the caller's input rather
// than by the engine or its stores.
func IsClientError(err error) bool {
	return errors.Is(err, domain.ErrInvalidTurn) ||
		errors.Is(err, domain.ErrUnknownService) ||
		errors.Is(err, domain.ErrConversationNotFound)
}
