package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/google/uuid"
)

// ConversationStore implements ports.ConversationStore in memory.
// Safe for concurrent use. Nothing survives a process restart.
type ConversationStore struct {
	mu            sync.RWMutex
	conversations map[string]*domain.Conversation
	latest        map[string]string // service -> most recent conversation ID

	historyLimit int
	now          func() time.Time
	newID        func() string
}

// Option configures the in-memory stores.
type Option func(*options)

type options struct {
	historyLimit int
	ttl          time.Duration
	now          func() time.Time
	newID        func() string
}

// WithHistoryLimit sets how many messages are kept per conversation.
func WithHistoryLimit(limit int) Option {
	return func(o *options) {
		if limit > 0 {
			o.historyLimit = limit
		}
	}
}

// WithTTL sets the shared context expiry.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithIDGenerator overrides how conversation and message IDs are allocated.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		o.newID = fn
	}
}

func apply(opts []Option) options {
	o := options{
		historyLimit: domain.DefaultHistoryLimit,
		ttl:          domain.DefaultSharedContextTTL,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewConversationStore creates a new in-memory conversation store.
func NewConversationStore(opts ...Option) *ConversationStore {
	o := apply(opts)
	return &ConversationStore{
		conversations: make(map[string]*domain.Conversation),
		latest:        make(map[string]string),
		historyLimit:  o.historyLimit,
		now:           o.now,
		newID:         o.newID,
	}
}

// CreateConversation allocates a fresh conversation.
func (s *ConversationStore) CreateConversation(ctx context.Context, params domain.NewConversationParams) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(params).Clone(), nil
}

func (s *ConversationStore) createLocked(params domain.NewConversationParams) *domain.Conversation {
	now := s.now()
	conv := &domain.Conversation{
		ID:          s.newID(),
		Service:     params.Service,
		CreatedByID: params.CreatedByID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Messages:    []domain.Message{},
	}
	s.conversations[conv.ID] = conv
	if conv.Service != "" {
		s.latest[conv.Service] = conv.ID
	}
	return conv
}

// EnsureConversation returns the conversation for params.ID or creates a new one.
// It never falls back to the latest conversation for params.Service.
func (s *ConversationStore) EnsureConversation(ctx context.Context, params domain.NewConversationParams) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if params.ID != "" {
		if conv, ok := s.conversations[params.ID]; ok {
			return conv.Clone(), nil
		}
	}
	return s.createLocked(params).Clone(), nil
}

// GetConversation returns a copy of the conversation.
func (s *ConversationStore) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	return conv.Clone(), nil
}

// SaveState stores a copy of the assistant state.
func (s *ConversationStore) SaveState(ctx context.Context, id string, state *domain.AssistantState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return domain.ErrConversationNotFound
	}
	conv.State = state.Clone()
	conv.UpdatedAt = s.now()
	return nil
}

// AddMessage appends a message, evicting from the front past the history limit.
func (s *ConversationStore) AddMessage(ctx context.Context, params domain.NewMessageParams) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[params.ConversationID]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}

	now := s.now()
	msg := domain.Message{
		ID:             s.newID(),
		ConversationID: conv.ID,
		Role:           params.Role,
		Content:        params.Content,
		SenderID:       params.SenderID,
		SenderName:     params.SenderName,
		SenderRole:     params.SenderRole,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	conv.Messages = append(conv.Messages, msg)
	if over := len(conv.Messages) - s.historyLimit; over > 0 {
		conv.Messages = append([]domain.Message(nil), conv.Messages[over:]...)
	}
	conv.UpdatedAt = now
	return &msg, nil
}

// ListMessages returns the most recent limit messages, oldest first.
func (s *ConversationStore) ListMessages(ctx context.Context, id string, limit int) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	if limit <= 0 || limit > s.historyLimit {
		limit = s.historyLimit
	}
	msgs := conv.Messages
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]domain.Message(nil), msgs...), nil
}

// DeleteConversation removes the conversation and its service index entry.
func (s *ConversationStore) DeleteConversation(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return false, nil
	}
	delete(s.conversations, id)
	if conv.Service != "" && s.latest[conv.Service] == id {
		delete(s.latest, conv.Service)
	}
	return true, nil
}

// LatestForService returns the most recently created conversation for service.
func (s *ConversationStore) LatestForService(ctx context.Context, service string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.latest[service]
	return id, ok, nil
}

// List returns the IDs of all live conversations.
func (s *ConversationStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.conversations))
	for id := range s.conversations {
		ids = append(ids, id)
	}
	return ids, nil
}
